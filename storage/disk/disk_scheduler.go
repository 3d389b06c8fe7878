package disk

import (
	"log/slog"
	"sync"

	"github.com/pkg/errors"
)

type Option func(*Scheduler)

func WithLogger(logger *slog.Logger) Option {
	return func(ds *Scheduler) {
		ds.logger = logger
	}
}

func NewScheduler(manager *Manager, opts ...Option) *Scheduler {
	ds := &Scheduler{
		reqCh:     make(chan DiskReq, 100),
		pageQueue: make(map[int64][]DiskReq),
		manager:   manager,
		logger:    slog.Default(),
		done:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(ds)
	}

	go ds.handleDiskReq()
	return ds
}

func NewRequest(pageId int64, data []byte, isWrite bool) DiskReq {
	return DiskReq{
		PageId: pageId,
		Data:   data,
		Write:  isWrite,
		RespCh: make(chan DiskResp, 1),
	}
}

// Schedule queues req and returns immediately. Requests for the same page are
// served in the order they were scheduled.
func (ds *Scheduler) Schedule(req DiskReq) <-chan DiskResp {
	ds.reqCh <- req
	return req.RespCh
}

// Write blocks until data is written to pageId.
func (ds *Scheduler) Write(pageId int64, data []byte) error {
	resp := <-ds.Schedule(NewRequest(pageId, data, true))
	return resp.Err
}

// Read blocks until pageId is read.
func (ds *Scheduler) Read(pageId int64) ([]byte, error) {
	resp := <-ds.Schedule(NewRequest(pageId, nil, false))
	return resp.Data, resp.Err
}

// Shutdown stops accepting requests and waits for queued ones to finish.
// Schedule must not be called afterwards.
func (ds *Scheduler) Shutdown() {
	close(ds.reqCh)
	<-ds.done
	ds.workers.Wait()
}

func (ds *Scheduler) handleDiskReq() {
	defer close(ds.done)

	for req := range ds.reqCh {
		ds.mu.Lock()
		queue, ok := ds.pageQueue[req.PageId]
		ds.pageQueue[req.PageId] = append(queue, req)

		// !ok means no worker owns this page yet
		if !ok {
			ds.workers.Add(1)
			go ds.pageWorker(req.PageId)
		}
		ds.mu.Unlock()
	}
}

func (ds *Scheduler) pageWorker(pageId int64) {
	defer ds.workers.Done()

	for {
		ds.mu.Lock()
		queue := ds.pageQueue[pageId]
		if len(queue) == 0 {
			delete(ds.pageQueue, pageId)
			ds.mu.Unlock()
			return
		}
		req := queue[0]
		ds.pageQueue[pageId] = queue[1:]
		ds.mu.Unlock()

		req.RespCh <- ds.serve(req)
	}
}

func (ds *Scheduler) serve(req DiskReq) DiskResp {
	if req.Write {
		if err := ds.manager.writePage(req.PageId, req.Data); err != nil {
			ds.logger.Error("disk write failed", "page_id", req.PageId, "err", err.Error())
			return DiskResp{Success: false, Err: err}
		}
		return DiskResp{Success: true}
	}

	data, err := ds.manager.readPage(req.PageId)
	if errors.Is(err, ErrPageNotFound) {
		ds.logger.Debug("page not found", "page_id", req.PageId)
		return DiskResp{Success: false, Err: err}
	}
	if err != nil {
		ds.logger.Error("disk read failed", "page_id", req.PageId, "err", err.Error())
		return DiskResp{Success: false, Err: err}
	}
	return DiskResp{Success: true, Data: data}
}

type Scheduler struct {
	reqCh   chan DiskReq
	manager *Manager
	logger  *slog.Logger
	done    chan struct{}
	workers sync.WaitGroup

	mu        sync.Mutex
	pageQueue map[int64][]DiskReq
}

type DiskReq struct {
	PageId int64
	Data   []byte
	Write  bool
	RespCh chan DiskResp
}

type DiskResp struct {
	Success bool
	Data    []byte
	Err     error
}
