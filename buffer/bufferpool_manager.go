package buffer

import (
	"sync"

	"github.com/jobala/bplus/storage/disk"
	"github.com/pkg/errors"
)

type mode = int

const (
	write mode = iota
	read
)

// NewBufferpoolManager caches up to size pages of the scheduler's file.
func NewBufferpoolManager(size int, replacer *lrukReplacer, diskScheduler *disk.Scheduler) *BufferpoolManager {
	frames := make([]*frame, size)
	freeFrames := make([]int, size)

	for i := range size {
		frames[i] = newFrame(i)
		freeFrames[i] = i
	}

	bpm := &BufferpoolManager{
		mu:            sync.Mutex{},
		frames:        frames,
		pageTable:     make(map[int64]int),
		replacer:      replacer,
		diskScheduler: diskScheduler,
		freeFrames:    freeFrames,
	}
	bpm.cond = sync.NewCond(&bpm.mu)
	return bpm
}

func (b *BufferpoolManager) ReadPage(pageId int64) (*ReadPageGuard, error) {
	frame, err := b.fetch(pageId, read)
	if err != nil {
		return nil, err
	}

	return NewReadPageGuard(frame, b), nil
}

// WritePage returns the page for modification. The page is written back
// when it is evicted or flushed.
func (b *BufferpoolManager) WritePage(pageId int64) (*WritePageGuard, error) {
	frame, err := b.fetch(pageId, write)
	if err != nil {
		return nil, err
	}

	return NewWritePageGuard(frame, b), nil
}

// FlushAll writes every dirty page back to disk.
func (b *BufferpoolManager) FlushAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, frame := range b.frames {
		if frame.unused() {
			continue
		}

		frame.mu.RLock()
		err := b.flush(frame)
		frame.mu.RUnlock()

		if err != nil {
			return err
		}
	}

	return nil
}

// fetch pins the frame holding pageId, loading it from disk when needed, and
// returns it locked for accessMode.
func (b *BufferpoolManager) fetch(pageId int64, accessMode mode) (*frame, error) {
	if pageId == disk.INVALID_PAGE_ID {
		return nil, errors.Errorf("cannot fetch page %d", pageId)
	}

	b.mu.Lock()
	for {
		if id, ok := b.pageTable[pageId]; ok {
			frame := b.frames[id]

			frame.pin()
			b.replacer.recordAccess(frame.id)
			b.replacer.setEvictable(frame.id, false)
			b.mu.Unlock()

			lock(frame, accessMode)
			return frame, nil
		}

		frame, err := b.freeFrame()
		if err != nil {
			b.mu.Unlock()
			return nil, err
		}

		// got a frame
		if frame != nil {
			delete(b.pageTable, frame.pageId)
			frame.assign(pageId)
			b.pageTable[pageId] = frame.id

			b.replacer.recordAccess(frame.id)
			b.replacer.setEvictable(frame.id, false)

			// nobody else can hold a fresh frame yet
			frame.mu.Lock()
			b.mu.Unlock()

			// a page that was never written starts out zeroed when it is
			// fetched for writing
			data, err := b.diskScheduler.Read(pageId)
			if err != nil && !(accessMode == write && errors.Is(err, disk.ErrPageNotFound)) {
				frame.mu.Unlock()
				b.discard(frame)
				return nil, errors.Wrapf(err, "error loading page %d", pageId)
			}
			copy(frame.data, data)

			if accessMode == read {
				frame.mu.Unlock()
				frame.mu.RLock()
			} else {
				frame.dirty = true
			}
			return frame, nil
		}

		// failed to get a frame, wait for a guard to be dropped
		b.cond.Wait()
	}
}

// freeFrame returns an unused frame, evicting one if needed. It returns nil
// when every frame is pinned. Must be called with b.mu held.
func (b *BufferpoolManager) freeFrame() (*frame, error) {
	if len(b.freeFrames) > 0 {
		id := b.freeFrames[0]
		b.freeFrames = b.freeFrames[1:]
		return b.frames[id], nil
	}

	id, ok := b.replacer.evict()
	if !ok {
		return nil, nil
	}

	frame := b.frames[id]
	if err := b.flush(frame); err != nil {
		// keep the page cached and evictable so the frame is not lost
		b.replacer.recordAccess(id)
		b.replacer.setEvictable(id, true)
		return nil, err
	}
	return frame, nil
}

func (b *BufferpoolManager) release(frame *frame) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if frame.unpin() == 0 {
		b.replacer.setEvictable(frame.id, true)
	}
	b.cond.Signal()
}

// discard returns a frame whose page failed to load to the free list.
func (b *BufferpoolManager) discard(frame *frame) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if frame.unpin() == 0 {
		b.replacer.setEvictable(frame.id, true)
		_ = b.replacer.remove(frame.id)

		delete(b.pageTable, frame.pageId)
		frame.reset()
		b.freeFrames = append(b.freeFrames, frame.id)
	}
	b.cond.Signal()
}

func (b *BufferpoolManager) flush(frame *frame) error {
	if !frame.dirty {
		return nil
	}

	// block until data is written to disk
	if err := b.diskScheduler.Write(frame.pageId, frame.data); err != nil {
		return errors.Wrapf(err, "error flushing page %d", frame.pageId)
	}

	frame.dirty = false
	return nil
}

func lock(frame *frame, accessMode mode) {
	if accessMode == write {
		frame.mu.Lock()
		frame.dirty = true
	} else {
		frame.mu.RLock()
	}
}

type BufferpoolManager struct {
	mu            sync.Mutex
	frames        []*frame
	pageTable     map[int64]int
	diskScheduler *disk.Scheduler
	replacer      *lrukReplacer
	freeFrames    []int
	cond          *sync.Cond
}
