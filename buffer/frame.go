package buffer

import (
	"sync"
	"sync/atomic"

	"github.com/jobala/bplus/storage/disk"
)

func newFrame(id int) *frame {
	return &frame{
		id:     id,
		data:   make([]byte, disk.PAGE_SIZE),
		pageId: disk.INVALID_PAGE_ID,
	}
}

// assign hands the frame to pageId with a single pin and zeroed contents.
// Must be called with the pool's mutex held.
func (f *frame) assign(pageId int64) {
	f.reset()
	f.pageId = pageId
	f.pins.Store(1)
}

// unused is true for frames that never held a page or were discarded.
func (f *frame) unused() bool {
	return f.pageId == disk.INVALID_PAGE_ID
}

func (f *frame) pin() {
	f.pins.Add(1)
}

func (f *frame) unpin() int32 {
	return f.pins.Add(-1)
}

func (f *frame) reset() {
	f.dirty = false
	f.pins.Store(0)
	f.pageId = disk.INVALID_PAGE_ID
	clear(f.data)
}

// frame is one page sized slot of the pool. mu guards data while a guard is
// out; pageId, pins and dirty change under the pool's mutex.
type frame struct {
	mu     sync.RWMutex
	id     int
	pageId int64
	data   []byte
	pins   atomic.Int32
	dirty  bool
}
