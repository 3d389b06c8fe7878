package disk

import (
	"os"
	"sync"

	"github.com/pkg/errors"
)

var ErrPageNotFound = errors.New("page does not exist")

// NewManager hands out pages from file starting at offset 0. The file's
// current size is taken as its page capacity.
func NewManager(file *os.File) *Manager {
	pageCapacity := 0
	if info, err := file.Stat(); err == nil {
		pageCapacity = int(info.Size() / PAGE_SIZE)
	}

	return &Manager{
		dbFile:       file,
		pageCapacity: pageCapacity,
		freeSlots:    []int64{},
		pages:        map[int64]int64{},
	}
}

// OpenManager adopts the pages already in file: page i is read from offset
// i*PAGE_SIZE. New pages are appended after them.
func OpenManager(file *os.File) *Manager {
	dm := NewManager(file)
	for i := range dm.pageCapacity {
		dm.pages[int64(i)] = int64(i) * PAGE_SIZE
	}
	dm.nextOffset = int64(dm.pageCapacity) * PAGE_SIZE

	return dm
}

func (dm *Manager) writePage(pageId int64, data []byte) error {
	if len(data) > PAGE_SIZE {
		return errors.Errorf("page %d is %d bytes, max is %d", pageId, len(data), PAGE_SIZE)
	}

	offset, err := dm.offsetOf(pageId)
	if err != nil {
		return err
	}

	if _, err := dm.dbFile.WriteAt(data, offset); err != nil {
		return errors.Wrapf(err, "error writing page %d at offset %d", pageId, offset)
	}

	return nil
}

// readPage never allocates: ids that were not written or adopted fail with
// ErrPageNotFound and leave the file untouched.
func (dm *Manager) readPage(pageId int64) ([]byte, error) {
	dm.mu.Lock()
	offset, ok := dm.pages[pageId]
	dm.mu.Unlock()

	if !ok {
		return nil, errors.Wrapf(ErrPageNotFound, "page %d", pageId)
	}

	buf := make([]byte, PAGE_SIZE)
	if _, err := dm.dbFile.ReadAt(buf, offset); err != nil {
		return nil, errors.Wrapf(err, "error reading page %d at offset %d", pageId, offset)
	}

	return buf, nil
}

func (dm *Manager) deletePage(pageId int64) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if offset, ok := dm.pages[pageId]; ok {
		dm.freeSlots = append(dm.freeSlots, offset)
		delete(dm.pages, pageId)
	}
}

// offsetOf returns the file offset backing pageId, allocating one on first use.
func (dm *Manager) offsetOf(pageId int64) (int64, error) {
	if pageId == INVALID_PAGE_ID {
		return 0, errors.New("invalid page id")
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()

	if offset, ok := dm.pages[pageId]; ok {
		return offset, nil
	}

	offset, err := dm.allocatePage()
	if err != nil {
		return 0, err
	}
	dm.pages[pageId] = offset

	return offset, nil
}

// allocatePage must be called with dm.mu held.
func (dm *Manager) allocatePage() (int64, error) {
	if len(dm.freeSlots) > 0 {
		offset := dm.freeSlots[0]
		dm.freeSlots = dm.freeSlots[1:]

		return offset, nil
	}

	offset := dm.nextOffset
	if offset+PAGE_SIZE > int64(dm.pageCapacity)*PAGE_SIZE {
		for offset+PAGE_SIZE > int64(dm.pageCapacity)*PAGE_SIZE {
			if dm.pageCapacity == 0 {
				dm.pageCapacity = DEFAULT_PAGE_CAPACITY
			} else {
				dm.pageCapacity *= 2
			}
		}
		if err := os.Truncate(dm.dbFile.Name(), int64(dm.pageCapacity)*PAGE_SIZE); err != nil {
			return -1, errors.Wrap(err, "error resizing db file")
		}
	}
	dm.nextOffset += PAGE_SIZE

	return offset, nil
}

type Manager struct {
	mu           sync.Mutex
	dbFile       *os.File
	pages        map[int64]int64
	freeSlots    []int64
	nextOffset   int64
	pageCapacity int
}
