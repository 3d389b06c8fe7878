package disk

import (
	"fmt"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskManager(t *testing.T) {
	t.Run("test page allocation", func(t *testing.T) {
		dbFile := CreateDbFile(t)
		t.Cleanup(func() {
			_ = os.Remove(dbFile.Name())
		})

		dm := NewManager(dbFile)
		dm.mu.Lock()
		offset1, err := dm.allocatePage()
		assert.NoError(t, err)

		offset2, err := dm.allocatePage()
		assert.NoError(t, err)
		dm.mu.Unlock()

		assert.Equal(t, int64(0), offset1)
		assert.Equal(t, int64(PAGE_SIZE), offset2)
	})

	t.Run("allocate reuses free slots", func(t *testing.T) {
		dbFile := CreateDbFile(t)
		t.Cleanup(func() {
			_ = os.Remove(dbFile.Name())
		})

		dm := NewManager(dbFile)
		dm.freeSlots = []int64{8192}

		dm.mu.Lock()
		offset, err := dm.allocatePage()
		dm.mu.Unlock()
		assert.NoError(t, err)

		assert.Equal(t, int64(8192), offset)
		assert.Empty(t, dm.freeSlots)
	})

	t.Run("test db file gets resized when full", func(t *testing.T) {
		// creates a 4kb file
		dbFile := CreateDbFile(t)
		t.Cleanup(func() {
			_ = os.Remove(dbFile.Name())
		})

		dm := NewManager(dbFile)
		assert.Equal(t, 1, dm.pageCapacity)

		_, err := dm.offsetOf(0)
		require.NoError(t, err)

		offset, err := dm.offsetOf(1)
		require.NoError(t, err)

		assert.Equal(t, int64(PAGE_SIZE), offset)
		assert.Equal(t, 2, dm.pageCapacity)

		// dbFile is increased in size
		fileInfo, err := os.Stat(dbFile.Name())
		assert.NoError(t, err)
		assert.Equal(t, int64(PAGE_SIZE)*2, fileInfo.Size())
	})

	t.Run("empty files grow to the default capacity", func(t *testing.T) {
		dbFile := CreateDbFile(t)
		require.NoError(t, os.Truncate(dbFile.Name(), 0))

		dm := NewManager(dbFile)
		_, err := dm.offsetOf(7)
		require.NoError(t, err)

		fileInfo, err := os.Stat(dbFile.Name())
		require.NoError(t, err)
		assert.Equal(t, int64(PAGE_SIZE*DEFAULT_PAGE_CAPACITY), fileInfo.Size())
	})

	t.Run("open adopts existing pages in file order", func(t *testing.T) {
		dbFile := CreateDbFile(t)
		require.NoError(t, os.Truncate(dbFile.Name(), 0))

		dm := NewManager(dbFile)
		for _, pageId := range []int64{0, 1, 2} {
			buf := make([]byte, PAGE_SIZE)
			copy(buf, fmt.Sprintf("page %d", pageId))
			require.NoError(t, dm.writePage(pageId, buf))
		}

		reopened := OpenManager(dbFile)
		assert.Equal(t, DEFAULT_PAGE_CAPACITY, reopened.pageCapacity)

		res, err := reopened.readPage(2)
		require.NoError(t, err)
		assert.Equal(t, "page 2", string(res[:6]))

		// new ids go after the adopted pages
		offset, err := reopened.offsetOf(DEFAULT_PAGE_CAPACITY + 5)
		require.NoError(t, err)
		assert.Equal(t, int64(PAGE_SIZE*DEFAULT_PAGE_CAPACITY), offset)
	})

	t.Run("reading a missing page leaves the file alone", func(t *testing.T) {
		dbFile := CreateDbFile(t)
		require.NoError(t, os.Truncate(dbFile.Name(), 0))

		dm := NewManager(dbFile)
		_, err := dm.readPage(0)
		assert.ErrorIs(t, err, ErrPageNotFound)

		fileInfo, err := os.Stat(dbFile.Name())
		require.NoError(t, err)
		assert.Equal(t, int64(0), fileInfo.Size())
		assert.Empty(t, dm.pages)

		// adopted files do not grow past their pages either
		require.NoError(t, os.Truncate(dbFile.Name(), PAGE_SIZE*2))
		reopened := OpenManager(dbFile)
		_, err = reopened.readPage(500)
		assert.ErrorIs(t, err, ErrPageNotFound)

		fileInfo, err = os.Stat(dbFile.Name())
		require.NoError(t, err)
		assert.Equal(t, int64(PAGE_SIZE*2), fileInfo.Size())
	})

	t.Run("test reading and writing a page", func(t *testing.T) {
		dbFile := CreateDbFile(t)
		t.Cleanup(func() {
			_ = os.Remove(dbFile.Name())
		})

		dm := NewManager(dbFile)

		buf := make([]byte, PAGE_SIZE)
		copy(buf, []byte("hello world"))

		err := dm.writePage(1, buf)
		assert.NoError(t, err)

		res, err := dm.readPage(1)
		assert.NoError(t, err)

		assert.Equal(t, res, buf)
	})

	t.Run("rejects oversized pages and invalid ids", func(t *testing.T) {
		dm := NewManager(CreateDbFile(t))

		assert.Error(t, dm.writePage(1, make([]byte, PAGE_SIZE+1)))
		_, err := dm.readPage(INVALID_PAGE_ID)
		assert.Error(t, err)
	})

	t.Run("test page deletion", func(t *testing.T) {
		dbFile := CreateDbFile(t)
		t.Cleanup(func() {
			_ = os.Remove(dbFile.Name())
		})

		dm := NewManager(dbFile)
		dm.pages[1] = 0
		assert.Equal(t, len(dm.freeSlots), 0)

		dm.deletePage(1)
		assert.Equal(t, len(dm.freeSlots), 1)

		offset, err := dm.offsetOf(2)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), offset)
	})
}

func CreateDbFile(t *testing.T) *os.File {
	t.Helper()
	dbFile := path.Join(t.TempDir(), "test.db")

	file, err := os.OpenFile(dbFile, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		panic(fmt.Sprintf("failed creating db file\n%v", err))
	}
	t.Cleanup(func() {
		_ = file.Close()
	})

	// create 4kb file
	_ = os.Truncate(file.Name(), PAGE_SIZE)
	fileInfo, err := os.Stat(file.Name())
	assert.NoError(t, err)
	assert.Equal(t, int64(PAGE_SIZE), fileInfo.Size())
	return file
}
