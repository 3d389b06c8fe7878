package buffer

import (
	"testing"

	"github.com/jobala/bplus/storage/disk"
	"github.com/stretchr/testify/assert"
)

func TestFrame(t *testing.T) {
	t.Run("new frames hold no page", func(t *testing.T) {
		f := newFrame(3)

		assert.True(t, f.unused())
		assert.Equal(t, 3, f.id)
		assert.Len(t, f.data, disk.PAGE_SIZE)
	})

	t.Run("assign clears the previous page", func(t *testing.T) {
		f := newFrame(0)
		f.assign(1)
		copy(f.data, []byte("old"))
		f.dirty = true

		f.assign(2)

		assert.False(t, f.unused())
		assert.Equal(t, int64(2), f.pageId)
		assert.Equal(t, int32(1), f.pins.Load())
		assert.False(t, f.dirty)
		assert.Equal(t, make([]byte, disk.PAGE_SIZE), f.data)
	})
}
