package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLrukNode(t *testing.T) {
	t.Run("returns true if has k access", func(t *testing.T) {
		node := newLrukNode(0, 3)
		assert.False(t, node.hasKAccess())

		node.addTimestamp(1)
		node.addTimestamp(2)
		node.addTimestamp(3)

		assert.True(t, node.hasKAccess())
	})

	t.Run("records timestamp", func(t *testing.T) {
		node := newLrukNode(0, 3)

		node.addTimestamp(1)
		node.addTimestamp(2)
		node.addTimestamp(3)
		assert.Equal(t, []int{1, 2, 3}, node.history)

		node.addTimestamp(4)
		assert.Equal(t, []int{2, 3, 4}, node.history)
	})

	t.Run("returns kth access", func(t *testing.T) {
		node := newLrukNode(0, 3)
		assert.Equal(t, -1, node.kthAccess())

		node.addTimestamp(1)
		node.addTimestamp(2)
		assert.Equal(t, 1, node.kthAccess())
	})
}
