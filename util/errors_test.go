package util

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIndexError(t *testing.T) {
	t.Run("unwraps to its sentinel", func(t *testing.T) {
		var err error = NewIndexOutOfRange(4, 2)

		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		assert.NotErrorIs(t, err, ErrCapacityViolation)
		assert.Equal(t, "index 4 out of range for node with 2 keys", err.Error())
	})

	t.Run("can be recovered with errors.As", func(t *testing.T) {
		err := errors.Wrap(NewInvalidOrder(3, 4), "error configuring tree")

		var idxErr *IndexError
		assert.True(t, errors.As(err, &idxErr))
		assert.ErrorIs(t, err, ErrInvalidOrder)
		assert.Equal(t, "order must be at least 4, got 3", idxErr.Message)
	})

	t.Run("formats capacity violations", func(t *testing.T) {
		err := NewCapacityViolation("split needs %d keys, node has %d", 5, 3)

		assert.ErrorIs(t, err, ErrCapacityViolation)
		assert.Equal(t, "capacity violation: split needs 5 keys, node has 3", err.Error())
	})
}
