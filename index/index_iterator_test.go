package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexIterator(t *testing.T) {
	t.Run("can iterate through stored values", func(t *testing.T) {
		bplus := createTree[int, int](t, DEFAULT_ORDER)

		for i := 100; i >= 0; i-- {
			assert.True(t, bplus.Insert(i, i))
		}

		expected := []int{}
		for i := range 101 {
			expected = append(expected, i)
		}

		indexIter := bplus.GetIterator()
		res := []int{}
		for !indexIter.IsEnd() {
			_, val, err := indexIter.Next()
			assert.NoError(t, err)
			res = append(res, val)
		}

		assert.Equal(t, expected, res)
	})

	t.Run("exhausted iterator returns an error", func(t *testing.T) {
		bplus := createTree[int, int](t, DEFAULT_ORDER)
		bplus.Insert(1, 10)

		indexIter := bplus.GetIterator()
		k, v, err := indexIter.Next()
		require.NoError(t, err)
		assert.Equal(t, 1, k)
		assert.Equal(t, 10, v)

		assert.True(t, indexIter.IsEnd())
		_, _, err = indexIter.Next()
		assert.ErrorIs(t, err, ErrIteratorExhausted)
	})

	t.Run("empty leaves in the chain are skipped", func(t *testing.T) {
		p := DefaultOrderPolicy()
		first := NewLeafNode[int, int](p)
		empty := NewLeafNode[int, int](p)
		last := NewLeafNode[int, int](p)
		first.Add(1, 1)
		last.Add(3, 3)
		first.next = empty
		empty.next = last

		indexIter := NewIndexIterator(first, 0)
		keys := []int{}
		for !indexIter.IsEnd() {
			k, _, err := indexIter.Next()
			require.NoError(t, err)
			keys = append(keys, k)
		}

		assert.Equal(t, []int{1, 3}, keys)
	})

	t.Run("seek starts at the first key not below start", func(t *testing.T) {
		bplus := createTree[int, int](t, 4)
		for i := range 50 {
			bplus.Insert(i*2, i)
		}

		k, _, err := bplus.SeekIterator(10).Next()
		require.NoError(t, err)
		assert.Equal(t, 10, k)

		k, _, err = bplus.SeekIterator(11).Next()
		require.NoError(t, err)
		assert.Equal(t, 12, k)

		k, _, err = bplus.SeekIterator(-5).Next()
		require.NoError(t, err)
		assert.Equal(t, 0, k)

		assert.True(t, bplus.SeekIterator(99).IsEnd())
	})
}

func TestKeyRange(t *testing.T) {
	t.Run("range is inclusive on both ends", func(t *testing.T) {
		bplus := createTree[int, string](t, DEFAULT_ORDER)
		for i := range 30 {
			bplus.Insert(i, string(rune('a'+i%26)))
		}

		res, err := bplus.GetKeyRange(3, 7)
		assert.NoError(t, err)
		assert.Equal(t, []string{"d", "e", "f", "g", "h"}, res)
	})

	t.Run("range spans leaves", func(t *testing.T) {
		bplus := createTree[int, int](t, 4)
		for i := range 100 {
			bplus.Insert(i, i)
		}

		res, err := bplus.GetKeyRange(17, 83)
		assert.NoError(t, err)
		assert.Len(t, res, 67)
		assert.Equal(t, 17, res[0])
		assert.Equal(t, 83, res[len(res)-1])
	})

	t.Run("range between stored keys", func(t *testing.T) {
		bplus := createTree[int, int](t, DEFAULT_ORDER)
		for _, k := range []int{10, 20, 30, 40} {
			bplus.Insert(k, k)
		}

		res, err := bplus.GetKeyRange(11, 35)
		assert.NoError(t, err)
		assert.Equal(t, []int{20, 30}, res)

		res, err = bplus.GetKeyRange(41, 50)
		assert.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("reversed range is empty", func(t *testing.T) {
		bplus := createTree[int, int](t, DEFAULT_ORDER)
		bplus.Insert(1, 1)

		res, err := bplus.GetKeyRange(5, 1)
		assert.NoError(t, err)
		assert.Empty(t, res)
	})
}

func TestBatchInsert(t *testing.T) {
	bplus := createTree[string, int](t, DEFAULT_ORDER)
	bplus.Insert("a", 0)

	inserted := bplus.BatchInsert(map[string]int{
		"a": 1,
		"b": 2,
		"c": 3,
	})

	assert.Equal(t, 2, inserted)
	assert.Equal(t, 3, bplus.Len())

	res, err := bplus.GetKeyRange("a", "c")
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, res)
}
