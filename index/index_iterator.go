package index

import (
	"cmp"

	"github.com/pkg/errors"
)

var ErrIteratorExhausted = errors.New("iterator exhausted")

// NewIndexIterator walks the leaf chain starting at position pos of leaf.
func NewIndexIterator[K cmp.Ordered, V any](leaf *LeafNode[K, V], pos int) *indexIterator[K, V] {
	it := &indexIterator[K, V]{
		currLeaf: leaf,
		pos:      pos,
	}
	it.skipExhausted()

	return it
}

func (it *indexIterator[K, V]) Next() (K, V, error) {
	var key K
	var val V

	if it.IsEnd() {
		return key, val, ErrIteratorExhausted
	}

	key = it.currLeaf.KeyAt(it.pos)
	val = it.currLeaf.ValueAt(it.pos)
	it.pos += 1
	it.skipExhausted()

	return key, val, nil
}

func (it *indexIterator[K, V]) IsEnd() bool {
	return it.currLeaf == nil
}

// skipExhausted moves to the next leaf holding keys once the current one is
// used up.
func (it *indexIterator[K, V]) skipExhausted() {
	for it.currLeaf != nil && it.pos >= it.currLeaf.KeyCount() {
		it.currLeaf = it.currLeaf.Next()
		it.pos = 0
	}
}

type indexIterator[K cmp.Ordered, V any] struct {
	pos      int
	currLeaf *LeafNode[K, V]
}
