package index

func (b *BplusTree[K, V]) GetIterator() *indexIterator[K, V] {
	return NewIndexIterator(b.firstLeaf(), 0)
}

// SeekIterator returns an iterator positioned at the first key >= start.
func (b *BplusTree[K, V]) SeekIterator(start K) *indexIterator[K, V] {
	leaf, _ := b.findLeaf(start)

	pos := leaf.Find(start)
	if pos > 0 && leaf.KeyAt(pos-1) == start {
		pos -= 1
	}

	return NewIndexIterator(leaf, pos)
}

// GetKeyRange returns the values of all keys in [start, stop] in key order.
func (b *BplusTree[K, V]) GetKeyRange(start, stop K) ([]V, error) {
	res := []V{}
	if stop < start {
		return res, nil
	}

	indexIter := b.SeekIterator(start)
	for !indexIter.IsEnd() {
		key, val, err := indexIter.Next()
		if err != nil {
			return res, err
		}
		if key > stop {
			break
		}

		res = append(res, val)
	}

	return res, nil
}

// BatchInsert inserts every item and returns how many keys were new.
func (b *BplusTree[K, V]) BatchInsert(items map[K]V) int {
	inserted := 0
	for k, v := range items {
		if b.Insert(k, v) {
			inserted += 1
		}
	}

	return inserted
}
