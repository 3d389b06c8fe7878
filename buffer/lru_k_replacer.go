package buffer

import (
	"sync"

	"github.com/pkg/errors"
)

var errNotEvictable = errors.New("frame is not evictable")

func NewLrukReplacer(k int) *lrukReplacer {
	return &lrukReplacer{
		k:         k,
		mu:        sync.Mutex{},
		nodeStore: map[int]*lrukNode{},
	}
}

// remove forgets frameId entirely, its access history included.
func (lru *lrukReplacer) remove(frameId int) error {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	node, ok := lru.nodeStore[frameId]
	if !ok {
		return nil
	}

	if !node.isEvictable {
		return errors.Wrapf(errNotEvictable, "frame %d", frameId)
	}

	delete(lru.nodeStore, frameId)
	lru.currSize -= 1

	return nil
}

func (lru *lrukReplacer) recordAccess(frameId int) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	node, ok := lru.nodeStore[frameId]
	if !ok {
		node = newLrukNode(frameId, lru.k)
		lru.nodeStore[frameId] = node
	}

	lru.currTimestamp += 1
	node.addTimestamp(lru.currTimestamp)
}

func (lru *lrukReplacer) setEvictable(frameId int, evictable bool) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	node, ok := lru.nodeStore[frameId]
	if !ok || node.isEvictable == evictable {
		return
	}

	node.isEvictable = evictable
	if evictable {
		lru.currSize += 1
	} else {
		lru.currSize -= 1
	}
}

// evict picks the evictable frame with the largest backward k-distance.
// Frames with fewer than k accesses have an infinite distance and the one
// accessed first among them goes. It returns INVALID_FRAME_ID and false when
// nothing can be evicted.
func (lru *lrukReplacer) evict() (int, bool) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	var victim *lrukNode
	for _, node := range lru.nodeStore {
		if !node.isEvictable {
			continue
		}

		if victim == nil || evictsBefore(node, victim) {
			victim = node
		}
	}

	if victim == nil {
		return INVALID_FRAME_ID, false
	}

	delete(lru.nodeStore, victim.frameId)
	lru.currSize -= 1

	return victim.frameId, true
}

func (lru *lrukReplacer) size() int {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	return lru.currSize
}

func evictsBefore(a, b *lrukNode) bool {
	if a.hasKAccess() != b.hasKAccess() {
		return !a.hasKAccess()
	}

	return a.kthAccess() < b.kthAccess()
}

type lrukReplacer struct {
	mu            sync.Mutex
	nodeStore     map[int]*lrukNode
	currSize      int
	currTimestamp int
	k             int
}
