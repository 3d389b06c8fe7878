package index

import (
	"cmp"

	"github.com/jobala/bplus/util"
)

// NewLeafNode returns an empty leaf sized by the policy's current order.
func NewLeafNode[K cmp.Ordered, V any](policy *OrderPolicy) *LeafNode[K, V] {
	return newLeafNode[K, V](policy, 0)
}

// newLeafNode assumes the caller fills the first keyCount slots.
func newLeafNode[K cmp.Ordered, V any](policy *OrderPolicy, keyCount int) *LeafNode[K, V] {
	return &LeafNode[K, V]{
		nodeKeys: newNodeKeys[K](policy, keyCount),
		values:   make([]V, policy.Order()),
	}
}

func (n *LeafNode[K, V]) IsLeaf() bool {
	return true
}

func (n *LeafNode[K, V]) ValueAt(i int) V {
	n.checkIndex(i)
	return n.values[i]
}

func (n *LeafNode[K, V]) SetValueAt(i int, value V) {
	n.checkIndex(i)
	n.values[i] = value
}

// Next returns the leaf holding the next larger keys, nil for the last leaf.
func (n *LeafNode[K, V]) Next() *LeafNode[K, V] {
	return n.next
}

// Add inserts key in order. Keys must be unique, the node does not check.
func (n *LeafNode[K, V]) Add(key K, value V) {
	n.checkRoom()

	ip := n.Find(key)
	copy(n.values[ip+1:n.size+1], n.values[ip:n.size])
	n.values[ip] = value
	n.insertKeyAt(ip, key)
	n.size += 1
}

// SplitLeaf moves the upper half of an overflowed leaf into a new right
// sibling linked after this one. The divider is the sibling's first key,
// copied up to the parent: it stays in the leaf level as a data key.
func (n *LeafNode[K, V]) SplitLeaf() (K, *LeafNode[K, V]) {
	n.checkSplit()

	half := n.policy.Half()
	halfPlus := n.policy.HalfPlus()

	sibling := newLeafNode[K, V](n.policy, half)
	copy(sibling.keys, n.keys[halfPlus:halfPlus+half])
	copy(sibling.values, n.values[halfPlus:halfPlus+half])

	sibling.next = n.next
	n.next = sibling

	clear(n.keys[halfPlus:n.size])
	clear(n.values[halfPlus:n.size])
	n.size = halfPlus

	return sibling.keys[0], sibling
}

// RemoveAt deletes the entry at dp and reports whether the leaf underflowed.
func (n *LeafNode[K, V]) RemoveAt(dp int) bool {
	n.checkIndex(dp)

	var zero V
	copy(n.values[dp:], n.values[dp+1:n.size])
	n.values[n.size-1] = zero
	n.removeKeyAt(dp)
	n.size -= 1

	return n.Underflow()
}

// MergeLeaf appends right's entries to this leaf and takes over its place in
// the leaf chain. right is left empty and must be unlinked by the caller.
func (n *LeafNode[K, V]) MergeLeaf(right *LeafNode[K, V]) {
	if right == nil || right == n {
		panic(util.NewCapacityViolation("leaf cannot merge with itself or nil"))
	}
	n.checkMerge(right.size)

	copy(n.keys[n.size:], right.keys[:right.size])
	copy(n.values[n.size:], right.values[:right.size])
	n.size += right.size
	n.next = right.next

	right.retire()
}

func (n *LeafNode[K, V]) retire() {
	clear(n.keys)
	clear(n.values)
	n.size = 0
	n.next = nil
}

type LeafNode[K cmp.Ordered, V any] struct {
	nodeKeys[K]
	values []V
	next   *LeafNode[K, V]
}
