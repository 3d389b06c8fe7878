package index

import (
	"cmp"

	"github.com/jobala/bplus/util"
)

func NewInternalNode[K cmp.Ordered, V any](policy *OrderPolicy) *InternalNode[K, V] {
	return newInternalNode[K, V](policy, 0)
}

func newInternalNode[K cmp.Ordered, V any](policy *OrderPolicy, keyCount int) *InternalNode[K, V] {
	return &InternalNode[K, V]{
		nodeKeys: newNodeKeys[K](policy, keyCount),
		children: make([]Node[K, V], policy.Order()+1),
	}
}

// NewRoot builds the node that replaces a root which just split into left
// and right.
func NewRoot[K cmp.Ordered, V any](policy *OrderPolicy, left Node[K, V], divider K, right Node[K, V]) *InternalNode[K, V] {
	root := newInternalNode[K, V](policy, 1)
	root.keys[0] = divider
	root.children[0] = left
	root.children[1] = right

	return root
}

func (n *InternalNode[K, V]) IsLeaf() bool {
	return false
}

// ChildAt returns child i, 0 <= i <= KeyCount(). Child i holds the keys below
// KeyAt(i) and at or above KeyAt(i-1).
func (n *InternalNode[K, V]) ChildAt(i int) Node[K, V] {
	if i < 0 || i > n.size {
		panic(util.NewIndexOutOfRange(i, n.size))
	}
	return n.children[i]
}

// Add inserts key with child as the subtree to its right.
func (n *InternalNode[K, V]) Add(key K, child Node[K, V]) {
	n.checkRoom()

	ip := n.Find(key)
	copy(n.children[ip+2:n.size+2], n.children[ip+1:n.size+1])
	n.children[ip+1] = child
	n.insertKeyAt(ip, key)
	n.size += 1
}

// SplitInternal moves the upper half of an overflowed node into a new right
// sibling. The middle key is returned as the divider and removed from both
// halves: it only lives in the parent afterwards.
func (n *InternalNode[K, V]) SplitInternal() (K, *InternalNode[K, V]) {
	n.checkSplit()

	half := n.policy.Half()
	halfPlus := n.policy.HalfPlus()

	sibling := newInternalNode[K, V](n.policy, half)
	copy(sibling.keys, n.keys[halfPlus:halfPlus+half])
	copy(sibling.children, n.children[halfPlus:halfPlus+half])
	sibling.children[half] = n.children[n.size]

	divider := n.keys[halfPlus-1]
	clear(n.keys[halfPlus-1 : n.size])
	clear(n.children[halfPlus : n.size+1])
	n.size = halfPlus - 1

	return divider, sibling
}

// RemoveAt deletes key dp together with the child to its right and reports
// whether the node underflowed.
func (n *InternalNode[K, V]) RemoveAt(dp int) bool {
	n.checkIndex(dp)

	copy(n.children[dp+1:], n.children[dp+2:n.size+1])
	n.children[n.size] = nil
	n.removeKeyAt(dp)
	n.size -= 1

	return n.Underflow()
}

// RemoveFirst deletes the first key together with the leftmost child and
// returns both.
func (n *InternalNode[K, V]) RemoveFirst() (K, Node[K, V]) {
	n.checkIndex(0)

	key := n.keys[0]
	child := n.children[0]

	copy(n.children, n.children[1:n.size+1])
	n.children[n.size] = nil
	n.removeKeyAt(0)
	n.size -= 1

	return key, child
}

// InsertFirst prepends key with child as the new leftmost subtree.
func (n *InternalNode[K, V]) InsertFirst(key K, child Node[K, V]) {
	n.checkRoom()

	copy(n.children[1:n.size+2], n.children[:n.size+1])
	n.children[0] = child
	n.insertKeyAt(0, key)
	n.size += 1
}

// MergeInternal appends divider and right's contents to this node. divider is
// the parent key that separated the two nodes; the caller removes it from the
// parent afterwards. right is left empty.
func (n *InternalNode[K, V]) MergeInternal(divider K, right *InternalNode[K, V]) {
	if right == nil || right == n {
		panic(util.NewCapacityViolation("internal node cannot merge with itself or nil"))
	}
	n.checkMerge(right.size + 1)

	n.keys[n.size] = divider
	n.children[n.size+1] = right.children[0]
	copy(n.keys[n.size+1:], right.keys[:right.size])
	copy(n.children[n.size+2:], right.children[1:right.size+1])
	n.size += right.size + 1

	right.retire()
}

func (n *InternalNode[K, V]) retire() {
	clear(n.keys)
	clear(n.children)
	n.size = 0
}

type InternalNode[K cmp.Ordered, V any] struct {
	nodeKeys[K]
	children []Node[K, V]
}
