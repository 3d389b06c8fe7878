package index

import (
	"cmp"
	"fmt"

	"github.com/jobala/bplus/util"
)

const NOT_FOUND = -1

// Node is either a *LeafNode or an *InternalNode. Both hold up to order keys
// in a fixed array: the last slot only ever absorbs the insert that makes a
// node overflow, after which the caller must split it.
//
// Contract violations (bad positions, inserting into an overflowed node,
// splitting a node that is not full, merges that do not fit) panic with a
// *util.IndexError.
type Node[K cmp.Ordered, V any] interface {
	IsLeaf() bool
	KeyCount() int
	KeyAt(i int) K
	SetKeyAt(i int, key K)
	Find(key K) int
	FindEq(key K) int
	RemoveAt(dp int) bool
	Overflow() bool
	Underflow() bool
	Rich() bool
	Dump() NodeDump[K, V]
	String() string

	policyOf() *OrderPolicy
}

// SplitNode splits an overflowed node and returns the divider key the parent
// must adopt together with the new right sibling.
func SplitNode[K cmp.Ordered, V any](n Node[K, V]) (K, Node[K, V]) {
	switch node := n.(type) {
	case *LeafNode[K, V]:
		return node.SplitLeaf()
	case *InternalNode[K, V]:
		return node.SplitInternal()
	default:
		panic(util.NewCapacityViolation("cannot split %T", n))
	}
}

// MergeNodes folds right into left. divider is the parent key separating
// them; leaves ignore it since their split never removed it.
func MergeNodes[K cmp.Ordered, V any](left Node[K, V], divider K, right Node[K, V]) {
	switch l := left.(type) {
	case *LeafNode[K, V]:
		r, ok := right.(*LeafNode[K, V])
		if !ok {
			panic(util.NewCapacityViolation("cannot merge %T into a leaf", right))
		}
		l.MergeLeaf(r)
	case *InternalNode[K, V]:
		r, ok := right.(*InternalNode[K, V])
		if !ok {
			panic(util.NewCapacityViolation("cannot merge %T into an internal node", right))
		}
		l.MergeInternal(divider, r)
	default:
		panic(util.NewCapacityViolation("cannot merge into %T", left))
	}
}

func newNodeKeys[K cmp.Ordered](policy *OrderPolicy, keyCount int) nodeKeys[K] {
	if keyCount < 0 || keyCount > policy.Order() {
		panic(util.NewCapacityViolation("node of order %d cannot hold %d keys", policy.Order(), keyCount))
	}

	return nodeKeys[K]{
		policy: policy,
		keys:   make([]K, policy.Order()),
		size:   keyCount,
	}
}

func (n *nodeKeys[K]) KeyCount() int {
	return n.size
}

func (n *nodeKeys[K]) KeyAt(i int) K {
	n.checkIndex(i)
	return n.keys[i]
}

// SetKeyAt rewrites a key in place. The caller keeps the keys ordered.
func (n *nodeKeys[K]) SetKeyAt(i int, key K) {
	n.checkIndex(i)
	n.keys[i] = key
}

// Find returns the first position whose key is greater than key, or
// KeyCount() when there is none. It is both the insert position for key and,
// in an internal node, the child to descend into.
func (n *nodeKeys[K]) Find(key K) int {
	for i := 0; i < n.size; i++ {
		if key < n.keys[i] {
			return i
		}
	}

	return n.size
}

// FindEq returns the position of key or NOT_FOUND.
func (n *nodeKeys[K]) FindEq(key K) int {
	for i := 0; i < n.size; i++ {
		if n.keys[i] == key {
			return i
		}
		if key < n.keys[i] {
			break
		}
	}

	return NOT_FOUND
}

func (n *nodeKeys[K]) Overflow() bool {
	return n.size >= n.policy.Order()
}

func (n *nodeKeys[K]) Underflow() bool {
	return n.size < n.policy.MinKeys()
}

// Rich reports whether the node can lend a key to a sibling and stay above
// the underflow threshold.
func (n *nodeKeys[K]) Rich() bool {
	return n.size > n.policy.MinKeys()
}

func (n *nodeKeys[K]) String() string {
	return fmt.Sprint(n.keys[:n.size])
}

func (n *nodeKeys[K]) policyOf() *OrderPolicy {
	return n.policy
}

func (n *nodeKeys[K]) checkIndex(i int) {
	if i < 0 || i >= n.size {
		panic(util.NewIndexOutOfRange(i, n.size))
	}
}

// checkRoom guards the spare slot: one more key is accepted as long as the
// node is not overflowed yet and its arrays have room for it.
func (n *nodeKeys[K]) checkRoom() {
	if n.Overflow() {
		panic(util.NewCapacityViolation("node holds %d keys and must be split before inserting", n.size))
	}
	if n.size >= len(n.keys) {
		panic(util.NewCapacityViolation("node was built for %d keys", len(n.keys)))
	}
}

func (n *nodeKeys[K]) checkSplit() {
	if n.size != n.policy.Order() {
		panic(util.NewCapacityViolation("split needs %d keys, node has %d", n.policy.Order(), n.size))
	}
}

func (n *nodeKeys[K]) checkMerge(incoming int) {
	if n.size+incoming > len(n.keys) {
		panic(util.NewCapacityViolation("merging %d keys into a node holding %d exceeds its %d slots", incoming, n.size, len(n.keys)))
	}
}

// insertKeyAt opens a hole at ip and writes key into it. The caller shifts
// its own reference array first and bumps size afterwards.
func (n *nodeKeys[K]) insertKeyAt(ip int, key K) {
	copy(n.keys[ip+1:n.size+1], n.keys[ip:n.size])
	n.keys[ip] = key
}

// removeKeyAt closes the hole at dp and clears the vacated slot.
func (n *nodeKeys[K]) removeKeyAt(dp int) {
	var zero K

	copy(n.keys[dp:], n.keys[dp+1:n.size])
	n.keys[n.size-1] = zero
}

type nodeKeys[K cmp.Ordered] struct {
	policy *OrderPolicy
	keys   []K
	size   int
}
