package index

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/jobala/bplus/util"
	"github.com/pkg/errors"
)

// NewBplusTree returns an empty in-memory tree. The tree owns its own order
// policy so trees of different orders can live side by side.
func NewBplusTree[K cmp.Ordered, V any](cfg Config) (*BplusTree[K, V], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	policy, err := NewOrderPolicy(cfg.Order)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating tree %q", cfg.Name)
	}

	return &BplusTree[K, V]{
		config: cfg,
		policy: policy,
		root:   NewLeafNode[K, V](policy),
	}, nil
}

// Insert stores value under key. It returns false when key was already
// present, in which case its value is replaced.
func (b *BplusTree[K, V]) Insert(key K, value V) bool {
	leaf, path := b.findLeaf(key)

	if idx := leaf.FindEq(key); idx != NOT_FOUND {
		leaf.SetValueAt(idx, value)
		return false
	}

	leaf.Add(key, value)
	b.size += 1

	var node Node[K, V] = leaf
	for node.Overflow() {
		divider, sibling := SplitNode(node)

		if len(path) == 0 {
			b.root = NewRoot(b.policy, node, divider, sibling)
			break
		}

		parent := path[len(path)-1]
		path = path[:len(path)-1]

		parent.node.Add(divider, sibling)
		node = parent.node
	}

	return true
}

func (b *BplusTree[K, V]) GetValue(key K) (V, error) {
	leaf, _ := b.findLeaf(key)

	idx := leaf.FindEq(key)
	if idx == NOT_FOUND {
		var zero V
		return zero, errors.Wrapf(util.ErrKeyNotFound, "key %v", key)
	}

	return leaf.ValueAt(idx), nil
}

// Delete removes key and reports whether it was present.
func (b *BplusTree[K, V]) Delete(key K) bool {
	leaf, path := b.findLeaf(key)

	idx := leaf.FindEq(key)
	if idx == NOT_FOUND {
		return false
	}

	underflow := leaf.RemoveAt(idx)
	b.size -= 1

	// the root is exempt from underflow
	for underflow && len(path) > 0 {
		parent := path[len(path)-1]
		path = path[:len(path)-1]

		underflow = b.rebalance(parent.node, parent.childIdx)
	}

	if root, ok := b.root.(*InternalNode[K, V]); ok && root.KeyCount() == 0 {
		b.root = root.ChildAt(0)
	}

	return true
}

// rebalance fixes the underflowed child at childIdx, borrowing from a rich
// sibling when there is one and merging otherwise. It reports whether parent
// underflowed in turn.
func (b *BplusTree[K, V]) rebalance(parent *InternalNode[K, V], childIdx int) bool {
	if childIdx > 0 && parent.ChildAt(childIdx-1).Rich() {
		b.borrowFromLeft(parent, childIdx)
		return false
	}

	if childIdx < parent.KeyCount() && parent.ChildAt(childIdx+1).Rich() {
		b.borrowFromRight(parent, childIdx)
		return false
	}

	if childIdx > 0 {
		return b.merge(parent, childIdx-1)
	}
	return b.merge(parent, childIdx)
}

func (b *BplusTree[K, V]) borrowFromLeft(parent *InternalNode[K, V], childIdx int) {
	switch node := parent.ChildAt(childIdx).(type) {
	case *LeafNode[K, V]:
		left := parent.ChildAt(childIdx - 1).(*LeafNode[K, V])
		last := left.KeyCount() - 1
		key, value := left.KeyAt(last), left.ValueAt(last)

		left.RemoveAt(last)
		node.Add(key, value)
		parent.SetKeyAt(childIdx-1, key)

	case *InternalNode[K, V]:
		left := parent.ChildAt(childIdx - 1).(*InternalNode[K, V])
		last := left.KeyCount() - 1
		key, child := left.KeyAt(last), left.ChildAt(last+1)

		left.RemoveAt(last)
		node.InsertFirst(parent.KeyAt(childIdx-1), child)
		parent.SetKeyAt(childIdx-1, key)
	}
}

func (b *BplusTree[K, V]) borrowFromRight(parent *InternalNode[K, V], childIdx int) {
	switch node := parent.ChildAt(childIdx).(type) {
	case *LeafNode[K, V]:
		right := parent.ChildAt(childIdx + 1).(*LeafNode[K, V])
		key, value := right.KeyAt(0), right.ValueAt(0)

		right.RemoveAt(0)
		node.Add(key, value)
		parent.SetKeyAt(childIdx, right.KeyAt(0))

	case *InternalNode[K, V]:
		right := parent.ChildAt(childIdx + 1).(*InternalNode[K, V])
		key, child := right.RemoveFirst()

		node.Add(parent.KeyAt(childIdx), child)
		parent.SetKeyAt(childIdx, key)
	}
}

// merge folds the child right of divider dp into the child left of it and
// drops the divider from parent.
func (b *BplusTree[K, V]) merge(parent *InternalNode[K, V], dp int) bool {
	left := parent.ChildAt(dp)
	right := parent.ChildAt(dp + 1)

	MergeNodes(left, parent.KeyAt(dp), right)
	underflow := parent.RemoveAt(dp)

	// with even orders two internal nodes can merge into a full one
	if left.Overflow() {
		divider, sibling := SplitNode(left)
		parent.Add(divider, sibling)
		underflow = parent.Underflow()
	}

	return underflow
}

func (b *BplusTree[K, V]) findLeaf(key K) (*LeafNode[K, V], []pathEntry[K, V]) {
	path := []pathEntry[K, V]{}
	curr := b.root

	for {
		internal, ok := curr.(*InternalNode[K, V])
		if !ok {
			return curr.(*LeafNode[K, V]), path
		}

		childIdx := internal.Find(key)
		path = append(path, pathEntry[K, V]{node: internal, childIdx: childIdx})
		curr = internal.ChildAt(childIdx)
	}
}

func (b *BplusTree[K, V]) firstLeaf() *LeafNode[K, V] {
	curr := b.root
	for !curr.IsLeaf() {
		curr = curr.(*InternalNode[K, V]).ChildAt(0)
	}

	return curr.(*LeafNode[K, V])
}

func (b *BplusTree[K, V]) Len() int {
	return b.size
}

func (b *BplusTree[K, V]) Height() int {
	height := 1
	for curr := b.root; !curr.IsLeaf(); height++ {
		curr = curr.(*InternalNode[K, V]).ChildAt(0)
	}

	return height
}

func (b *BplusTree[K, V]) Root() Node[K, V] {
	return b.root
}

func (b *BplusTree[K, V]) Policy() *OrderPolicy {
	return b.policy
}

func (b *BplusTree[K, V]) Config() Config {
	return b.config
}

// Pretty renders the tree one node per line, children indented below their
// parent.
func (b *BplusTree[K, V]) Pretty() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s order=%d keys=%d height=%d\n", b.config.Name, b.policy.Order(), b.size, b.Height())
	b.prettyAt(b.root, 0, &sb)

	return sb.String()
}

func (b *BplusTree[K, V]) prettyAt(node Node[K, V], depth int, sb *strings.Builder) {
	indent := strings.Repeat("  ", depth)

	internal, ok := node.(*InternalNode[K, V])
	if !ok {
		fmt.Fprintf(sb, "%sleaf %s\n", indent, node)
		return
	}

	fmt.Fprintf(sb, "%sinternal %s\n", indent, node)
	for i := 0; i <= internal.KeyCount(); i++ {
		b.prettyAt(internal.ChildAt(i), depth+1, sb)
	}
}

type BplusTree[K cmp.Ordered, V any] struct {
	config Config
	policy *OrderPolicy
	root   Node[K, V]
	size   int
}

type pathEntry[K cmp.Ordered, V any] struct {
	node     *InternalNode[K, V]
	childIdx int
}
