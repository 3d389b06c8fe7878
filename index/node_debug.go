package index

import (
	"cmp"
	"fmt"
	"strings"
)

// NodeDump is a copy of a node's backing arrays, inactive slots included.
// Children and Next render the referenced nodes' keys. ChildPages and
// NextPage are only set in snapshot pages.
type NodeDump[K cmp.Ordered, V any] struct {
	Leaf       bool     `msgpack:"leaf"`
	KeyCount   int      `msgpack:"key_count"`
	Keys       []K      `msgpack:"keys"`
	Values     []V      `msgpack:"values,omitempty"`
	Children   []string `msgpack:"children,omitempty"`
	Next       string   `msgpack:"next,omitempty"`
	ChildPages []int64  `msgpack:"child_pages,omitempty"`
	NextPage   int64    `msgpack:"next_page"`
}

func (n *LeafNode[K, V]) Dump() NodeDump[K, V] {
	dump := NodeDump[K, V]{
		Leaf:     true,
		KeyCount: n.size,
		Keys:     append([]K(nil), n.keys...),
		Values:   append([]V(nil), n.values...),
		NextPage: INVALID_NODE_PAGE,
	}
	if n.next != nil {
		dump.Next = n.next.String()
	}

	return dump
}

func (n *InternalNode[K, V]) Dump() NodeDump[K, V] {
	children := make([]string, len(n.children))
	for i, child := range n.children {
		children[i] = renderChild(child)
	}

	return NodeDump[K, V]{
		Leaf:     false,
		KeyCount: n.size,
		Keys:     append([]K(nil), n.keys...),
		Children: children,
		NextPage: INVALID_NODE_PAGE,
	}
}

func (d NodeDump[K, V]) String() string {
	var b strings.Builder

	kind := "internal"
	if d.Leaf {
		kind = "leaf"
	}
	fmt.Fprintf(&b, "%s keys=%d/%d\n", kind, d.KeyCount, len(d.Keys))
	fmt.Fprintf(&b, "  keys:     %v\n", d.Keys)
	if d.Leaf {
		fmt.Fprintf(&b, "  values:   %v\n", d.Values)
		fmt.Fprintf(&b, "  next:     %s\n", d.Next)
	} else {
		fmt.Fprintf(&b, "  children: %v\n", d.Children)
	}

	return b.String()
}

func renderChild[K cmp.Ordered, V any](child Node[K, V]) string {
	if child == nil {
		return "<nil>"
	}
	return child.String()
}
