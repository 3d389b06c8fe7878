package buffer

const INVALID_FRAME_ID = -1

func newLrukNode(frameId, k int) *lrukNode {
	return &lrukNode{
		frameId: frameId,
		k:       k,
		history: make([]int, 0, k),
	}
}

func (n *lrukNode) hasKAccess() bool {
	return n.k == len(n.history)
}

// kthAccess is the oldest timestamp kept, the k-th most recent access once
// the node has k of them.
func (n *lrukNode) kthAccess() int {
	if len(n.history) > 0 {
		return n.history[0]
	}

	return -1
}

func (n *lrukNode) addTimestamp(timestamp int) {
	if len(n.history) < n.k {
		n.history = append(n.history, timestamp)
		return
	}

	n.history = append(n.history[1:], timestamp)
}

type lrukNode struct {
	frameId     int
	k           int
	history     []int
	isEvictable bool
}
