package index

import (
	"cmp"
	"os"

	"github.com/jobala/bplus/buffer"
	"github.com/jobala/bplus/storage/disk"
	"github.com/jobala/bplus/util"
	"github.com/pkg/errors"
)

const (
	SNAPSHOT_HEADER_PAGE_ID = int64(0)
	INVALID_NODE_PAGE       = disk.INVALID_PAGE_ID

	snapshotFrames = 16
	lrukHistory    = 2
)

// SnapshotHeader lives on the first page of a snapshot.
type SnapshotHeader struct {
	Config          Config `msgpack:"config"`
	RootPageId      int64  `msgpack:"root_page_id"`
	FirstLeafPageId int64  `msgpack:"first_leaf_page_id"`
	NodeCount       int    `msgpack:"node_count"`
	KeyCount        int    `msgpack:"key_count"`
	Height          int    `msgpack:"height"`
}

// WriteSnapshot writes the header page followed by a page image of every
// node, breadth first from page 1. Child and next-leaf references are stored
// as page ids. Pages are touched in id order so that a fresh file lays them
// out contiguously.
func (b *BplusTree[K, V]) WriteSnapshot(bpm *buffer.BufferpoolManager) (SnapshotHeader, error) {
	nodes, pageIds := b.layout()

	header := SnapshotHeader{
		Config:          b.config,
		RootPageId:      pageIds[b.root],
		FirstLeafPageId: pageIds[b.firstLeaf()],
		NodeCount:       len(nodes),
		KeyCount:        b.size,
		Height:          b.Height(),
	}
	if err := writeSnapshotPage(bpm, SNAPSHOT_HEADER_PAGE_ID, header); err != nil {
		return SnapshotHeader{}, errors.Wrap(err, "error writing snapshot header")
	}

	for _, node := range nodes {
		dump := node.Dump()

		switch n := node.(type) {
		case *LeafNode[K, V]:
			if n.next != nil {
				dump.NextPage = pageIds[n.next]
			}
		case *InternalNode[K, V]:
			dump.ChildPages = make([]int64, n.size+1)
			for i := range n.size + 1 {
				dump.ChildPages[i] = pageIds[n.children[i]]
			}
		}

		if err := writeSnapshotPage(bpm, pageIds[node], dump); err != nil {
			return SnapshotHeader{}, errors.Wrapf(err, "error writing node %s", node)
		}
	}

	if err := bpm.FlushAll(); err != nil {
		return SnapshotHeader{}, errors.Wrap(err, "error flushing snapshot")
	}

	return header, nil
}

// WriteSnapshotFile writes a snapshot to a new file at path, replacing any
// existing one. The file is synced before it is closed.
func (b *BplusTree[K, V]) WriteSnapshotFile(path string) (header SnapshotHeader, err error) {
	file, err := os.Create(path)
	if err != nil {
		return SnapshotHeader{}, errors.Wrapf(err, "error creating snapshot file %s", path)
	}
	defer func() {
		if closeErr := closeSnapshotFile(file); closeErr != nil && err == nil {
			header, err = SnapshotHeader{}, closeErr
		}
	}()

	ds := disk.NewScheduler(disk.NewManager(file))
	defer ds.Shutdown()

	bpm := buffer.NewBufferpoolManager(snapshotFrames, buffer.NewLrukReplacer(lrukHistory), ds)
	return b.WriteSnapshot(bpm)
}

func closeSnapshotFile(file *os.File) error {
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return errors.Wrapf(err, "error syncing snapshot file %s", file.Name())
	}
	if err := file.Close(); err != nil {
		return errors.Wrapf(err, "error closing snapshot file %s", file.Name())
	}
	return nil
}

// layout lists the nodes breadth first and numbers them from page 1.
func (b *BplusTree[K, V]) layout() ([]Node[K, V], map[Node[K, V]]int64) {
	nodes := []Node[K, V]{b.root}
	pageIds := map[Node[K, V]]int64{}

	for i := 0; i < len(nodes); i++ {
		pageIds[nodes[i]] = int64(i + 1)

		if internal, ok := nodes[i].(*InternalNode[K, V]); ok {
			for c := 0; c <= internal.KeyCount(); c++ {
				nodes = append(nodes, internal.ChildAt(c))
			}
		}
	}

	return nodes, pageIds
}

func ReadSnapshotHeader(bpm *buffer.BufferpoolManager) (SnapshotHeader, error) {
	header, err := readSnapshotPage[SnapshotHeader](bpm, SNAPSHOT_HEADER_PAGE_ID)
	if err != nil {
		return header, errors.Wrap(err, "error reading snapshot header")
	}

	if err := header.Config.validate(); err != nil {
		return header, errors.Wrap(err, "snapshot header is corrupt")
	}

	return header, nil
}

func ReadSnapshotPage[K cmp.Ordered, V any](bpm *buffer.BufferpoolManager, pageId int64) (NodeDump[K, V], error) {
	if pageId == SNAPSHOT_HEADER_PAGE_ID {
		return NodeDump[K, V]{}, errors.Errorf("page %d holds the snapshot header", pageId)
	}

	dump, err := readSnapshotPage[NodeDump[K, V]](bpm, pageId)
	if err != nil {
		return dump, errors.Wrapf(err, "error reading snapshot page %d", pageId)
	}

	return dump, nil
}

// ScanSnapshot follows the leaf chain of a snapshot and returns its entries in
// key order.
func ScanSnapshot[K cmp.Ordered, V any](bpm *buffer.BufferpoolManager) ([]K, []V, error) {
	header, err := ReadSnapshotHeader(bpm)
	if err != nil {
		return nil, nil, err
	}

	keys := make([]K, 0, header.KeyCount)
	values := make([]V, 0, header.KeyCount)

	visited := 0
	for pageId := header.FirstLeafPageId; pageId != INVALID_NODE_PAGE; visited++ {
		if visited >= header.NodeCount {
			return nil, nil, errors.Errorf("leaf chain of snapshot %q has a cycle", header.Config.Name)
		}

		dump, err := ReadSnapshotPage[K, V](bpm, pageId)
		if err != nil {
			return nil, nil, err
		}
		if !dump.Leaf {
			return nil, nil, errors.Errorf("page %d in the leaf chain is not a leaf", pageId)
		}

		keys = append(keys, dump.Keys[:dump.KeyCount]...)
		values = append(values, dump.Values[:dump.KeyCount]...)
		pageId = dump.NextPage
	}

	return keys, values, nil
}

// ScanSnapshotFile reads back a snapshot written by WriteSnapshotFile.
func ScanSnapshotFile[K cmp.Ordered, V any](path string) ([]K, []V, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "error opening snapshot file %s", path)
	}
	defer file.Close()

	ds := disk.NewScheduler(disk.OpenManager(file))
	defer ds.Shutdown()

	bpm := buffer.NewBufferpoolManager(snapshotFrames, buffer.NewLrukReplacer(lrukHistory), ds)
	return ScanSnapshot[K, V](bpm)
}

func writeSnapshotPage[T any](bpm *buffer.BufferpoolManager, pageId int64, obj T) error {
	data, err := util.ToByteSlice(obj)
	if err != nil {
		return err
	}

	pageGuard, err := bpm.WritePage(pageId)
	if err != nil {
		return err
	}
	defer pageGuard.Drop()

	copy(pageGuard.GetDataMut(), data)
	return nil
}

func readSnapshotPage[T any](bpm *buffer.BufferpoolManager, pageId int64) (T, error) {
	pageGuard, err := bpm.ReadPage(pageId)
	if err != nil {
		var zero T
		return zero, err
	}
	defer pageGuard.Drop()

	return util.ToStruct[T](pageGuard.GetData())
}
