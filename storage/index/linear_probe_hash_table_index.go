package index

import (
	"fmt"

	"github.com/notEpsilon/go-pair"
	"github.com/ryogrid/SamehadaScan/common"
	"github.com/ryogrid/SamehadaScan/container/hash"
	"github.com/ryogrid/SamehadaScan/samehada/samehada_util"
	"github.com/ryogrid/SamehadaScan/storage/buffer"
	"github.com/ryogrid/SamehadaScan/storage/page"
	"github.com/ryogrid/SamehadaScan/storage/tuple"
	"github.com/ryogrid/SamehadaScan/types"
)

// LinearProbeHashTableIndex keeps (key, RID) entries of one column.
// RIDs are packed into the value slot of the hash table.
type LinearProbeHashTableIndex struct {
	container *hash.LinearProbeHashTable
	metadata  *IndexMetadata
}

func NewLinearProbeHashTableIndex(metadata *IndexMetadata, bpm *buffer.BufferPoolManager, numBuckets int) (*LinearProbeHashTableIndex, error) {
	container, err := hash.NewLinearProbeHashTable(bpm, numBuckets, types.InvalidPageID)
	if err != nil {
		return nil, fmt.Errorf("creating index %s: %w", metadata.GetName(), err)
	}
	return &LinearProbeHashTableIndex{container, metadata}, nil
}

func (htidx *LinearProbeHashTableIndex) GetMetadata() *IndexMetadata {
	return htidx.metadata
}

func (htidx *LinearProbeHashTableIndex) InsertEntry(tuple_ *tuple.Tuple, rid page.RID) error {
	key := htidx.metadata.KeyFromTuple(tuple_)
	return htidx.container.Insert(key.Bytes(), samehada_util.PackRIDtoUint64(&rid))
}

func (htidx *LinearProbeHashTableIndex) DeleteEntry(tuple_ *tuple.Tuple, rid page.RID) error {
	key := htidx.metadata.KeyFromTuple(tuple_)
	removed, err := htidx.container.Remove(key.Bytes(), samehada_util.PackRIDtoUint64(&rid))
	if err != nil {
		return err
	}
	if !removed {
		common.ShPrintf(common.WARN, "DeleteEntry: entry (%v, %v) does not exist on %s\n", key, rid, htidx.metadata.GetName())
	}
	return nil
}

func (htidx *LinearProbeHashTableIndex) ScanKey(key types.SearchKey) ([]page.RID, error) {
	packedValues, err := htidx.container.GetValue(key.Bytes())
	if err != nil {
		return nil, err
	}
	ret := make([]page.RID, 0, len(packedValues))
	for _, packed := range packedValues {
		ret = append(ret, samehada_util.UnpackUint64toRID(packed))
	}
	return ret, nil
}

// NumBuckets is the value GetNextHash of an exhausted HashIndexScanIterator returns
func (htidx *LinearProbeHashTableIndex) NumBuckets() uint64 {
	return htidx.container.NumBuckets()
}

// Entries returns (bucket, RID) of all entries in bucket order
func (htidx *LinearProbeHashTableIndex) Entries() ([]pair.Pair[uint64, page.RID], error) {
	entries, err := htidx.container.Entries()
	if err != nil {
		return nil, err
	}
	ret := make([]pair.Pair[uint64, page.RID], 0, len(entries))
	for _, entry := range entries {
		ret = append(ret, pair.Pair[uint64, page.RID]{First: entry.First, Second: samehada_util.UnpackUint64toRID(entry.Second)})
	}
	return ret, nil
}

// OpenScan returns a cursor over all entries of the index
func (htidx *LinearProbeHashTableIndex) OpenScan() (*HashIndexScanIterator, error) {
	it, err := htidx.container.OpenBucketScan()
	if err != nil {
		return nil, err
	}
	return &HashIndexScanIterator{it, htidx}, nil
}

// OpenKeyScan returns a cursor over the RIDs inserted with key
func (htidx *LinearProbeHashTableIndex) OpenKeyScan(key types.SearchKey) (*HashIndexKeyScanIterator, error) {
	it, err := htidx.container.OpenKeyScan(key.Bytes())
	if err != nil {
		return nil, err
	}
	return &HashIndexKeyScanIterator{it, htidx, key}, nil
}

// HashIndexScanIterator is the full scan cursor of LinearProbeHashTableIndex
type HashIndexScanIterator struct {
	it    *hash.BucketScanIterator
	index *LinearProbeHashTableIndex
}

func (sit *HashIndexScanIterator) HasNext() bool {
	return sit.it.HasNext()
}

func (sit *HashIndexScanIterator) GetNext() (page.RID, error) {
	packed, err := sit.it.GetNext()
	if err != nil {
		return page.RID{}, err
	}
	return samehada_util.UnpackUint64toRID(packed), nil
}

// GetNextHash returns the bucket of the next entry, or NumBuckets when exhausted
func (sit *HashIndexScanIterator) GetNextHash() uint64 {
	return sit.it.GetNextHash()
}

func (sit *HashIndexScanIterator) Close() error {
	return sit.it.Close()
}

func (sit *HashIndexScanIterator) String() string {
	return fmt.Sprintf("%s on %s", sit.it, sit.index.metadata.GetName())
}

// HashIndexKeyScanIterator is the single key cursor of LinearProbeHashTableIndex
type HashIndexKeyScanIterator struct {
	it    *hash.KeyScanIterator
	index *LinearProbeHashTableIndex
	key   types.SearchKey
}

func (kit *HashIndexKeyScanIterator) HasNext() bool {
	return kit.it.HasNext()
}

func (kit *HashIndexKeyScanIterator) GetNext() (page.RID, error) {
	packed, err := kit.it.GetNext()
	if err != nil {
		return page.RID{}, err
	}
	return samehada_util.UnpackUint64toRID(packed), nil
}

func (kit *HashIndexKeyScanIterator) Close() error {
	return kit.it.Close()
}

func (kit *HashIndexKeyScanIterator) String() string {
	return fmt.Sprintf("%s on %s key=%s", kit.it, kit.index.metadata.GetName(), kit.key)
}
