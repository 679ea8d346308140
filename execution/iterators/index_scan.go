package iterators

import (
	"fmt"
	"io"

	"github.com/ryogrid/SamehadaScan/common"
	"github.com/ryogrid/SamehadaScan/storage/access"
	"github.com/ryogrid/SamehadaScan/storage/index"
	"github.com/ryogrid/SamehadaScan/storage/table/schema"
	"github.com/ryogrid/SamehadaScan/storage/tuple"
	"github.com/ryogrid/SamehadaScan/types"
)

// IndexScan visits every entry of a hash index bucket by bucket.
//
// Tuples are returned by identity only (see tuple.NewTupleFromRID). Use
// Resolve with GetHeapFile to read their values.
type IndexScan struct {
	scanBase
	index  *index.LinearProbeHashTableIndex
	heap   *access.TableHeap
	cursor *index.HashIndexScanIterator
}

func NewIndexScan(schema_ *schema.Schema, idx *index.LinearProbeHashTableIndex, heap *access.TableHeap) (*IndexScan, error) {
	cursor, err := idx.OpenScan()
	if err != nil {
		common.ShPrintf(common.ERROR, "IndexScan: open failed: %v\n", err)
		return nil, fmt.Errorf("open index scan: %w", err)
	}
	s := &IndexScan{scanBase: scanBase{schema: schema_}, index: idx, heap: heap, cursor: cursor}
	logScan(KindIndexScan, "open", cursor.String())
	return s, nil
}

func (s *IndexScan) Kind() ScanKind {
	return KindIndexScan
}

func (s *IndexScan) IsOpen() bool {
	return s.cursor != nil
}

func (s *IndexScan) Close() error {
	if s.cursor == nil {
		return ErrIteratorClosed
	}
	err := s.cursor.Close()
	s.cursor = nil
	s.clearLastRID()
	logScan(KindIndexScan, "close", s.index.GetMetadata().GetName())
	return err
}

// Restart reopens the cursor from the first bucket.
// When the new cursor cannot be opened the scan ends up closed.
func (s *IndexScan) Restart() error {
	if s.cursor == nil {
		return ErrIteratorClosed
	}
	closeErr := s.cursor.Close()
	s.cursor = nil
	s.clearLastRID()

	cursor, err := s.index.OpenScan()
	if err != nil {
		common.ShPrintf(common.ERROR, "IndexScan: restart failed: %v\n", err)
		return fmt.Errorf("restart index scan: %w", err)
	}
	s.cursor = cursor
	if closeErr != nil {
		common.ShPrintf(common.WARN, "IndexScan: releasing old cursor on restart: %v\n", closeErr)
	}
	logScan(KindIndexScan, "restart", cursor.String())
	return nil
}

func (s *IndexScan) HasNext() bool {
	return s.cursor != nil && s.cursor.HasNext()
}

func (s *IndexScan) GetNext() (*tuple.Tuple, error) {
	if s.cursor == nil {
		return nil, ErrIteratorClosed
	}
	if !s.cursor.HasNext() {
		return nil, ErrNoMoreTuples
	}

	rid, err := s.cursor.GetNext()
	if err != nil {
		common.ShPrintf(common.ERROR, "IndexScan: %v\n", err)
		return nil, fmt.Errorf("index scan on %s: %w", s.index.GetMetadata().GetName(), err)
	}
	s.setLastRID(rid)
	return tuple.NewTupleFromRID(s.schema, rid), nil
}

// GetLastKey returns the key view of the tracked identity: a Varchar key
// holding the text of the last returned RID.
func (s *IndexScan) GetLastKey() (types.SearchKey, bool) {
	rid, ok := s.GetLastRID()
	if !ok {
		return types.SearchKey{}, false
	}
	return types.NewSearchKeyFromString(rid.String()), true
}

// GetNextHash returns the bucket holding the next entry. It is NumBuckets
// once the scan is exhausted or closed.
func (s *IndexScan) GetNextHash() uint64 {
	if s.cursor == nil {
		return s.NumBuckets()
	}
	return s.cursor.GetNextHash()
}

func (s *IndexScan) NumBuckets() uint64 {
	return s.index.NumBuckets()
}

// GetHeapFile returns the heap file the indexed records live in
func (s *IndexScan) GetHeapFile() *access.TableHeap {
	return s.heap
}

func (s *IndexScan) Explain(w io.Writer, depth int) {
	depth = explainDepth(depth)
	explainLine(w, depth, "IndexScan: visits every bucket of hash index %s as %s", s.index.GetMetadata().GetName(), s.schema)
	explainLine(w, depth+1, "%s", cursorLine(s.cursor != nil, s.cursor))
}
