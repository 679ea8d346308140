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

// KeyScan returns the records inserted into a hash index under one key.
// Like IndexScan it returns tuples by identity only.
type KeyScan struct {
	scanBase
	index  *index.LinearProbeHashTableIndex
	heap   *access.TableHeap
	key    types.SearchKey
	cursor *index.HashIndexKeyScanIterator
}

func NewKeyScan(schema_ *schema.Schema, idx *index.LinearProbeHashTableIndex, key types.SearchKey, heap *access.TableHeap) (*KeyScan, error) {
	cursor, err := idx.OpenKeyScan(key)
	if err != nil {
		common.ShPrintf(common.ERROR, "KeyScan: open failed: %v\n", err)
		return nil, fmt.Errorf("open key scan: %w", err)
	}
	s := &KeyScan{scanBase: scanBase{schema: schema_}, index: idx, heap: heap, key: key, cursor: cursor}
	logScan(KindKeyScan, "open", cursor.String())
	return s, nil
}

func (s *KeyScan) Kind() ScanKind {
	return KindKeyScan
}

func (s *KeyScan) IsOpen() bool {
	return s.cursor != nil
}

func (s *KeyScan) Close() error {
	if s.cursor == nil {
		return ErrIteratorClosed
	}
	err := s.cursor.Close()
	s.cursor = nil
	s.clearLastRID()
	logScan(KindKeyScan, "close", fmt.Sprintf("%s key=%s", s.index.GetMetadata().GetName(), s.key))
	return err
}

// Restart looks the same key up again.
// When the new cursor cannot be opened the scan ends up closed.
func (s *KeyScan) Restart() error {
	if s.cursor == nil {
		return ErrIteratorClosed
	}
	closeErr := s.cursor.Close()
	s.cursor = nil
	s.clearLastRID()

	cursor, err := s.index.OpenKeyScan(s.key)
	if err != nil {
		common.ShPrintf(common.ERROR, "KeyScan: restart failed: %v\n", err)
		return fmt.Errorf("restart key scan: %w", err)
	}
	s.cursor = cursor
	if closeErr != nil {
		common.ShPrintf(common.WARN, "KeyScan: releasing old cursor on restart: %v\n", closeErr)
	}
	logScan(KindKeyScan, "restart", cursor.String())
	return nil
}

func (s *KeyScan) HasNext() bool {
	return s.cursor != nil && s.cursor.HasNext()
}

func (s *KeyScan) GetNext() (*tuple.Tuple, error) {
	if s.cursor == nil {
		return nil, ErrIteratorClosed
	}
	if !s.cursor.HasNext() {
		return nil, ErrNoMoreTuples
	}

	rid, err := s.cursor.GetNext()
	if err != nil {
		common.ShPrintf(common.ERROR, "KeyScan: %v\n", err)
		return nil, fmt.Errorf("key scan on %s key=%s: %w", s.index.GetMetadata().GetName(), s.key, err)
	}
	s.setLastRID(rid)
	return tuple.NewTupleFromRID(s.schema, rid), nil
}

func (s *KeyScan) GetKey() types.SearchKey {
	return s.key
}

// GetHeapFile returns the heap file the indexed records live in
func (s *KeyScan) GetHeapFile() *access.TableHeap {
	return s.heap
}

func (s *KeyScan) Explain(w io.Writer, depth int) {
	depth = explainDepth(depth)
	explainLine(w, depth, "KeyScan: looks up key %s in hash index %s as %s", s.key, s.index.GetMetadata().GetName(), s.schema)
	explainLine(w, depth+1, "%s", cursorLine(s.cursor != nil, s.cursor))
}
