package iterators

import (
	"fmt"
	"io"

	"github.com/ryogrid/SamehadaScan/common"
	"github.com/ryogrid/SamehadaScan/storage/access"
	"github.com/ryogrid/SamehadaScan/storage/page"
	"github.com/ryogrid/SamehadaScan/storage/table/schema"
	"github.com/ryogrid/SamehadaScan/storage/tuple"
)

// HeapScan reads the records of a heap file in storage order and decodes
// them against its schema.
type HeapScan struct {
	scanBase
	heap   *access.TableHeap
	cursor *access.TableHeapIterator
}

// NewHeapScan opens a cursor on heap right away
func NewHeapScan(schema_ *schema.Schema, heap *access.TableHeap) (*HeapScan, error) {
	cursor, err := heap.OpenScan()
	if err != nil {
		common.ShPrintf(common.ERROR, "HeapScan: open failed: %v\n", err)
		return nil, fmt.Errorf("open heap scan: %w", err)
	}
	s := &HeapScan{scanBase: scanBase{schema: schema_}, heap: heap, cursor: cursor}
	logScan(KindHeapScan, "open", cursor.String())
	return s, nil
}

func (s *HeapScan) Kind() ScanKind {
	return KindHeapScan
}

func (s *HeapScan) IsOpen() bool {
	return s.cursor != nil
}

// Close unpins the page the cursor is on. The scan is closed even when
// unpinning fails.
func (s *HeapScan) Close() error {
	if s.cursor == nil {
		return ErrIteratorClosed
	}
	err := s.cursor.Close()
	s.cursor = nil
	s.clearLastRID()
	logScan(KindHeapScan, "close", fmt.Sprintf("firstPage=%d", s.heap.GetFirstPageId()))
	return err
}

// Restart reopens the cursor from the first page of the heap file.
// When the new cursor cannot be opened the scan ends up closed.
func (s *HeapScan) Restart() error {
	if s.cursor == nil {
		return ErrIteratorClosed
	}
	closeErr := s.cursor.Close()
	s.cursor = nil
	s.clearLastRID()

	cursor, err := s.heap.OpenScan()
	if err != nil {
		common.ShPrintf(common.ERROR, "HeapScan: restart failed: %v\n", err)
		return fmt.Errorf("restart heap scan: %w", err)
	}
	s.cursor = cursor
	if closeErr != nil {
		common.ShPrintf(common.WARN, "HeapScan: releasing old cursor on restart: %v\n", closeErr)
	}
	logScan(KindHeapScan, "restart", cursor.String())
	return nil
}

func (s *HeapScan) HasNext() bool {
	return s.cursor != nil && s.cursor.HasNext()
}

// GetNext decodes the next record. Its RID becomes the tracked identity.
func (s *HeapScan) GetNext() (*tuple.Tuple, error) {
	if s.cursor == nil {
		return nil, ErrIteratorClosed
	}
	if !s.cursor.HasNext() {
		return nil, ErrNoMoreTuples
	}

	var rid page.RID
	data, err := s.cursor.GetNext(&rid)
	if err != nil {
		common.ShPrintf(common.ERROR, "HeapScan: %v\n", err)
		return nil, fmt.Errorf("heap scan: %w", err)
	}
	t, err := tuple.NewTupleFromBytes(s.schema, data, &rid)
	if err != nil {
		return nil, fmt.Errorf("heap scan: %v: %w", rid, err)
	}
	s.setLastRID(rid)
	return t, nil
}

func (s *HeapScan) Explain(w io.Writer, depth int) {
	depth = explainDepth(depth)
	explainLine(w, depth, "HeapScan: reads the heap file in storage order as %s", s.schema)
	explainLine(w, depth+1, "%s", cursorLine(s.cursor != nil, s.cursor))
}

// GetHeapFile returns the heap file the scan reads
func (s *HeapScan) GetHeapFile() *access.TableHeap {
	return s.heap
}
