// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package access

import (
	"fmt"

	"github.com/ryogrid/SamehadaScan/errors"
	"github.com/ryogrid/SamehadaScan/storage/page"
)

const ErrCursorExhausted = errors.Error("cursor has no more records")

// TableHeapIterator is the sequential cursor of a table heap.
//
// It is always positioned on the next live record. The page holding that
// record stays pinned until the cursor moves to another page or is closed.
type TableHeapIterator struct {
	tableHeap   *TableHeap
	currentPage *TablePage // nil when exhausted
	nextRID     *page.RID
}

func newTableHeapIterator(tableHeap *TableHeap) (*TableHeapIterator, error) {
	it := &TableHeapIterator{tableHeap: tableHeap}
	firstPage, err := tableHeap.fetchTablePage(tableHeap.firstPageId)
	if err != nil {
		return nil, err
	}
	firstPage.RLatch()
	rid := firstPage.GetNextTupleRID(nil)
	firstPage.RUnlatch()

	if err := it.moveTo(firstPage, rid); err != nil {
		tableHeap.unpinPage(firstPage.GetTablePageId(), false)
		return nil, err
	}
	return it, nil
}

// seek follows the page chain from start until a live record is found.
// start must be pinned and stays pinned. the returned page is pinned too,
// or nil when no live record remains.
func (it *TableHeapIterator) seek(start *TablePage, rid *page.RID) (*TablePage, *page.RID, error) {
	if rid != nil {
		return start, rid, nil
	}

	pg := start
	for {
		pg.RLatch()
		nextPageId := pg.GetNextPageId()
		pg.RUnlatch()
		if !nextPageId.IsValid() {
			if pg != start {
				it.tableHeap.unpinPage(pg.GetTablePageId(), false)
			}
			return nil, nil, nil
		}

		nextPage, err := it.tableHeap.fetchTablePage(nextPageId)
		if pg != start {
			it.tableHeap.unpinPage(pg.GetTablePageId(), false)
		}
		if err != nil {
			return nil, nil, err
		}
		pg = nextPage

		pg.RLatch()
		rid = pg.GetNextTupleRID(nil)
		pg.RUnlatch()
		if rid != nil {
			return pg, rid, nil
		}
	}
}

// moveTo positions the cursor on the first live record at or after rid.
// pinned page start is released when the cursor leaves it.
func (it *TableHeapIterator) moveTo(start *TablePage, rid *page.RID) error {
	nextPage, nextRID, err := it.seek(start, rid)
	if err != nil {
		return err
	}
	if nextPage != start {
		it.tableHeap.unpinPage(start.GetTablePageId(), false)
	}
	it.currentPage, it.nextRID = nextPage, nextRID
	return nil
}

// HasNext reports whether GetNext returns a record
func (it *TableHeapIterator) HasNext() bool {
	return it.nextRID != nil
}

// GetNext returns the bytes of the next record and stores its RID to outRID.
// On a storage error the cursor position is unchanged.
func (it *TableHeapIterator) GetNext(outRID *page.RID) ([]byte, error) {
	if it.nextRID == nil {
		return nil, ErrCursorExhausted
	}

	it.currentPage.RLatch()
	data, err := it.currentPage.GetTupleData(it.nextRID)
	following := it.currentPage.GetNextTupleRID(it.nextRID)
	it.currentPage.RUnlatch()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", *it.nextRID, err)
	}

	consumed := *it.nextRID
	if err := it.moveTo(it.currentPage, following); err != nil {
		return nil, err
	}

	*outRID = consumed
	return data, nil
}

// Close unpins the page the cursor is positioned on
func (it *TableHeapIterator) Close() error {
	if it.currentPage == nil {
		return nil
	}
	pageId := it.currentPage.GetTablePageId()
	it.currentPage, it.nextRID = nil, nil
	return it.tableHeap.bpm.UnpinPage(pageId, false)
}

func (it *TableHeapIterator) String() string {
	if it.nextRID == nil {
		return fmt.Sprintf("TableHeapIterator(firstPage=%d, exhausted)", it.tableHeap.firstPageId)
	}
	return fmt.Sprintf("TableHeapIterator(firstPage=%d, next=%v)", it.tableHeap.firstPageId, *it.nextRID)
}
