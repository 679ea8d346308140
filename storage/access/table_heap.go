// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package access

import (
	"fmt"

	"github.com/ryogrid/SamehadaScan/common"
	"github.com/ryogrid/SamehadaScan/errors"
	"github.com/ryogrid/SamehadaScan/storage/buffer"
	"github.com/ryogrid/SamehadaScan/storage/page"
	"github.com/ryogrid/SamehadaScan/storage/table/schema"
	"github.com/ryogrid/SamehadaScan/storage/tuple"
	"github.com/ryogrid/SamehadaScan/types"
)

const ErrPageFetchFailed = errors.Error("page fetch failed")

// TableHeap represents a physical table on disk.
// It contains the id of the first table page. The table page is a doubly-linked to other table pages.
type TableHeap struct {
	bpm         *buffer.BufferPoolManager
	firstPageId types.PageID
	schema      *schema.Schema
}

// NewTableHeap creates a table heap without a  (open table)
func NewTableHeap(bpm *buffer.BufferPoolManager, schema_ *schema.Schema) (*TableHeap, error) {
	p, err := bpm.NewPage()
	if err != nil {
		return nil, fmt.Errorf("allocating first page of table heap: %w", err)
	}

	firstPage := CastPageAsTablePage(p)
	firstPage.WLatch()
	firstPage.Init(p.GetPageId(), types.InvalidPageID)
	firstPage.WUnlatch()
	if err := bpm.UnpinPage(p.GetPageId(), true); err != nil {
		return nil, err
	}
	return &TableHeap{bpm, p.GetPageId(), schema_}, nil
}

// InitTableHeap opens a table heap which already exists from its first page
func InitTableHeap(bpm *buffer.BufferPoolManager, pageId types.PageID, schema_ *schema.Schema) *TableHeap {
	return &TableHeap{bpm, pageId, schema_}
}

// GetFirstPageId returns firstPageId
func (t *TableHeap) GetFirstPageId() types.PageID {
	return t.firstPageId
}

func (t *TableHeap) GetSchema() *schema.Schema {
	return t.schema
}

func (t *TableHeap) GetBufferPoolManager() *buffer.BufferPoolManager {
	return t.bpm
}

func (t *TableHeap) fetchTablePage(pageId types.PageID) (*TablePage, error) {
	p, err := t.bpm.FetchPage(pageId)
	if err != nil {
		common.ShPrintf(common.ERROR, "TableHeap: fetch of page %d failed: %v\n", pageId, err)
		return nil, fmt.Errorf("%w: page %d: %w", ErrPageFetchFailed, pageId, err)
	}
	return CastPageAsTablePage(p), nil
}

// unpinPage logs the failure only. it means the pin was already released.
func (t *TableHeap) unpinPage(pageId types.PageID, isDirty bool) {
	if err := t.bpm.UnpinPage(pageId, isDirty); err != nil {
		common.ShPrintf(common.WARN, "TableHeap: unpin of page %d failed: %v\n", pageId, err)
	}
}

// InsertTuple inserts a tuple into the table
// PAY ATTENTION: index entry is not inserted
//
// It fetches the first page and tries to insert the tuple there.
// If the tuple is too large (>= page_size):
// 1. It tries to insert in the next page
// 2. If there is no next page, it creates a new page and insert in it
func (t *TableHeap) InsertTuple(tuple_ *tuple.Tuple) (*page.RID, error) {
	common.ShPrintf(common.DEBUG_INFO_DETAIL, "TableHeap::InsertTuple called. tuple_:%v\n", tuple_)
	if tuple_.Size()+sizeTuple > common.PageSize-sizeTablePageHeader {
		return nil, ErrNotEnoughSpace
	}

	currentPage, err := t.fetchTablePage(t.firstPageId)
	if err != nil {
		return nil, err
	}

	// Insert into the first page with enough space. If no such page exists, create a new page and insert into that.
	for {
		currentPage.WLatch()
		rid, err := currentPage.InsertTuple(tuple_)
		if err == nil {
			currentPage.WUnlatch()
			if err := t.bpm.UnpinPage(currentPage.GetTablePageId(), true); err != nil {
				return nil, err
			}
			return rid, nil
		}
		if err != ErrNotEnoughSpace {
			currentPage.WUnlatch()
			t.unpinPage(currentPage.GetTablePageId(), false)
			return nil, err
		}

		nextPageId := currentPage.GetNextPageId()
		if nextPageId.IsValid() {
			currentPage.WUnlatch()
			t.unpinPage(currentPage.GetTablePageId(), false)
			if currentPage, err = t.fetchTablePage(nextPageId); err != nil {
				return nil, err
			}
			continue
		}

		p, err := t.bpm.NewPage()
		if err != nil {
			currentPage.WUnlatch()
			t.unpinPage(currentPage.GetTablePageId(), false)
			return nil, fmt.Errorf("extending table heap: %w", err)
		}
		newPage := CastPageAsTablePage(p)
		newPage.Init(p.GetPageId(), currentPage.GetTablePageId())
		currentPage.SetNextPageId(p.GetPageId())
		currentPage.WUnlatch()
		t.unpinPage(currentPage.GetTablePageId(), true)
		currentPage = newPage
	}
}

// UpdateTuple replaces the record at rid.
// when the page can not hold the new record, new one is inserted at another location and old one is deleted.
// the old record is untouched when the update fails.
// returned RID is where the record lives after the update.
// PAY ATTENTION: index entry is not updated
func (t *TableHeap) UpdateTuple(tuple_ *tuple.Tuple, rid page.RID) (*page.RID, error) {
	common.ShPrintf(common.DEBUG_INFO_DETAIL, "TableHeap::UpdateTuple called. rid:%v\n", rid)
	page_, err := t.fetchTablePage(rid.GetPageId())
	if err != nil {
		return nil, err
	}

	page_.WLatch()
	err = page_.UpdateTuple(tuple_, &rid)
	page_.WUnlatch()
	t.unpinPage(page_.GetTablePageId(), err == nil)

	switch err {
	case nil:
		tuple_.SetRID(&rid)
		return &rid, nil
	case ErrNotEnoughSpace:
		// the old record is deleted only after the new one is stored
		newRID, err := t.InsertTuple(tuple_)
		if err != nil {
			return nil, err
		}
		if err := t.MarkDelete(&rid); err != nil {
			if uerr := t.MarkDelete(newRID); uerr != nil {
				common.ShPrintf(common.ERROR, "TableHeap::UpdateTuple: moved record %v can not be removed: %v\n", *newRID, uerr)
			}
			return nil, err
		}
		common.ShPrintf(common.DEBUG_INFO, "TableHeap::UpdateTuple: record moved %v -> %v\n", rid, *newRID)
		return newRID, nil
	default:
		return nil, err
	}
}

// MarkDelete marks the record at rid deleted
// PAY ATTENTION: index entry is not deleted
func (t *TableHeap) MarkDelete(rid *page.RID) error {
	common.ShPrintf(common.DEBUG_INFO_DETAIL, "TableHeap::MarkDelete called. rid:%v\n", *rid)
	page_, err := t.fetchTablePage(rid.GetPageId())
	if err != nil {
		return err
	}
	page_.WLatch()
	err = page_.MarkDelete(rid)
	page_.WUnlatch()
	t.unpinPage(page_.GetTablePageId(), err == nil)
	return err
}

// GetTuple reads a tuple from the table
func (t *TableHeap) GetTuple(rid *page.RID) (*tuple.Tuple, error) {
	page_, err := t.fetchTablePage(rid.GetPageId())
	if err != nil {
		return nil, err
	}
	page_.RLatch()
	data, err := page_.GetTupleData(rid)
	page_.RUnlatch()
	t.unpinPage(page_.GetTablePageId(), false)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", *rid, err)
	}
	return tuple.NewTupleFromBytes(t.schema, data, rid)
}

// GetRecordCount returns the number of live records by walking all pages
func (t *TableHeap) GetRecordCount() (uint64, error) {
	cnt := uint64(0)
	pageId := t.firstPageId
	for pageId.IsValid() {
		page_, err := t.fetchTablePage(pageId)
		if err != nil {
			return 0, err
		}
		page_.RLatch()
		cnt += uint64(page_.GetLiveTupleCount())
		pageId = page_.GetNextPageId()
		page_.RUnlatch()
		t.unpinPage(page_.GetTablePageId(), false)
	}
	return cnt, nil
}

// OpenScan returns a cursor positioned on the first live record
func (t *TableHeap) OpenScan() (*TableHeapIterator, error) {
	return newTableHeapIterator(t)
}
