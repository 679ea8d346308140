// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package access

import (
	"unsafe"

	"github.com/ryogrid/SamehadaScan/common"
	"github.com/ryogrid/SamehadaScan/errors"
	"github.com/ryogrid/SamehadaScan/storage/page"
	"github.com/ryogrid/SamehadaScan/storage/tuple"
	"github.com/ryogrid/SamehadaScan/types"
)

// static constexpr uint64_t DELETE_MASK = (1U << (8 * sizeof(uint32_t) - 1));
const deleteMask = uint32(1 << ((8 * 4) - 1))

const sizeTablePageHeader = uint32(24)
const sizeTuple = uint32(8)
const offSetPrevPageId = uint32(8)
const offSetNextPageId = uint32(12)
const offsetFreeSpace = uint32(16)
const offSetTupleCount = uint32(20)
const offsetTupleOffset = uint32(24)
const offsetTupleSize = uint32(28)

const ErrEmptyTuple = errors.Error("tuple cannot be empty")
const ErrNotEnoughSpace = errors.Error("there is not enough space")
const ErrRecordNotFound = errors.Error("record does not exist or is deleted")

// Slotted page format:
//
//	---------------------------------------------------------
//	| HEADER | ... FREE SPACE ... | ... INSERTED TUPLES ... |
//	---------------------------------------------------------
//	                              ^
//	                              free space pointer
//	Header format (size in bytes):
//	---------------------------------------------------------------------------------
//	| PageId (4)| Reserved (4)| PrevPageId (4)| NextPageId (4)| FreeSpacePointer(4) |
//	---------------------------------------------------------------------------------
//	----------------------------------------------------------------
//	| TupleCount (4) | Tuple_1 offset (4) | Tuple_1 size (4) | ... |
//	----------------------------------------------------------------
type TablePage struct {
	page.Page
}

// CastPageAsTablePage casts the abstract Page struct into TablePage
func CastPageAsTablePage(page *page.Page) *TablePage {
	if page == nil {
		return nil
	}

	return (*TablePage)(unsafe.Pointer(page))
}

// Inserts a tuple into the table
func (tp *TablePage) InsertTuple(tuple *tuple.Tuple) (*page.RID, error) {
	if tuple.Size() == 0 {
		return nil, ErrEmptyTuple
	}

	var slot uint32

	// try to find a free slot
	for slot = uint32(0); slot < tp.GetTupleCount(); slot++ {
		if tp.GetTupleSize(slot) == 0 {
			break
		}
	}

	needed := tuple.Size()
	if slot == tp.GetTupleCount() {
		needed += sizeTuple
	}
	if tp.getFreeSpaceRemaining() < needed {
		return nil, ErrNotEnoughSpace
	}

	rid := &page.RID{}
	rid.Set(tp.GetTablePageId(), slot)

	tp.SetFreeSpacePointer(tp.GetFreeSpacePointer() - tuple.Size())
	tp.setTuple(slot, tuple)

	if slot == tp.GetTupleCount() {
		tp.SetTupleCount(tp.GetTupleCount() + 1)
	}
	tuple.SetRID(rid)

	return rid, nil
}

// UpdateTuple replaces the record at rid with newTuple in place.
// ErrNotEnoughSpace is returned when the page can not hold the new record.
func (tp *TablePage) UpdateTuple(newTuple *tuple.Tuple, rid *page.RID) error {
	common.SH_Assert(newTuple.Size() > 0, "Cannot have empty tuples.")

	slotNum := rid.GetSlotNum()
	if slotNum >= tp.GetTupleCount() {
		return ErrRecordNotFound
	}
	tupleSize := tp.GetTupleSize(slotNum)
	if IsDeleted(tupleSize) {
		return ErrRecordNotFound
	}

	if tp.getFreeSpaceRemaining()+tupleSize < newTuple.Size() {
		return ErrNotEnoughSpace
	}

	tupleOffset := tp.GetTupleOffsetAtSlot(slotNum)
	freeSpacePointer := tp.GetFreeSpacePointer()
	common.SH_Assert(tupleOffset >= freeSpacePointer, "Offset should appear after current free space position.")

	// shift the records placed before the target so that the new one ends where the old one ended
	data := tp.Data()
	copy(data[freeSpacePointer+tupleSize-newTuple.Size():], data[freeSpacePointer:tupleOffset])
	tp.SetFreeSpacePointer(freeSpacePointer + tupleSize - newTuple.Size())
	copy(data[tupleOffset+tupleSize-newTuple.Size():], newTuple.Data()[:newTuple.Size()])
	tp.SetTupleSize(slotNum, newTuple.Size())

	// Update all tuple offsets.
	tupleCnt := tp.GetTupleCount()
	for ii := uint32(0); ii < tupleCnt; ii++ {
		offsetII := tp.GetTupleOffsetAtSlot(ii)
		if tp.GetTupleSize(ii) > 0 && offsetII < tupleOffset+tupleSize {
			tp.SetTupleOffsetAtSlot(ii, offsetII+tupleSize-newTuple.Size())
		}
	}
	return nil
}

// MarkDelete sets the deleted flag of the record. scans skip it after that.
func (tp *TablePage) MarkDelete(rid *page.RID) error {
	slotNum := rid.GetSlotNum()
	if slotNum >= tp.GetTupleCount() {
		return ErrRecordNotFound
	}

	tupleSize := tp.GetTupleSize(slotNum)
	if IsDeleted(tupleSize) {
		return ErrRecordNotFound
	}

	tp.SetTupleSize(slotNum, SetDeletedFlag(tupleSize))
	return nil
}

// Init initializes the table header
func (tp *TablePage) Init(pageId types.PageID, prevPageId types.PageID) {
	tp.SetPageId(pageId)
	tp.SetPrevPageId(prevPageId)
	tp.SetNextPageId(types.InvalidPageID)
	tp.SetTupleCount(0)
	tp.SetFreeSpacePointer(common.PageSize) // point to the end of the page
}

func (tp *TablePage) SetPageId(pageId types.PageID) {
	tp.Copy(0, pageId.Serialize())
}

func (tp *TablePage) SetPrevPageId(pageId types.PageID) {
	tp.Copy(offSetPrevPageId, pageId.Serialize())
}

func (tp *TablePage) SetNextPageId(pageId types.PageID) {
	tp.Copy(offSetNextPageId, pageId.Serialize())
}

func (tp *TablePage) SetFreeSpacePointer(freeSpacePointer uint32) {
	tp.Copy(offsetFreeSpace, types.UInt32(freeSpacePointer).Serialize())
}

func (tp *TablePage) SetTupleCount(tupleCount uint32) {
	tp.Copy(offSetTupleCount, types.UInt32(tupleCount).Serialize())
}

func (tp *TablePage) setTuple(slot uint32, tuple *tuple.Tuple) {
	fsp := tp.GetFreeSpacePointer()
	tp.Copy(fsp, tuple.Data())                                                      // copy tuple to data starting at free space pointer
	tp.Copy(offsetTupleOffset+sizeTuple*slot, types.UInt32(fsp).Serialize())        // set tuple offset at slot
	tp.Copy(offsetTupleSize+sizeTuple*slot, types.UInt32(tuple.Size()).Serialize()) // set tuple size at slot
}

func (tp *TablePage) GetTablePageId() types.PageID {
	return types.NewPageIDFromBytes(tp.Data()[:])
}

func (tp *TablePage) GetPrevPageId() types.PageID {
	return types.NewPageIDFromBytes(tp.Data()[offSetPrevPageId:])
}

func (tp *TablePage) GetNextPageId() types.PageID {
	return types.NewPageIDFromBytes(tp.Data()[offSetNextPageId:])
}

func (tp *TablePage) GetTupleCount() uint32 {
	return uint32(types.NewUInt32FromBytes(tp.Data()[offSetTupleCount:]))
}

func (tp *TablePage) GetTupleOffsetAtSlot(slotNum uint32) uint32 {
	return uint32(types.NewUInt32FromBytes(tp.Data()[offsetTupleOffset+sizeTuple*slotNum:]))
}

func (tp *TablePage) SetTupleOffsetAtSlot(slotNum uint32, offset uint32) {
	tp.Copy(offsetTupleOffset+sizeTuple*slotNum, types.UInt32(offset).Serialize())
}

func (tp *TablePage) GetTupleSize(slotNum uint32) uint32 {
	return uint32(types.NewUInt32FromBytes(tp.Data()[offsetTupleSize+sizeTuple*slotNum:]))
}

func (tp *TablePage) SetTupleSize(slotNum uint32, size uint32) {
	tp.Copy(offsetTupleSize+sizeTuple*slotNum, types.UInt32(size).Serialize())
}

func (tp *TablePage) getFreeSpaceRemaining() uint32 {
	return tp.GetFreeSpacePointer() - sizeTablePageHeader - sizeTuple*tp.GetTupleCount()
}

func (tp *TablePage) GetFreeSpacePointer() uint32 {
	return uint32(types.NewUInt32FromBytes(tp.Data()[offsetFreeSpace:]))
}

// GetTupleData returns a copy of the record bytes stored at rid
func (tp *TablePage) GetTupleData(rid *page.RID) ([]byte, error) {
	slot := rid.GetSlotNum()
	if slot >= tp.GetTupleCount() {
		return nil, ErrRecordNotFound
	}

	tupleOffset := tp.GetTupleOffsetAtSlot(slot)
	tupleSize := tp.GetTupleSize(slot)
	if IsDeleted(tupleSize) {
		return nil, ErrRecordNotFound
	}

	tupleData := make([]byte, tupleSize)
	copy(tupleData, tp.Data()[tupleOffset:tupleOffset+tupleSize])
	return tupleData, nil
}

// GetLiveTupleCount returns the number of records which are not deleted
func (tp *TablePage) GetLiveTupleCount() uint32 {
	cnt := uint32(0)
	for ii := uint32(0); ii < tp.GetTupleCount(); ii++ {
		if !IsDeleted(tp.GetTupleSize(ii)) {
			cnt++
		}
	}
	return cnt
}

// GetNextTupleRID returns the first live record after curRID on this page.
// curRID nil means the search starts from slot 0.
func (tp *TablePage) GetNextTupleRID(curRID *page.RID) *page.RID {
	tupleCount := tp.GetTupleCount()
	initVal := uint32(0)
	if curRID != nil {
		initVal = curRID.GetSlotNum() + 1
	}
	for ii := initVal; ii < tupleCount; ii++ {
		if !IsDeleted(tp.GetTupleSize(ii)) {
			nextRID := page.NewRID(tp.GetTablePageId(), ii)
			return &nextRID
		}
	}
	return nil
}

/** @return true if the tuple is deleted or empty */
func IsDeleted(tupleSize uint32) bool {
	return tupleSize&deleteMask == deleteMask || tupleSize == 0
}

/** @return tuple size with the deleted flag set */
func SetDeletedFlag(tupleSize uint32) uint32 {
	return tupleSize | deleteMask
}

/** @return tuple size with the deleted flag unset */
func UnsetDeletedFlag(tupleSize uint32) uint32 {
	return tupleSize & (^deleteMask)
}
