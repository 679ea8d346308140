// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package page

import (
	"fmt"

	"github.com/ryogrid/SamehadaScan/types"
)

// RID is the record identifier for the given page identifier and slot number
// RID is comparable, so it can be compared with == and used as a map key
type RID struct {
	PageId  types.PageID
	SlotNum uint32
}

func NewRID(pageId types.PageID, slot uint32) RID {
	return RID{pageId, slot}
}

// Set sets the recod identifier
func (r *RID) Set(pageId types.PageID, slot uint32) {
	r.PageId = pageId
	r.SlotNum = slot
}

// GetPageId gets the page id
func (r *RID) GetPageId() types.PageID {
	return r.PageId
}

// GetSlotNum gets the slot number
func (r *RID) GetSlotNum() uint32 {
	return r.SlotNum
}

// String is the canonical text form of RID
func (r RID) String() string {
	return fmt.Sprintf("[%d:%d]", r.PageId, r.SlotNum)
}
