// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	"fmt"
	"sync"

	"github.com/golang-collections/collections/stack"
	"github.com/ryogrid/SamehadaScan/common"
	"github.com/ryogrid/SamehadaScan/errors"
	"github.com/ryogrid/SamehadaScan/storage/disk"
	"github.com/ryogrid/SamehadaScan/storage/page"
	"github.com/ryogrid/SamehadaScan/types"
)

const ErrBufferPoolFull = errors.Error("all frames of buffer pool are pinned")
const ErrPageNotFound = errors.Error("could not find page")
const ErrPageNotPinned = errors.Error("page is not pinned")
const ErrPagePinned = errors.Error("pin count greater than 0")

// BufferPoolManager represents the buffer pool manager
type BufferPoolManager struct {
	diskManager disk.DiskManager
	pages       []*page.Page // index is FrameID
	replacer    *ClockReplacer
	freeList    *stack.Stack // FrameID
	pageTable   map[types.PageID]FrameID
	mutex       *sync.Mutex
}

// FetchPage fetches the requested page from the buffer pool.
// returned page is pinned and caller must unpin it with UnpinPage
func (b *BufferPoolManager) FetchPage(pageID types.PageID) (*page.Page, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	// if it is on buffer pool return it
	if frameID, ok := b.pageTable[pageID]; ok {
		pg := b.pages[frameID]
		pg.IncPinCount()
		b.replacer.Pin(frameID)
		common.ShPrintf(common.BUFFER_INTERNAL_STATE, "FetchPage: PageId=%d PinCount=%d\n", pg.GetPageId(), pg.PinCount())
		return pg, nil
	}

	// get the id from free list or from replacer
	frameID, isFromFreeList := b.getFrameID()
	if frameID == nil {
		return nil, ErrBufferPoolFull
	}

	data := make([]byte, common.PageSize)
	if err := b.diskManager.ReadPage(pageID, data); err != nil {
		// frame is not used
		if isFromFreeList {
			b.freeList.Push(*frameID)
		} else {
			b.replacer.Unpin(*frameID)
		}
		return nil, fmt.Errorf("read of page %d failed: %w", pageID, err)
	}

	if !isFromFreeList {
		if err := b.evict(*frameID); err != nil {
			b.replacer.Unpin(*frameID)
			return nil, err
		}
	}

	var pageData [common.PageSize]byte
	copy(pageData[:], data)
	pg := page.New(pageID, false, &pageData)
	b.pageTable[pageID] = *frameID
	b.pages[*frameID] = pg

	common.ShPrintf(common.BUFFER_INTERNAL_STATE, "FetchPage: PageId=%d PinCount=%d (cache in)\n", pg.GetPageId(), pg.PinCount())
	return pg, nil
}

// UnpinPage unpins the target page from the buffer pool.
func (b *BufferPoolManager) UnpinPage(pageID types.PageID, isDirty bool) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	frameID, ok := b.pageTable[pageID]
	if !ok {
		return ErrPageNotFound
	}

	pg := b.pages[frameID]
	if pg.PinCount() <= 0 {
		return ErrPageNotPinned
	}
	pg.DecPinCount()

	if pg.PinCount() <= 0 {
		b.replacer.Unpin(frameID)
	}

	if isDirty {
		pg.SetIsDirty(true)
	}

	return nil
}

// FlushPage Flushes the target page to disk.
func (b *BufferPoolManager) FlushPage(pageID types.PageID) bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return b.flushPage(pageID)
}

func (b *BufferPoolManager) flushPage(pageID types.PageID) bool {
	if frameID, ok := b.pageTable[pageID]; ok {
		pg := b.pages[frameID]

		data := pg.Data()
		if err := b.diskManager.WritePage(pageID, data[:]); err != nil {
			common.ShPrintf(common.ERROR, "FlushPage: write of page %d failed: %v\n", pageID, err)
			return false
		}
		pg.SetIsDirty(false)

		return true
	}

	return false
}

// NewPage allocates a new page in the buffer pool with the disk manager help
// returned page is pinned
func (b *BufferPoolManager) NewPage() (*page.Page, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	frameID, isFromFreeList := b.getFrameID()
	if frameID == nil {
		return nil, ErrBufferPoolFull // the buffer is full, it can't find a frame
	}

	if !isFromFreeList {
		if err := b.evict(*frameID); err != nil {
			b.replacer.Unpin(*frameID)
			return nil, err
		}
	}

	// allocates new page
	pageID := b.diskManager.AllocatePage()
	pg := page.NewEmpty(pageID)
	// new page is dirty until it is written once, so that it can be fetched after cache out
	pg.SetIsDirty(true)

	b.pageTable[pageID] = *frameID
	b.pages[*frameID] = pg

	return pg, nil
}

// DeletePage deletes a page from the buffer pool.
func (b *BufferPoolManager) DeletePage(pageID types.PageID) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	var frameID FrameID
	var ok bool
	if frameID, ok = b.pageTable[pageID]; !ok {
		b.diskManager.DeallocatePage(pageID)
		return nil
	}

	pg := b.pages[frameID]
	if pg.PinCount() > 0 {
		return ErrPagePinned
	}
	delete(b.pageTable, pg.GetPageId())
	b.pages[frameID] = nil
	b.replacer.Pin(frameID)
	b.diskManager.DeallocatePage(pageID)

	b.freeList.Push(frameID)

	return nil
}

// FlushAllPages flushes all the pages in the buffer pool to disk.
func (b *BufferPoolManager) FlushAllPages() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	for pageID := range b.pageTable {
		b.flushPage(pageID)
	}
}

// GetPinnedFrameNum returns the number of frames whose page is pinned
func (b *BufferPoolManager) GetPinnedFrameNum() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	cnt := 0
	for _, pg := range b.pages {
		if pg != nil && pg.PinCount() > 0 {
			cnt++
		}
	}
	return cnt
}

// GetPinCount returns pin count of the page. -1 is returned when it is not on buffer pool
func (b *BufferPoolManager) GetPinCount(pageID types.PageID) int32 {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if frameID, ok := b.pageTable[pageID]; ok {
		return b.pages[frameID].PinCount()
	}
	return -1
}

// remove page from current frame
func (b *BufferPoolManager) evict(frameID FrameID) error {
	currentPage := b.pages[frameID]
	if currentPage == nil {
		return nil
	}
	common.SH_Assert(currentPage.PinCount() == 0, fmt.Sprintf("BPM: pin count of page to be cache out must be zero. pageId:%d", currentPage.GetPageId()))

	if currentPage.IsDirty() {
		data := currentPage.Data()
		if err := b.diskManager.WritePage(currentPage.GetPageId(), data[:]); err != nil {
			return fmt.Errorf("write of page %d at cache out failed: %w", currentPage.GetPageId(), err)
		}
	}
	common.ShPrintf(common.BUFFER_INTERNAL_STATE, "cache out: PageId=%d replacer=%s\n", currentPage.GetPageId(), b.replacer.cList)

	delete(b.pageTable, currentPage.GetPageId())
	b.pages[frameID] = nil
	return nil
}

func (b *BufferPoolManager) getFrameID() (*FrameID, bool) {
	if b.freeList.Len() > 0 {
		frameID := b.freeList.Pop().(FrameID)
		return &frameID, true
	}

	return b.replacer.Victim(), false
}

// NewBufferPoolManager returns a empty buffer pool manager
func NewBufferPoolManager(poolSize uint32, DiskManager disk.DiskManager) *BufferPoolManager {
	freeList := stack.New()
	pages := make([]*page.Page, poolSize)
	// frame 0 is on top
	for i := int64(poolSize) - 1; i >= 0; i-- {
		freeList.Push(FrameID(i))
	}

	replacer := NewClockReplacer(poolSize)
	return &BufferPoolManager{DiskManager, pages, replacer, freeList, make(map[types.PageID]FrameID), new(sync.Mutex)}
}
