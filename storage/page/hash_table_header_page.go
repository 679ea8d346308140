// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package page

import (
	"github.com/ryogrid/SamehadaScan/common"
	"github.com/ryogrid/SamehadaScan/types"
)

/**
 *
 * Header Page for linear probing hash table.
 *
 * Header format (size in byte, 12 bytes in total):
 * ----------------------------------------------------------------------
 * |  PageId(4) | NextBlockIndex(4) | Size (4) | BlockPageIds (4) x 1020
 * ----------------------------------------------------------------------
 * all Page content size: 12 + 4 * 1020 = 4092
 */
type HashTableHeaderPage struct {
	pageId       types.PageID
	nextIndex    uint32 // the next index to add a new entry to blockPageIds
	size         uint32 // the number of key/value pairs the hash table can hold
	blockPageIds [common.MaxNumBucketsOfHashIndex]types.PageID
}

func (page *HashTableHeaderPage) GetBlockPageId(index uint64) types.PageID {
	return page.blockPageIds[index]
}

func (page *HashTableHeaderPage) GetPageId() types.PageID {
	return page.pageId
}

func (page *HashTableHeaderPage) SetPageId(pageId types.PageID) {
	page.pageId = pageId
}

func (page *HashTableHeaderPage) AddBlockPageId(pageId types.PageID) {
	page.blockPageIds[page.nextIndex] = pageId
	page.nextIndex++
}

// NumBlocks is the number of buckets. A bucket is one block page.
func (page *HashTableHeaderPage) NumBlocks() uint64 {
	return uint64(page.nextIndex)
}

func (page *HashTableHeaderPage) SetSize(size uint32) {
	page.size = size
}

func (page *HashTableHeaderPage) GetSize() uint32 {
	return page.size
}
