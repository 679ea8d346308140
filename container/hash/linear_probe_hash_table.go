// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package hash

import (
	"fmt"
	"unsafe"

	"github.com/notEpsilon/go-pair"
	"github.com/ryogrid/SamehadaScan/common"
	"github.com/ryogrid/SamehadaScan/errors"
	"github.com/ryogrid/SamehadaScan/storage/buffer"
	"github.com/ryogrid/SamehadaScan/storage/page"
	"github.com/ryogrid/SamehadaScan/types"
	"github.com/spaolacci/murmur3"
)

const ErrDuplicatedEntry = errors.Error("duplicated values on the same key are not allowed")
const ErrHashTableFull = errors.Error("hash table has no empty slot")
const ErrTooManyBuckets = errors.Error("number of buckets exceeds what header page can hold")

/**
 * Implementation of linear probing hash table that is backed by a buffer pool
 * manager. Non-unique keys are supported. Supports insert and delete.
 * A bucket is one block page. An entry whose home bucket is full spills
 * into the following buckets.
 */

// Limitation: current implementation contain BlockArraySize(252) * 1020 = 257,040 record info at most
type LinearProbeHashTable struct {
	headerPageId types.PageID
	numBuckets   uint64
	blockPageIds []types.PageID // copy of header page content. it does not change after creation
	bpm          *buffer.BufferPoolManager
	table_latch  common.ReaderWriterLatch
}

// NewLinearProbeHashTable creates hash table when headerPageId is types.InvalidPageID.
// Otherwise, it opens the table which has the header page.
func NewLinearProbeHashTable(bpm *buffer.BufferPoolManager, numBuckets int, headerPageId types.PageID) (*LinearProbeHashTable, error) {
	if numBuckets <= 0 || numBuckets > common.MaxNumBucketsOfHashIndex {
		return nil, fmt.Errorf("%d buckets: %w", numBuckets, ErrTooManyBuckets)
	}

	if headerPageId == types.InvalidPageID {
		header, err := bpm.NewPage()
		if err != nil {
			return nil, err
		}
		headerPage := (*page.HashTableHeaderPage)(unsafe.Pointer(header.Data()))

		headerPage.SetPageId(header.GetPageId())
		headerPage.SetSize(uint32(numBuckets * page.BlockArraySize))

		for i := 0; i < numBuckets; i++ {
			np, err := bpm.NewPage()
			if err != nil {
				unpinPage(bpm, header.GetPageId(), true)
				return nil, err
			}
			headerPage.AddBlockPageId(np.GetPageId())
			unpinPage(bpm, np.GetPageId(), true)
		}
		headerPageId = header.GetPageId()
		unpinPage(bpm, headerPageId, true)

		// on current not expandable HashTable impl
		// flush of header page is needed only creating time
		// because, content of header page is changed only creatting time
		bpm.FlushPage(headerPageId)
	}

	header, err := bpm.FetchPage(headerPageId)
	if err != nil {
		return nil, err
	}
	headerPage := (*page.HashTableHeaderPage)(unsafe.Pointer(header.Data()))
	blockPageIds := make([]types.PageID, 0, headerPage.NumBlocks())
	for i := uint64(0); i < headerPage.NumBlocks(); i++ {
		blockPageIds = append(blockPageIds, headerPage.GetBlockPageId(i))
	}
	unpinPage(bpm, headerPageId, false)

	return &LinearProbeHashTable{headerPageId, uint64(len(blockPageIds)), blockPageIds, bpm, common.NewRWLatch()}, nil
}

func (ht *LinearProbeHashTable) GetHeaderPageId() types.PageID {
	return ht.headerPageId
}

// NumBuckets is also the value GetNextHash of an exhausted bucket scan returns
func (ht *LinearProbeHashTable) NumBuckets() uint64 {
	return ht.numBuckets
}

func (ht *LinearProbeHashTable) GetValue(key []byte) ([]uint64, error) {
	ht.table_latch.RLock()
	defer ht.table_latch.RUnlock()

	hash := ht.hash(key)
	iterator, err := newHashTableIterator(ht, ht.homeBucket(hash), hash%page.BlockArraySize)
	if err != nil {
		return nil, err
	}
	defer iterator.release()

	result := []uint64{}
	for iterator.blockPage.IsOccupied(iterator.offset) { // stop the search and we find an empty spot
		if iterator.blockPage.IsReadable(iterator.offset) && iterator.blockPage.KeyAt(iterator.offset) == hash {
			result = append(result, iterator.blockPage.ValueAt(iterator.offset))
		}

		if wrapped, err := iterator.next(); err != nil {
			return nil, err
		} else if wrapped {
			break
		}
	}

	return result, nil
}

func (ht *LinearProbeHashTable) Insert(key []byte, value uint64) error {
	ht.table_latch.WLock()
	defer ht.table_latch.WUnlock()

	hash := ht.hash(key)
	iterator, err := newHashTableIterator(ht, ht.homeBucket(hash), hash%page.BlockArraySize)
	if err != nil {
		return err
	}
	defer iterator.release()

	// slot of a removed entry which can be reused
	var reuseBucket, reuseOffset uint64
	reuseFound := false
	for iterator.blockPage.IsOccupied(iterator.offset) {
		blockPage, offset := iterator.blockPage, iterator.offset
		if blockPage.IsReadable(offset) {
			if blockPage.KeyAt(offset) == hash && blockPage.ValueAt(offset) == value {
				return ErrDuplicatedEntry
			}
		} else if !reuseFound {
			reuseBucket, reuseOffset, reuseFound = iterator.bucket, offset, true
		}

		wrapped, err := iterator.next()
		if err != nil {
			return err
		}
		if wrapped {
			if !reuseFound {
				return ErrHashTableFull
			}
			break
		}
	}

	if reuseFound {
		if err := iterator.moveTo(reuseBucket, reuseOffset); err != nil {
			return err
		}
	}
	iterator.blockPage.Insert(iterator.offset, hash, value)
	iterator.isDirty = true
	return nil
}

// Remove deletes the entry of key and value. false is returned when it does not exist.
func (ht *LinearProbeHashTable) Remove(key []byte, value uint64) (bool, error) {
	ht.table_latch.WLock()
	defer ht.table_latch.WUnlock()

	hash := ht.hash(key)
	iterator, err := newHashTableIterator(ht, ht.homeBucket(hash), hash%page.BlockArraySize)
	if err != nil {
		return false, err
	}
	defer iterator.release()

	removed := false
	for iterator.blockPage.IsOccupied(iterator.offset) { // stop the search and we find an empty spot
		blockPage, offset := iterator.blockPage, iterator.offset
		if blockPage.IsReadable(offset) && blockPage.KeyAt(offset) == hash && blockPage.ValueAt(offset) == value {
			blockPage.Remove(offset)
			iterator.isDirty = true
			removed = true
		}

		if wrapped, err := iterator.next(); err != nil {
			return removed, err
		} else if wrapped {
			break
		}
	}

	return removed, nil
}

// Entries returns (bucket, value) of all live entries in bucket order
func (ht *LinearProbeHashTable) Entries() ([]pair.Pair[uint64, uint64], error) {
	ht.table_latch.RLock()
	defer ht.table_latch.RUnlock()

	ret := make([]pair.Pair[uint64, uint64], 0)
	for bucket := uint64(0); bucket < ht.numBuckets; bucket++ {
		blockPage, err := ht.fetchBlockPage(bucket)
		if err != nil {
			return nil, err
		}
		for offset := uint64(0); offset < page.BlockArraySize; offset++ {
			if blockPage.IsReadable(offset) {
				ret = append(ret, pair.Pair[uint64, uint64]{First: bucket, Second: blockPage.ValueAt(offset)})
			}
		}
		ht.unpinPage(ht.blockPageIds[bucket], false)
	}
	return ret, nil
}

// OpenBucketScan returns a cursor over all live entries in bucket order
func (ht *LinearProbeHashTable) OpenBucketScan() (*BucketScanIterator, error) {
	return newBucketScanIterator(ht)
}

// OpenKeyScan returns a cursor over the values inserted with key
func (ht *LinearProbeHashTable) OpenKeyScan(key []byte) (*KeyScanIterator, error) {
	return newKeyScanIterator(ht, key)
}

func (ht *LinearProbeHashTable) fetchBlockPage(bucket uint64) (*page.HashTableBlockPage, error) {
	pg, err := ht.bpm.FetchPage(ht.blockPageIds[bucket])
	if err != nil {
		common.ShPrintf(common.ERROR, "LinearProbeHashTable: fetch of bucket %d failed: %v\n", bucket, err)
		return nil, fmt.Errorf("bucket %d: %w", bucket, err)
	}
	return (*page.HashTableBlockPage)(unsafe.Pointer(pg.Data())), nil
}

func (ht *LinearProbeHashTable) unpinPage(pageId types.PageID, isDirty bool) {
	unpinPage(ht.bpm, pageId, isDirty)
}

// unpinPage logs the failure only. it means the pin was already released.
func unpinPage(bpm *buffer.BufferPoolManager, pageId types.PageID, isDirty bool) {
	if err := bpm.UnpinPage(pageId, isDirty); err != nil {
		common.ShPrintf(common.WARN, "LinearProbeHashTable: unpin of page %d failed: %v\n", pageId, err)
	}
}

func (ht *LinearProbeHashTable) homeBucket(hash uint64) uint64 {
	return hash % ht.numBuckets
}

func (ht *LinearProbeHashTable) hash(key []byte) uint64 {
	return murmur3.Sum64(key)
}
