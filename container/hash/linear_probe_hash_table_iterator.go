// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package hash

import (
	"fmt"

	"github.com/ryogrid/SamehadaScan/errors"
	"github.com/ryogrid/SamehadaScan/storage/page"
)

const ErrCursorExhausted = errors.Error("cursor has no more entries")

// hashTableIterator walks the probe sequence from a start slot.
// the block page it is on is pinned until release is called.
type hashTableIterator struct {
	ht          *LinearProbeHashTable
	startBucket uint64
	startOffset uint64
	bucket      uint64
	offset      uint64
	blockPage   *page.HashTableBlockPage
	isDirty     bool
}

func newHashTableIterator(ht *LinearProbeHashTable, bucket uint64, offset uint64) (*hashTableIterator, error) {
	blockPage, err := ht.fetchBlockPage(bucket)
	if err != nil {
		return nil, err
	}
	return &hashTableIterator{ht, bucket, offset, bucket, offset, blockPage, false}, nil
}

// next moves to the following slot. the slot after the last one of the last bucket is
// the first one of bucket 0. wrapped is true when it comes back to the start slot.
func (itr *hashTableIterator) next() (wrapped bool, err error) {
	bucket, offset := itr.bucket, itr.offset+1
	// reached end of the current block page, we need to go to the next one
	if offset >= page.BlockArraySize {
		bucket++
		offset = 0

		// we need to go to the first block
		if bucket >= itr.ht.numBuckets {
			bucket = 0
		}
	}

	if err := itr.moveTo(bucket, offset); err != nil {
		return false, err
	}
	return itr.bucket == itr.startBucket && itr.offset == itr.startOffset, nil
}

// moveTo does not change position when fetch of the block page fails
func (itr *hashTableIterator) moveTo(bucket uint64, offset uint64) error {
	if bucket != itr.bucket {
		blockPage, err := itr.ht.fetchBlockPage(bucket)
		if err != nil {
			return err
		}
		itr.ht.unpinPage(itr.ht.blockPageIds[itr.bucket], itr.isDirty)
		itr.bucket, itr.blockPage, itr.isDirty = bucket, blockPage, false
	}
	itr.offset = offset
	return nil
}

func (itr *hashTableIterator) release() {
	if itr.blockPage == nil {
		return
	}
	itr.ht.unpinPage(itr.ht.blockPageIds[itr.bucket], itr.isDirty)
	itr.blockPage = nil
}

// BucketScanIterator visits every live entry bucket by bucket.
// It is positioned on the next entry and keeps its block page pinned.
type BucketScanIterator struct {
	ht        *LinearProbeHashTable
	bucket    uint64 // bucket of the next entry. ht.numBuckets when exhausted
	offset    uint64
	blockPage *page.HashTableBlockPage
}

func newBucketScanIterator(ht *LinearProbeHashTable) (*BucketScanIterator, error) {
	ht.table_latch.RLock()
	defer ht.table_latch.RUnlock()

	blockPage, err := ht.fetchBlockPage(0)
	if err != nil {
		return nil, err
	}
	it := &BucketScanIterator{ht, 0, 0, blockPage}
	if err := it.seek(0); err != nil {
		ht.unpinPage(ht.blockPageIds[0], false)
		return nil, err
	}
	return it, nil
}

// seek finds the first live entry at or after offset of the current bucket.
// the current block page stays pinned when an error is returned.
func (it *BucketScanIterator) seek(offset uint64) error {
	bucket, blockPage := it.bucket, it.blockPage
	for {
		for ; offset < page.BlockArraySize; offset++ {
			if blockPage.IsReadable(offset) {
				it.moveTo(bucket, offset, blockPage)
				return nil
			}
		}

		if bucket+1 >= it.ht.numBuckets {
			if bucket != it.bucket {
				it.ht.unpinPage(it.ht.blockPageIds[bucket], false)
			}
			it.moveTo(it.ht.numBuckets, 0, nil)
			return nil
		}

		nextPage, err := it.ht.fetchBlockPage(bucket + 1)
		if bucket != it.bucket {
			it.ht.unpinPage(it.ht.blockPageIds[bucket], false)
		}
		if err != nil {
			return err
		}
		bucket, blockPage, offset = bucket+1, nextPage, 0
	}
}

// moveTo releases the block page the cursor leaves
func (it *BucketScanIterator) moveTo(bucket uint64, offset uint64, blockPage *page.HashTableBlockPage) {
	if bucket != it.bucket && it.blockPage != nil {
		it.ht.unpinPage(it.ht.blockPageIds[it.bucket], false)
	}
	it.bucket, it.offset, it.blockPage = bucket, offset, blockPage
}

func (it *BucketScanIterator) HasNext() bool {
	return it.blockPage != nil
}

// GetNext returns the value of the next entry
func (it *BucketScanIterator) GetNext() (uint64, error) {
	if !it.HasNext() {
		return 0, ErrCursorExhausted
	}
	it.ht.table_latch.RLock()
	defer it.ht.table_latch.RUnlock()

	value := it.blockPage.ValueAt(it.offset)
	if err := it.seek(it.offset + 1); err != nil {
		return 0, err
	}
	return value, nil
}

// GetNextHash returns the bucket of the entry GetNext returns.
// NumBuckets of the table is returned when no entry remains.
func (it *BucketScanIterator) GetNextHash() uint64 {
	return it.bucket
}

func (it *BucketScanIterator) Close() error {
	if it.blockPage == nil {
		return nil
	}
	pageId := it.ht.blockPageIds[it.bucket]
	it.bucket, it.offset, it.blockPage = it.ht.numBuckets, 0, nil
	return it.ht.bpm.UnpinPage(pageId, false)
}

func (it *BucketScanIterator) String() string {
	return fmt.Sprintf("BucketScanIterator(header=%d, buckets=%d, nextBucket=%d)", it.ht.headerPageId, it.ht.numBuckets, it.bucket)
}

// KeyScanIterator visits the values inserted with one key by following its probe sequence.
type KeyScanIterator struct {
	ht    *LinearProbeHashTable
	hash  uint64
	probe *hashTableIterator // on the next matching slot. nil when exhausted
}

func newKeyScanIterator(ht *LinearProbeHashTable, key []byte) (*KeyScanIterator, error) {
	ht.table_latch.RLock()
	defer ht.table_latch.RUnlock()

	hash := ht.hash(key)
	probe, err := newHashTableIterator(ht, ht.homeBucket(hash), hash%page.BlockArraySize)
	if err != nil {
		return nil, err
	}
	it := &KeyScanIterator{ht, hash, probe}
	if err := it.seek(false); err != nil {
		probe.release()
		return nil, err
	}
	return it, nil
}

// seek stops on the next slot holding the key. the chain ends at an empty slot
// or when the probe comes back to its start.
func (it *KeyScanIterator) seek(skipCurrent bool) error {
	probe := it.probe
	wrapped := false
	if skipCurrent {
		var err error
		if wrapped, err = probe.next(); err != nil {
			return err
		}
	}
	for !wrapped && probe.blockPage.IsOccupied(probe.offset) {
		if probe.blockPage.IsReadable(probe.offset) && probe.blockPage.KeyAt(probe.offset) == it.hash {
			return nil
		}
		var err error
		if wrapped, err = probe.next(); err != nil {
			return err
		}
	}
	probe.release()
	it.probe = nil
	return nil
}

func (it *KeyScanIterator) HasNext() bool {
	return it.probe != nil
}

// GetNext returns the next value of the key
func (it *KeyScanIterator) GetNext() (uint64, error) {
	if !it.HasNext() {
		return 0, ErrCursorExhausted
	}
	it.ht.table_latch.RLock()
	defer it.ht.table_latch.RUnlock()

	value := it.probe.blockPage.ValueAt(it.probe.offset)
	if err := it.seek(true); err != nil {
		return 0, err
	}
	return value, nil
}

func (it *KeyScanIterator) Close() error {
	if it.probe == nil {
		return nil
	}
	it.probe.release()
	it.probe = nil
	return nil
}

func (it *KeyScanIterator) String() string {
	if it.probe == nil {
		return fmt.Sprintf("KeyScanIterator(header=%d, hash=%#x, exhausted)", it.ht.headerPageId, it.hash)
	}
	return fmt.Sprintf("KeyScanIterator(header=%d, hash=%#x, bucket=%d)", it.ht.headerPageId, it.hash, it.probe.bucket)
}
