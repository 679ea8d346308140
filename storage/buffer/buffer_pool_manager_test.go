package buffer

import (
	"crypto/rand"
	"testing"

	"github.com/ryogrid/SamehadaScan/common"
	"github.com/ryogrid/SamehadaScan/storage/disk"
	"github.com/ryogrid/SamehadaScan/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryData(t *testing.T) {
	poolSize := uint32(10)

	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(poolSize, dm)

	page0, err := bpm.NewPage()
	require.NoError(t, err)

	// Scenario: The buffer pool is empty. We should be able to create a new page.
	assert.Equal(t, types.PageID(0), page0.GetPageId())

	// Generate random binary data
	randomBinaryData := make([]byte, common.PageSize)
	rand.Read(randomBinaryData)

	// Insert terminal characters both in the middle and at end
	randomBinaryData[common.PageSize/2] = '0'
	randomBinaryData[common.PageSize-1] = '0'

	var fixedRandomBinaryData [common.PageSize]byte
	copy(fixedRandomBinaryData[:], randomBinaryData[:common.PageSize])

	// Scenario: Once we have a page, we should be able to read and write content.
	page0.Copy(0, randomBinaryData)
	assert.Equal(t, fixedRandomBinaryData, *page0.Data())

	// Scenario: We should be able to create new pages until we fill up the buffer pool.
	for i := uint32(1); i < poolSize; i++ {
		p, err := bpm.NewPage()
		require.NoError(t, err)
		assert.Equal(t, types.PageID(i), p.GetPageId())
	}

	// Scenario: Once the buffer pool is full, we should not be able to create any new pages.
	for i := poolSize; i < poolSize*2; i++ {
		p, err := bpm.NewPage()
		assert.Nil(t, p)
		assert.ErrorIs(t, err, ErrBufferPoolFull)
	}

	// Scenario: After unpinning pages {0, 1, 2, 3, 4} and pinning another 4 new pages,
	// there would still be one cache frame left for reading page 0.
	for i := 0; i < 5; i++ {
		require.NoError(t, bpm.UnpinPage(types.PageID(i), true))
		bpm.FlushPage(types.PageID(i))
	}
	for i := 0; i < 4; i++ {
		p, err := bpm.NewPage()
		require.NoError(t, err)
		require.NoError(t, bpm.UnpinPage(p.GetPageId(), false))
	}

	// Scenario: We should be able to fetch the data we wrote a while ago.
	page0, err = bpm.FetchPage(types.PageID(0))
	require.NoError(t, err)
	assert.Equal(t, fixedRandomBinaryData, *page0.Data())
	assert.NoError(t, bpm.UnpinPage(types.PageID(0), true))
}

func TestSample(t *testing.T) {
	poolSize := uint32(10)

	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(poolSize, dm)

	page0, err := bpm.NewPage()
	require.NoError(t, err)

	// Scenario: The buffer pool is empty. We should be able to create a new page.
	assert.Equal(t, types.PageID(0), page0.GetPageId())

	// Scenario: Once we have a page, we should be able to read and write content.
	page0.Copy(0, []byte("Hello"))
	assert.Equal(t, [common.PageSize]byte{'H', 'e', 'l', 'l', 'o'}, *page0.Data())

	// Scenario: We should be able to create new pages until we fill up the buffer pool.
	for i := uint32(1); i < poolSize; i++ {
		p, err := bpm.NewPage()
		require.NoError(t, err)
		assert.Equal(t, types.PageID(i), p.GetPageId())
	}
	assert.Equal(t, int(poolSize), bpm.GetPinnedFrameNum())

	// Scenario: After unpinning pages {0, 1, 2, 3, 4} and pinning another 4 new pages,
	// there would still be one cache frame left for reading page 0.
	for i := 0; i < 5; i++ {
		require.NoError(t, bpm.UnpinPage(types.PageID(i), true))
		bpm.FlushPage(types.PageID(i))
	}
	for i := 0; i < 4; i++ {
		_, err := bpm.NewPage()
		require.NoError(t, err)
	}
	// Scenario: We should be able to fetch the data we wrote a while ago.
	page0, err = bpm.FetchPage(types.PageID(0))
	require.NoError(t, err)
	assert.Equal(t, [common.PageSize]byte{'H', 'e', 'l', 'l', 'o'}, *page0.Data())

	// Scenario: If we unpin page 0 and then make a new page, all the buffer pages should
	// now be pinned. Fetching page 0 should fail.
	require.NoError(t, bpm.UnpinPage(types.PageID(0), true))

	p, err := bpm.NewPage()
	require.NoError(t, err)
	assert.Equal(t, types.PageID(14), p.GetPageId())
	_, err = bpm.NewPage()
	assert.ErrorIs(t, err, ErrBufferPoolFull)
	_, err = bpm.FetchPage(types.PageID(0))
	assert.ErrorIs(t, err, ErrBufferPoolFull)
}

func TestUnpinAndDelete(t *testing.T) {
	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := NewBufferPoolManager(4, dm)

	p, err := bpm.NewPage()
	require.NoError(t, err)
	pageID := p.GetPageId()

	// pinned twice
	_, err = bpm.FetchPage(pageID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), bpm.GetPinCount(pageID))
	assert.ErrorIs(t, bpm.DeletePage(pageID), ErrPagePinned)

	require.NoError(t, bpm.UnpinPage(pageID, true))
	require.NoError(t, bpm.UnpinPage(pageID, false))
	assert.ErrorIs(t, bpm.UnpinPage(pageID, false), ErrPageNotPinned)
	assert.Equal(t, 0, bpm.GetPinnedFrameNum())

	require.NoError(t, bpm.DeletePage(pageID))
	assert.Equal(t, int32(-1), bpm.GetPinCount(pageID))
	assert.ErrorIs(t, bpm.UnpinPage(pageID, false), ErrPageNotFound)

	// read of deallocated page fails and the frame is given back
	_, err = bpm.FetchPage(pageID)
	assert.Error(t, err)
	for i := 0; i < 4; i++ {
		_, err := bpm.NewPage()
		require.NoError(t, err)
	}
}
