package disk

import (
	"testing"

	"github.com/ryogrid/SamehadaScan/common"
	"github.com/ryogrid/SamehadaScan/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReadWritePage(t *testing.T, dm DiskManager) {
	data := make([]byte, common.PageSize)
	buffer := make([]byte, common.PageSize)

	copy(data, "A test string.")

	// reading a page which was never written fails
	assert.Error(t, dm.ReadPage(0, buffer))

	require.NoError(t, dm.WritePage(0, data))
	require.NoError(t, dm.ReadPage(0, buffer))
	assert.Equal(t, data, buffer)

	memset(buffer, 0)
	copy(data, "Another test string.")

	require.NoError(t, dm.WritePage(5, data))
	require.NoError(t, dm.ReadPage(5, buffer))
	assert.Equal(t, data, buffer)

	assert.Equal(t, uint64(2), dm.GetNumWrites())
	assert.Equal(t, int64(6*common.PageSize), dm.Size())
}

func TestReadWritePage(t *testing.T) {
	dm := NewDiskManagerTest()
	defer dm.ShutDown()

	testReadWritePage(t, dm)
}

func TestReadWritePageOnVirtualDisk(t *testing.T) {
	dm := NewVirtualDiskManagerImpl("test.db")
	defer dm.ShutDown()

	testReadWritePage(t, dm)
}

func TestDeallocatedPageIsNotReadable(t *testing.T) {
	dm := NewVirtualDiskManagerImpl("test.db")
	defer dm.ShutDown()

	data := make([]byte, common.PageSize)
	pageID := dm.AllocatePage()
	require.NoError(t, dm.WritePage(pageID, data))

	dm.DeallocatePage(pageID)
	assert.ErrorIs(t, dm.ReadPage(pageID, data), types.DeallocatedPageErr)

	// space of the deallocated page is reused
	reused := dm.AllocatePage()
	copy(data, "reused")
	require.NoError(t, dm.WritePage(reused, data))
	buffer := make([]byte, common.PageSize)
	require.NoError(t, dm.ReadPage(reused, buffer))
	assert.Equal(t, data, buffer)
	assert.Equal(t, int64(common.PageSize), dm.Size())
}

func memset(buffer []byte, value int) {
	for i := range buffer {
		buffer[i] = byte(value)
	}
}
