// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package access

import (
	"testing"

	"github.com/ryogrid/SamehadaScan/storage/buffer"
	"github.com/ryogrid/SamehadaScan/storage/disk"
	"github.com/ryogrid/SamehadaScan/storage/page"
	"github.com/ryogrid/SamehadaScan/storage/table/column"
	"github.com/ryogrid/SamehadaScan/storage/table/schema"
	"github.com/ryogrid/SamehadaScan/storage/tuple"
	"github.com/ryogrid/SamehadaScan/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a record of this schema takes 10 bytes and a slot takes 8 bytes,
// so a page holds 226 records
const recordsPerPage = 226

func newTwoIntHeap(t *testing.T, poolSize uint32) (*TableHeap, *buffer.BufferPoolManager, *schema.Schema) {
	dm := disk.NewDiskManagerTest()
	t.Cleanup(dm.ShutDown)
	bpm := buffer.NewBufferPoolManager(poolSize, dm)

	columnA := column.NewColumn("a", types.Integer, false)
	columnB := column.NewColumn("b", types.Integer, false)
	sc := schema.NewSchema([]*column.Column{columnA, columnB})

	th, err := NewTableHeap(bpm, sc)
	require.NoError(t, err)
	return th, bpm, sc
}

func insertTwoIntRows(t *testing.T, th *TableHeap, sc *schema.Schema, n int) []page.RID {
	rids := make([]page.RID, 0, n)
	for i := 0; i < n; i++ {
		row := make([]types.Value, 0)
		row = append(row, types.NewInteger(int32(i*2)))
		row = append(row, types.NewInteger(int32((i+1)*2)))

		rid, err := th.InsertTuple(tuple.NewTupleFromSchema(row, sc))
		require.NoError(t, err)
		rids = append(rids, *rid)
	}
	return rids
}

func TestTableHeap(t *testing.T) {
	th, bpm, sc := newTwoIntHeap(t, 10)

	// inserting 1000 tuples, means that we need 5 pages to insert all tuples
	rids := insertTwoIntRows(t, th, sc, 1000)
	bpm.FlushAllPages()
	assert.Equal(t, 0, bpm.GetPinnedFrameNum())

	for i := 0; i < 1000; i++ {
		assert.Equal(t, page.NewRID(types.PageID(i/recordsPerPage), uint32(i%recordsPerPage)), rids[i])
		tuple_, err := th.GetTuple(&rids[i])
		require.NoError(t, err)
		assert.Equal(t, int32(i*2), tuple_.GetValue(0).ToInteger())
		assert.Equal(t, int32((i+1)*2), tuple_.GetValue(1).ToInteger())
		assert.Equal(t, rids[i], *tuple_.GetRID())
	}

	cnt, err := th.GetRecordCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), cnt)

	// let's iterate through the heap using the cursor
	it, err := th.OpenScan()
	require.NoError(t, err)
	i := int32(0)
	for it.HasNext() {
		var rid page.RID
		data, err := it.GetNext(&rid)
		require.NoError(t, err)
		tuple_, err := tuple.NewTupleFromBytes(sc, data, &rid)
		require.NoError(t, err)
		assert.Equal(t, i*2, tuple_.GetValue(0).ToInteger())
		assert.Equal(t, (i+1)*2, tuple_.GetValue(1).ToInteger())
		assert.Equal(t, rids[i], rid)
		// only the page of the next record is pinned
		assert.LessOrEqual(t, bpm.GetPinnedFrameNum(), 1)
		i++
	}
	assert.Equal(t, int32(1000), i)
	assert.Equal(t, 0, bpm.GetPinnedFrameNum())

	_, err = it.GetNext(new(page.RID))
	assert.ErrorIs(t, err, ErrCursorExhausted)
	assert.NoError(t, it.Close())
}

func TestTableHeapScanSkipsDeleted(t *testing.T) {
	th, bpm, sc := newTwoIntHeap(t, 10)
	rids := insertTwoIntRows(t, th, sc, 2*recordsPerPage+10)

	// whole first page and every odd record of the others
	deleted := make(map[page.RID]bool)
	for i, rid := range rids {
		if i < recordsPerPage || i%2 == 1 {
			require.NoError(t, th.MarkDelete(&rids[i]))
			deleted[rid] = true
		}
	}
	assert.ErrorIs(t, th.MarkDelete(&rids[0]), ErrRecordNotFound)
	_, err := th.GetTuple(&rids[0])
	assert.ErrorIs(t, err, ErrRecordNotFound)

	it, err := th.OpenScan()
	require.NoError(t, err)
	defer it.Close()
	assert.Equal(t, 1, bpm.GetPinnedFrameNum())

	scanned := 0
	for it.HasNext() {
		var rid page.RID
		_, err := it.GetNext(&rid)
		require.NoError(t, err)
		assert.False(t, deleted[rid])
		scanned++
	}
	cnt, err := th.GetRecordCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(scanned), cnt)
	assert.Equal(t, len(rids)-len(deleted), scanned)
}

func TestTableHeapEmptyScanAndClose(t *testing.T) {
	th, bpm, _ := newTwoIntHeap(t, 4)

	it, err := th.OpenScan()
	require.NoError(t, err)
	assert.False(t, it.HasNext())
	assert.Equal(t, 0, bpm.GetPinnedFrameNum())
	assert.NoError(t, it.Close())
	assert.NoError(t, it.Close())
}

func TestTableHeapCloseReleasesPin(t *testing.T) {
	th, bpm, sc := newTwoIntHeap(t, 4)
	insertTwoIntRows(t, th, sc, 3)

	it, err := th.OpenScan()
	require.NoError(t, err)
	assert.True(t, it.HasNext())
	assert.Equal(t, int32(1), bpm.GetPinCount(th.GetFirstPageId()))
	require.NoError(t, it.Close())
	assert.Equal(t, int32(0), bpm.GetPinCount(th.GetFirstPageId()))
	assert.False(t, it.HasNext())
}

func TestTableHeapUpdate(t *testing.T) {
	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := buffer.NewBufferPoolManager(10, dm)
	sc := schema.NewSchema([]*column.Column{
		column.NewColumn("id", types.Integer, false),
		column.NewColumn("name", types.Varchar, false),
	})
	th, err := NewTableHeap(bpm, sc)
	require.NoError(t, err)

	rid1, err := th.InsertTuple(tuple.NewTupleFromSchema([]types.Value{types.NewInteger(1), types.NewVarchar("first")}, sc))
	require.NoError(t, err)
	rid2, err := th.InsertTuple(tuple.NewTupleFromSchema([]types.Value{types.NewInteger(2), types.NewVarchar("second")}, sc))
	require.NoError(t, err)

	// in place
	newRID, err := th.UpdateTuple(tuple.NewTupleFromSchema([]types.Value{types.NewInteger(1), types.NewVarchar("first record, longer")}, sc), *rid1)
	require.NoError(t, err)
	assert.Equal(t, *rid1, *newRID)

	got1, err := th.GetTuple(rid1)
	require.NoError(t, err)
	assert.Equal(t, "first record, longer", got1.GetValue(1).ToVarchar())
	got2, err := th.GetTuple(rid2)
	require.NoError(t, err)
	assert.Equal(t, "second", got2.GetValue(1).ToVarchar())

	// fill the first page so that growing a record moves it
	for {
		rid, err := th.InsertTuple(tuple.NewTupleFromSchema([]types.Value{types.NewInteger(3), types.NewVarchar("filler")}, sc))
		require.NoError(t, err)
		if rid.GetPageId() != th.GetFirstPageId() {
			break
		}
	}
	big := make([]byte, 200)
	for i := range big {
		big[i] = 'x'
	}
	movedRID, err := th.UpdateTuple(tuple.NewTupleFromSchema([]types.Value{types.NewInteger(2), types.NewVarchar(string(big))}, sc), *rid2)
	require.NoError(t, err)
	assert.NotEqual(t, *rid2, *movedRID)
	_, err = th.GetTuple(rid2)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	moved, err := th.GetTuple(movedRID)
	require.NoError(t, err)
	assert.Equal(t, string(big), moved.GetValue(1).ToVarchar())
	assert.Equal(t, 0, bpm.GetPinnedFrameNum())
}

func TestTableHeapUpdateTooLargeKeepsRecord(t *testing.T) {
	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := buffer.NewBufferPoolManager(10, dm)
	sc := schema.NewSchema([]*column.Column{
		column.NewColumn("id", types.Integer, false),
		column.NewColumn("name", types.Varchar, false),
	})
	th, err := NewTableHeap(bpm, sc)
	require.NoError(t, err)

	rid, err := th.InsertTuple(tuple.NewTupleFromSchema([]types.Value{types.NewInteger(1), types.NewVarchar("x")}, sc))
	require.NoError(t, err)

	// larger than a page can ever hold
	huge := make([]byte, 5000)
	for i := range huge {
		huge[i] = 'y'
	}
	newRID, err := th.UpdateTuple(tuple.NewTupleFromSchema([]types.Value{types.NewInteger(1), types.NewVarchar(string(huge))}, sc), *rid)
	assert.ErrorIs(t, err, ErrNotEnoughSpace)
	assert.Nil(t, newRID)

	got, err := th.GetTuple(rid)
	require.NoError(t, err)
	assert.Equal(t, "x", got.GetValue(1).ToVarchar())
	cnt, err := th.GetRecordCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cnt)
	assert.Equal(t, 0, bpm.GetPinnedFrameNum())
}

func TestUnpinOfReleasedTablePage(t *testing.T) {
	th, bpm, sc := newTwoIntHeap(t, 4)
	insertTwoIntRows(t, th, sc, 3)
	require.Equal(t, int32(0), bpm.GetPinCount(th.GetFirstPageId()))

	// a second release is only logged and does not drive the pin count negative
	assert.NotPanics(t, func() { th.unpinPage(th.GetFirstPageId(), false) })
	assert.Equal(t, int32(0), bpm.GetPinCount(th.GetFirstPageId()))

	it, err := th.OpenScan()
	require.NoError(t, err)
	assert.Equal(t, int32(1), bpm.GetPinCount(th.GetFirstPageId()))
	require.NoError(t, it.Close())
}
