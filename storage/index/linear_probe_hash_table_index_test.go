package index

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
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

func newTestIndex(t *testing.T) (*LinearProbeHashTableIndex, *schema.Schema, *buffer.BufferPoolManager) {
	dm := disk.NewDiskManagerTest()
	t.Cleanup(dm.ShutDown)
	bpm := buffer.NewBufferPoolManager(10, dm)

	sc := schema.NewSchema([]*column.Column{
		column.NewColumn("id", types.Integer, false),
		column.NewColumn("name", types.Varchar, true),
	})
	metadata := NewIndexMetadata("name_idx", "people", sc, 1)
	idx, err := NewLinearProbeHashTableIndex(metadata, bpm, 4)
	require.NoError(t, err)
	return idx, sc, bpm
}

func TestIndexMetadata(t *testing.T) {
	idx, sc, _ := newTestIndex(t)
	md := idx.GetMetadata()

	assert.Equal(t, "name_idx", md.GetName())
	assert.Equal(t, "people", md.GetTableName())
	assert.Equal(t, uint32(1), md.GetKeyAttr())
	assert.Same(t, sc, md.GetTupleSchema())
	assert.Equal(t, "(name:VARCHAR)", md.GetKeySchema().String())
	// tuple schema offsets are untouched
	assert.Equal(t, types.Integer.Size(), sc.GetColumn(1).GetOffset())
}

func TestHashIndexInsertScanDelete(t *testing.T) {
	idx, sc, bpm := newTestIndex(t)

	k1 := tuple.NewTupleFromSchema([]types.Value{types.NewInteger(1), types.NewVarchar("K1")}, sc)
	k2 := tuple.NewTupleFromSchema([]types.Value{types.NewInteger(2), types.NewVarchar("K2")}, sc)
	k1b := tuple.NewTupleFromSchema([]types.Value{types.NewInteger(3), types.NewVarchar("K1")}, sc)
	r1, r2, r3 := page.NewRID(0, 0), page.NewRID(0, 1), page.NewRID(1, 0)

	require.NoError(t, idx.InsertEntry(k1, r1))
	require.NoError(t, idx.InsertEntry(k2, r2))
	require.NoError(t, idx.InsertEntry(k1b, r3))

	key1 := types.NewSearchKey(types.NewVarchar("K1"))
	rids, err := idx.ScanKey(key1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []page.RID{r1, r3}, rids)

	kit, err := idx.OpenKeyScan(key1)
	require.NoError(t, err)
	got := mapset.NewSet[page.RID]()
	for kit.HasNext() {
		rid, err := kit.GetNext()
		require.NoError(t, err)
		got.Add(rid)
	}
	require.NoError(t, kit.Close())
	assert.True(t, mapset.NewSet(r1, r3).Equal(got))

	sit, err := idx.OpenScan()
	require.NoError(t, err)
	all := mapset.NewSet[page.RID]()
	for sit.HasNext() {
		rid, err := sit.GetNext()
		require.NoError(t, err)
		all.Add(rid)
	}
	assert.Equal(t, idx.NumBuckets(), sit.GetNextHash())
	require.NoError(t, sit.Close())
	assert.True(t, mapset.NewSet(r1, r2, r3).Equal(all))

	entries, err := idx.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	require.NoError(t, idx.DeleteEntry(k1, r1))
	rids, err = idx.ScanKey(key1)
	require.NoError(t, err)
	assert.Equal(t, []page.RID{r3}, rids)
	// not existing entry
	assert.NoError(t, idx.DeleteEntry(k1, r1))

	assert.Equal(t, 0, bpm.GetPinnedFrameNum())
}
