package samehada

import (
	"testing"

	"github.com/ryogrid/SamehadaScan/storage/page"
	"github.com/ryogrid/SamehadaScan/storage/table/column"
	"github.com/ryogrid/SamehadaScan/storage/table/schema"
	"github.com/ryogrid/SamehadaScan/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTableAndRows(t *testing.T) {
	shi := NewSamehadaInstanceForTesting()
	defer shi.Shutdown(true)

	sc := schema.NewSchema([]*column.Column{
		column.NewColumn("id", types.Integer, false),
		column.NewColumn("name", types.Varchar, true),
	})
	table, err := shi.CreateTable("people", sc)
	require.NoError(t, err)
	assert.Same(t, table, shi.GetTable("people"))
	assert.Nil(t, shi.GetTable("nothing"))

	_, err = shi.CreateTable("people", sc)
	assert.ErrorIs(t, err, ErrTableExists)

	assert.Nil(t, table.GetIndex(0))
	idx := table.GetIndexByColumnName("name")
	require.NotNil(t, idx)
	assert.Equal(t, "people_name", idx.GetMetadata().GetName())
	assert.Nil(t, table.GetIndexByColumnName("nothing"))

	rid1, err := table.InsertRow([]types.Value{types.NewInteger(1), types.NewVarchar("alice")})
	require.NoError(t, err)
	rid2, err := table.InsertRow([]types.Value{types.NewInteger(2), types.NewVarchar("alice")})
	require.NoError(t, err)

	rids, err := idx.ScanKey(types.NewSearchKey(types.NewVarchar("alice")))
	require.NoError(t, err)
	assert.ElementsMatch(t, []page.RID{*rid1, *rid2}, rids)

	require.NoError(t, table.DeleteRow(*rid1))
	rids, err = idx.ScanKey(types.NewSearchKey(types.NewVarchar("alice")))
	require.NoError(t, err)
	assert.Len(t, rids, 1)
	assert.Equal(t, *rid2, rids[0])

	cnt, err := table.GetTableHeap().GetRecordCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cnt)
	assert.Equal(t, 0, shi.GetBufferPoolManager().GetPinnedFrameNum())
}
