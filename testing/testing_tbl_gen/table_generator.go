package testing_tbl_gen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ryogrid/SamehadaScan/samehada"
	"github.com/ryogrid/SamehadaScan/samehada/samehada_util"
	"github.com/ryogrid/SamehadaScan/storage/page"
	"github.com/ryogrid/SamehadaScan/storage/table/column"
	"github.com/ryogrid/SamehadaScan/storage/table/schema"
	"github.com/ryogrid/SamehadaScan/types"
)

type ColumnInsertMeta struct {
	/**
	 * Name of the column
	 */
	Name_ string
	/**
	 * Type of the column
	 */
	Type_ types.TypeID
	/**
	 * Whether the column has hash index
	 */
	HasIndex_ bool
	/**
	 * Distribution of values
	 */
	Dist_ int32
	/**
	 * min value of the column
	 */
	Min_ int32
	/**
	 * max value of the column. max length for Varchar
	 */
	Max_ int32
	/**
	 * Counter to generate serial data
	 */
	Serial_counter_ int32
}

type TableInsertMeta struct {
	/**
	 * Name of the table
	 */
	Name_ string
	/**
	 * Number of rows
	 */
	Num_rows_ uint32
	/**
	 * Columns
	 */
	Col_meta_ []*ColumnInsertMeta
}

const DistSerial int32 = 0
const DistUniform int32 = 1

const TEST1_SIZE uint32 = 1000
const TEST_VARLEN_SIZE uint32 = 10

func GenNumericValues(col_meta *ColumnInsertMeta, count uint32, rnd *rand.Rand) []types.Value {
	var values []types.Value
	if col_meta.Dist_ == DistSerial {
		for i := 0; i < int(count); i++ {
			values = append(values, types.NewInteger(col_meta.Serial_counter_))
			col_meta.Serial_counter_ += 1
		}
		return values
	}

	for i := 0; i < int(count); i++ {
		values = append(values, types.NewInteger(col_meta.Min_+rnd.Int31n(col_meta.Max_-col_meta.Min_+1)))
	}
	return values
}

func GenVarcharValues(col_meta *ColumnInsertMeta, count uint32) []types.Value {
	var values []types.Value
	for i := 0; i < int(count); i++ {
		if col_meta.Dist_ == DistSerial {
			values = append(values, types.NewVarchar(fmt.Sprintf("%s_%d", col_meta.Name_, col_meta.Serial_counter_)))
			col_meta.Serial_counter_ += 1
		} else {
			values = append(values, types.NewVarchar(samehada_util.GetRandomStr(col_meta.Max_)))
		}
	}
	return values
}

func MakeValues(col_meta *ColumnInsertMeta, count uint32, rnd *rand.Rand) []types.Value {
	switch col_meta.Type_ {
	case types.Integer:
		return GenNumericValues(col_meta, count, rnd)
	case types.Varchar:
		return GenVarcharValues(col_meta, count)
	default:
		panic("Not yet implemented")
	}
}

// MakeSchema builds the schema the generated rows follow
func MakeSchema(table_meta *TableInsertMeta) *schema.Schema {
	cols := make([]*column.Column, 0, len(table_meta.Col_meta_))
	for _, col_meta := range table_meta.Col_meta_ {
		cols = append(cols, column.NewColumn(col_meta.Name_, col_meta.Type_, col_meta.HasIndex_))
	}
	return schema.NewSchema(cols)
}

// FillTable inserts generated rows into the heap and the indexes of table
func FillTable(table *samehada.Table, table_meta *TableInsertMeta, seed int64) ([]page.RID, error) {
	rnd := rand.New(rand.NewSource(seed))
	rids := make([]page.RID, 0, table_meta.Num_rows_)
	var num_inserted uint32 = 0
	var batch_size uint32 = 128
	for num_inserted < table_meta.Num_rows_ {
		var values [][]types.Value
		var num_values uint32 = uint32(math.Min(float64(batch_size), float64(table_meta.Num_rows_-num_inserted)))
		for _, col_meta := range table_meta.Col_meta_ {
			values = append(values, MakeValues(col_meta, num_values, rnd))
		}

		for i := 0; i < int(num_values); i++ {
			var entry []types.Value
			for idx := range table_meta.Col_meta_ {
				entry = append(entry, values[idx][i])
			}
			rid, err := table.InsertRow(entry)
			if err != nil {
				return rids, fmt.Errorf("FillTable: %w", err)
			}
			rids = append(rids, *rid)
			num_inserted++
		}
	}
	return rids, nil
}

// GenerateTestTable creates table "test_1" whose colB has hash index and fills it
func GenerateTestTable(shi *samehada.SamehadaInstance, numRows uint32) (*samehada.Table, []page.RID, error) {
	tableMeta := &TableInsertMeta{"test_1",
		numRows,
		[]*ColumnInsertMeta{
			{"colA", types.Integer, false, DistSerial, 0, 0, 0},
			{"colB", types.Integer, true, DistUniform, 0, 9, 0},
			{"colC", types.Varchar, false, DistUniform, 0, int32(TEST_VARLEN_SIZE), 0},
		}}
	table, err := shi.CreateTable(tableMeta.Name_, MakeSchema(tableMeta))
	if err != nil {
		return nil, nil, err
	}
	rids, err := FillTable(table, tableMeta, 1)
	return table, rids, err
}
