// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package tuple

import (
	"fmt"
	"strings"

	"github.com/ryogrid/SamehadaScan/common"
	"github.com/ryogrid/SamehadaScan/errors"
	"github.com/ryogrid/SamehadaScan/storage/page"
	"github.com/ryogrid/SamehadaScan/storage/table/schema"
	"github.com/ryogrid/SamehadaScan/types"
)

const ErrMalformedTuple = errors.Error("tuple data does not match the schema")
const ErrTupleNotMaterialized = errors.Error("tuple has only its record id")

// TupleFetcher reads the record stored at rid. TableHeap implements it.
type TupleFetcher interface {
	GetTuple(rid *page.RID) (*Tuple, error)
}

/**
 * Tuple format:
 * ---------------------------------------------------------------------
 * | FIXED-SIZE or VARIED-SIZED OFFSET | PAYLOAD OF VARIED-SIZED FIELD |
 * ---------------------------------------------------------------------
 *
 * A tuple built by NewTupleFromRID carries no data. It only identifies the
 * record and must be resolved through a TupleFetcher before its values are read.
 */
type Tuple struct {
	schema *schema.Schema
	rid    *page.RID
	size   uint32
	data   []byte
}

// NewTupleFromBytes decodes a record read from a heap page against schema_.
// data is copied.
func NewTupleFromBytes(schema_ *schema.Schema, data []byte, rid *page.RID) (*Tuple, error) {
	if err := validate(schema_, data); err != nil {
		return nil, err
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Tuple{schema_, copyRID(rid), uint32(len(buf)), buf}, nil
}

// NewTupleFromRID returns a tuple which only knows where its record lives
func NewTupleFromRID(schema_ *schema.Schema, rid page.RID) *Tuple {
	return &Tuple{schema_, &rid, 0, nil}
}

// NewTupleFromSchema creates a new tuple based on input value
func NewTupleFromSchema(values []types.Value, schema_ *schema.Schema) *Tuple {
	common.SH_Assert(uint32(len(values)) == schema_.GetColumnCount(), "NewTupleFromSchema: value count differs from column count")

	// calculate tuple size considering varchar columns
	tupleSize := schema_.Length()
	for _, colIndex := range schema_.GetUnlinedColumns() {
		tupleSize += values[colIndex].Size()
	}
	tuple_ := &Tuple{schema: schema_}
	tuple_.size = tupleSize

	// allocate memory
	tuple_.data = make([]byte, tupleSize)

	// serialize each attribute base on the input value
	tupleEndOffset := schema_.Length()
	for i := uint32(0); i < schema_.GetColumnCount(); i++ {
		col := schema_.GetColumn(i)
		if col.IsInlined() {
			tuple_.Copy(col.GetOffset(), values[i].Serialize())
		} else {
			tuple_.Copy(col.GetOffset(), types.UInt32(tupleEndOffset).Serialize())
			tuple_.Copy(tupleEndOffset, values[i].Serialize())
			tupleEndOffset += values[i].Size()
		}
	}
	return tuple_
}

func validate(schema_ *schema.Schema, data []byte) error {
	if uint32(len(data)) < schema_.Length() {
		return fmt.Errorf("%d bytes for fixed part of %d bytes: %w", len(data), schema_.Length(), ErrMalformedTuple)
	}
	for i := uint32(0); i < schema_.GetColumnCount(); i++ {
		col := schema_.GetColumn(i)
		offset := col.GetOffset()
		if !col.IsInlined() {
			offset = uint32(types.NewUInt32FromBytes(data[offset : offset+col.FixedLength()]))
			if offset >= uint32(len(data)) {
				return fmt.Errorf("column %s points out of the record: %w", col.GetColumnName(), ErrMalformedTuple)
			}
		}
		if types.NewValueFromBytes(data[offset:], col.GetType()) == nil {
			return fmt.Errorf("column %s can not be decoded: %w", col.GetColumnName(), ErrMalformedTuple)
		}
	}
	return nil
}

func copyRID(rid *page.RID) *page.RID {
	if rid == nil {
		return nil
	}
	ret := *rid
	return &ret
}

// IsMaterialized is false for a tuple built from its record id only
func (t *Tuple) IsMaterialized() bool {
	return t.data != nil
}

// Resolve returns a tuple holding the record data.
// a materialized tuple is returned as is.
func (t *Tuple) Resolve(fetcher TupleFetcher) (*Tuple, error) {
	if t.IsMaterialized() {
		return t, nil
	}
	if t.rid == nil {
		return nil, ErrTupleNotMaterialized
	}
	return fetcher.GetTuple(t.rid)
}

func (t *Tuple) GetSchema() *schema.Schema {
	return t.schema
}

// GetValue decodes the value of column colIndex.
// caller must not call this on a tuple which is not materialized.
func (t *Tuple) GetValue(colIndex uint32) types.Value {
	common.SH_Assert(t.IsMaterialized(), "GetValue: tuple is not materialized")
	column := t.schema.GetColumn(colIndex)
	offset := column.GetOffset()
	if !column.IsInlined() {
		offset = uint32(types.NewUInt32FromBytes(t.data[offset : offset+column.FixedLength()]))
	}

	value := types.NewValueFromBytes(t.data[offset:], column.GetType())
	common.SH_Assert(value != nil, "GetValue: broken tuple data")
	return *value
}

// GetValues decodes all columns
func (t *Tuple) GetValues() []types.Value {
	ret := make([]types.Value, 0, t.schema.GetColumnCount())
	for i := uint32(0); i < t.schema.GetColumnCount(); i++ {
		ret = append(ret, t.GetValue(i))
	}
	return ret
}

func (t *Tuple) Size() uint32 {
	return t.size
}

func (t *Tuple) Data() []byte {
	return t.data
}

// GetRID returns nil for a tuple not yet stored
func (t *Tuple) GetRID() *page.RID {
	return t.rid
}

func (t *Tuple) SetRID(rid *page.RID) {
	t.rid = copyRID(rid)
}

func (t *Tuple) Copy(offset uint32, data []byte) {
	copy(t.data[offset:], data)
}

func (t *Tuple) String() string {
	if !t.IsMaterialized() {
		return fmt.Sprintf("<%v>", t.rid)
	}
	strs := make([]string, 0, t.schema.GetColumnCount())
	for _, val := range t.GetValues() {
		strs = append(strs, val.ToString())
	}
	return "(" + strings.Join(strs, ", ") + ")"
}
