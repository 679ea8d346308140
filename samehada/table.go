package samehada

import (
	"fmt"

	"github.com/ryogrid/SamehadaScan/common"
	"github.com/ryogrid/SamehadaScan/storage/access"
	"github.com/ryogrid/SamehadaScan/storage/buffer"
	"github.com/ryogrid/SamehadaScan/storage/index"
	"github.com/ryogrid/SamehadaScan/storage/page"
	"github.com/ryogrid/SamehadaScan/storage/table/schema"
	"github.com/ryogrid/SamehadaScan/storage/tuple"
	"github.com/ryogrid/SamehadaScan/types"
)

// Table bundles a heap file and the hash indexes on its columns
type Table struct {
	name    string
	schema  *schema.Schema
	heap    *access.TableHeap
	indexes []*index.LinearProbeHashTableIndex // index of column i. nil when the column has no index
}

func newTable(name string, schema_ *schema.Schema, bpm *buffer.BufferPoolManager, numBuckets int) (*Table, error) {
	heap, err := access.NewTableHeap(bpm, schema_)
	if err != nil {
		return nil, err
	}

	indexes := make([]*index.LinearProbeHashTableIndex, schema_.GetColumnCount())
	for i, col := range schema_.GetColumns() {
		if !col.HasIndex() {
			continue
		}
		metadata := index.NewIndexMetadata(name+"_"+col.GetColumnName(), name, schema_, uint32(i))
		if indexes[i], err = index.NewLinearProbeHashTableIndex(metadata, bpm, numBuckets); err != nil {
			return nil, err
		}
	}
	return &Table{name, schema_, heap, indexes}, nil
}

func (t *Table) GetName() string {
	return t.name
}

func (t *Table) GetSchema() *schema.Schema {
	return t.schema
}

func (t *Table) GetTableHeap() *access.TableHeap {
	return t.heap
}

// GetIndex returns nil when column colIdx has no index
func (t *Table) GetIndex(colIdx uint32) *index.LinearProbeHashTableIndex {
	if colIdx >= uint32(len(t.indexes)) {
		return nil
	}
	return t.indexes[colIdx]
}

// GetIndexByColumnName returns nil when the column does not exist or has no index
func (t *Table) GetIndexByColumnName(colName string) *index.LinearProbeHashTableIndex {
	return t.GetIndex(t.schema.GetColIndex(colName))
}

// InsertRow writes the row to the heap file and every index of the table.
// When one of them fails, what was already written is removed again.
func (t *Table) InsertRow(values []types.Value) (*page.RID, error) {
	tuple_ := tuple.NewTupleFromSchema(values, t.schema)
	rid, err := t.heap.InsertTuple(tuple_)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", t.name, err)
	}
	for i, idx := range t.indexes {
		if idx == nil {
			continue
		}
		if err := idx.InsertEntry(tuple_, *rid); err != nil {
			t.deleteIndexEntries(tuple_, *rid, i)
			if derr := t.heap.MarkDelete(rid); derr != nil {
				common.ShPrintf(common.ERROR, "Table::InsertRow: record %v of %s can not be removed: %v\n", *rid, t.name, derr)
			}
			return nil, fmt.Errorf("insert into %s: %w", idx.GetMetadata().GetName(), err)
		}
	}
	return rid, nil
}

// DeleteRow removes the index entries of the record and marks it deleted.
// When one of them fails, the removed entries are inserted again.
func (t *Table) DeleteRow(rid page.RID) error {
	tuple_, err := t.heap.GetTuple(&rid)
	if err != nil {
		return err
	}
	for i, idx := range t.indexes {
		if idx == nil {
			continue
		}
		if err := idx.DeleteEntry(tuple_, rid); err != nil {
			t.insertIndexEntries(tuple_, rid, i)
			return fmt.Errorf("delete from %s: %w", idx.GetMetadata().GetName(), err)
		}
	}
	if err := t.heap.MarkDelete(&rid); err != nil {
		t.insertIndexEntries(tuple_, rid, len(t.indexes))
		return fmt.Errorf("delete from %s: %w", t.name, err)
	}
	return nil
}

// deleteIndexEntries removes the entries of rid from the indexes before index upTo
func (t *Table) deleteIndexEntries(tuple_ *tuple.Tuple, rid page.RID, upTo int) {
	for _, idx := range t.indexes[:upTo] {
		if idx == nil {
			continue
		}
		if err := idx.DeleteEntry(tuple_, rid); err != nil {
			common.ShPrintf(common.ERROR, "Table: entry %v of %s can not be removed: %v\n", rid, idx.GetMetadata().GetName(), err)
		}
	}
}

// insertIndexEntries puts the entries of rid back to the indexes before index upTo
func (t *Table) insertIndexEntries(tuple_ *tuple.Tuple, rid page.RID, upTo int) {
	for _, idx := range t.indexes[:upTo] {
		if idx == nil {
			continue
		}
		if err := idx.InsertEntry(tuple_, rid); err != nil {
			common.ShPrintf(common.ERROR, "Table: entry %v of %s can not be restored: %v\n", rid, idx.GetMetadata().GetName(), err)
		}
	}
}
