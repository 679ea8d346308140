package index

import (
	"fmt"

	"github.com/ryogrid/SamehadaScan/storage/page"
	"github.com/ryogrid/SamehadaScan/storage/table/column"
	"github.com/ryogrid/SamehadaScan/storage/table/schema"
	"github.com/ryogrid/SamehadaScan/storage/tuple"
	"github.com/ryogrid/SamehadaScan/types"
)

/**
 * IndexMetadata - Holds metadata of an index object
 *
 * The metadata object maintains the tuple schema and key attribute of an
 * index, since the external callers does not know the actual structure of
 * the index key, so it is the index's responsibility to maintain such a
 * mapping relation and does the conversion between tuple key and index key
 */
type IndexMetadata struct {
	name        string
	tableName   string
	keyAttr     uint32 // column index of the key in tuple schema
	tupleSchema *schema.Schema
	keySchema   *schema.Schema
}

func NewIndexMetadata(indexName string, tableName string, tupleSchema *schema.Schema, keyAttr uint32) *IndexMetadata {
	keyCol := tupleSchema.GetColumn(keyAttr)
	// key schema has its own column object because NewSchema rewrites offsets
	keySchema := schema.NewSchema([]*column.Column{column.NewColumn(keyCol.GetColumnName(), keyCol.GetType(), true)})
	return &IndexMetadata{indexName, tableName, keyAttr, tupleSchema, keySchema}
}

func (im *IndexMetadata) GetName() string      { return im.name }
func (im *IndexMetadata) GetTableName() string { return im.tableName }

// GetKeySchema returns a schema object that represents the indexed key
func (im *IndexMetadata) GetKeySchema() *schema.Schema { return im.keySchema }

func (im *IndexMetadata) GetTupleSchema() *schema.Schema { return im.tupleSchema }

// GetKeyAttr returns the mapping relation between indexed column and base table column
func (im *IndexMetadata) GetKeyAttr() uint32 { return im.keyAttr }

// KeyFromTuple builds the search key of a tuple of the base table
func (im *IndexMetadata) KeyFromTuple(tuple_ *tuple.Tuple) types.SearchKey {
	return types.NewSearchKey(tuple_.GetValue(im.keyAttr))
}

func (im *IndexMetadata) String() string {
	return fmt.Sprintf("IndexMetadata[Name = %s, Type = Hash, Table name = %s] :: %s", im.name, im.tableName, im.keySchema)
}

// Index is the point modification and lookup surface shared by index implementations
type Index interface {
	GetMetadata() *IndexMetadata
	// designed for secondary indexes.
	InsertEntry(tuple_ *tuple.Tuple, rid page.RID) error
	// delete the index entry linked to given tuple
	DeleteEntry(tuple_ *tuple.Tuple, rid page.RID) error
	ScanKey(key types.SearchKey) ([]page.RID, error)
}
