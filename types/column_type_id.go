// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package types

type TypeID int

// Every possible SQL type GetPageId
const (
	Invalid TypeID = iota
	Boolean
	Tinyint
	Smallint
	Integer
	BigInt
	Decimal
	Float
	Varchar
	Timestamp
	Null
)

// Size is the fixed length of a value of this type inside a tuple (null flag included).
// Varchar returns 0 because its payload lives after the fixed-length part.
func (t TypeID) Size() uint32 {
	switch t {
	case Integer:
		return 1 + 4
	case Float:
		return 1 + 4
	case Boolean:
		return 1 + 1
	}
	return 0
}

func (t TypeID) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Integer:
		return "INTEGER"
	case Float:
		return "FLOAT"
	case Varchar:
		return "VARCHAR"
	case Null:
		return "NULL"
	}
	return "INVALID"
}
