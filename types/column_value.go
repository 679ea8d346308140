// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package types

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
)

// A value is an class that represents a view over SQL data stored in
// some materialized state. All values have a type and comparison functions,
// and implement other type-specific functionality.
type Value struct {
	valueType TypeID
	isNull    bool
	integer   *int32
	boolean   *bool
	varchar   *string
	float     *float32
}

func NewInteger(value int32) Value {
	return Value{Integer, false, &value, nil, nil, nil}
}

func NewFloat(value float32) Value {
	return Value{Float, false, nil, nil, nil, &value}
}

func NewBoolean(value bool) Value {
	return Value{Boolean, false, nil, &value, nil, nil}
}

func NewVarchar(value string) Value {
	return Value{Varchar, false, nil, nil, &value, nil}
}

// NewNull returns NULL value of valueType.
// value field correspoding to value type is initialized to default value
func NewNull(valueType TypeID) Value {
	switch valueType {
	case Integer:
		return Value{Integer, true, new(int32), nil, nil, nil}
	case Float:
		return Value{Float, true, nil, nil, nil, new(float32)}
	case Varchar:
		return Value{Varchar, true, nil, nil, new(string), nil}
	case Boolean:
		return Value{Boolean, true, nil, new(bool), nil, nil}
	}
	panic("not implemented")
}

// NewValueFromBytes is used for deserialization.
// nil is returned when data is too short for valueType.
func NewValueFromBytes(data []byte, valueType TypeID) (ret *Value) {
	buf := bytes.NewBuffer(data)
	isNull := new(bool)
	if err := binary.Read(buf, binary.LittleEndian, isNull); err != nil {
		return nil
	}

	var val Value
	switch valueType {
	case Integer:
		v := new(int32)
		if err := binary.Read(buf, binary.LittleEndian, v); err != nil {
			return nil
		}
		val = NewInteger(*v)
	case Float:
		v := new(float32)
		if err := binary.Read(buf, binary.LittleEndian, v); err != nil {
			return nil
		}
		val = NewFloat(*v)
	case Varchar:
		length := new(uint16)
		if err := binary.Read(buf, binary.LittleEndian, length); err != nil {
			return nil
		}
		if len(data) < int(*length)+(1+2) {
			return nil
		}
		val = NewVarchar(string(data[1+2 : int(*length)+(1+2)]))
	case Boolean:
		v := new(bool)
		if err := binary.Read(buf, binary.LittleEndian, v); err != nil {
			return nil
		}
		val = NewBoolean(*v)
	default:
		fmt.Printf("%v is illegal\n", valueType)
		panic("")
	}
	val.isNull = *isNull
	return &val
}

func (v Value) CompareEquals(right Value) bool {
	if v.IsNull() && right.IsNull() {
		return true
	} else if v.IsNull() || right.IsNull() {
		return false
	}
	if v.valueType != right.valueType {
		return false
	}

	switch v.valueType {
	case Integer:
		return *v.integer == *right.integer
	case Float:
		return *v.float == *right.float
	case Varchar:
		return *v.varchar == *right.varchar
	case Boolean:
		return *v.boolean == *right.boolean
	}
	return false
}

func (v Value) CompareNotEquals(right Value) bool {
	return !v.CompareEquals(right)
}

func (v Value) Serialize() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, v.isNull)
	switch v.valueType {
	case Integer:
		binary.Write(buf, binary.LittleEndian, v.ToInteger())
	case Float:
		binary.Write(buf, binary.LittleEndian, v.ToFloat())
	case Varchar:
		binary.Write(buf, binary.LittleEndian, uint16(len(v.ToVarchar())))
		buf.WriteString(v.ToVarchar())
	case Boolean:
		binary.Write(buf, binary.LittleEndian, v.ToBoolean())
	default:
		return []byte{}
	}
	return buf.Bytes()
}

// Size returns the size in bytes that the type will occupy inside the tuple
func (v Value) Size() uint32 {
	// all type occupies the whether NULL or not + 1 byte for the info storage
	switch v.valueType {
	case Integer, Float, Boolean:
		return v.valueType.Size()
	case Varchar:
		return uint32(len(*v.varchar)) + 1 + 2 // varchar occupies the size of the string + 2 bytes for length storage
	}
	panic("not implemented")
}

// if you use this to get column value
// NULL value check is needed in general
func (v Value) ToBoolean() bool {
	return *v.boolean
}

// if you use this to get column value
// NULL value check is needed in general
func (v Value) ToInteger() int32 {
	return *v.integer
}

// if you use this to get column value
// NULL value check is needed in general
func (v Value) ToFloat() float32 {
	return *v.float
}

// if you use this to get column value
// NULL value check is needed in general
func (v Value) ToVarchar() string {
	return *v.varchar
}

func (v Value) ValueType() TypeID {
	return v.valueType
}

func (v Value) IsNull() bool {
	return v.isNull
}

func (v Value) ToString() string {
	if v.isNull {
		return "NULL"
	}
	switch v.valueType {
	case Integer:
		return strconv.Itoa(int(*v.integer))
	case Float:
		return strconv.FormatFloat(float64(*v.float), 'f', -1, 32)
	case Varchar:
		return *v.varchar
	case Boolean:
		return strconv.FormatBool(*v.boolean)
	}
	return ""
}
