package types

// SearchKey is the immutable key used for equality lookups on a hash index.
// It holds the serialized form of a Value, so two keys built from equal
// values are equal with == and can be used as map keys.
type SearchKey struct {
	keyType TypeID
	encoded string
}

func NewSearchKey(val Value) SearchKey {
	return SearchKey{val.ValueType(), string(val.Serialize())}
}

// NewSearchKeyFromString makes a Varchar key. It is also the canonical way
// to turn the textual form of an identity into a key.
func NewSearchKeyFromString(str string) SearchKey {
	return NewSearchKey(NewVarchar(str))
}

func (k SearchKey) KeyType() TypeID {
	return k.keyType
}

// Bytes returns the serialized key. The index hashes exactly these bytes.
func (k SearchKey) Bytes() []byte {
	return []byte(k.encoded)
}

func (k SearchKey) Value() *Value {
	if k.keyType == Invalid {
		return nil
	}
	return NewValueFromBytes([]byte(k.encoded), k.keyType)
}

func (k SearchKey) IsValid() bool {
	return k.keyType != Invalid
}

func (k SearchKey) String() string {
	val := k.Value()
	if val == nil {
		return "<invalid key>"
	}
	return val.ToString()
}
