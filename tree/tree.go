// Package tree provides a tagged JSON-shaped value type with a recursive
// structural mutator, a monotone complexity scorer, and a lossy
// bidirectional mapping to the native models.JSONValue type. The internal
// numeric domain is deliberately narrow (unsigned integers only); richer
// numbers are exercised through the grammar path instead.
package tree

// Kind tags the variant held by a Value.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// Value is a tagged tree value. Exactly one payload field is meaningful for
// a given Kind. Object members are an ordered list and keys need not be
// unique at this layer; deduplication happens in the mapping to the native
// type.
type Value struct {
	Kind    Kind
	Bool    bool
	Num     uint64
	Str     string
	Items   []Value
	Members []Member
}

// Member is one object entry.
type Member struct {
	Key   string
	Value Value
}

// NullValue returns the null value.
func NullValue() Value {
	return Value{Kind: Null}
}

// BoolValue returns a boolean value.
func BoolValue(b bool) Value {
	return Value{Kind: Bool, Bool: b}
}

// NumberValue returns a number value. The domain is unsigned integers so
// every target deserializer accepts the payload.
func NumberValue(n uint64) Value {
	return Value{Kind: Number, Num: n}
}

// StringValue returns a string value.
func StringValue(s string) Value {
	return Value{Kind: String, Str: s}
}

// ArrayValue returns an array value.
func ArrayValue(items ...Value) Value {
	return Value{Kind: Array, Items: items}
}

// ObjectValue returns an object value.
func ObjectValue(members ...Member) Value {
	return Value{Kind: Object, Members: members}
}

// Clone deep-copies a value, so a retained corpus entry is never mutated
// through an alias.
func (v Value) Clone() Value {
	out := v
	if v.Items != nil {
		out.Items = make([]Value, len(v.Items))
		for i, item := range v.Items {
			out.Items[i] = item.Clone()
		}
	}
	if v.Members != nil {
		out.Members = make([]Member, len(v.Members))
		for i, m := range v.Members {
			out.Members[i] = Member{Key: m.Key, Value: m.Value.Clone()}
		}
	}
	return out
}
