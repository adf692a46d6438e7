package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind discriminates the closed set of transport-safe value shapes.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Value is one node of a normalized result tree. Only primitive numbers,
// text, booleans, sequences and keyed containers can appear; model-runtime
// handles never survive normalization.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	Arr   []Value
	Obj   []Member
}

// Member is a single key/value pair of an object. Objects keep their
// members as a slice so wire order is preserved end to end.
type Member struct {
	Key   string
	Value Value
}

func Null() Value               { return Value{Kind: KindNull} }
func BoolVal(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func IntVal(n int64) Value      { return Value{Kind: KindInt, Int: n} }
func FloatVal(f float64) Value  { return Value{Kind: KindFloat, Float: f} }
func StringVal(s string) Value  { return Value{Kind: KindString, Str: s} }
func ArrayVal(vs ...Value) Value {
	return Value{Kind: KindArray, Arr: vs}
}
func ObjectVal(ms ...Member) Value {
	return Value{Kind: KindObject, Obj: ms}
}

// Get returns the member with the given key of an object value.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.Obj {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Len returns the element count for arrays and the member count for objects.
func (v Value) Len() int {
	switch v.Kind {
	case KindArray:
		return len(v.Arr)
	case KindObject:
		return len(v.Obj)
	}
	return 0
}

// Equal reports deep equality of two value trees, member order included.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindInt:
		return v.Int == o.Int
	case KindFloat:
		return v.Float == o.Float
	case KindString:
		return v.Str == o.Str
	case KindArray:
		if len(v.Arr) != len(o.Arr) {
			return false
		}
		for i := range v.Arr {
			if !v.Arr[i].Equal(o.Arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.Obj) != len(o.Obj) {
			return false
		}
		for i := range v.Obj {
			if v.Obj[i].Key != o.Obj[i].Key || !v.Obj[i].Value.Equal(o.Obj[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON renders the value tree; object members appear in stored order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.Kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.Int, 10))
	case KindFloat:
		b, err := json.Marshal(v.Float)
		if err != nil {
			return fmt.Errorf("encode float: %w", err)
		}
		buf.Write(b)
	case KindString:
		b, err := json.Marshal(v.Str)
		if err != nil {
			return fmt.Errorf("encode string: %w", err)
		}
		buf.Write(b)
	case KindArray:
		buf.WriteByte('[')
		for i, el := range v.Arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := el.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.Obj {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(m.Key)
			if err != nil {
				return fmt.Errorf("encode key %q: %w", m.Key, err)
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("encode: unknown kind %d", v.Kind)
	}
	return nil
}
