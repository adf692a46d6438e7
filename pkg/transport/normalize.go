package transport

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// Normalize converts anything the model side hands back into a Value tree.
// Raw JSON goes through the order-preserving decoder, an existing Value
// passes through untouched, and native Go structures are coerced member by
// member. Normalize never fails for supported shapes; unsupported values
// degrade to their string form instead of leaking through.
func Normalize(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case json.RawMessage:
		return Decode(t)
	case []byte:
		return Decode(t)
	}
	return FromAny(v), nil
}

// FromAny walks an arbitrary Go value depth-first and coerces every node to
// a transport-safe shape: all numeric widths become Int or Float, slices and
// arrays become sequences, string-keyed maps and structs become keyed
// containers. Map keys are sorted since Go maps carry no order of their own;
// struct members keep declaration order.
func FromAny(v any) Value {
	if v == nil {
		return Null()
	}
	if tv, ok := v.(Value); ok {
		return tv
	}
	if n, ok := v.(json.Number); ok {
		return numberValue(n)
	}
	return fromReflect(reflect.ValueOf(v))
}

func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Invalid:
		return Null()
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return fromReflect(rv.Elem())
	case reflect.Bool:
		return BoolVal(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntVal(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return IntVal(int64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return FloatVal(rv.Float())
	case reflect.String:
		return StringVal(rv.String())
	case reflect.Slice, reflect.Array:
		elems := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elems[i] = fromReflect(rv.Index(i))
		}
		return Value{Kind: KindArray, Arr: elems}
	case reflect.Map:
		return fromMap(rv)
	case reflect.Struct:
		return fromStruct(rv)
	}
	// Channels, funcs, complex numbers carry no wire representation.
	// Render the textual form so conversion stays total.
	return StringVal(fmt.Sprintf("%v", rv.Interface()))
}

func fromMap(rv reflect.Value) Value {
	keys := rv.MapKeys()
	pairs := make([]Member, 0, len(keys))
	for _, k := range keys {
		var key string
		if k.Kind() == reflect.String {
			key = k.String()
		} else {
			key = fmt.Sprintf("%v", k.Interface())
		}
		pairs = append(pairs, Member{Key: key, Value: fromReflect(rv.MapIndex(k))})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	return Value{Kind: KindObject, Obj: pairs}
}

func fromStruct(rv reflect.Value) Value {
	rt := rv.Type()
	var members []Member
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		key := field.Name
		if tag, ok := field.Tag.Lookup("json"); ok {
			name, opts := parseJSONTag(tag)
			if name == "-" && opts == "" {
				continue
			}
			if name != "" {
				key = name
			}
		}
		members = append(members, Member{Key: key, Value: fromReflect(rv.Field(i))})
	}
	return Value{Kind: KindObject, Obj: members}
}

func parseJSONTag(tag string) (name, opts string) {
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			return tag[:i], tag[i+1:]
		}
	}
	return tag, ""
}
