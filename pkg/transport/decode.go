package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Decode parses raw JSON into a Value tree. It walks the token stream
// directly so object members keep the order they had on the wire, which a
// map-based unmarshal would lose.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}

	// Trailing garbage after the document is a malformed response.
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("decode: unexpected data after document")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, fmt.Errorf("decode: %w", err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return Value{}, fmt.Errorf("decode: unexpected delimiter %q", t.String())
	case bool:
		return BoolVal(t), nil
	case string:
		return StringVal(t), nil
	case json.Number:
		return numberValue(t), nil
	case nil:
		return Null(), nil
	}
	return Value{}, fmt.Errorf("decode: unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder) (Value, error) {
	var members []Member
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("decode object key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("decode: object key is not a string: %v", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		members = append(members, Member{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return Value{}, fmt.Errorf("decode object end: %w", err)
	}
	return Value{Kind: KindObject, Obj: members}, nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	var elems []Value
	for dec.More() {
		el, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, el)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return Value{}, fmt.Errorf("decode array end: %w", err)
	}
	return Value{Kind: KindArray, Arr: elems}, nil
}

func numberValue(n json.Number) Value {
	if i, err := n.Int64(); err == nil {
		return IntVal(i)
	}
	if f, err := n.Float64(); err == nil {
		return FloatVal(f)
	}
	// Out-of-range literals degrade to their textual form rather than fail.
	return StringVal(n.String())
}
