// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// ValueKind enumerates the scalar types a synced column may hold.
type ValueKind uint8

const (
	// KindNull is SQL NULL / JSON null.
	KindNull ValueKind = iota
	// KindInt is a 64-bit signed integer.
	KindInt
	// KindFloat is a 64-bit IEEE float.
	KindFloat
	// KindBool is a boolean.
	KindBool
	// KindString is a UTF-8 string.
	KindString
)

// String returns the lowercase name of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a closed tagged union over the scalar types that can appear in a
// synced row. The zero Value is null.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	b    bool
	s    string
}

// NullValue returns a null Value.
func NullValue() Value { return Value{} }

// IntValue wraps an int64.
func IntValue(v int64) Value { return Value{kind: KindInt, i: v} }

// FloatValue wraps a float64.
func FloatValue(v float64) Value { return Value{kind: KindFloat, f: v} }

// BoolValue wraps a bool.
func BoolValue(v bool) Value { return Value{kind: KindBool, b: v} }

// StringValue wraps a string.
func StringValue(v string) Value { return Value{kind: KindString, s: v} }

// FromAny converts a value produced by database/sql drivers (or decoded by
// encoding/json) into a Value. time.Time is rendered in the canonical
// timestamp format.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return NullValue(), nil
	case int64:
		return IntValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case float64:
		return FloatValue(x), nil
	case float32:
		return FloatValue(float64(x)), nil
	case bool:
		return BoolValue(x), nil
	case string:
		return StringValue(x), nil
	case []byte:
		return StringValue(string(x)), nil
	case time.Time:
		return StringValue(NewTimestamp(x).String()), nil
	case json.Number:
		return valueFromNumber(x)
	case Value:
		return x, nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

// Kind reports the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the integer payload and whether v holds an integer.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Float returns the float payload and whether v holds a float.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// Bool returns the bool payload and whether v holds a bool.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Str returns the string payload and whether v holds a string.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Any returns the payload as a plain Go value suitable for database/sql
// query arguments.
func (v Value) Any() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindString:
		return v.s
	default:
		return nil
	}
}

// Equal reports whether both values hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	default:
		return true
	}
}

// Key renders v as a string usable as a set key. Values of different kinds
// never collide: Int 9 and String "9" produce different keys.
func (v Value) Key() string {
	switch v.kind {
	case KindInt:
		return "i:" + strconv.FormatInt(v.i, 10)
	case KindFloat:
		return "f:" + strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return "b:" + strconv.FormatBool(v.b)
	case KindString:
		return "s:" + v.s
	default:
		return "null"
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.s
	default:
		return "null"
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil, fmt.Errorf("%w: non-finite float", ErrUnsupportedValue)
		}
		out := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !bytes.ContainsAny([]byte(out), ".eE") {
			// keep floats distinguishable from ints on the wire
			out += ".0"
		}
		return []byte(out), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindString:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler. Only scalars are accepted.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	parsed, err := valueFromToken(tok)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func valueFromToken(tok json.Token) (Value, error) {
	switch x := tok.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(x), nil
	case string:
		return StringValue(x), nil
	case json.Number:
		return valueFromNumber(x)
	default:
		return Value{}, fmt.Errorf("%w: %v", ErrNonScalarValue, tok)
	}
}

func valueFromNumber(n json.Number) (Value, error) {
	raw := n.String()
	if !bytes.ContainsAny([]byte(raw), ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return IntValue(i), nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %s", ErrUnsupportedValue, raw)
	}
	return FloatValue(f), nil
}
