// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Column is a single named cell of a Row.
type Column struct {
	Name  string
	Value Value
}

// Row is an ordered association list of column name to scalar value. It is a
// transient copy of a store row held only during export and merge.
//
// On the wire a Row is a JSON object whose keys keep the column order.
type Row []Column

// NewRow builds a Row from alternating name/value pairs. It panics on an odd
// argument count; it is intended for literals in tests and fixtures.
func NewRow(pairs ...any) Row {
	if len(pairs)%2 != 0 {
		panic("models.NewRow: odd number of arguments")
	}
	row := make(Row, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("models.NewRow: column name at %d is %T", i, pairs[i]))
		}
		v, err := FromAny(pairs[i+1])
		if err != nil {
			panic(err)
		}
		row = append(row, Column{Name: name, Value: v})
	}
	return row
}

// Get returns the value of the named column.
func (r Row) Get(name string) (Value, bool) {
	for _, c := range r {
		if c.Name == name {
			return c.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether the row carries the named column.
func (r Row) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Set replaces the value of an existing column or appends a new one.
func (r Row) Set(name string, v Value) Row {
	for i := range r {
		if r[i].Name == name {
			r[i].Value = v
			return r
		}
	}
	return append(r, Column{Name: name, Value: v})
}

// Without returns a copy of the row minus the named columns.
func (r Row) Without(names ...string) Row {
	out := make(Row, 0, len(r))
	for _, c := range r {
		skip := false
		for _, n := range names {
			if c.Name == n {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, c)
		}
	}
	return out
}

// Names returns the column names in order.
func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, c := range r {
		names[i] = c.Name
	}
	return names
}

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Equal reports whether both rows have the same set of columns with equal
// values, regardless of column order.
func (r Row) Equal(o Row) bool {
	if len(r) != len(o) {
		return false
	}
	for _, c := range r {
		ov, ok := o.Get(c.Name)
		if !ok || !ov.Equal(c.Value) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the row as a JSON object in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := c.Value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping key order. Nested arrays or
// objects are rejected.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: row must be an object", ErrNonScalarValue)
	}

	row := make(Row, 0, 8)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("%w: column name %v", ErrNonScalarValue, keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		v, err := valueFromToken(valTok)
		if err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}
		row = row.Set(name, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = row
	return nil
}
