// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{name: "nil", in: nil, want: NullValue()},
		{name: "int64", in: int64(9), want: IntValue(9)},
		{name: "int", in: 9, want: IntValue(9)},
		{name: "float", in: 1.5, want: FloatValue(1.5)},
		{name: "bool", in: true, want: BoolValue(true)},
		{name: "string", in: "wire", want: StringValue("wire")},
		{name: "bytes", in: []byte("12/2 romex"), want: StringValue("12/2 romex")},
		{
			name: "time is canonical",
			in:   time.Date(2024, 2, 1, 11, 0, 0, 123456789, time.FixedZone("EET", 2*3600)),
			want: StringValue("2024-02-01T09:00:00.123Z"),
		},
		{name: "json number int", in: json.Number("42"), want: IntValue(42)},
		{name: "json number float", in: json.Number("4.25"), want: FloatValue(4.25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}

	_, err := FromAny(struct{}{})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestValue_KeyDistinguishesKinds(t *testing.T) {
	assert.NotEqual(t, IntValue(9).Key(), StringValue("9").Key())
	assert.NotEqual(t, NullValue().Key(), StringValue("null").Key())
	assert.Equal(t, IntValue(9).Key(), IntValue(9).Key())
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, NullValue().Equal(Value{}))
	assert.False(t, IntValue(1).Equal(FloatValue(1)))
	assert.True(t, FloatValue(math.NaN()).Equal(FloatValue(math.NaN())))
	assert.False(t, StringValue("a").Equal(StringValue("b")))
}

func TestValue_JSON(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		wire string
	}{
		{name: "null", v: NullValue(), wire: "null"},
		{name: "int", v: IntValue(-3), wire: "-3"},
		{name: "whole float keeps its kind", v: FloatValue(2), wire: "2.0"},
		{name: "float", v: FloatValue(0.5), wire: "0.5"},
		{name: "bool", v: BoolValue(false), wire: "false"},
		{name: "string", v: StringValue(`say "hi"`), wire: `"say \"hi\""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.wire, string(data))

			var back Value
			require.NoError(t, json.Unmarshal(data, &back))
			assert.True(t, tt.v.Equal(back))
		})
	}
}

func TestValue_MarshalRejectsNonFinite(t *testing.T) {
	_, err := FloatValue(math.Inf(1)).MarshalJSON()
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestValue_UnmarshalRejectsNested(t *testing.T) {
	var v Value
	assert.ErrorIs(t, json.Unmarshal([]byte(`[1,2]`), &v), ErrNonScalarValue)
}
