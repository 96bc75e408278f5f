// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "canonical", in: "2024-02-01T09:00:00.000Z", want: "2024-02-01T09:00:00.000Z"},
		{name: "rfc3339 utc", in: "2024-02-01T09:00:00Z", want: "2024-02-01T09:00:00.000Z"},
		{name: "offset normalized to utc", in: "2024-02-01T11:00:00+02:00", want: "2024-02-01T09:00:00.000Z"},
		{name: "nanoseconds truncated", in: "2024-02-01T09:00:00.123456789Z", want: "2024-02-01T09:00:00.123Z"},
		{name: "sqlite current_timestamp", in: "2024-02-01 09:00:00", want: "2024-02-01T09:00:00.000Z"},
		{name: "sqlite with fraction", in: "2024-02-01 09:00:00.5", want: "2024-02-01T09:00:00.500Z"},
		{name: "date only", in: "2024-02-01", want: "2024-02-01T00:00:00.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ts.String())
		})
	}
}

func TestParseTimestamp_Errors(t *testing.T) {
	_, err := ParseTimestamp("  ")
	assert.ErrorIs(t, err, ErrEmptyTimestamp)

	_, err = ParseTimestamp("yesterday")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)

	_, err = TimestampFromValue(NullValue())
	assert.ErrorIs(t, err, ErrEmptyTimestamp)

	_, err = TimestampFromValue(IntValue(1))
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestTimestamp_ComparesInstantsNotStrings(t *testing.T) {
	a, err := ParseTimestamp("2024-02-01T10:30:00+02:00")
	require.NoError(t, err)
	b, err := ParseTimestamp("2024-02-01T09:00:00Z")
	require.NoError(t, err)

	// "10:30+02:00" sorts after "09:00Z" as text but is earlier in time.
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Equal(b))
}

func TestTimestamp_JSON(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-01T09:00:00.000Z"`, string(data))

	var back Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, ts.Equal(back))

	var zero Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &zero))
	assert.True(t, zero.IsZero())
	require.NoError(t, json.Unmarshal([]byte(`""`), &zero))
	assert.True(t, zero.IsZero())
	assert.Equal(t, "", zero.String())
}
