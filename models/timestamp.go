// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the only serialized form of a Timestamp: fixed width,
// millisecond precision, always UTC. Values in this layout order the same
// lexically and chronologically.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// inputLayouts are accepted by ParseTimestamp in addition to TimestampLayout.
// Layouts without a zone are read as UTC (SQLite CURRENT_TIMESTAMP).
var inputLayouts = []string{
	TimestampLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp is a UTC instant truncated to milliseconds. All sync decisions
// that depend on time compare Timestamps, never raw strings.
type Timestamp struct {
	t time.Time
}

// NewTimestamp normalizes t to UTC with millisecond precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t.UTC().Truncate(time.Millisecond)}
}

// Now returns the current time as a Timestamp.
func Now() Timestamp { return NewTimestamp(time.Now()) }

// ParseTimestamp parses any of the accepted layouts and normalizes the
// result to UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, ErrEmptyTimestamp
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return NewTimestamp(t), nil
		}
	}
	return Timestamp{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// TimestampFromValue parses a Value holding a timestamp string.
func TimestampFromValue(v Value) (Timestamp, error) {
	s, ok := v.Str()
	if !ok {
		if v.IsNull() {
			return Timestamp{}, ErrEmptyTimestamp
		}
		return Timestamp{}, fmt.Errorf("%w: %s value", ErrInvalidTimestamp, v.Kind())
	}
	return ParseTimestamp(s)
}

// Time returns the underlying UTC time.
func (t Timestamp) Time() time.Time { return t.t }

// IsZero reports whether t is unset.
func (t Timestamp) IsZero() bool { return t.t.IsZero() }

// After reports whether t is strictly later than o.
func (t Timestamp) After(o Timestamp) bool { return t.t.After(o.t) }

// Before reports whether t is strictly earlier than o.
func (t Timestamp) Before(o Timestamp) bool { return t.t.Before(o.t) }

// Equal reports whether both denote the same instant.
func (t Timestamp) Equal(o Timestamp) bool { return t.t.Equal(o.t) }

// String renders the canonical form, or "" for the zero Timestamp.
func (t Timestamp) String() string {
	if t.t.IsZero() {
		return ""
	}
	return t.t.Format(TimestampLayout)
}

// Value returns the canonical form wrapped as a string Value.
func (t Timestamp) Value() Value { return StringValue(t.String()) }

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler. An empty string or null yields
// the zero Timestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(*s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
