package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar date wire format.
const DateLayout = "2006-01-02"

// Date is a calendar date that accepts either "2006-01-02" or an RFC 3339 timestamp on the wire.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON writes the date as "2006-01-02", or null when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON reads "2006-01-02", an RFC 3339 timestamp, or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("date %q: %w", raw, err)
	}
	d.Time = t
	return nil
}
