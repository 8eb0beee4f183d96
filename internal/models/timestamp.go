package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// The backend serializes timestamps in two shapes depending on which code path
// produced them: an ISO-8601 string (with or without a zone offset) or a Java
// LocalDateTime array [year, month, day, hour, minute, second, nanos]. Both
// shapes must normalize at the JSON boundary; nothing past this file is allowed
// to branch on wire shape.

// FlexTime is a time.Time that unmarshals from either timestamp shape.
// Array and zone-less values are anchored in UTC so that equal instants
// compare equal regardless of which shape delivered them.
type FlexTime struct {
	time.Time
}

// NewFlexTime wraps t as a FlexTime.
func NewFlexTime(t time.Time) FlexTime {
	return FlexTime{Time: t}
}

var stringLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (f *FlexTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		f.Time = time.Time{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		for _, layout := range stringLayouts {
			t, err := time.ParseInLocation(layout, s, time.UTC)
			if err == nil {
				f.Time = t.UTC()
				return nil
			}
		}
		return fmt.Errorf("unrecognized timestamp string %q", s)
	}

	if data[0] == '[' {
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("malformed timestamp array: %w", err)
		}
		if len(parts) < 3 || len(parts) > 7 {
			return fmt.Errorf("timestamp array has %d elements, want 3-7", len(parts))
		}
		// Pad the optional tail: hour, minute, second, nanos.
		full := make([]int, 7)
		copy(full, parts)
		if full[1] < 1 || full[1] > 12 {
			return fmt.Errorf("timestamp array month %d out of range", full[1])
		}
		f.Time = time.Date(full[0], time.Month(full[1]), full[2], full[3], full[4], full[5], full[6], time.UTC)
		return nil
	}

	return fmt.Errorf("unrecognized timestamp shape: %s", data)
}

// MarshalJSON emits the zone-less ISO form the backend's LocalDateTime
// fields expect, or null for the zero value.
func (f FlexTime) MarshalJSON() ([]byte, error) {
	if f.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(f.UTC().Format("2006-01-02T15:04:05"))
}

// Date is a calendar date with day precision, wire-formatted "2006-01-02"
// (the backend's LocalDate). Contract dates use this type.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date in UTC.
func Today() Date {
	return DateOf(time.Now())
}

// DateOf truncates t to day precision in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return fmt.Errorf("unrecognized date %q", s)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// Before reports whether d falls on an earlier day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d falls on a later day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}
