package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateTimeLayouts are tried in order. The zone-less forms are what a
// datetime-local input produces and are read in local time.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDateTime reads an ISO-8601 timestamp with or without a zone offset.
// An empty string is the zero time.
func ParseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", value)
}

// DateTime decodes any timestamp ParseDateTime accepts and encodes as
// RFC 3339.
type DateTime time.Time

func (d DateTime) Time() time.Time {
	return time.Time(d)
}

// TimePtr converts an optional DateTime; nil stays nil.
func (d *DateTime) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d))
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = DateTime{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("datetime must be a string: %w", err)
	}
	t, err := ParseDateTime(raw)
	if err != nil {
		return err
	}
	*d = DateTime(t)
	return nil
}

// UnmarshalJSON accepts zone-less event timestamps alongside RFC 3339.
func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	aux := struct {
		*plain
		StartDateTime DateTime `json:"start_datetime"`
		EndDateTime   DateTime `json:"end_datetime"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.StartDateTime = aux.StartDateTime.Time()
	e.EndDateTime = aux.EndDateTime.Time()
	return nil
}
