package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date serialized as zero-padded ISO yyyy-mm-dd. Latest-N
// ordering compares the parsed value, never the raw string, so sloppy upstream
// formats cannot break the sort.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts the formats seen across upstream sources and feeds.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, nil
	}

	formats := []string{
		dateLayout,
		time.RFC3339,
		"2006-01-02 15:04:05",
		time.RFC1123Z,
		time.RFC1123,
	}

	for _, f := range formats {
		if ts, err := time.Parse(f, raw); err == nil {
			return Date{ts}, nil
		}
	}

	return Date{}, fmt.Errorf("unsupported date format %q", raw)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
