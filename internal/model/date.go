package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CzechDate is a calendar day carried as a real date in storage while keeping
// the legacy `D. M. YYYY` text form on the JSON boundary.
type CzechDate struct {
	time.Time
}

// NewCzechDate builds a date from calendar components.
func NewCzechDate(year int, month time.Month, day int) CzechDate {
	return CzechDate{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) CzechDate {
	return NewCzechDate(t.Year(), t.Month(), t.Day())
}

// ParseCzechDate parses the `D. M. YYYY` form, with or without leading zeros.
func ParseCzechDate(s string) (CzechDate, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return CzechDate{}, fmt.Errorf("invalid date %q", s)
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return CzechDate{}, fmt.Errorf("invalid date %q", s)
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || month < 1 || month > 12 {
		return CzechDate{}, fmt.Errorf("invalid date %q", s)
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return CzechDate{}, fmt.Errorf("invalid date %q", s)
	}
	return NewCzechDate(year, time.Month(month), day), nil
}

// String renders the legacy display form, e.g. "11. 6. 2025".
func (d CzechDate) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d. %d. %d", d.Day(), int(d.Month()), d.Year())
}

// MarshalJSON renders the legacy text form, or null for the zero date.
func (d CzechDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON accepts the legacy text form, an empty string or null.
func (d *CzechDate) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*d = CzechDate{}
		return nil
	}
	unquoted, err := strconv.Unquote(s)
	if err != nil {
		return fmt.Errorf("invalid date %s", s)
	}
	if unquoted == "" {
		*d = CzechDate{}
		return nil
	}
	parsed, err := ParseCzechDate(unquoted)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer; zero dates are stored as NULL.
func (d CzechDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// Scan implements sql.Scanner.
func (d *CzechDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = CzechDate{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		parsed, err := time.Parse("2006-01-02", v[:min(len(v), 10)])
		if err != nil {
			return fmt.Errorf("scan date %q: %w", v, err)
		}
		*d = DateOf(parsed)
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CzechDate", src)
	}
}
