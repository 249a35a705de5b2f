package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar date stored as YYYY-MM-DD.
// MySQL (parseTime=True), PostgreSQL and SQLite hand DATE columns back as time.Time,
// while aggregates such as MAX() may come back as text, so Scan accepts both.
// The zero value is the empty string and scans from NULL.
type Date string

// Scan implements sql.Scanner
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = Date(v.Format(DateLayout))
	case string:
		*d = Date(trimDate(v))
	case []byte:
		*d = Date(trimDate(string(v)))
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
	return nil
}

// Value implements driver.Valuer
func (d Date) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

// String returns the YYYY-MM-DD form
func (d Date) String() string {
	return string(d)
}

// trimDate drops any time portion a driver appended to a date value
func trimDate(s string) string {
	if len(s) > len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}
