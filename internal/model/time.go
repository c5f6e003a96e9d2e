package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// sqliteLayout is what SQLite's datetime('now') produces.
const sqliteLayout = "2006-01-02 15:04:05"

// DBTime scans the TEXT timestamps written by datetime('now').
type DBTime struct {
	time.Time
}

func (t *DBTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("DBTime: cannot scan %T", src)
	}
}

func (t *DBTime) parse(s string) error {
	for _, layout := range []string{sqliteLayout, time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("DBTime: unrecognised timestamp %q", s)
}

func (t DBTime) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.UTC().Format(sqliteLayout), nil
}
