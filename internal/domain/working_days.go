package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidWorkingDays is returned when a working days list cannot be parsed.
var ErrInvalidWorkingDays = errors.New("invalid working days")

// WorkingDays is a set of weekdays. The text form uses ISO day numbers
// separated by commas, 1 = Monday ... 7 = Sunday, e.g. "1,2,3,4,5,6".
type WorkingDays uint8

// NewWorkingDays builds a set from weekdays.
func NewWorkingDays(days ...time.Weekday) WorkingDays {
	var w WorkingDays
	for _, d := range days {
		w |= 1 << uint(d)
	}
	return w
}

// ParseWorkingDays parses the ISO text form.
func ParseWorkingDays(s string) (WorkingDays, error) {
	var w WorkingDays
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > 7 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidWorkingDays, s)
		}
		w |= 1 << uint(n%7) // 7 (Sunday) -> time.Sunday (0)
	}
	return w, nil
}

// Contains reports whether d is a working day.
func (w WorkingDays) Contains(d time.Weekday) bool {
	return w&(1<<uint(d)) != 0
}

// String returns the ISO text form, Monday first.
func (w WorkingDays) String() string {
	parts := make([]string, 0, 7)
	for iso := 1; iso <= 7; iso++ {
		if w.Contains(time.Weekday(iso % 7)) {
			parts = append(parts, strconv.Itoa(iso))
		}
	}
	return strings.Join(parts, ",")
}

// Scan implements sql.Scanner.
func (w *WorkingDays) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*w = 0
		return nil
	case []byte:
		parsed, err := ParseWorkingDays(string(v))
		if err != nil {
			return err
		}
		*w = parsed
		return nil
	case string:
		parsed, err := ParseWorkingDays(v)
		if err != nil {
			return err
		}
		*w = parsed
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidWorkingDays, src)
	}
}

// Value implements driver.Valuer.
func (w WorkingDays) Value() (driver.Value, error) {
	return w.String(), nil
}
