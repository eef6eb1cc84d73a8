package helpers

import (
	"errors"
	"strings"
	"time"
)

var dueDateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02",
}

// ParseDueDate accepts an RFC 3339 timestamp or a bare date (as sent by
// <input type="date">) and returns it in UTC.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range dueDateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("invalid date")
}

// FormatEmailTime renders a timestamp for notification emails.
func FormatEmailTime(t time.Time) string {
	return t.UTC().Format("02 January 2006, 15:04 MST")
}

// FormatEmailDate renders a calendar date for notification emails.
func FormatEmailDate(t time.Time) string {
	return t.UTC().Format("Mon, 02 January 2006")
}
