// utils/dates.go
package utils

import (
	"fmt"
	"strings"
	"time"
)

var monthsID = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func BeginningOfMonth(t time.Time) time.Time {
	year, month, _ := t.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// MonthLabel renders "Jan 2026" with Indonesian month abbreviations.
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", monthsID[t.Month()-1], t.Year())
}

// DayLabel renders "1 Jan".
func DayLabel(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), monthsID[t.Month()-1])
}

// Date accepts either a plain "2006-01-02" date (as sent by the order wizard)
// or a full RFC 3339 timestamp.
type Date struct {
	time.Time
}

func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return d.Time.MarshalJSON()
}

// Get returns the parsed time and whether one was supplied.
func (d *Date) Get() (time.Time, bool) {
	if d == nil || d.IsZero() {
		return time.Time{}, false
	}
	return d.Time, true
}
