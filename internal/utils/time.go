package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/ordiaa/internal/constants"
)

// FormatDate returns the YYYY-MM-DD form of t using its own calendar fields.
// Two instants on the same local day always format identically, whatever the time of day.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string as local midnight.
func ParseDate(dateStr string) (time.Time, error) {
	return ParseDateInLocation(dateStr, time.Local)
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// DatePart returns the calendar date portion of a server timestamp such as
// "2024-03-01T10:00:00Z" or "2024-03-01 10:00:00". No timezone conversion is applied.
func DatePart(ts string) string {
	ts = strings.TrimSpace(ts)
	if i := strings.IndexAny(ts, "T "); i >= 0 {
		return ts[:i]
	}
	return ts
}

// ValidateDate checks if the string is a YYYY-MM-DD calendar date.
func ValidateDate(dateStr string) bool {
	_, err := time.Parse(constants.DateFormat, dateStr)
	return err == nil
}

// AddDays moves t by n calendar days, keeping the wall clock.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayOfYear mirrors the header quote rotation: day 1 is January 1st.
func DayOfYear(t time.Time) int {
	return t.YearDay()
}

// ISOMidnightUTC renders dateStr as midnight UTC in ISO form, the shape the logs
// endpoint expects for its date field. The calendar date survives DatePart unchanged.
func ISOMidnightUTC(dateStr string) (string, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z"), nil
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}
