package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses the date formats seen in rooming list data. Date-only
// values are interpreted in UTC so the calendar day never shifts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// MonthAbbreviation returns "SEP" style month labels, or "" when unparseable.
func MonthAbbreviation(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return ""
	}
	return strings.ToUpper(t.Format("Jan"))
}

// DayOfMonth returns the calendar day, or 0 when unparseable.
func DayOfMonth(s string) int {
	t, err := ParseDate(s)
	if err != nil {
		return 0
	}
	return t.Day()
}

// FormatDateRange renders "Sep 1 - 5, 2025" within one month and
// "Sep 28 - Oct 2, 2025" across months.
func FormatDateRange(start, end string) string {
	s, err := ParseDate(start)
	if err != nil {
		return ""
	}
	e, err := ParseDate(end)
	if err != nil {
		return ""
	}
	if s.Year() == e.Year() && s.Month() == e.Month() {
		return fmt.Sprintf("%s %d - %d, %d", s.Format("Jan"), s.Day(), e.Day(), e.Year())
	}
	return fmt.Sprintf("%s %d - %s %d, %d", s.Format("Jan"), s.Day(), e.Format("Jan"), e.Day(), e.Year())
}

// StayWindow orders bookings by check-in and returns the first check-in and
// the check-out of the last booking in that order.
func StayWindow(bookings []Booking) (checkIn, checkOut string, ok bool) {
	if len(bookings) == 0 {
		return "", "", false
	}
	sorted := make([]Booking, len(bookings))
	copy(sorted, bookings)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, _ := ParseDate(sorted[i].CheckInDate)
		b, _ := ParseDate(sorted[j].CheckInDate)
		return a.Before(b)
	})
	checkIn = sorted[0].CheckInDate
	checkOut = sorted[len(sorted)-1].CheckOutDate
	if checkIn == "" || checkOut == "" {
		return "", "", false
	}
	return checkIn, checkOut, true
}
