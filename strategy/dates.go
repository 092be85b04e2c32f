package strategy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var months = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

const monthAlt = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

const yearAlt = `(1[5-9]\d{2}|20\d{2})`

var (
	dayMonthYear = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+` + monthAlt + `\.?,?\s+` + yearAlt + `\b`)
	monthDayYear = regexp.MustCompile(`(?i)\b` + monthAlt + `\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+` + yearAlt + `\b`)
	monthYear    = regexp.MustCompile(`(?i)\b` + monthAlt + `\.?,?\s+` + yearAlt + `\b`)
	isoDate      = regexp.MustCompile(`\b` + yearAlt + `-(\d{1,2})(?:-(\d{1,2}))?\b`)
	bareYear     = regexp.MustCompile(`\b` + yearAlt + `\b`)
)

// FindDate returns the most specific date found in s, formatted as YYYY,
// YYYY-MM or YYYY-MM-DD.
func FindDate(s string) (string, bool) {
	if m := dayMonthYear.FindStringSubmatch(s); m != nil {
		if d, ok := formatDate(m[3], months[strings.ToLower(m[2])], atoi(m[1])); ok {
			return d, true
		}
	}
	if m := monthDayYear.FindStringSubmatch(s); m != nil {
		if d, ok := formatDate(m[3], months[strings.ToLower(m[1])], atoi(m[2])); ok {
			return d, true
		}
	}
	if m := monthYear.FindStringSubmatch(s); m != nil {
		if d, ok := formatDate(m[2], months[strings.ToLower(m[1])], 0); ok {
			return d, true
		}
	}
	if m := isoDate.FindStringSubmatch(s); m != nil {
		if d, ok := formatDate(m[1], atoi(m[2]), atoi(m[3])); ok {
			return d, true
		}
	}
	if m := bareYear.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	return "", false
}

// ParseDate normalizes an explicit date value. Unlike FindDate it fails when
// the value carries no recognizable date.
func ParseDate(s string) (string, error) {
	if d, ok := FindDate(s); ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: unrecognized date %q", ErrMalformed, s)
}

func formatDate(year string, month, day int) (string, bool) {
	switch {
	case month == 0 && day == 0:
		return year, true
	case month < 1 || month > 12:
		return "", false
	case day == 0:
		return fmt.Sprintf("%s-%02d", year, month), true
	case !validDay(atoi(year), month, day):
		return "", false
	}
	return fmt.Sprintf("%s-%02d-%02d", year, month, day), true
}

// validDay reports whether day exists in the month, leap years included.
func validDay(year, month, day int) bool {
	if day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Day() == day && int(t.Month()) == month
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
