// Package dateutils parses the calendar dates found in bank statement exports.
package dateutils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts, tried in this order. Day and month accept one or two digits.
const (
	LayoutSlashDMY      = "2/1/2006"       // 01/12/2025
	LayoutDashDMY       = "2-1-2006"       // 01-12-2025
	LayoutISO           = "2006-1-2"       // 2025-12-01
	LayoutSlashDMYShort = "2/1/06"         // 01/12/25
	LayoutDotDMY        = "2.1.2006"       // 01.12.2025
	LayoutSlashYMD      = "2006/1/2"       // 2025/12/01
	LayoutDayMonAbbr    = "2 Jan 2006"     // 01 Dec 2025
	LayoutDayMonFull    = "2 January 2006" // 01 December 2025
)

// StatementLayouts is the ordered candidate list. Day-first layouts come before
// the ISO one, so an ambiguous "01/02/2025" is the first of February.
var StatementLayouts = []string{
	LayoutSlashDMY,
	LayoutDashDMY,
	LayoutISO,
	LayoutSlashDMYShort,
	LayoutDotDMY,
	LayoutSlashYMD,
	LayoutDayMonAbbr,
	LayoutDayMonFull,
}

// ErrEmptyDate is returned for blank date cells.
var ErrEmptyDate = errors.New("empty date")

var whitespaceRun = regexp.MustCompile(`\s+`)

// ParseDate tries StatementLayouts in order and returns the date with the layout that matched.
func ParseDate(dateStr string) (time.Time, string, error) {
	return ParseDateWith(dateStr, StatementLayouts)
}

// ParseDateWith tries layouts in order. The result is midnight UTC.
func ParseDateWith(dateStr string, layouts []string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)
	if dateStr == "" {
		return time.Time{}, "", ErrEmptyDate
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, layout, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// CleanDateString trims and collapses internal whitespace.
func CleanDateString(dateStr string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ToISODate formats t as YYYY-MM-DD.
func ToISODate(t time.Time) string {
	return t.Format("2006-01-02")
}
