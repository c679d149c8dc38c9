package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// dateLayouts are tried in order and the first successful parse wins.
// Day/month ambiguous inputs such as 01/02/2024 therefore resolve by position
// in this list.
var dateLayouts = []string{
	"2006-1-2",
	"2006-1-2 15:04:05",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"2-1-2006",
	"2-1-2006 15:04:05",
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2006/1/2",
	"2006/1/2 15:04:05",
	"1-2-2006",
	"1-2-2006 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// septPattern matches the four letter September abbreviation used in
// progress reports, which Go's month parser does not accept.
var septPattern = regexp.MustCompile(`(?i)\bsept\b`)

// NormalizeMonthAbbrev rewrites "Sept" (any case) to "SEP".
func NormalizeMonthAbbrev(s string) string {
	return septPattern.ReplaceAllString(s, "SEP")
}

// ResolveDate converts a date cell into a calendar date at UTC midnight.
// time.Time values keep their date component; strings are parsed against
// dateLayouts. Everything else fails with *DateFormatError.
func ResolveDate(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return dateOf(v), nil
	case *time.Time:
		if v != nil {
			return dateOf(*v), nil
		}
	case string:
		s := NormalizeMonthAbbrev(strings.TrimSpace(v))
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return dateOf(t), nil
			}
		}
		return time.Time{}, &DateFormatError{Value: v}
	}
	return time.Time{}, &DateFormatError{Value: fmt.Sprint(raw)}
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
