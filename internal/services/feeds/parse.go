package feeds

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

var (
	errNoDigits     = errors.New("no leading digits")
	errNegative     = errors.New("negative value")
	errUnparsedDate = errors.New("unrecognized date format")
)

// ParseDuration reads the leading integer of s: optional whitespace, an
// optional sign, then digits, ignoring anything after them. "125" is 125
// and "12:34" is 12. Clock formats are not interpreted.
func ParseDuration(s string) (int, error) {
	rest := strings.TrimLeftFunc(s, unicode.IsSpace)

	negative := false
	if rest != "" && (rest[0] == '+' || rest[0] == '-') {
		negative = rest[0] == '-'
		rest = rest[1:]
	}

	base := 10
	if len(rest) > 1 && rest[0] == '0' && (rest[1] == 'x' || rest[1] == 'X') {
		base = 16
		rest = rest[2:]
	}

	end := 0
	for end < len(rest) && isDigit(rest[end], base) {
		end++
	}
	if end == 0 {
		return 0, errNoDigits
	}

	n, err := strconv.ParseInt(rest[:end], base, 0)
	if err != nil {
		return 0, err
	}
	if negative && n != 0 {
		return 0, errNegative
	}
	return int(n), nil
}

func isDigit(c byte, base int) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	if base == 16 {
		c |= 0x20
		return c >= 'a' && c <= 'f'
	}
	return false
}

// Zone abbreviations that time.Parse would otherwise read as a zero offset.
// A trailing abbreviation missing from this table makes the date unparseable.
var zoneOffsets = map[string]string{
	"GMT":  "+0000",
	"UT":   "+0000",
	"UTC":  "+0000",
	"Z":    "+0000",
	"EST":  "-0500",
	"EDT":  "-0400",
	"CST":  "-0600",
	"CDT":  "-0500",
	"MST":  "-0700",
	"MDT":  "-0600",
	"PST":  "-0800",
	"PDT":  "-0700",
	"AKST": "-0900",
	"AKDT": "-0800",
	"HST":  "-1000",
	"WET":  "+0000",
	"WEST": "+0100",
	"BST":  "+0100",
	"IST":  "+0100",
	"CET":  "+0100",
	"CEST": "+0200",
	"EET":  "+0200",
	"EEST": "+0300",
	"MSK":  "+0300",
	"JST":  "+0900",
	"AWST": "+0800",
	"ACST": "+0930",
	"AEST": "+1000",
	"AEDT": "+1100",
	"NZST": "+1200",
	"NZDT": "+1300",
}

var pubDateLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04 -0700",
	"Mon, 2 Jan 06 15:04:05 -0700",
	"Monday, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 January 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04 -0700",
	"Mon, 2 Jan 2006 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

// ParsePubDate parses an RSS publication date. The RFC 1123/822 family is
// tried first, then a lenient parser that knows most common formats. Dates
// without a zone are taken as UTC.
func ParsePubDate(s string) (t time.Time, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errUnparsedDate
	}

	normalized, zoned := normalizeZone(s)
	for _, layout := range pubDateLayouts {
		if t, err := time.ParseInLocation(layout, normalized, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}

	if !zoned {
		if abbr := trailingZone(s); abbr != "" {
			return time.Time{}, fmt.Errorf("%w: unknown time zone %q", errUnparsedDate, abbr)
		}
	}

	// dateparse can panic on some garbage input
	defer func() {
		if r := recover(); r != nil {
			t, err = time.Time{}, fmt.Errorf("%w: %v", errUnparsedDate, r)
		}
	}()
	parsed, perr := dateparse.ParseIn(normalized, time.UTC)
	if perr != nil {
		return time.Time{}, fmt.Errorf("%w: %v", errUnparsedDate, perr)
	}
	return parsed.UTC(), nil
}

// normalizeZone replaces a known trailing zone abbreviation with its offset.
func normalizeZone(s string) (string, bool) {
	i := strings.LastIndexByte(s, ' ')
	if i < 0 {
		return s, false
	}
	if offset, ok := zoneOffsets[strings.ToUpper(s[i+1:])]; ok {
		return s[:i+1] + offset, true
	}
	return s, false
}

// trailingZone returns the last word of s when it looks like a zone
// abbreviation: two to five capital letters other than AM or PM.
func trailingZone(s string) string {
	i := strings.LastIndexByte(s, ' ')
	if i < 0 || !strings.ContainsAny(s[:i], "0123456789") {
		return ""
	}
	word := s[i+1:]
	if len(word) < 2 || len(word) > 5 || word == "AM" || word == "PM" {
		return ""
	}
	for j := 0; j < len(word); j++ {
		if word[j] < 'A' || word[j] > 'Z' {
			return ""
		}
	}
	return word
}

// FormatReleasedAt renders t the way releasedAt is serialized.
func FormatReleasedAt(t time.Time) string {
	return t.UTC().Format(ReleasedAtLayout)
}

// FormatDuration renders seconds as "1h 2m 5s", or "2m 5s" under an hour.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	}
	return fmt.Sprintf("%dm %ds", minutes, secs)
}
