// Package sizes parses and formats byte counts and alert intervals.
//
// Size strings follow the condition grammar: a decimal integer with an
// optional single-letter suffix K/M/G/T/P meaning powers of 1024. Intervals
// accept plain seconds ("300") or compound unit strings ("1h30m", "2d").
package sizes

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/solatis/disku/internal/types"
)

// suffixRank maps a size suffix to its 1024-power. The grammar stops at P;
// E and beyond are rejected even though the byte math would still fit.
var suffixRank = map[byte]uint{'K': 1, 'M': 2, 'G': 3, 'T': 4, 'P': 5}

// ParseSize parses a size token ("5G", "1048576", "0") into bytes.
// A bare suffix with no digits is an error, not zero. Leading zeros are
// rejected unless the integer is exactly "0".
func ParseSize(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty size", types.ErrInvalidSize)
	}

	digits := s
	var rank uint
	if r, ok := suffixRank[s[len(s)-1]]; ok {
		digits = s[:len(s)-1]
		rank = r
	}

	n, ok := parseInteger(digits)
	if !ok {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidSize, s)
	}

	for i := uint(0); i < rank; i++ {
		if n > (1<<64-1)/1024 {
			return 0, fmt.Errorf("%w: %q overflows", types.ErrInvalidSize, s)
		}
		n *= 1024
	}
	return n, nil
}

// ParseInteger parses a non-negative decimal integer with the grammar's
// no-leading-zero rule: "0" is legal, "007" is not.
func parseInteger(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, false
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		d := uint64(c - '0')
		if n > (1<<64-1-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}

// ParseUint exposes the grammar's integer rule for other packages.
func ParseUint(s string) (uint64, bool) {
	return parseInteger(s)
}

// FormatBytes renders a byte count for humans ("5.0 GiB").
func FormatBytes(n uint64) string {
	return humanize.IBytes(n)
}

// intervalUnits maps compound interval units to their length.
// No month/year units: alert intervals are operational, not calendrical.
var intervalUnits = map[byte]time.Duration{
	's': time.Second,
	'm': time.Minute,
	'h': time.Hour,
	'd': 24 * time.Hour,
}

// ParseInterval parses an alert interval. Accepted forms:
//
//	"300"      plain seconds
//	"1h30m"    compound units s/m/h/d, each count starting with 1-9
//	"2d"       days included, unlike time.ParseDuration
//
// Unit values must be whole numbers; fractional durations are rejected.
func ParseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty interval", types.ErrInvalidInterval)
	}

	if n, ok := parseInteger(s); ok {
		return time.Duration(n) * time.Second, nil
	}

	var total time.Duration
	i := 0
	for i < len(s) {
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if start == i || i == len(s) {
			return 0, fmt.Errorf("%w: %q", types.ErrInvalidInterval, s)
		}
		n, ok := parseInteger(s[start:i])
		if !ok || n == 0 {
			return 0, fmt.Errorf("%w: %q", types.ErrInvalidInterval, s)
		}
		unit, ok := intervalUnits[s[i]]
		if !ok {
			return 0, fmt.Errorf("%w: %q", types.ErrInvalidInterval, s)
		}
		i++
		total += time.Duration(n) * unit
	}
	return total, nil
}
