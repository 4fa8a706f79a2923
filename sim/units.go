// Unit conversion for parameter values: duration strings to tick counts,
// size strings to byte counts, bandwidth strings to ticks per byte.
// One tick is one picosecond of simulated time.

package sim

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Tick multiples for common time units.
const (
	Picosecond  int64 = 1
	Nanosecond  int64 = 1000 * Picosecond
	Microsecond int64 = 1000 * Nanosecond
	Millisecond int64 = 1000 * Microsecond
	Second      int64 = 1000 * Millisecond
)

var durationUnits = []struct {
	suffix string
	ticks  int64
}{
	// Longest suffixes first so "ms" is not read as "s".
	{"ps", Picosecond},
	{"ns", Nanosecond},
	{"us", Microsecond},
	{"ms", Millisecond},
	{"s", Second},
}

var sizeUnits = []struct {
	suffix string
	bytes  int64
}{
	{"GiB", 1 << 30},
	{"MiB", 1 << 20},
	{"KiB", 1 << 10},
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"kB", 1 << 10},
	{"B", 1},
}

// splitUnit separates a numeric prefix from its unit suffix and parses the
// prefix as a float. "100ns" -> (100, "ns"); "2.5MB" -> (2.5, "MB").
func splitUnit(s string) (float64, string, error) {
	s = strings.TrimSpace(s)
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if c >= '0' && c <= '9' || c == '.' {
			break
		}
		i--
	}
	num, suffix := s[:i], s[i:]
	if num == "" {
		return 0, "", fmt.Errorf("no numeric value in %q", s)
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, "", fmt.Errorf("bad numeric value in %q: %w", s, err)
	}
	return v, suffix, nil
}

// ParseTicks converts a duration string such as "100ns" or "2us" into a
// tick count. A bare number is taken as ticks directly. Negative durations
// are rejected; fractional results round to the nearest tick.
func ParseTicks(s string) (int64, error) {
	v, suffix, err := splitUnit(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	if suffix == "" {
		return int64(math.Round(v)), nil
	}
	for _, u := range durationUnits {
		if suffix == u.suffix {
			return int64(math.Round(v * float64(u.ticks))), nil
		}
	}
	return 0, fmt.Errorf("unknown duration unit %q in %q", suffix, s)
}

// ParseBytes converts a size string such as "1kB" or "64MiB" into a byte
// count. Multiples are binary: 1kB = 1024 bytes. A bare number is bytes.
func ParseBytes(s string) (int64, error) {
	v, suffix, err := splitUnit(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative size %q", s)
	}
	if suffix == "" {
		return int64(math.Round(v)), nil
	}
	for _, u := range sizeUnits {
		if suffix == u.suffix {
			return int64(math.Round(v * float64(u.bytes))), nil
		}
	}
	return 0, fmt.Errorf("unknown size unit %q in %q", suffix, s)
}

// ParseBandwidth converts a rate string such as "100MB/s" into the cost in
// ticks of moving a single byte.
func ParseBandwidth(s string) (float64, error) {
	s = strings.TrimSpace(s)
	size, ok := strings.CutSuffix(s, "/s")
	if !ok {
		return 0, fmt.Errorf("bandwidth %q must end in /s", s)
	}
	bytesPerSec, err := ParseBytes(size)
	if err != nil {
		return 0, fmt.Errorf("bandwidth %q: %w", s, err)
	}
	if bytesPerSec <= 0 {
		return 0, fmt.Errorf("bandwidth %q must be positive", s)
	}
	return float64(Second) / float64(bytesPerSec), nil
}
