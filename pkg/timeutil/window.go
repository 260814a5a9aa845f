// Package timeutil parses the compact look-back windows accepted on the
// command line, e.g. "3d" or "1w2d".
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DefaultWindow is used when no window is given.
const DefaultWindow = "1w"

const (
	day  = 24 * time.Hour
	week = 7 * day
)

var units = map[string]time.Duration{
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": day, "day": day, "days": day,
	"w": week, "wk": week, "wks": week, "week": week, "weeks": week,
}

// Window is a positive look-back duration.
type Window time.Duration

// ParseWindow reads a sequence of <count><unit> segments. Empty input means
// DefaultWindow.
func ParseWindow(input string) (Window, error) {
	s := strings.ToLower(strings.Join(strings.Fields(input), ""))
	if s == "" {
		s = DefaultWindow
	}
	var total time.Duration
	for s != "" {
		i := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
		if i <= 0 {
			return 0, fmt.Errorf("invalid window segment %q: want a count then a unit, e.g. 3d", s)
		}
		j := strings.IndexFunc(s[i:], unicode.IsDigit)
		if j < 0 {
			j = len(s) - i
		}
		n, err := strconv.Atoi(s[:i])
		if err != nil {
			return 0, fmt.Errorf("invalid window count %q: %w", s[:i], err)
		}
		unit, ok := units[s[i:i+j]]
		if !ok {
			return 0, fmt.Errorf("unsupported window unit %q", s[i:i+j])
		}
		total += time.Duration(n) * unit
		s = s[i+j:]
	}
	if total <= 0 {
		return 0, fmt.Errorf("window must be greater than zero")
	}
	return Window(total), nil
}

// Since is the start of the window ending at now.
func (w Window) Since(now time.Time) time.Time {
	return now.Add(-time.Duration(w))
}

// String renders the window with the largest units first, e.g. "1w2d".
func (w Window) String() string {
	d := time.Duration(w)
	var b strings.Builder
	for _, u := range []struct {
		label string
		size  time.Duration
	}{{"w", week}, {"d", day}, {"h", time.Hour}, {"m", time.Minute}} {
		if n := d / u.size; n > 0 {
			fmt.Fprintf(&b, "%d%s", n, u.label)
			d -= n * u.size
		}
	}
	if b.Len() == 0 {
		return "0m"
	}
	return b.String()
}
