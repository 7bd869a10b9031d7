package clock

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay bounds every wall-clock value handled by the scheduler.
// Slots never cross midnight.
const MinutesPerDay = 24 * 60

// Minutes is a wall-clock time expressed as minutes since midnight.
type Minutes int

// Parse converts "HH:MM" (optionally "HH:MM:SS", seconds discarded) into a
// Minutes value.
func Parse(raw string) (Minutes, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("parse clock time %q: expected HH:MM", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("parse clock time %q: %w", raw, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("parse clock time %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("parse clock time %q: out of range", raw)
	}
	return Minutes(hour*60 + minute), nil
}

// MustParse is Parse for trusted literals, panicking on malformed input.
func MustParse(raw string) Minutes {
	value, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return value
}

// String renders the value back to "HH:MM".
func (m Minutes) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Add advances the clock by delta minutes. The result may exceed the day
// bound; callers validate against their window instead.
func (m Minutes) Add(delta int) Minutes {
	return m + Minutes(delta)
}

// Before reports strict ordering.
func (m Minutes) Before(other Minutes) bool {
	return m < other
}

// Valid reports whether the value lies within a single day.
func (m Minutes) Valid() bool {
	return m >= 0 && m <= MinutesPerDay
}

// Interval is a half-open style wall-clock range within one day. Start and
// End carry the same meaning as slot boundaries: End of one interval may
// equal Start of the next without conflict.
type Interval struct {
	Start Minutes
	End   Minutes
}

// NewInterval validates and builds an interval.
func NewInterval(start, end Minutes) (Interval, error) {
	if !start.Valid() || !end.Valid() {
		return Interval{}, fmt.Errorf("interval %s-%s: out of day range", start, end)
	}
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("interval %s-%s: start must precede end", start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// Duration returns the interval length in minutes.
func (i Interval) Duration() int {
	return int(i.End - i.Start)
}

// Overlaps reports whether two intervals share any interior point. The
// predicate is symmetric and strict: touching boundaries (End == other.Start)
// are not an overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Equal reports whether both boundaries coincide exactly. Used to detect
// duplicate placements at the same coordinates.
func (i Interval) Equal(other Interval) bool {
	return i.Start == other.Start && i.End == other.End
}
