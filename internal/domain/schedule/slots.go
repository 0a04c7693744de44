package schedule

import "time"

// ValidSlotInterval reports whether a slot granularity in minutes is usable:
// positive and a divisor of 60, so slot boundaries line up across the common
// granularities (5, 10, 15, 20, 30, 60).
func ValidSlotInterval(minutes int) bool {
	return minutes > 0 && 60%minutes == 0
}

// Slots walks the working window [windowStart, windowEnd] in steps of step
// and returns every start instant where a booking of length duration fits
// without touching any busy interval.
//
// The walk begins at the later of windowStart and now, rounded up to the next
// step boundary measured from midnight, so past slots are never offered and
// slot starts stay aligned regardless of when "now" falls. A candidate whose
// end lands exactly on windowEnd is accepted; the first candidate whose end
// passes windowEnd terminates the walk. Busy intervals must already be merged
// and sorted (see Merge); overlap uses half-open semantics throughout.
//
// All arguments are expected to be in the same location.
func Slots(windowStart, windowEnd time.Time, duration, step time.Duration, busy []Interval, now time.Time) []time.Time {
	if duration <= 0 || step <= 0 {
		return nil
	}
	if !windowEnd.After(windowStart) {
		return nil
	}

	first := windowStart
	if now.After(first) {
		first = now
	}
	first = roundUpToStep(first, step)

	var slots []time.Time
	for t := first; !t.Add(duration).After(windowEnd); t = t.Add(step) {
		if !overlapsAny(t, t.Add(duration), busy) {
			slots = append(slots, t)
		}
	}
	return slots
}

// roundUpToStep advances t to the next multiple of step since midnight,
// clearing sub-minute precision. A t already on a boundary is returned as is.
func roundUpToStep(t time.Time, step time.Duration) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := t.Sub(midnight)
	if rem := offset % step; rem != 0 {
		offset += step - rem
	}
	return midnight.Add(offset)
}
