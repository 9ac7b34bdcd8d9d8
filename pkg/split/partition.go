package split

import "fmt"

// Interval is a half-open pixel range [Start, End) along one axis.
type Interval struct {
	Start, End int
}

// Len returns the number of pixels covered by the interval.
func (iv Interval) Len() int { return iv.End - iv.Start }

func (iv Interval) String() string { return fmt.Sprintf("[%d,%d)", iv.Start, iv.End) }

// Partition cuts [0, length) into count contiguous intervals of length/count
// pixels each. The last interval absorbs the remainder, so it is the only
// one that can be longer than the others.
//
// count must be between 1 and length inclusive.
func Partition(length, count int) ([]Interval, error) {
	if length < 1 {
		return nil, newError("partition", ErrInvalidGridSpec, "", fmt.Errorf("length %d must be positive", length))
	}
	if count < 1 || count > length {
		return nil, newError("partition", ErrInvalidGridSpec, "", fmt.Errorf("count %d out of range 1..%d", count, length))
	}

	base := length / count
	out := make([]Interval, count)
	for i := 0; i < count; i++ {
		out[i] = Interval{Start: i * base, End: (i + 1) * base}
	}
	out[count-1].End = length
	return out, nil
}

// Boundaries returns the interior cut positions of a partition: the start of
// every interval except the first. Edges at 0 and at length are never included.
func Boundaries(intervals []Interval) []int {
	if len(intervals) < 2 {
		return nil
	}
	cuts := make([]int, 0, len(intervals)-1)
	for _, iv := range intervals[1:] {
		cuts = append(cuts, iv.Start)
	}
	return cuts
}
