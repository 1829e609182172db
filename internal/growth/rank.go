package growth

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrNotFinalized = errors.New("record ratio not finalized")

type Entry struct {
	Position int
	Record   Record
}

// Rank orders records by descending ratio. Equal ratios keep their input
// order and NaN ratios go last.
func Rank(records []*Record) ([]Entry, error) {
	ranked := make([]Record, 0, len(records))
	for _, item := range records {
		if !item.Ratio.Defined() {
			return nil, fmt.Errorf("%w: %q", ErrNotFinalized, item.Region)
		}
		ranked = append(ranked, *item)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ratioBefore(ranked[i].Ratio.value, ranked[j].Ratio.value)
	})

	entries := make([]Entry, len(ranked))
	for i, item := range ranked {
		entries[i] = Entry{Position: i + 1, Record: item}
	}
	return entries, nil
}

func ratioBefore(a, b float64) bool {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	if aNaN || bNaN {
		return !aNaN && bNaN
	}
	return a > b
}
