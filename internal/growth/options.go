package growth

import (
	"errors"
	"fmt"
)

var ErrInvalidOptions = errors.New("invalid options")

const (
	DefaultEarlierYear = 2010
	DefaultLaterYear   = 2015
)

// Options fixes the reference years and the field layout of an input line.
type Options struct {
	EarlierYear     int64
	LaterYear       int64
	YearField       int
	RegionField     int
	PopulationField int
	Delimiter       string
}

func DefaultOptions() Options {
	return Options{
		EarlierYear:     DefaultEarlierYear,
		LaterYear:       DefaultLaterYear,
		YearField:       0,
		RegionField:     1,
		PopulationField: 3,
		Delimiter:       ",",
	}
}

func (o Options) Validate() error {
	if o.EarlierYear == o.LaterYear {
		return fmt.Errorf("%w: reference years must differ (both %d)", ErrInvalidOptions, o.EarlierYear)
	}
	if o.YearField < 0 || o.RegionField < 0 || o.PopulationField < 0 {
		return fmt.Errorf("%w: field positions must be >= 0", ErrInvalidOptions)
	}
	if o.Delimiter == "" {
		return fmt.Errorf("%w: delimiter is required", ErrInvalidOptions)
	}
	return nil
}
