package growth

import (
	"strconv"
	"strings"
)

type Line struct {
	Year       Count
	Region     string
	Population Count
}

type Decoder struct {
	opts Options
}

func NewDecoder(opts Options) *Decoder {
	return &Decoder{opts: opts}
}

// Decode splits raw on the delimiter and picks out the year, region and
// population fields. Missing or non-numeric fields decode to NaN.
func (d *Decoder) Decode(raw string) Line {
	columns := strings.Split(raw, d.opts.Delimiter)
	get := func(pos int) (string, bool) {
		if pos >= len(columns) {
			return "", false
		}
		return columns[pos], true
	}

	var line Line
	if value, ok := get(d.opts.YearField); ok {
		line.Year = parseCount(value)
	} else {
		line.Year = Count{NaN: true}
	}
	line.Region, _ = get(d.opts.RegionField)
	if value, ok := get(d.opts.PopulationField); ok {
		line.Population = parseCount(value)
	} else {
		line.Population = Count{NaN: true}
	}
	return line
}

func (d *Decoder) Qualifies(line Line) bool {
	if line.Year.NaN {
		return false
	}
	return line.Year.N == d.opts.EarlierYear || line.Year.N == d.opts.LaterYear
}

// parseCount reads an optional sign and the longest run of decimal digits
// after leading whitespace. Trailing text is ignored.
func parseCount(value string) Count {
	s := strings.TrimLeft(value, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return Count{NaN: true}
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return Count{NaN: true}
	}
	return Count{N: n}
}
