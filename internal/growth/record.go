package growth

import (
	"encoding/json"
	"math"
	"strconv"
)

// Count is a population or year value. The zero value is 0; NaN marks a
// field that did not parse.
type Count struct {
	N   int64
	NaN bool
}

func CountOf(n int64) Count {
	return Count{N: n}
}

func (c Count) Float() float64 {
	if c.NaN {
		return math.NaN()
	}
	return float64(c.N)
}

func (c Count) String() string {
	if c.NaN {
		return "NaN"
	}
	return strconv.FormatInt(c.N, 10)
}

func (c Count) MarshalJSON() ([]byte, error) {
	if c.NaN {
		return json.Marshal("NaN")
	}
	return []byte(strconv.FormatInt(c.N, 10)), nil
}

// Ratio is unset until Finalize runs. Once set it may be infinite or NaN.
type Ratio struct {
	value float64
	set   bool
}

func RatioOf(v float64) Ratio {
	return Ratio{value: v, set: true}
}

func (r Ratio) Defined() bool {
	return r.set
}

// Value returns the ratio and whether it has been computed.
func (r Ratio) Value() (float64, bool) {
	return r.value, r.set
}

func (r Ratio) Finite() bool {
	return r.set && !math.IsInf(r.value, 0) && !math.IsNaN(r.value)
}

func (r Ratio) String() string {
	if !r.set {
		return "undefined"
	}
	return formatRatio(r.value)
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	switch {
	case !r.set:
		return []byte("null"), nil
	case r.Finite():
		return []byte(strconv.FormatFloat(r.value, 'g', -1, 64)), nil
	default:
		return json.Marshal(formatRatio(r.value))
	}
}

type Record struct {
	Region      string `json:"region"`
	PopulationA Count  `json:"population_a"`
	PopulationB Count  `json:"population_b"`
	Ratio       Ratio  `json:"ratio"`
}

func formatRatio(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	abs := math.Abs(v)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
