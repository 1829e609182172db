package growth

// Duplicate reports a region/year pair that was seen more than once. The
// later value replaced the earlier one.
type Duplicate struct {
	Region   string `json:"region"`
	Year     int64  `json:"year"`
	Previous Count  `json:"previous"`
	Current  Count  `json:"current"`
}

type slot struct {
	record *Record
	seenA  bool
	seenB  bool
}

// Accumulator merges qualifying lines into one Record per region, keeping
// the order in which regions first appeared.
type Accumulator struct {
	earlier    int64
	later      int64
	index      map[string]*slot
	order      []*slot
	duplicates []Duplicate
}

func NewAccumulator(earlier, later int64) *Accumulator {
	return &Accumulator{
		earlier: earlier,
		later:   later,
		index:   make(map[string]*slot),
	}
}

func (a *Accumulator) Ingest(region string, year int64, population Count) {
	if year != a.earlier && year != a.later {
		return
	}

	s, ok := a.index[region]
	if !ok {
		s = &slot{record: &Record{Region: region}}
		a.index[region] = s
		a.order = append(a.order, s)
	}

	switch year {
	case a.earlier:
		if s.seenA {
			a.duplicates = append(a.duplicates, Duplicate{Region: region, Year: year, Previous: s.record.PopulationA, Current: population})
		}
		s.record.PopulationA = population
		s.seenA = true
	case a.later:
		if s.seenB {
			a.duplicates = append(a.duplicates, Duplicate{Region: region, Year: year, Previous: s.record.PopulationB, Current: population})
		}
		s.record.PopulationB = population
		s.seenB = true
	}
}

func (a *Accumulator) Len() int {
	return len(a.order)
}

func (a *Accumulator) Lookup(region string) (*Record, bool) {
	s, ok := a.index[region]
	if !ok {
		return nil, false
	}
	return s.record, true
}

// Records returns the accumulated records in first-seen order. The pointers
// are shared with the accumulator.
func (a *Accumulator) Records() []*Record {
	records := make([]*Record, 0, len(a.order))
	for _, s := range a.order {
		records = append(records, s.record)
	}
	return records
}

func (a *Accumulator) Duplicates() []Duplicate {
	return a.duplicates
}
