package growth

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func buildRecord(region string, a, b int64) *Record {
	return &Record{Region: region, PopulationA: CountOf(a), PopulationB: CountOf(b)}
}

func regionsOf(entries []Entry) []string {
	regions := make([]string, 0, len(entries))
	for _, entry := range entries {
		regions = append(regions, entry.Record.Region)
	}
	return regions
}

func TestFinalizeRatios(t *testing.T) {
	records := []*Record{
		buildRecord("Tokyo", 100, 150),
		buildRecord("Akita", 0, 80),
		buildRecord("Empty", 0, 0),
		{Region: "Broken", PopulationA: CountOf(10), PopulationB: Count{NaN: true}},
	}
	Finalize(records)

	if v, ok := records[0].Ratio.Value(); !ok || v != 1.5 {
		t.Fatalf("expected Tokyo ratio 1.5, got %v (defined=%v)", v, ok)
	}
	if v, _ := records[1].Ratio.Value(); !math.IsInf(v, 1) {
		t.Fatalf("expected Akita ratio +Inf, got %v", v)
	}
	if v, _ := records[2].Ratio.Value(); !math.IsNaN(v) {
		t.Fatalf("expected Empty ratio NaN, got %v", v)
	}
	if v, _ := records[3].Ratio.Value(); !math.IsNaN(v) {
		t.Fatalf("expected Broken ratio NaN, got %v", v)
	}
}

func TestRankDescendingWithNonFinite(t *testing.T) {
	records := []*Record{
		buildRecord("Nothing", 0, 0),
		buildRecord("Akita", 100, 50),
		buildRecord("Gone", 0, -5),
		buildRecord("Tokyo", 100, 150),
		buildRecord("New", 0, 80),
		buildRecord("Flat", 10, 10),
	}
	Finalize(records)

	entries, err := Rank(records)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	want := []string{"New", "Tokyo", "Flat", "Akita", "Gone", "Nothing"}
	if diff := cmp.Diff(want, regionsOf(entries)); diff != "" {
		t.Fatalf("rank order mismatch (-want +got):\n%s", diff)
	}
	for i, entry := range entries {
		if entry.Position != i+1 {
			t.Fatalf("expected position %d, got %d", i+1, entry.Position)
		}
	}
}

func TestRankTiesKeepInsertionOrder(t *testing.T) {
	records := []*Record{
		buildRecord("C", 10, 20),
		buildRecord("A", 5, 10),
		buildRecord("NaN1", 0, 0),
		buildRecord("B", 1, 2),
		buildRecord("NaN2", 0, 0),
	}
	Finalize(records)

	entries, err := Rank(records)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	want := []string{"C", "A", "B", "NaN1", "NaN2"}
	if diff := cmp.Diff(want, regionsOf(entries)); diff != "" {
		t.Fatalf("rank order mismatch (-want +got):\n%s", diff)
	}
}

func TestRankRequiresFinalize(t *testing.T) {
	_, err := Rank([]*Record{buildRecord("Tokyo", 1, 2)})
	if !errors.Is(err, ErrNotFinalized) {
		t.Fatalf("expected ErrNotFinalized, got %v", err)
	}
}

func TestRankEntriesAreCopies(t *testing.T) {
	records := []*Record{buildRecord("Tokyo", 100, 150)}
	Finalize(records)
	entries, err := Rank(records)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	records[0].PopulationB = CountOf(1)
	if entries[0].Record.PopulationB != CountOf(150) {
		t.Fatalf("expected ranked entry to be unaffected by later mutation")
	}
}

func TestFormatLines(t *testing.T) {
	records := []*Record{
		buildRecord("Tokyo", 100, 150),
		buildRecord("Akita", 0, 80),
		buildRecord("Osaka", 3, 1),
		buildRecord("Empty", 0, 0),
		{Region: "Broken", PopulationA: CountOf(10), PopulationB: Count{NaN: true}},
	}
	Finalize(records)
	entries, err := Rank(records)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	want := []string{
		"Akita: 0 => 80 ratio: Infinity",
		"Tokyo: 100 => 150 ratio: 1.5",
		"Osaka: 3 => 1 ratio: 0.3333333333333333",
		"Empty: 0 => 0 ratio: NaN",
		"Broken: 10 => NaN ratio: NaN",
	}
	if diff := cmp.Diff(want, Format(entries)); diff != "" {
		t.Fatalf("format mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatRatioExtremes(t *testing.T) {
	tests := map[float64]string{
		0:            "0",
		2:            "2",
		0.5:          "0.5",
		1e21:         "1e+21",
		1e-7:         "1e-07",
		math.Inf(-1): "-Infinity",
	}
	for in, want := range tests {
		if got := formatRatio(in); got != want {
			t.Fatalf("formatRatio(%v): expected %q, got %q", in, want, got)
		}
	}
}

func TestFinalizeRankFormatIdempotent(t *testing.T) {
	acc := NewAccumulator(2010, 2015)
	acc.Ingest("Tokyo", 2010, CountOf(100))
	acc.Ingest("Tokyo", 2015, CountOf(150))
	acc.Ingest("Akita", 2010, CountOf(100))
	acc.Ingest("Akita", 2015, CountOf(50))

	run := func() []string {
		records := acc.Records()
		Finalize(records)
		entries, err := Rank(records)
		if err != nil {
			t.Fatalf("Rank: %v", err)
		}
		return Format(entries)
	}
	first := run()
	if diff := cmp.Diff(first, run()); diff != "" {
		t.Fatalf("second run differs (-first +second):\n%s", diff)
	}
}
