package growth

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeFixedPositions(t *testing.T) {
	d := NewDecoder(DefaultOptions())

	tests := []struct {
		name string
		raw  string
		want Line
	}{
		{
			name: "well formed",
			raw:  "2010,Tokyo,x,100",
			want: Line{Year: CountOf(2010), Region: "Tokyo", Population: CountOf(100)},
		},
		{
			name: "extra fields ignored",
			raw:  "2015,Akita,x,80,81,82",
			want: Line{Year: CountOf(2015), Region: "Akita", Population: CountOf(80)},
		},
		{
			name: "region not trimmed",
			raw:  "2010, Osaka ,x,5",
			want: Line{Year: CountOf(2010), Region: " Osaka ", Population: CountOf(5)},
		},
		{
			name: "header line",
			raw:  "year,region,band,population",
			want: Line{Year: Count{NaN: true}, Region: "region", Population: Count{NaN: true}},
		},
		{
			name: "missing population",
			raw:  "2010,Tokyo",
			want: Line{Year: CountOf(2010), Region: "Tokyo", Population: Count{NaN: true}},
		},
		{
			name: "empty line",
			raw:  "",
			want: Line{Year: Count{NaN: true}, Population: Count{NaN: true}},
		},
		{
			name: "quoted fields are not unquoted",
			raw:  `"2010","Tokyo",x,"100"`,
			want: Line{Year: Count{NaN: true}, Region: `"Tokyo"`, Population: Count{NaN: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Decode(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Decode(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestParseCountLeadingDigits(t *testing.T) {
	tests := []struct {
		in   string
		want Count
	}{
		{"100", CountOf(100)},
		{"  42", CountOf(42)},
		{"2010\r", CountOf(2010)},
		{"12abc", CountOf(12)},
		{"-7", CountOf(-7)},
		{"+9", CountOf(9)},
		{"abc", Count{NaN: true}},
		{"", Count{NaN: true}},
		{"-", Count{NaN: true}},
		{"99999999999999999999", Count{NaN: true}},
	}
	for _, tt := range tests {
		if got := parseCount(tt.in); got != tt.want {
			t.Fatalf("parseCount(%q): expected %+v, got %+v", tt.in, tt.want, got)
		}
	}
}

func TestQualifiesOnlyReferenceYears(t *testing.T) {
	d := NewDecoder(DefaultOptions())
	for raw, want := range map[string]bool{
		"2010,Tokyo,x,1": true,
		"2015,Tokyo,x,1": true,
		"2020,Tokyo,x,1": false,
		"abcd,Tokyo,x,1": false,
	} {
		if got := d.Qualifies(d.Decode(raw)); got != want {
			t.Fatalf("Qualifies(%q): expected %v, got %v", raw, want, got)
		}
	}
}

func TestDecodeCustomLayout(t *testing.T) {
	opts := Options{EarlierYear: 2000, LaterYear: 2020, YearField: 2, RegionField: 0, PopulationField: 1, Delimiter: ";"}
	d := NewDecoder(opts)
	got := d.Decode("Hokkaido;500;2020")
	want := Line{Year: CountOf(2020), Region: "Hokkaido", Population: CountOf(500)}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if !d.Qualifies(got) {
		t.Fatalf("expected 2020 to qualify")
	}
}
