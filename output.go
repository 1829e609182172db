package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"prefecture-growth/internal/growth"
)

type rankingSummary struct {
	GeneratedAt string             `json:"generated_at"`
	Source      string             `json:"source"`
	EarlierYear int64              `json:"earlier_year"`
	LaterYear   int64              `json:"later_year"`
	Stats       growth.Stats       `json:"stats"`
	Rankings    []rankingRecord    `json:"rankings"`
	Duplicates  []growth.Duplicate `json:"duplicates"`
}

type rankingRecord struct {
	Position    int          `json:"position"`
	Region      string       `json:"region"`
	PopulationA growth.Count `json:"population_a"`
	PopulationB growth.Count `json:"population_b"`
	Ratio       growth.Ratio `json:"ratio"`
}

func summarize(report *growth.Report, source string, opts growth.Options) rankingSummary {
	records := make([]rankingRecord, 0, len(report.Entries))
	for _, entry := range report.Entries {
		records = append(records, rankingRecord{
			Position:    entry.Position,
			Region:      entry.Record.Region,
			PopulationA: entry.Record.PopulationA,
			PopulationB: entry.Record.PopulationB,
			Ratio:       entry.Record.Ratio,
		})
	}
	duplicates := report.Duplicates
	if duplicates == nil {
		duplicates = []growth.Duplicate{}
	}
	return rankingSummary{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Source:      source,
		EarlierYear: opts.EarlierYear,
		LaterYear:   opts.LaterYear,
		Stats:       report.Stats,
		Rankings:    records,
		Duplicates:  duplicates,
	}
}

func printRanking(w io.Writer, report *growth.Report, opts growth.Options, topN int) {
	title := fmt.Sprintf("Population Growth %d => %d", opts.EarlierYear, opts.LaterYear)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
	fmt.Fprintf(w, "Lines:      %d\n", report.Stats.Lines)
	fmt.Fprintf(w, "Qualifying: %d\n", report.Stats.Qualifying)
	fmt.Fprintf(w, "Regions:    %d\n", report.Stats.Regions)
	if len(report.Duplicates) > 0 {
		fmt.Fprintf(w, "Duplicates: %d (last value kept)\n", len(report.Duplicates))
	}

	if len(report.Lines) == 0 {
		fmt.Fprintln(w, "\nNo regions found.")
		return
	}
	fmt.Fprintln(w, "\nRanking")
	fmt.Fprintln(w, strings.Repeat("-", 7))
	limit := len(report.Lines)
	if topN > 0 && topN < limit {
		limit = topN
	}
	for i := 0; i < limit; i++ {
		fmt.Fprintf(w, "%d. %s\n", i+1, report.Lines[i])
	}
	if limit < len(report.Lines) {
		fmt.Fprintf(w, "... %d more\n", len(report.Lines)-limit)
	}
}

func writeJSON(path string, summary rankingSummary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create JSON output: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("unable to write JSON output: %w", err)
	}
	return nil
}
