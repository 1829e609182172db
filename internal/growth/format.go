package growth

import "fmt"

func FormatEntry(entry Entry) string {
	item := entry.Record
	return fmt.Sprintf("%s: %s => %s ratio: %s", item.Region, item.PopulationA, item.PopulationB, item.Ratio)
}

func Format(entries []Entry) []string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, FormatEntry(entry))
	}
	return lines
}
