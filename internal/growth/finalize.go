package growth

// Finalize sets the ratio of every record to PopulationB / PopulationA.
// Division by zero yields ±Inf or NaN and is kept as is.
func Finalize(records []*Record) {
	for _, item := range records {
		item.Ratio = RatioOf(item.PopulationB.Float() / item.PopulationA.Float())
	}
}
