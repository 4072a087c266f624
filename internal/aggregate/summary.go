package aggregate

// Summary gathers every aggregate the report draws from.
type Summary struct {
	Types     []Count
	Ratings   []Count
	Countries []Count
	Genres    []Count
	Years     []Count

	TypeByYear *CrossTab

	// ReleaseYear is nil when no row has a release year.
	ReleaseYear *Stats

	// Duration and DurationHist cover the rows selected for duration
	// statistics; both are nil when the unit filter left no rows.
	Duration     *Stats
	DurationHist *Histogram

	// DurationDensity is the kernel density at each histogram bin centre,
	// scaled to counts. Nil when disabled or not computable.
	DurationDensity []float64

	// DurationExcluded counts rows left out of the duration statistics
	// because of their unit.
	DurationExcluded int
}
