package database

// FilingRef is one feed entry: a reference to a single Form 4 filing.
// The filing URL is the canonical identity key; refs without one are
// dropped during scanning.
type FilingRef struct {
	Title      string
	URL        string
	FilingDate string // feed-supplied timestamp text, format not guaranteed parseable
	Summary    string
	TickerHint string // symbol extracted from the title, empty when absent
}
