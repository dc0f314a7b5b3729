// Package scan turns the raw EDGAR Atom feed into filing references,
// applying the early ticker filter.
package scan

import (
	"bytes"
	"log"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/TobiSchelling/insiderwatch/internal/database"
)

// tickerHintExpr matches a parenthesized run of uppercase letters in an
// entry title, e.g. "Acme Corp (ACME) - Form 4". Titles without such a
// run yield no hint; the XML-derived ticker is checked later instead.
var tickerHintExpr = regexp.MustCompile(`\(([A-Z]+)\)`)

// Scanner parses the Form 4 feed into filing references.
type Scanner struct {
	parser     *gofeed.Parser
	maxEntries int
}

// NewScanner creates a Scanner that retains at most maxEntries refs per scan.
func NewScanner(maxEntries int) *Scanner {
	if maxEntries <= 0 {
		maxEntries = 50
	}
	return &Scanner{parser: gofeed.NewParser(), maxEntries: maxEntries}
}

// Scan parses raw feed bytes into filing refs, newest first. Entries
// without a link are dropped. When tracked is non-empty, entries whose
// title carries a ticker hint outside the set are discarded before any
// further processing; entries without a hint always survive to the
// secondary filter. A feed that fails to parse yields an empty result.
func (s *Scanner) Scan(data []byte, tracked map[string]struct{}) []database.FilingRef {
	feed, err := s.parser.Parse(bytes.NewReader(data))
	if err != nil {
		log.Printf("Failed to parse feed: %v", err)
		return nil
	}

	var refs []database.FilingRef
	for _, item := range feed.Items {
		if len(refs) >= s.maxEntries {
			break
		}

		ref := parseItem(item)
		if ref == nil {
			continue
		}
		if skipByHint(ref.TickerHint, tracked) {
			continue
		}
		refs = append(refs, *ref)
	}

	return refs
}

func parseItem(item *gofeed.Item) *database.FilingRef {
	// The link is the filing's identity; EDGAR entry ids are urn: strings
	// and cannot stand in for it. No link means no ref.
	if item.Link == "" {
		return nil
	}

	title := strings.TrimSpace(item.Title)

	date := item.Updated
	if date == "" {
		date = item.Published
	}

	return &database.FilingRef{
		Title:      title,
		URL:        item.Link,
		FilingDate: date,
		Summary:    strings.TrimSpace(item.Description),
		TickerHint: ExtractTickerHint(title),
	}
}

// ExtractTickerHint pulls a symbol from an entry title, or returns ""
// when the title carries none.
func ExtractTickerHint(title string) string {
	m := tickerHintExpr.FindStringSubmatch(title)
	if m == nil {
		return ""
	}
	return m[1]
}

// skipByHint reports whether the early filter discards an entry. Only a
// present hint outside a non-empty tracked set is discarded: the hint is
// a heuristic, so hintless entries are left for the secondary filter.
func skipByHint(hint string, tracked map[string]struct{}) bool {
	if len(tracked) == 0 || hint == "" {
		return false
	}
	_, ok := tracked[hint]
	return !ok
}
