package scan

import (
	"fmt"
	"strings"
	"testing"
)

func atomFeed(entries ...string) []byte {
	return []byte(`<?xml version="1.0" encoding="ISO-8859-1"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Latest Filings - Form 4</title>
  <updated>2026-08-31T12:00:00-04:00</updated>
` + strings.Join(entries, "\n") + `
</feed>`)
}

func atomEntry(title, href, updated, summary string) string {
	link := ""
	if href != "" {
		link = fmt.Sprintf(`<link rel="alternate" type="text/html" href=%q/>`, href)
	}
	return fmt.Sprintf(`  <entry>
    <title>%s</title>
    %s
    <summary type="html">%s</summary>
    <updated>%s</updated>
    <id>urn:tag:sec.gov,2008:accession-number=%s</id>
  </entry>`, title, link, summary, updated, href)
}

func TestExtractTickerHint(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Example Corp (EXMP) - Form 4", "EXMP"},
		{"Example Corp - Form 4", ""},
		{"", ""},
		{"4 - Acme Holdings (ACME) (Issuer)", "ACME"},
		{"Lowercase (abc) only", ""},
		{"Mixed (AbC) case", ""},
		{"Two (AA) hints (BB)", "AA"},
	}
	for _, tt := range tests {
		if got := ExtractTickerHint(tt.title); got != tt.want {
			t.Errorf("ExtractTickerHint(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestExtractTickerHintIdempotent(t *testing.T) {
	title := "Example Corp (EXMP) - Form 4"
	first := ExtractTickerHint(title)
	second := ExtractTickerHint(title)
	if first != second {
		t.Errorf("extraction not idempotent: %q vs %q", first, second)
	}
}

func TestScanParsesEntries(t *testing.T) {
	s := NewScanner(50)
	data := atomFeed(
		atomEntry("4 - Acme Corp (ACME) (Issuer)", "https://sec.gov/filings/acme", "2026-08-31T10:30:00-04:00", "Form 4 filed by insider"),
		atomEntry("4 - Other Corp (Issuer)", "https://sec.gov/filings/other", "2026-08-31T10:00:00-04:00", ""),
	)

	refs := s.Scan(data, nil)
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}

	first := refs[0]
	if first.URL != "https://sec.gov/filings/acme" {
		t.Errorf("unexpected URL: %q", first.URL)
	}
	if first.TickerHint != "ACME" {
		t.Errorf("expected hint ACME, got %q", first.TickerHint)
	}
	if first.Summary != "Form 4 filed by insider" {
		t.Errorf("unexpected summary: %q", first.Summary)
	}
	if first.FilingDate == "" {
		t.Error("expected filing date to be populated")
	}
	if refs[1].TickerHint != "" {
		t.Errorf("expected no hint, got %q", refs[1].TickerHint)
	}
}

func TestScanDropsEntriesWithoutLink(t *testing.T) {
	s := NewScanner(50)
	data := atomFeed(
		atomEntry("4 - No Link Corp (NLNK) (Issuer)", "", "2026-08-31T10:00:00-04:00", ""),
		atomEntry("4 - Linked Corp (LNKD) (Issuer)", "https://sec.gov/filings/linked", "2026-08-31T09:00:00-04:00", ""),
	)

	refs := s.Scan(data, nil)
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}
	if refs[0].TickerHint != "LNKD" {
		t.Errorf("expected LNKD to survive, got %q", refs[0].TickerHint)
	}
	// Every entry carries a urn: id; it must never stand in for the link.
	if strings.HasPrefix(refs[0].URL, "urn:") {
		t.Errorf("entry id leaked into the filing URL: %q", refs[0].URL)
	}
}

func TestScanEarlyTickerFilter(t *testing.T) {
	s := NewScanner(50)
	tracked := map[string]struct{}{"ACME": {}}
	data := atomFeed(
		atomEntry("4 - Acme Corp (ACME) (Issuer)", "https://sec.gov/filings/acme", "2026-08-31T10:00:00-04:00", ""),
		atomEntry("4 - Other Corp (OTHR) (Issuer)", "https://sec.gov/filings/other", "2026-08-31T09:30:00-04:00", ""),
		atomEntry("4 - Hintless Corp (Issuer)", "https://sec.gov/filings/hintless", "2026-08-31T09:00:00-04:00", ""),
	)

	refs := s.Scan(data, tracked)
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs (tracked + hintless), got %d", len(refs))
	}
	if refs[0].TickerHint != "ACME" {
		t.Errorf("expected ACME first, got %q", refs[0].TickerHint)
	}
	if refs[1].URL != "https://sec.gov/filings/hintless" {
		t.Errorf("expected hintless entry to survive for secondary filter, got %q", refs[1].URL)
	}
}

func TestScanEmptyTrackedSetKeepsEverything(t *testing.T) {
	s := NewScanner(50)
	data := atomFeed(
		atomEntry("4 - Other Corp (OTHR) (Issuer)", "https://sec.gov/filings/other", "2026-08-31T09:00:00-04:00", ""),
	)

	refs := s.Scan(data, map[string]struct{}{})
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref with empty tracked set, got %d", len(refs))
	}
}

func TestScanTruncatesToMaxEntries(t *testing.T) {
	s := NewScanner(3)
	var entries []string
	for i := 0; i < 10; i++ {
		entries = append(entries, atomEntry(
			fmt.Sprintf("4 - Corp %d (Issuer)", i),
			fmt.Sprintf("https://sec.gov/filings/%d", i),
			"2026-08-31T09:00:00-04:00", "",
		))
	}

	refs := s.Scan(atomFeed(entries...), nil)
	if len(refs) != 3 {
		t.Fatalf("expected 3 refs, got %d", len(refs))
	}
	// Newest-first order preserved from the feed.
	if refs[0].URL != "https://sec.gov/filings/0" {
		t.Errorf("expected newest entry first, got %q", refs[0].URL)
	}
}

func TestScanMalformedFeed(t *testing.T) {
	s := NewScanner(50)
	refs := s.Scan([]byte("this is not a feed"), nil)
	if len(refs) != 0 {
		t.Errorf("expected empty result for malformed feed, got %d refs", len(refs))
	}
}
