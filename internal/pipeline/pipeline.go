// Package pipeline orchestrates one scan-and-notify run: feed scan,
// dedup against the previous snapshot, per-filing document resolution
// and parsing, the secondary ticker filter, notification hand-off, and
// snapshot persistence.
//
// Execution is strictly sequential. New filings are processed oldest
// first so a viewer's notification stream reads chronologically. A
// failure on one filing degrades to a skip or an unenriched
// notification; only total feed failure ends the run, with nothing
// persisted.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/TobiSchelling/insiderwatch/internal/config"
	"github.com/TobiSchelling/insiderwatch/internal/database"
	"github.com/TobiSchelling/insiderwatch/internal/edgar"
	"github.com/TobiSchelling/insiderwatch/internal/form4"
	"github.com/TobiSchelling/insiderwatch/internal/notify"
	"github.com/TobiSchelling/insiderwatch/internal/scan"
	"github.com/TobiSchelling/insiderwatch/internal/snapshot"
)

// FeedSource fetches the raw Form 4 feed.
type FeedSource interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// DocumentResolver locates a filing's XML document from its landing page.
type DocumentResolver interface {
	Resolve(ctx context.Context, filingURL string) (string, error)
}

// DocumentFetcher fetches a resolved document URL.
type DocumentFetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Notifier delivers one notification per new, filter-passing filing.
type Notifier interface {
	NotifyFiling(ctx context.Context, ref database.FilingRef, rec *form4.OwnershipRecord) error
}

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full pipeline run.
type Result struct {
	Steps    []StepResult
	New      int
	Notified int
	Skipped  int
	Failed   int
}

// Pipeline runs the filing ingestion pipeline.
type Pipeline struct {
	db            *database.DB
	scanner       *scan.Scanner
	feed          FeedSource
	resolver      DocumentResolver
	fetcher       DocumentFetcher
	notifier      Notifier
	dispatchDelay time.Duration
}

// New creates a pipeline wired to EDGAR and the configured webhook. A
// missing webhook URL disables dispatch; filings are still tracked so
// state stays current.
func New(cfg *config.Config, db *database.DB) *Pipeline {
	client := edgar.NewClient(cfg.EDGAR.UserAgent, cfg.HTTPTimeout(), cfg.RequestDelay())

	var notifier Notifier
	if url := cfg.WebhookURL(); url != "" {
		notifier = notify.NewDiscord(url, cfg.HTTPTimeout())
	}

	return &Pipeline{
		db:            db,
		scanner:       scan.NewScanner(cfg.Feed.MaxEntries),
		feed:          &feedSource{client: client, url: cfg.Feed.URL},
		resolver:      edgar.NewResolver(client),
		fetcher:       client,
		notifier:      notifier,
		dispatchDelay: cfg.DispatchDelay(),
	}
}

// feedSource fetches the configured Atom feed through the EDGAR client.
type feedSource struct {
	client *edgar.Client
	url    string
}

func (f *feedSource) Fetch(ctx context.Context) ([]byte, error) {
	return f.client.Get(ctx, f.url)
}

// Run executes one scan-and-notify cycle.
func (p *Pipeline) Run(ctx context.Context) *Result {
	r := &Result{}

	tracked, err := p.db.TrackedTickerSet()
	if err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Scan", Err: fmt.Errorf("loading ticker filter: %w", err)})
		return r
	}

	log.Println("Step 1/4: Scanning the Form 4 feed...")
	data, err := p.feed.Fetch(ctx)
	if err != nil {
		// Total feed failure is the one run-aborting condition: nothing
		// is persisted, so the next run re-compares against this state.
		r.Steps = append(r.Steps, StepResult{Name: "Scan", Err: fmt.Errorf("fetching feed: %w", err)})
		return r
	}

	refs := p.scanner.Scan(data, tracked)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Scan",
		Summary: fmt.Sprintf("Retained %d filings from the feed", len(refs)),
	})
	if len(refs) == 0 {
		// Indistinguishable from a quiet feed; treat as nothing to do
		// and leave the snapshot alone.
		r.Steps = append(r.Steps, StepResult{Name: "Dedup", Summary: "Nothing to do"})
		return r
	}

	log.Println("Step 2/4: Comparing against the previous snapshot...")
	previous, err := p.db.GetSeenFilings()
	if err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Dedup", Err: fmt.Errorf("loading snapshot: %w", err)})
		return r
	}
	fresh := snapshot.Diff(previous, refs)
	r.New = len(fresh)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Dedup",
		Summary: fmt.Sprintf("%d new filings of %d scanned", len(fresh), len(refs)),
	})

	log.Printf("Step 3/4: Processing %d new filings...", len(fresh))
	for _, ref := range fresh {
		p.processFiling(ctx, ref, tracked, r)
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Notify",
		Summary: fmt.Sprintf("%d notified, %d skipped, %d delivery failures", r.Notified, r.Skipped, r.Failed),
	})

	log.Println("Step 4/4: Persisting snapshot...")
	if err := p.db.ReplaceSeenFilings(refs); err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Persist", Err: fmt.Errorf("persisting snapshot: %w", err)})
		return r
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Persist",
		Summary: fmt.Sprintf("Snapshot now holds %d filings", len(refs)),
	})
	return r
}

// processFiling enriches one new filing and hands it to the notifier.
// Every failure here is soft: the filing is skipped or announced with
// reduced detail, never fatal to the run.
func (p *Pipeline) processFiling(ctx context.Context, ref database.FilingRef, tracked map[string]struct{}, r *Result) {
	rec := p.enrich(ctx, ref)

	if !shouldNotify(rec, tracked) {
		r.Skipped++
		log.Printf("Skipping %s (ticker filter)", ref.URL)
		return
	}

	if p.notifier == nil {
		r.Skipped++
		log.Printf("No webhook configured; would have notified for %s", ref.URL)
		return
	}

	if err := p.notifier.NotifyFiling(ctx, ref, rec); err != nil {
		r.Failed++
		log.Printf("Notification failed for %s: %v", ref.URL, err)
	} else {
		r.Notified++
		log.Printf("Notified: %s", ref.Title)
	}
	if p.dispatchDelay > 0 {
		time.Sleep(p.dispatchDelay)
	}
}

// enrich resolves and parses a filing's XML document. Any failure along
// the way degrades to nil: the filing can still be announced from its
// feed fields alone.
func (p *Pipeline) enrich(ctx context.Context, ref database.FilingRef) *form4.OwnershipRecord {
	docURL, err := p.resolver.Resolve(ctx, ref.URL)
	if err != nil {
		log.Printf("Resolving document for %s: %v", ref.URL, err)
		return nil
	}
	if docURL == "" {
		log.Printf("No XML document listed for %s", ref.URL)
		return nil
	}

	data, err := p.fetcher.Get(ctx, docURL)
	if err != nil {
		log.Printf("Fetching document %s: %v", docURL, err)
		return nil
	}

	rec, err := form4.Parse(data)
	if err != nil {
		log.Printf("Parsing document %s: %v", docURL, err)
		return nil
	}
	return rec
}

// shouldNotify applies the secondary ticker filter. The XML-derived
// ticker is authoritative over the title hint. With no filter active
// every filing notifies, even unenriched ones (fail open); under an
// active filter an unenriched filing is skipped (fail closed) to keep a
// narrow watchlist quiet.
func shouldNotify(rec *form4.OwnershipRecord, tracked map[string]struct{}) bool {
	if len(tracked) == 0 {
		return true
	}
	if rec == nil {
		return false
	}
	_, ok := tracked[strings.ToUpper(rec.Ticker)]
	return ok
}
