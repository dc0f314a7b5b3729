// Package notify delivers filing notifications to a Discord webhook.
// Content layout is cosmetic; delivery failures are reported to the
// caller, which logs and moves on.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/TobiSchelling/insiderwatch/internal/database"
	"github.com/TobiSchelling/insiderwatch/internal/form4"
)

const (
	colorBuy     = 0x2ecc71
	colorSell    = 0xe74c3c
	colorNeutral = 0x3498db

	maxDescription = 500
	maxEmbedFields = 10
)

// Discord posts filing notifications to a webhook URL.
type Discord struct {
	webhookURL string
	client     *http.Client
}

// NewDiscord creates a notifier. A zero timeout defaults to 15s.
func NewDiscord(webhookURL string, timeout time.Duration) *Discord {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Discord{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
	}
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields,omitempty"`
	Footer      embedFooter  `json:"footer"`
	Timestamp   string       `json:"timestamp"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type embedFooter struct {
	Text string `json:"text"`
}

// NotifyFiling sends one notification for a new filing. rec may be nil
// when document resolution or parsing failed; the notification then
// falls back to the feed entry's own fields.
func (d *Discord) NotifyFiling(ctx context.Context, ref database.FilingRef, rec *form4.OwnershipRecord) error {
	return d.post(ctx, webhookPayload{Embeds: []embed{filingEmbed(ref, rec)}})
}

// NotifyTickers sends a summary of the active tracked-ticker set after
// a mutation.
func (d *Discord) NotifyTickers(ctx context.Context, action string, symbols []string) error {
	desc := "Tracking all filings (no filter active)."
	if len(symbols) > 0 {
		desc = "Tracking: " + strings.Join(symbols, ", ")
	}
	e := embed{
		Title:       "Ticker filter " + action,
		Description: desc,
		Color:       colorNeutral,
		Footer:      embedFooter{Text: "SEC EDGAR Form 4 Tracker"},
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	return d.post(ctx, webhookPayload{Embeds: []embed{e}})
}

func filingEmbed(ref database.FilingRef, rec *form4.OwnershipRecord) embed {
	e := embed{
		Title:     "New Form 4 Filing: " + companyName(ref, rec),
		URL:       ref.URL,
		Color:     colorNeutral,
		Footer:    embedFooter{Text: "SEC EDGAR Form 4 Tracker"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if ref.FilingDate != "" {
		e.Fields = append(e.Fields, embedField{Name: "Filing Time", Value: ref.FilingDate, Inline: true})
	}

	if rec == nil {
		e.Description = truncate(ref.Summary, maxDescription)
		return e
	}

	e.Color = embedColor(rec.Transactions)
	e.Fields = append(e.Fields,
		embedField{Name: "Ticker", Value: rec.Ticker, Inline: true},
		embedField{Name: "Insider", Value: rec.OwnerName + " — " + rec.OwnerTitle},
	)
	for i, tx := range rec.Transactions {
		if len(e.Fields) >= maxEmbedFields {
			break
		}
		e.Fields = append(e.Fields, embedField{
			Name:  fmt.Sprintf("Transaction %d: %s", i+1, tx.Type),
			Value: transactionLine(tx),
		})
	}
	if len(rec.Transactions) == 0 {
		e.Description = truncate(ref.Summary, maxDescription)
	}
	return e
}

func transactionLine(tx form4.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s — %s shares @ $%s", tx.Security, tx.Shares, tx.Price)
	if tx.Amount > 0 {
		fmt.Fprintf(&b, " ($%.2f)", tx.Amount)
	}
	if tx.Date != "" {
		fmt.Fprintf(&b, " on %s", tx.Date)
	}
	if tx.IsDerivative {
		b.WriteString(" [derivative]")
	}
	return b.String()
}

// embedColor picks the accent from the first directional transaction.
func embedColor(txs []form4.Transaction) int {
	for _, tx := range txs {
		switch form4.CodeDirection(tx.Code) {
		case form4.DirectionBuy:
			return colorBuy
		case form4.DirectionSell:
			return colorSell
		}
	}
	return colorNeutral
}

func companyName(ref database.FilingRef, rec *form4.OwnershipRecord) string {
	if rec != nil && rec.IssuerName != "" && rec.IssuerName != "N/A" {
		return rec.IssuerName
	}
	// Feed titles look like "4 - Acme Corp (ACME) (Issuer)".
	name := ref.Title
	if _, rest, ok := strings.Cut(name, " - "); ok {
		name = rest
	}
	if name == "" {
		return "Unknown Company"
	}
	return name
}

// truncate cuts s to at most max bytes on a rune boundary.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func (d *Discord) post(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
