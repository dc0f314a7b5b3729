package edgar

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Resolver locates the machine-readable ownership document behind a
// filing's landing page.
type Resolver struct {
	client *Client
}

// NewResolver creates a Resolver backed by the given client.
func NewResolver(client *Client) *Resolver {
	return &Resolver{client: client}
}

// Resolve fetches the filing landing page and returns the absolute URL
// of its primary XML document, or "" when none is listed. There is no
// retry; the caller treats both errors and "" as a soft failure for the
// one filing.
func (r *Resolver) Resolve(ctx context.Context, filingURL string) (string, error) {
	data, err := r.client.Get(ctx, filingURL)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	base, err := url.Parse(filingURL)
	if err != nil {
		return "", err
	}
	return documentURL(doc, base), nil
}

// documentURL scans the landing page's document tables row by row and
// returns the first link to a raw .xml file, resolved against base. The
// .xsl exclusion keeps the stylesheet-rendered view from shadowing the
// raw data file. Returns "" when no row qualifies.
func documentURL(doc *goquery.Document, base *url.URL) string {
	var found string
	doc.Find("table tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		href, ok := rowDocumentHref(row)
		if !ok {
			return true
		}
		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		found = base.ResolveReference(ref).String()
		return false
	})
	return found
}

func rowDocumentHref(row *goquery.Selection) (string, bool) {
	var href string
	row.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		h, exists := a.Attr("href")
		if !exists {
			return true
		}
		lower := strings.ToLower(h)
		if strings.Contains(lower, ".xml") && !strings.Contains(lower, ".xsl") {
			href = h
			return false
		}
		return true
	})
	return href, href != ""
}
