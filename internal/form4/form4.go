// Package form4 parses SEC ownership documents (Form 4 XML) into typed
// records. Filer software varies in which elements it emits, so every
// lookup degrades to a stated default instead of failing; only a
// missing issuer section makes a document unusable.
package form4

import (
	"encoding/xml"
	"strings"
)

// OwnershipRecord is the parsed content of one filing's XML document.
type OwnershipRecord struct {
	IssuerName   string
	Ticker       string
	CIK          string
	OwnerName    string
	OwnerTitle   string
	Transactions []Transaction // document order, non-derivative before derivative
}

// valueT is an element that carries its text either in a <value> child
// or directly as character data, depending on the filer software.
type valueT struct {
	Value string `xml:"value"`
	Text  string `xml:",chardata"`
}

// or returns the element's text, or def when the element is absent or blank.
func (v valueT) or(def string) string {
	if s := strings.TrimSpace(v.Value); s != "" {
		return s
	}
	if s := strings.TrimSpace(v.Text); s != "" {
		return s
	}
	return def
}

type xmlDocument struct {
	Issuer          *xmlIssuer       `xml:"issuer"`
	ReportingOwners []xmlOwner       `xml:"reportingOwner"`
	NonDerivative   xmlNonDerivTable `xml:"nonDerivativeTable"`
	Derivative      xmlDerivTable    `xml:"derivativeTable"`
}

type xmlIssuer struct {
	CIK    valueT `xml:"issuerCik"`
	Name   valueT `xml:"issuerName"`
	Symbol valueT `xml:"issuerTradingSymbol"`
}

type xmlOwner struct {
	ID           xmlOwnerID           `xml:"reportingOwnerId"`
	Relationship xmlOwnerRelationship `xml:"reportingOwnerRelationship"`
}

type xmlOwnerID struct {
	Name valueT `xml:"rptOwnerName"`
}

type xmlOwnerRelationship struct {
	IsDirector        valueT `xml:"isDirector"`
	IsOfficer         valueT `xml:"isOfficer"`
	IsTenPercentOwner valueT `xml:"isTenPercentOwner"`
	IsOther           valueT `xml:"isOther"`
	OfficerTitle      valueT `xml:"officerTitle"`
}

// The transaction element name differs between the two tables; the
// field layout inside is shared.
type xmlNonDerivTable struct {
	Transactions []xmlTransaction `xml:"nonDerivativeTransaction"`
}

type xmlDerivTable struct {
	Transactions []xmlTransaction `xml:"derivativeTransaction"`
}

type xmlTransaction struct {
	SecurityTitle valueT        `xml:"securityTitle"`
	Date          valueT        `xml:"transactionDate"`
	Coding        xmlCoding     `xml:"transactionCoding"`
	Amounts       xmlAmounts    `xml:"transactionAmounts"`
	PostAmounts   xmlPostAmount `xml:"postTransactionAmounts"`
}

type xmlCoding struct {
	Code string `xml:"transactionCode"`
}

type xmlAmounts struct {
	Shares           valueT `xml:"transactionShares"`
	Price            valueT `xml:"transactionPricePerShare"`
	AcquiredDisposed valueT `xml:"transactionAcquiredDisposedCode"`
}

type xmlPostAmount struct {
	SharesOwned valueT `xml:"sharesOwnedFollowingTransaction"`
}

// Parse parses raw ownership-document bytes. It returns (nil, nil) when
// the document has no issuer section, the one mandatory piece; a record
// with an issuer but zero parseable transactions is still returned, so
// a sparse filing can still be announced. A syntactically broken
// document returns an error.
//
// encoding/xml matches fields against whatever the root element is, so
// documents without the usual <ownershipDocument> wrapper parse the
// same way.
func Parse(data []byte) (*OwnershipRecord, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if doc.Issuer == nil {
		return nil, nil
	}

	rec := &OwnershipRecord{
		IssuerName: doc.Issuer.Name.or("N/A"),
		Ticker:     doc.Issuer.Symbol.or("N/A"),
		CIK:        doc.Issuer.CIK.or("N/A"),
		OwnerName:  "N/A",
		OwnerTitle: "Beneficial Owner",
	}

	if len(doc.ReportingOwners) > 0 {
		owner := doc.ReportingOwners[0]
		rec.OwnerName = owner.ID.Name.or("N/A")
		if title := ownerTitle(owner.Relationship); title != "" {
			rec.OwnerTitle = title
		}
	}

	for _, raw := range doc.NonDerivative.Transactions {
		if t, err := classify(raw, false); err == nil {
			rec.Transactions = append(rec.Transactions, *t)
		}
	}
	for _, raw := range doc.Derivative.Transactions {
		if t, err := classify(raw, true); err == nil {
			rec.Transactions = append(rec.Transactions, *t)
		}
	}

	return rec, nil
}

// ownerTitle concatenates the relationship roles that are flagged true.
// The officer role contributes its free-text title when present.
// Returns "" when no flag is set; the caller applies the default.
func ownerTitle(rel xmlOwnerRelationship) string {
	var roles []string
	if boolFlag(rel.IsDirector) {
		roles = append(roles, "Director")
	}
	if boolFlag(rel.IsOfficer) {
		if title := rel.OfficerTitle.or(""); title != "" {
			roles = append(roles, "Officer ("+title+")")
		} else {
			roles = append(roles, "Officer")
		}
	}
	if boolFlag(rel.IsTenPercentOwner) {
		roles = append(roles, "10% Owner")
	}
	if boolFlag(rel.IsOther) {
		roles = append(roles, "Other")
	}
	return strings.Join(roles, ", ")
}

// boolFlag interprets the 0/1 and true/false spellings filers use.
func boolFlag(v valueT) bool {
	switch strings.ToLower(v.or("")) {
	case "1", "true":
		return true
	}
	return false
}
