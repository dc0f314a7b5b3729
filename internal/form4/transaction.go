package form4

import (
	"errors"
	"strconv"
	"strings"
)

// Transaction is one reported transaction line from an ownership
// document, classified and with its dollar amount computed.
type Transaction struct {
	Security         string // security title, "Common Stock" when absent
	Date             string
	Code             string // single-letter transaction code
	Type             string // human label for Code; unknown codes pass through
	Shares           string // decimal text, "0" when absent
	Price            string // decimal text, "0" when absent
	Amount           float64
	IsDerivative     bool
	AcquiredDisposed string // "A" or "D", non-derivative only
	SharesOwnedAfter string // non-derivative only
}

// Direction is the buy/sell/neutral bucket of a transaction code.
type Direction int

const (
	DirectionNeutral Direction = iota
	DirectionBuy
	DirectionSell
)

// transactionTypes maps SEC transaction codes to human labels. The
// derivative and non-derivative code sets overlap; this is the merged
// table applied to both.
var transactionTypes = map[string]string{
	"P": "Purchase",
	"S": "Sale",
	"A": "Grant/Award",
	"D": "Disposition",
	"F": "Payment of Exercise Price/Tax",
	"I": "Discretionary Transaction",
	"M": "Exercise/Conversion",
	"X": "Exercise of Options",
	"G": "Gift",
	"W": "Acquisition (Will)/Inheritance",
	"C": "Conversion",
	"J": "Other",
	"K": "Transaction in Equity Swap",
}

var transactionDirections = map[string]Direction{
	"P": DirectionBuy,
	"A": DirectionBuy,
	"M": DirectionBuy,
	"X": DirectionBuy,
	"S": DirectionSell,
	"D": DirectionSell,
	"F": DirectionSell,
}

// TransactionLabel returns the human label for a transaction code.
// Unrecognized codes pass through as themselves.
func TransactionLabel(code string) string {
	if label, ok := transactionTypes[code]; ok {
		return label
	}
	return code
}

// CodeDirection returns the directional bucket for a transaction code.
// Unrecognized codes are neutral.
func CodeDirection(code string) Direction {
	return transactionDirections[code]
}

var errEmptyTransaction = errors.New("empty transaction element")

// classify turns one raw transaction element into a Transaction. An
// element with no usable content at all is unparseable; the caller
// drops it without aborting the record.
func classify(raw xmlTransaction, derivative bool) (*Transaction, error) {
	date := raw.Date.or("")
	code := strings.TrimSpace(raw.Coding.Code)
	shares := raw.Amounts.Shares.or("")
	price := raw.Amounts.Price.or("")
	security := raw.SecurityTitle.or("")

	if date == "" && code == "" && shares == "" && price == "" && security == "" {
		return nil, errEmptyTransaction
	}

	if security == "" {
		security = "Common Stock"
	}
	if shares == "" {
		shares = "0"
	}
	if price == "" {
		price = "0"
	}

	t := &Transaction{
		Security:     security,
		Date:         date,
		Code:         code,
		Type:         TransactionLabel(code),
		Shares:       shares,
		Price:        price,
		Amount:       computeAmount(shares, price),
		IsDerivative: derivative,
	}
	if !derivative {
		t.AcquiredDisposed = raw.Amounts.AcquiredDisposed.or("")
		t.SharesOwnedAfter = raw.PostAmounts.SharesOwned.or("")
	}
	return t, nil
}

// computeAmount multiplies shares by price. Thousands separators are
// stripped before conversion; any conversion failure yields 0.
func computeAmount(shares, price string) float64 {
	s, err := parseDecimal(shares)
	if err != nil {
		return 0
	}
	p, err := parseDecimal(price)
	if err != nil {
		return 0
	}
	return s * p
}

func parseDecimal(text string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	return strconv.ParseFloat(cleaned, 64)
}
