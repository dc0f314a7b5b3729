package form4

import "testing"

func TestTransactionLabel(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"P", "Purchase"},
		{"S", "Sale"},
		{"A", "Grant/Award"},
		{"D", "Disposition"},
		{"F", "Payment of Exercise Price/Tax"},
		{"I", "Discretionary Transaction"},
		{"M", "Exercise/Conversion"},
		{"X", "Exercise of Options"},
		{"G", "Gift"},
		{"W", "Acquisition (Will)/Inheritance"},
		{"C", "Conversion"},
		{"J", "Other"},
		{"K", "Transaction in Equity Swap"},
		{"Z", "Z"}, // unrecognized codes pass through
		{"", ""},
	}
	for _, tt := range tests {
		if got := TransactionLabel(tt.code); got != tt.want {
			t.Errorf("TransactionLabel(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCodeDirection(t *testing.T) {
	buys := []string{"P", "A", "M", "X"}
	for _, code := range buys {
		if CodeDirection(code) != DirectionBuy {
			t.Errorf("expected %q to be a buy", code)
		}
	}
	sells := []string{"S", "D", "F"}
	for _, code := range sells {
		if CodeDirection(code) != DirectionSell {
			t.Errorf("expected %q to be a sell", code)
		}
	}
	neutrals := []string{"I", "G", "W", "C", "J", "K", "Z", ""}
	for _, code := range neutrals {
		if CodeDirection(code) != DirectionNeutral {
			t.Errorf("expected %q to be neutral", code)
		}
	}
}

func TestComputeAmount(t *testing.T) {
	tests := []struct {
		shares string
		price  string
		want   float64
	}{
		{"500", "10.00", 5000},
		{"1,000", "12.50", 12500},
		{"1,234,567", "1", 1234567},
		{" 10 ", "2.5", 25},
		{"0", "0", 0},
		{"abc", "10", 0},
		{"10", "n/a", 0},
		{"", "", 0},
	}
	for _, tt := range tests {
		if got := computeAmount(tt.shares, tt.price); got != tt.want {
			t.Errorf("computeAmount(%q, %q) = %v, want %v", tt.shares, tt.price, got, tt.want)
		}
	}
}

func TestClassifyDefaults(t *testing.T) {
	raw := xmlTransaction{
		Date: valueT{Value: "2026-08-28"},
	}
	tx, err := classify(raw, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Security != "Common Stock" {
		t.Errorf("security = %q", tx.Security)
	}
	if tx.Shares != "0" || tx.Price != "0" {
		t.Errorf("shares/price = %q/%q, want 0/0", tx.Shares, tx.Price)
	}
	if tx.Amount != 0 {
		t.Errorf("amount = %v", tx.Amount)
	}
}

func TestClassifyEmptyElement(t *testing.T) {
	if _, err := classify(xmlTransaction{}, false); err == nil {
		t.Error("expected empty element to be unparseable")
	}
}

func TestClassifyUnknownCodePassesThrough(t *testing.T) {
	raw := xmlTransaction{
		Coding: xmlCoding{Code: "Z"},
	}
	tx, err := classify(raw, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Type != "Z" {
		t.Errorf("type = %q, want passthrough Z", tx.Type)
	}
	if !tx.IsDerivative {
		t.Error("expected derivative flag to carry through")
	}
}
