package fundamentals

import (
	"context"
	"encoding/json"
	"testing"

	"stock-advisor/internal/types"
)

func TestBuildSnapshot(t *testing.T) {
	payload := `{
		"quoteSummary": {
			"result": [{
				"price": {
					"longName": "Reliance Industries Limited",
					"regularMarketPrice": {"raw": 2456.75},
					"marketCap": {"raw": 1662000000000}
				},
				"assetProfile": {"sector": "Energy", "industry": "Oil & Gas Refining"},
				"summaryDetail": {
					"trailingPE": {"raw": 24.5},
					"beta": {"raw": 1.1}
				},
				"defaultKeyStatistics": {
					"priceToBook": {"raw": 2.1}
				},
				"financialData": {
					"returnOnEquity": {"raw": 0.089},
					"profitMargins": {"raw": 0.078},
					"debtToEquity": {"raw": 0.44},
					"revenueGrowth": {"raw": 0.12}
				}
			}],
			"error": null
		}
	}`

	var qs quoteSummaryResponse
	if err := json.Unmarshal([]byte(payload), &qs); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	s := buildSnapshot("RELIANCE", &qs.QuoteSummary.Result[0])

	if s.CompanyName != "Reliance Industries Limited" {
		t.Errorf("company name %q", s.CompanyName)
	}
	if s.Sector != "Energy" {
		t.Errorf("sector %q", s.Sector)
	}
	if s.PERatio == nil || *s.PERatio != 24.5 {
		t.Errorf("PE %v", s.PERatio)
	}
	if s.ROE == nil || *s.ROE != 0.089 {
		t.Errorf("ROE %v", s.ROE)
	}
	if s.MarketCap != "₹1.66T" {
		t.Errorf("market cap %q", s.MarketCap)
	}
	if s.DataQuality != "good" {
		t.Errorf("quality %q, want good", s.DataQuality)
	}
}

func TestBuildSnapshotSparseRecord(t *testing.T) {
	payload := `{
		"quoteSummary": {
			"result": [{
				"price": {"shortName": "Obscure Co", "marketCap": {"raw": 80000000}}
			}],
			"error": null
		}
	}`

	var qs quoteSummaryResponse
	if err := json.Unmarshal([]byte(payload), &qs); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	s := buildSnapshot("OBSCURE", &qs.QuoteSummary.Result[0])

	if s.CompanyName != "Obscure Co" {
		t.Errorf("company name %q", s.CompanyName)
	}
	if s.PERatio != nil {
		t.Error("PE should be nil when the module is absent")
	}
	if s.DataQuality != "poor" {
		t.Errorf("quality %q, want poor", s.DataQuality)
	}
	if s.MarketCap != "₹8.00Cr" {
		t.Errorf("market cap %q", s.MarketCap)
	}
}

func TestAssessQuality(t *testing.T) {
	v := types.Float(1)
	tests := []struct {
		metrics []*float64
		want    string
	}{
		{[]*float64{v, v, v, v}, "good"},
		{[]*float64{v, v, v, nil}, "good"},
		{[]*float64{v, v, nil, nil}, "fair"},
		{[]*float64{v, nil, nil, nil}, "poor"},
		{[]*float64{nil, nil, nil, nil}, "poor"},
	}

	for _, tt := range tests {
		if got := assessQuality(tt.metrics...); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestFormatINR(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{1.25e12, "₹1.25T"},
		{3.4e9, "₹3.40B"},
		{2.5e7, "₹2.50Cr"},
		{7.2e5, "₹7.20L"},
		{950, "₹950"},
	}

	for _, tt := range tests {
		if got := FormatINR(tt.value); got != tt.want {
			t.Errorf("%.0f: got %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestIntrinsicValue(t *testing.T) {
	f := &types.FundamentalSnapshot{
		Ticker:       "TCS",
		PERatio:      types.Float(25),
		CurrentPrice: types.Float(1000),
	}

	v, err := IntrinsicValue(f)
	if err != nil {
		t.Fatalf("IntrinsicValue failed: %v", err)
	}
	if v.EstimatedFairValue != 800 {
		t.Errorf("fair value %.1f, want 800", v.EstimatedFairValue)
	}
	if v.Verdict != "overvalued" {
		t.Errorf("verdict %q", v.Verdict)
	}
	if v.UpsidePotential != -20 {
		t.Errorf("upside %.1f, want -20", v.UpsidePotential)
	}
}

func TestIntrinsicValueInsufficientData(t *testing.T) {
	if _, err := IntrinsicValue(&types.FundamentalSnapshot{Ticker: "X"}); err == nil {
		t.Error("expected error without PE and price")
	}
	if _, err := IntrinsicValue(nil); err == nil {
		t.Error("expected error for nil record")
	}
}

func TestMockProviderDeterministic(t *testing.T) {
	m := NewMockProvider()
	ctx := context.Background()

	a := m.Fetch(ctx, "RELIANCE")
	b := m.Fetch(ctx, "RELIANCE")

	if *a.PERatio != *b.PERatio || *a.ROE != *b.ROE {
		t.Error("same ticker should produce identical records")
	}
	if a.Err != "" || a.DataQuality != "good" {
		t.Errorf("mock record should be complete, got %+v", a)
	}

	other := m.Fetch(ctx, "TCS")
	if *a.PERatio == *other.PERatio {
		t.Error("different tickers should differ")
	}
}
