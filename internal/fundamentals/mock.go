package fundamentals

import (
	"context"
	"math/rand"
	"time"

	"stock-advisor/internal/types"
)

// MockProvider generates deterministic fundamental records for testing
// and offline development. The same ticker always produces the same
// snapshot.
type MockProvider struct{}

// NewMockProvider creates a mock fundamentals provider
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Fetch generates a mock fundamental record for a ticker
func (m *MockProvider) Fetch(ctx context.Context, ticker string) *types.FundamentalSnapshot {
	symbolSeed := int64(0)
	for _, c := range ticker {
		symbolSeed += int64(c)
	}
	r := rand.New(rand.NewSource(symbolSeed))

	pe := 10.0 + r.Float64()*35.0
	pb := 1.0 + r.Float64()*7.0
	roe := 0.02 + r.Float64()*0.28
	margin := 0.03 + r.Float64()*0.22
	de := r.Float64() * 2.0
	growth := -0.10 + r.Float64()*0.40
	price := 200.0 + r.Float64()*3500.0
	marketCap := 5e10 + r.Float64()*1.5e12

	return &types.FundamentalSnapshot{
		Ticker:        ticker,
		CompanyName:   ticker + " Limited",
		Sector:        "Diversified",
		PERatio:       types.Float(pe),
		PBRatio:       types.Float(pb),
		ROE:           types.Float(roe),
		ProfitMargin:  types.Float(margin),
		DebtToEquity:  types.Float(de),
		RevenueGrowth: types.Float(growth),
		CurrentPrice:  types.Float(price),
		MarketCap:     FormatINR(marketCap),
		DataQuality:   "good",
		FetchedAt:     time.Now().Unix(),
	}
}
