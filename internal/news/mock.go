package news

import (
	"context"
	"math/rand"
	"time"

	"stock-advisor/internal/types"
)

// MockProvider generates deterministic sentiment records for offline
// runs. The same ticker always produces the same snapshot.
type MockProvider struct{}

// NewMockProvider creates a mock sentiment provider
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Fetch generates a mock sentiment record for a ticker
func (m *MockProvider) Fetch(ctx context.Context, ticker, companyName string) *types.SentimentSnapshot {
	symbolSeed := int64(0)
	for _, c := range ticker {
		symbolSeed += int64(c)
	}
	r := rand.New(rand.NewSource(symbolSeed))

	total := 3 + r.Intn(12)
	avg := -0.4 + r.Float64()*0.9

	positive := 0
	negative := 0
	for i := 0; i < total; i++ {
		roll := r.Float64()*2 - 1 + avg
		if roll >= positiveCutoff {
			positive++
		} else if roll <= negativeCutoff {
			negative++
		}
	}

	return &types.SentimentSnapshot{
		Ticker:              ticker,
		AvgSentiment:        avg,
		SentimentMin:        avg - r.Float64()*0.3,
		SentimentMax:        avg + r.Float64()*0.3,
		SentimentVolatility: 0.05 + r.Float64()*0.35,
		PositiveCount:       positive,
		NegativeCount:       negative,
		NeutralCount:        total - positive - negative,
		TotalArticles:       total,
		Note:                "mock data",
		FetchedAt:           time.Now().Unix(),
	}
}
