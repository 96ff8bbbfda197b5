package news

import (
	"context"
	"testing"
)

func TestMockProviderDeterministic(t *testing.T) {
	m := NewMockProvider()
	ctx := context.Background()

	a := m.Fetch(ctx, "RELIANCE", "Reliance Industries")
	b := m.Fetch(ctx, "RELIANCE", "Reliance Industries")

	if a.AvgSentiment != b.AvgSentiment || a.TotalArticles != b.TotalArticles {
		t.Errorf("mock not deterministic: %+v vs %+v", a, b)
	}
}

func TestMockProviderBounds(t *testing.T) {
	m := NewMockProvider()
	ctx := context.Background()

	for _, ticker := range []string{"RELIANCE", "TCS", "INFY", "HDFCBANK", "WIPRO"} {
		s := m.Fetch(ctx, ticker, "")
		if s.AvgSentiment < -1 || s.AvgSentiment > 1 {
			t.Errorf("%s: avg sentiment %v out of range", ticker, s.AvgSentiment)
		}
		if s.TotalArticles < 3 {
			t.Errorf("%s: expected at least 3 articles, got %d", ticker, s.TotalArticles)
		}
		if s.PositiveCount+s.NegativeCount+s.NeutralCount != s.TotalArticles {
			t.Errorf("%s: label counts do not sum to total", ticker)
		}
		if s.Ticker != ticker {
			t.Errorf("%s: ticker not set on snapshot", ticker)
		}
	}
}
