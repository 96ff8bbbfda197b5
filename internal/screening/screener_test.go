package screening

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"stock-advisor/internal/types"
)

type fakeCache struct {
	data map[string][]byte
}

func (f *fakeCache) Get(key string, ttl time.Duration) ([]byte, bool) {
	data, ok := f.data[key]
	return data, ok
}

func (f *fakeCache) Set(key string, data []byte) error {
	f.data[key] = data
	return nil
}

func TestFallbackStocks(t *testing.T) {
	stocks := FallbackStocks(5)
	if len(stocks) != 5 {
		t.Fatalf("got %d stocks, want 5", len(stocks))
	}
	if stocks[0].Ticker != "RELIANCE" {
		t.Errorf("got %s, want RELIANCE first", stocks[0].Ticker)
	}
	for _, s := range stocks {
		if s.Source != "fallback" {
			t.Errorf("%s: source %q, want fallback", s.Ticker, s.Source)
		}
		if s.Name == "" {
			t.Errorf("%s: missing name", s.Ticker)
		}
	}
}

func TestFallbackStocksOversizedLimit(t *testing.T) {
	stocks := FallbackStocks(100)
	if len(stocks) != 20 {
		t.Errorf("got %d stocks, want the full list of 20", len(stocks))
	}
}

func TestTopStocksServedFromCache(t *testing.T) {
	cached := []types.StockListing{
		{Ticker: "TCS", Name: "Tata Consultancy Services Limited", Source: "screener.in"},
		{Ticker: "INFY", Name: "Infosys Limited", Source: "screener.in"},
	}
	data, _ := json.Marshal(cached)

	fc := &fakeCache{data: map[string][]byte{"screening:top-stocks": data}}
	s := NewScreener(fc, time.Hour)

	got, err := s.TopStocks(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopStocks failed: %v", err)
	}
	if len(got) != 2 || got[0].Ticker != "TCS" {
		t.Errorf("got %+v", got)
	}
}

func TestTopStocksCacheRespectsLimit(t *testing.T) {
	cached := []types.StockListing{
		{Ticker: "TCS"}, {Ticker: "INFY"}, {Ticker: "WIPRO"},
	}
	data, _ := json.Marshal(cached)

	fc := &fakeCache{data: map[string][]byte{"screening:top-stocks": data}}
	s := NewScreener(fc, time.Hour)

	got, err := s.TopStocks(context.Background(), 2)
	if err != nil {
		t.Fatalf("TopStocks failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d stocks, want 2", len(got))
	}
}

func TestCompanyHrefPattern(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"/company/RELIANCE/", "RELIANCE"},
		{"/company/TCS/consolidated/", "TCS"},
		{"https://www.screener.in/company/INFY/", "INFY"},
	}

	for _, tt := range tests {
		matches := companyHrefPattern.FindStringSubmatch(tt.href)
		if len(matches) < 2 || matches[1] != tt.want {
			t.Errorf("href %q: got %v, want %s", tt.href, matches, tt.want)
		}
	}
}
