package interfaces

import (
	"context"
	"time"

	"stock-advisor/internal/types"
)

// Screener discovers the universe of stocks to analyze.
type Screener interface {
	// TopStocks returns up to limit stocks ranked by market cap.
	TopStocks(ctx context.Context, limit int) ([]types.StockListing, error)

	// Validate reports whether a ticker exists on the screening source.
	Validate(ctx context.Context, ticker string) bool

	// Search looks up companies matching the query.
	Search(ctx context.Context, query string) ([]types.StockListing, error)
}

// FundamentalProvider supplies the raw fundamental record for a ticker.
// Implementations must degrade to a record carrying only the Err field
// instead of returning an error for upstream failures.
type FundamentalProvider interface {
	Fetch(ctx context.Context, ticker string) *types.FundamentalSnapshot
}

// SentimentProvider supplies the raw sentiment record for a ticker.
// No coverage is a valid snapshot with TotalArticles == 0.
type SentimentProvider interface {
	Fetch(ctx context.Context, ticker, companyName string) *types.SentimentSnapshot
}

// Cache is the port the providers use to memoize upstream calls.
// TTL is supplied at read time so callers with different freshness
// requirements can share one store.
type Cache interface {
	Get(key string, ttl time.Duration) ([]byte, bool)
	Set(key string, data []byte) error
}
