package news

import (
	"context"
	"encoding/json"
	"time"

	"stock-advisor/internal/cache"
	"stock-advisor/internal/interfaces"
	"stock-advisor/internal/logger"
	"stock-advisor/internal/types"
)

// ServiceConfig controls the sentiment service
type ServiceConfig struct {
	Enabled     bool
	MaxArticles int
	CacheTTL    time.Duration
	Timeout     time.Duration
}

// Service produces sentiment records by scraping news and scoring it
// with the lexicon analyzer. Implements interfaces.SentimentProvider.
type Service struct {
	scraper  *Scraper
	analyzer *Analyzer
	cache    interfaces.Cache
	config   ServiceConfig
}

// NewService creates the sentiment service
func NewService(store interfaces.Cache, config ServiceConfig) *Service {
	if config.MaxArticles <= 0 {
		config.MaxArticles = 15
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = time.Hour
	}

	return &Service{
		scraper:  NewScraper(config.Timeout),
		analyzer: NewAnalyzer(),
		cache:    store,
		config:   config,
	}
}

// Fetch returns the sentiment record for a ticker. Never returns nil:
// scraping failures and empty coverage degrade to a neutral record.
func (s *Service) Fetch(ctx context.Context, ticker, companyName string) *types.SentimentSnapshot {
	if !s.config.Enabled {
		return NeutralSnapshot(ticker, "News analysis disabled")
	}

	cacheKey := cache.MakeKey("sentiment", ticker)
	if s.cache != nil {
		if data, ok := s.cache.Get(cacheKey, s.config.CacheTTL); ok {
			var cached types.SentimentSnapshot
			if err := json.Unmarshal(data, &cached); err == nil {
				logger.Debug(ctx, "Sentiment served from cache", "ticker", ticker)
				return &cached
			}
		}
	}

	timer := logger.StartOperation(ctx, "sentiment_analysis", "ticker", ticker)
	articles := s.scraper.Scrape(ctx, ticker, companyName, s.config.MaxArticles)

	var snapshot *types.SentimentSnapshot
	if len(articles) == 0 {
		snapshot = NeutralSnapshot(ticker, "No news articles found")
	} else {
		snapshot = s.analyzer.Analyze(ctx, ticker, articles)
	}
	timer.End("articles", snapshot.TotalArticles)

	if s.cache != nil {
		if data, err := json.Marshal(snapshot); err == nil {
			s.cache.Set(cacheKey, data)
		}
	}

	return snapshot
}
