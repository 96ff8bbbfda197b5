package advisor

import (
	"context"
	"fmt"
	"sort"

	"stock-advisor/internal/interfaces"
	"stock-advisor/internal/logger"
	"stock-advisor/internal/store"
	"stock-advisor/internal/types"
)

// Advisor runs the full pipeline: resolve the universe, gather the raw
// records per ticker, and aggregate them into ranked recommendations.
type Advisor struct {
	config       *store.Config
	screener     interfaces.Screener
	fundamentals interfaces.FundamentalProvider
	sentiment    interfaces.SentimentProvider
	aggregator   *Aggregator
}

// New wires the pipeline from its providers
func New(cfg *store.Config, screener interfaces.Screener, fundamentals interfaces.FundamentalProvider, sentiment interfaces.SentimentProvider) *Advisor {
	normalizer := NewNormalizer(MetricWeights{
		PERatio:       cfg.Scoring.Metrics.PERatio,
		PBRatio:       cfg.Scoring.Metrics.PBRatio,
		ROE:           cfg.Scoring.Metrics.ROE,
		DebtToEquity:  cfg.Scoring.Metrics.DebtToEquity,
		ProfitMargin:  cfg.Scoring.Metrics.ProfitMargin,
		RevenueGrowth: cfg.Scoring.Metrics.RevenueGrowth,
	})

	return &Advisor{
		config:       cfg,
		screener:     screener,
		fundamentals: fundamentals,
		sentiment:    sentiment,
		aggregator:   NewAggregator(normalizer, cfg.Scoring.Mode),
	}
}

// Universe resolves the list of stocks to analyze, either the static
// config list or the screener's top names.
func (a *Advisor) Universe(ctx context.Context) ([]types.StockListing, error) {
	if a.config.Universe.Screener.Enabled {
		stocks, err := a.screener.TopStocks(ctx, a.config.Universe.Screener.TopN)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve universe: %w", err)
		}
		return stocks, nil
	}

	stocks := make([]types.StockListing, 0, len(a.config.Universe.Static))
	for _, ticker := range a.config.Universe.Static {
		stocks = append(stocks, types.StockListing{Ticker: ticker, Name: ticker, Source: "config"})
	}
	return stocks, nil
}

// gatherBundle fetches both raw records for one stock
func (a *Advisor) gatherBundle(ctx context.Context, ticker, companyName string) *types.StockBundle {
	fundamental := a.fundamentals.Fetch(ctx, ticker)
	if companyName == "" || companyName == ticker {
		if fundamental != nil && fundamental.CompanyName != "" {
			companyName = fundamental.CompanyName
		} else {
			companyName = ticker
		}
	}
	sentiment := a.sentiment.Fetch(ctx, ticker, companyName)

	return &types.StockBundle{
		Ticker:      ticker,
		CompanyName: companyName,
		Fundamental: fundamental,
		Sentiment:   sentiment,
	}
}

// AnalyzeTicker runs the pipeline for one stock
func (a *Advisor) AnalyzeTicker(ctx context.Context, ticker, companyName string) *types.AnalysisResult {
	timer := logger.StartOperation(ctx, "analyze_ticker", "ticker", ticker)

	bundle := a.gatherBundle(ctx, ticker, companyName)
	result := a.aggregator.Aggregate(ctx, bundle, a.config.Weights.Fundamental, a.config.Weights.Sentiment)

	timer.End("score", result.OverallScore)
	return result
}

// AnalyzeUniverse analyzes every stock in the universe and returns the
// results ranked by score alongside the portfolio summary.
func (a *Advisor) AnalyzeUniverse(ctx context.Context) ([]*types.AnalysisResult, *types.PortfolioSummary, error) {
	stocks, err := a.Universe(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(stocks) == 0 {
		return nil, nil, fmt.Errorf("empty universe")
	}

	logger.Info(ctx, "Starting universe analysis", "stocks", len(stocks), "mode", a.config.Scoring.Mode)

	bundles := make([]*types.StockBundle, 0, len(stocks))
	for _, stock := range stocks {
		bundles = append(bundles, a.gatherBundle(ctx, stock.Ticker, stock.Name))
	}

	results := a.aggregator.BatchAggregate(ctx, bundles, a.config.Weights.Fundamental, a.config.Weights.Sentiment)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].OverallScore > results[j].OverallScore
	})

	summary, err := PortfolioSummary(results)
	if err != nil {
		return results, nil, err
	}

	return results, summary, nil
}
