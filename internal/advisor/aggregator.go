package advisor

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"stock-advisor/internal/logger"
	"stock-advisor/internal/types"
)

// Scoring modes. Normalized is the benchmark-band pipeline; legacy is
// the older additive point scheme kept for comparison runs.
const (
	ModeNormalized = "normalized"
	ModeLegacy     = "legacy"
)

// Recommendation thresholds on the overall score
const (
	buyThreshold  = 70.0
	holdThreshold = 40.0
)

// Aggregator blends fundamental and sentiment scores into a final
// recommendation. A single instance is safe for concurrent use.
type Aggregator struct {
	normalizer *Normalizer
	mode       string
}

// NewAggregator creates an aggregator. An unrecognized mode falls back
// to normalized scoring.
func NewAggregator(normalizer *Normalizer, mode string) *Aggregator {
	if mode != ModeLegacy {
		mode = ModeNormalized
	}
	if normalizer == nil {
		normalizer = NewNormalizer(DefaultMetricWeights())
	}
	return &Aggregator{normalizer: normalizer, mode: mode}
}

// Aggregate produces the final analysis for one ticker. It never
// returns nil and never panics: any internal failure yields a zeroed
// HOLD result with the failure recorded in Err.
func (a *Aggregator) Aggregate(ctx context.Context, bundle *types.StockBundle, fundamentalWeight, sentimentWeight float64) (result *types.AnalysisResult) {
	ticker := ""
	companyName := ""
	if bundle != nil {
		ticker = bundle.Ticker
		companyName = bundle.CompanyName
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "Aggregation panicked", "ticker", ticker, "panic", r)
			result = errorResult(ticker, companyName, fmt.Sprintf("%v", r))
		}
	}()

	if bundle == nil {
		return errorResult(ticker, companyName, "no input data")
	}

	totalWeight := fundamentalWeight + sentimentWeight
	if totalWeight > 0 {
		fundamentalWeight = fundamentalWeight / totalWeight
		sentimentWeight = sentimentWeight / totalWeight
	} else {
		fundamentalWeight, sentimentWeight = 0.5, 0.5
	}

	var fundamentalScore, sentimentScore float64
	if a.mode == ModeLegacy {
		fundamentalScore = legacyFundamentalScore(bundle.Fundamental)
		sentimentScore = legacySentimentScore(bundle.Sentiment)
	} else {
		fundamentalScore = a.normalizer.FundamentalScore(ctx, bundle.Fundamental)
		sentimentScore = a.normalizer.SentimentScore(ctx, bundle.Sentiment)
	}

	overallScore := round1(fundamentalScore*fundamentalWeight + sentimentScore*sentimentWeight)
	recommendation := recommend(overallScore)
	reasoning := buildReasoning(fundamentalScore, sentimentScore, overallScore, bundle.Fundamental, bundle.Sentiment)

	result = &types.AnalysisResult{
		Ticker:           ticker,
		CompanyName:      companyName,
		OverallScore:     overallScore,
		FundamentalScore: round1(fundamentalScore),
		SentimentScore:   round1(sentimentScore),
		Recommendation:   recommendation,
		Reasoning:        reasoning,
		WeightsUsed: types.WeightSplit{
			FundamentalPct: round1(fundamentalWeight * 100),
			SentimentPct:   round1(sentimentWeight * 100),
		},
		FundamentalQuality: "unknown",
		SentimentQuality:   "poor",
		AnalyzedAt:         time.Now().Unix(),
	}

	if f := bundle.Fundamental; f != nil {
		result.CurrentPrice = f.CurrentPrice
		result.MarketCap = f.MarketCap
		result.PERatio = f.PERatio
		result.PBRatio = f.PBRatio
		result.ROE = f.ROE
		if f.DataQuality != "" {
			result.FundamentalQuality = f.DataQuality
		}
	}
	if s := bundle.Sentiment; s != nil {
		result.AvgSentiment = s.AvgSentiment
		result.PositiveCount = s.PositiveCount
		result.NegativeCount = s.NegativeCount
		result.TotalArticles = s.TotalArticles
		if s.TotalArticles > 0 {
			result.SentimentQuality = "good"
		}
	}

	logger.Recommendation(ctx, ticker, string(recommendation), overallScore, reasoning,
		"fundamentalScore", result.FundamentalScore,
		"sentimentScore", result.SentimentScore)

	return result
}

func recommend(overallScore float64) types.Recommendation {
	switch {
	case overallScore >= buyThreshold:
		return types.RecommendBuy
	case overallScore >= holdThreshold:
		return types.RecommendHold
	default:
		return types.RecommendSell
	}
}

// buildReasoning assembles the human-readable explanation from clause
// fragments. It always returns a non-empty string.
func buildReasoning(fundamentalScore, sentimentScore, overallScore float64, f *types.FundamentalSnapshot, s *types.SentimentSnapshot) (reasoning string) {
	defer func() {
		if r := recover(); r != nil {
			reasoning = fmt.Sprintf("Analysis completed with overall score of %.1f/100", overallScore)
		}
	}()

	var parts []string

	switch {
	case overallScore >= 80:
		parts = append(parts, "Strong overall performance")
	case overallScore >= 60:
		parts = append(parts, "Good overall performance")
	case overallScore >= 40:
		parts = append(parts, "Mixed performance signals")
	default:
		parts = append(parts, "Weak overall performance")
	}

	switch {
	case fundamentalScore >= 70:
		parts = append(parts, "strong fundamentals")
	case fundamentalScore >= 50:
		parts = append(parts, "decent fundamentals")
	default:
		parts = append(parts, "weak fundamentals")
	}

	if f != nil {
		if pe := f.PERatio; pe != nil && *pe != 0 {
			if *pe < 15 {
				parts = append(parts, "attractive valuation")
			} else if *pe > 30 {
				parts = append(parts, "high valuation")
			}
		}
		if roe := f.ROE; roe != nil && *roe != 0 {
			roePercent := *roe
			if roePercent < 1 {
				roePercent = roePercent * 100
			}
			if roePercent > 20 {
				parts = append(parts, "excellent returns on equity")
			} else if roePercent < 5 {
				parts = append(parts, "low returns on equity")
			}
		}
	}

	switch {
	case sentimentScore >= 70:
		parts = append(parts, "positive market sentiment")
	case sentimentScore >= 50:
		parts = append(parts, "neutral market sentiment")
	default:
		parts = append(parts, "negative market sentiment")
	}

	if s != nil {
		if s.TotalArticles >= 10 {
			parts = append(parts, "good news coverage")
		} else if s.TotalArticles < 2 {
			parts = append(parts, "limited news coverage")
		}
	} else {
		parts = append(parts, "limited news coverage")
	}

	if f != nil {
		if de := f.DebtToEquity; de != nil && *de > 1.0 {
			parts = append(parts, "high debt levels")
		}
	}

	return capitalize(strings.Join(parts, ". ")) + "."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func errorResult(ticker, companyName, errMsg string) *types.AnalysisResult {
	return &types.AnalysisResult{
		Ticker:         ticker,
		CompanyName:    companyName,
		OverallScore:   0,
		Recommendation: types.RecommendHold,
		Reasoning:      "Analysis failed: " + errMsg,
		Err:            errMsg,
		AnalyzedAt:     time.Now().Unix(),
	}
}

// BatchAggregate analyzes each bundle in order. A failure in one
// ticker never aborts the batch: nil bundles are logged and skipped,
// and per-ticker failures surface as error results.
func (a *Aggregator) BatchAggregate(ctx context.Context, bundles []*types.StockBundle, fundamentalWeight, sentimentWeight float64) []*types.AnalysisResult {
	results := make([]*types.AnalysisResult, 0, len(bundles))

	for i, bundle := range bundles {
		if bundle == nil {
			logger.Warn(ctx, "Skipping empty analysis bundle", "index", i)
			continue
		}
		results = append(results, a.Aggregate(ctx, bundle, fundamentalWeight, sentimentWeight))
	}

	return results
}

// PortfolioSummary computes batch-level statistics over a set of results
func PortfolioSummary(results []*types.AnalysisResult) (*types.PortfolioSummary, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("no results to summarize")
	}

	scores := make([]float64, 0, len(results))
	distribution := map[types.Recommendation]int{
		types.RecommendBuy:  0,
		types.RecommendHold: 0,
		types.RecommendSell: 0,
	}

	top := results[0]
	worst := results[0]
	for _, r := range results {
		scores = append(scores, r.OverallScore)
		distribution[r.Recommendation]++
		if r.OverallScore > top.OverallScore {
			top = r
		}
		if r.OverallScore < worst.OverallScore {
			worst = r
		}
	}

	return &types.PortfolioSummary{
		TotalStocks:    len(results),
		AverageScore:   round1(stat.Mean(scores, nil)),
		ScoreStdDev:    round1(stat.PopStdDev(scores, nil)),
		Distribution:   distribution,
		TopPerformer:   top,
		WorstPerformer: worst,
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
