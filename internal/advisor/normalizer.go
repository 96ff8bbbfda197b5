package advisor

import (
	"context"
	"math"

	"stock-advisor/internal/logger"
	"stock-advisor/internal/types"
)

// MetricWeights controls the blend of fundamental sub-scores. Weights
// are renormalized over the metrics actually present in a record, so
// they need not sum to 1.
type MetricWeights struct {
	PERatio       float64
	PBRatio       float64
	ROE           float64
	DebtToEquity  float64
	ProfitMargin  float64
	RevenueGrowth float64
}

// DefaultMetricWeights returns the standard metric blend
func DefaultMetricWeights() MetricWeights {
	return MetricWeights{
		PERatio:       0.20,
		PBRatio:       0.15,
		ROE:           0.25,
		DebtToEquity:  0.15,
		ProfitMargin:  0.15,
		RevenueGrowth: 0.10,
	}
}

// IsZero reports whether no metric carries any weight
func (w MetricWeights) IsZero() bool {
	return w.PERatio == 0 && w.PBRatio == 0 && w.ROE == 0 &&
		w.DebtToEquity == 0 && w.ProfitMargin == 0 && w.RevenueGrowth == 0
}

// Normalizer converts raw fundamental and sentiment records into
// comparable 0-100 scores via fixed benchmark bands.
type Normalizer struct {
	weights MetricWeights
}

// NewNormalizer creates a normalizer. Zero weights fall back to the default blend.
func NewNormalizer(weights MetricWeights) *Normalizer {
	if weights.IsZero() {
		weights = DefaultMetricWeights()
	}
	return &Normalizer{weights: weights}
}

// FundamentalScore scores a fundamental record on [0, 100]. Metrics the
// record is missing are excluded and the remaining weights renormalized;
// a record with no usable metrics, a nil record, or a record carrying an
// upstream error scores a neutral 50.
func (n *Normalizer) FundamentalScore(ctx context.Context, f *types.FundamentalSnapshot) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "Fundamental scoring panicked", "panic", r)
			score = 50
		}
	}()

	if f == nil || f.Err != "" {
		return 50
	}

	var weightedSum, totalWeight float64
	add := func(sub float64, ok bool, weight float64) {
		if ok && weight > 0 {
			weightedSum += sub * weight
			totalWeight += weight
		}
	}

	sub, ok := scorePERatio(f.PERatio)
	add(sub, ok, n.weights.PERatio)
	sub, ok = scorePBRatio(f.PBRatio)
	add(sub, ok, n.weights.PBRatio)
	sub, ok = scoreROE(f.ROE)
	add(sub, ok, n.weights.ROE)
	sub, ok = scoreDebtToEquity(f.DebtToEquity)
	add(sub, ok, n.weights.DebtToEquity)
	sub, ok = scoreProfitMargin(f.ProfitMargin)
	add(sub, ok, n.weights.ProfitMargin)
	sub, ok = scoreRevenueGrowth(f.RevenueGrowth)
	add(sub, ok, n.weights.RevenueGrowth)

	if totalWeight <= 0 {
		return 50
	}

	return clamp(weightedSum/totalWeight, 0, 100)
}

// scorePERatio scores price-to-earnings. Lower is better; non-positive
// ratios are treated as unreported.
func scorePERatio(v *float64) (float64, bool) {
	if v == nil || *v <= 0 {
		return 0, false
	}
	pe := *v
	switch {
	case pe <= 15:
		return 100, true
	case pe <= 20:
		return 85, true
	case pe <= 25:
		return 65, true
	case pe <= 35:
		return 40, true
	default:
		return math.Max(0, 40-(pe-35)*2), true
	}
}

// scorePBRatio scores price-to-book. Non-positive ratios are unreported.
func scorePBRatio(v *float64) (float64, bool) {
	if v == nil || *v <= 0 {
		return 0, false
	}
	pb := *v
	switch {
	case pb <= 1.5:
		return 100, true
	case pb <= 3:
		return 80, true
	case pb <= 5:
		return 60, true
	case pb <= 8:
		return 30, true
	default:
		return math.Max(0, 30-(pb-8)*5), true
	}
}

// scoreROE scores return on equity. Sources report either a fraction
// (0.15) or a percentage (15); values above 1 are read as percentages.
func scoreROE(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	roe := *v
	if roe > 1 {
		roe = roe / 100
	}
	switch {
	case roe >= 0.20:
		return 100, true
	case roe >= 0.15:
		return 85, true
	case roe >= 0.10:
		return 65, true
	case roe >= 0.05:
		return 40, true
	case roe > 0:
		return 20, true
	default:
		return 0, true
	}
}

// scoreDebtToEquity scores leverage. Lower is better.
func scoreDebtToEquity(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	de := *v
	switch {
	case de <= 0.3:
		return 100, true
	case de <= 0.6:
		return 80, true
	case de <= 1.0:
		return 60, true
	case de <= 1.5:
		return 40, true
	default:
		return math.Max(0, 40-(de-1.5)*10), true
	}
}

// scoreProfitMargin expects a fraction; values above 1 are treated as
// percentages. Margins run lower than equity returns, so the bands sit
// tighter than the ROE ones.
func scoreProfitMargin(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	margin := *v
	if margin > 1 {
		margin = margin / 100
	}
	switch {
	case margin >= 0.20:
		return 100, true
	case margin >= 0.10:
		return 85, true
	case margin >= 0.05:
		return 65, true
	case margin >= 0.02:
		return 40, true
	case margin > 0:
		return 20, true
	default:
		return 0, true
	}
}

// scoreRevenueGrowth scores year-over-year growth. Growth can be
// negative, so the percentage check uses the magnitude.
func scoreRevenueGrowth(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	growth := *v
	if math.Abs(growth) > 1 {
		growth = growth / 100
	}
	switch {
	case growth >= 0.30:
		return 100, true
	case growth >= 0.20:
		return 90, true
	case growth >= 0.10:
		return 75, true
	case growth >= 0.05:
		return 60, true
	case growth >= 0:
		return 50, true
	case growth >= -0.05:
		return 40, true
	case growth >= -0.10:
		return 25, true
	default:
		return 0, true
	}
}

// SentimentScore scores a sentiment record on [0, 100]. A nil record
// scores a neutral 50; a record with zero articles still produces a
// valid (low-coverage) score rather than an error.
func (n *Normalizer) SentimentScore(ctx context.Context, s *types.SentimentSnapshot) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "Sentiment scoring panicked", "panic", r)
			score = 50
		}
	}()

	if s == nil {
		return 50
	}

	base := 50 + s.AvgSentiment*25
	coverage := coverageScore(s.TotalArticles)
	ratio := positiveRatioScore(s.PositiveCount, s.NegativeCount)
	consistency := consistencyScore(s.SentimentVolatility)

	score = base +
		(coverage-50)*0.20 +
		(ratio-50)*0.20 +
		(consistency-50)*0.10

	return clamp(score, 0, 100)
}

// coverageScore rewards article volume
func coverageScore(total int) float64 {
	switch {
	case total >= 15:
		return 100
	case total >= 10:
		return 85
	case total >= 5:
		return 70
	case total >= 2:
		return 55
	case total >= 1:
		return 40
	default:
		return 20
	}
}

// positiveRatioScore scores the positive share among polarized articles.
// Neutral articles don't count toward either side.
func positiveRatioScore(positive, negative int) float64 {
	total := positive + negative
	if total == 0 {
		return 50
	}
	ratio := float64(positive) / float64(total)
	switch {
	case ratio >= 0.8:
		return 100
	case ratio >= 0.6:
		return 80
	case ratio >= 0.4:
		return 60
	case ratio >= 0.2:
		return 40
	default:
		return 20
	}
}

// consistencyScore rewards low dispersion across article polarities
func consistencyScore(volatility float64) float64 {
	switch {
	case volatility <= 0.1:
		return 100
	case volatility <= 0.2:
		return 80
	case volatility <= 0.3:
		return 60
	case volatility <= 0.5:
		return 40
	default:
		return 20
	}
}

// Interpretation is the letter-grade reading of a 0-100 score.
type Interpretation struct {
	Grade  string
	Rating string
	Advice string
}

// Interpret maps a score to its grade band
func Interpret(score float64) Interpretation {
	switch {
	case score >= 85:
		return Interpretation{Grade: "A", Rating: "Excellent", Advice: "Strong Buy"}
	case score >= 70:
		return Interpretation{Grade: "B", Rating: "Good", Advice: "Buy"}
	case score >= 55:
		return Interpretation{Grade: "C", Rating: "Fair", Advice: "Hold"}
	case score >= 40:
		return Interpretation{Grade: "D", Rating: "Poor", Advice: "Consider Selling"}
	default:
		return Interpretation{Grade: "F", Rating: "Very Poor", Advice: "Sell"}
	}
}

// RangeNormalize linearly maps value from [min, max] onto [0, 100].
// A degenerate range scores 50.
func RangeNormalize(value, min, max float64) float64 {
	if max == min {
		return 50
	}
	return clamp((value-min)/(max-min)*100, 0, 100)
}

// PercentileScore returns the percentile rank of value among peers.
// No peers means no ranking signal, which scores 50.
func PercentileScore(value float64, peers []float64) float64 {
	if len(peers) == 0 {
		return 50
	}
	below := 0
	for _, p := range peers {
		if p < value {
			below++
		}
	}
	return float64(below) / float64(len(peers)) * 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
