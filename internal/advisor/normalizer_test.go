package advisor

import (
	"context"
	"math"
	"testing"

	"stock-advisor/internal/types"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPERatioBands(t *testing.T) {
	tests := []struct {
		pe   float64
		want float64
	}{
		{10, 100},
		{15, 100},
		{18, 85},
		{20, 85},
		{22, 65},
		{25, 65},
		{30, 40},
		{35, 40},
		{40, 30},  // 40 - (40-35)*2
		{50, 10},  // 40 - (50-35)*2
		{100, 0},  // floor at zero
	}

	for _, tt := range tests {
		got, ok := scorePERatio(types.Float(tt.pe))
		if !ok {
			t.Errorf("PE %.1f: unexpectedly excluded", tt.pe)
			continue
		}
		if !almostEqual(got, tt.want) {
			t.Errorf("PE %.1f: got %.1f, want %.1f", tt.pe, got, tt.want)
		}
	}
}

func TestNonPositiveRatiosExcluded(t *testing.T) {
	if _, ok := scorePERatio(types.Float(-5)); ok {
		t.Error("negative PE should be excluded")
	}
	if _, ok := scorePERatio(types.Float(0)); ok {
		t.Error("zero PE should be excluded")
	}
	if _, ok := scorePBRatio(types.Float(0)); ok {
		t.Error("zero PB should be excluded")
	}
	if _, ok := scorePERatio(nil); ok {
		t.Error("missing PE should be excluded")
	}
}

func TestPBRatioBands(t *testing.T) {
	tests := []struct {
		pb   float64
		want float64
	}{
		{1.0, 100},
		{2.5, 80},
		{4, 60},
		{7, 30},
		{10, 20}, // 30 - (10-8)*5
		{20, 0},
	}

	for _, tt := range tests {
		got, ok := scorePBRatio(types.Float(tt.pb))
		if !ok || !almostEqual(got, tt.want) {
			t.Errorf("PB %.1f: got %.1f (ok=%v), want %.1f", tt.pb, got, ok, tt.want)
		}
	}
}

func TestProfitMarginBands(t *testing.T) {
	tests := []struct {
		margin float64
		want   float64
	}{
		{0.25, 100},
		{0.20, 100},
		{0.12, 85},
		{0.10, 85},
		{0.06, 65},
		{0.05, 65},
		{0.03, 40},
		{0.02, 40},
		{0.01, 20},
		{-0.05, 0},
	}

	for _, tt := range tests {
		got, ok := scoreProfitMargin(types.Float(tt.margin))
		if !ok || !almostEqual(got, tt.want) {
			t.Errorf("margin %.2f: got %.1f (ok=%v), want %.1f", tt.margin, got, ok, tt.want)
		}
	}
}

func TestProfitMarginFractionAndPercentAgree(t *testing.T) {
	asFraction, _ := scoreProfitMargin(types.Float(0.12))
	asPercent, _ := scoreProfitMargin(types.Float(12))
	if asFraction != asPercent {
		t.Errorf("0.12 scored %.1f but 12 scored %.1f", asFraction, asPercent)
	}
	if asFraction != 85 {
		t.Errorf("margin 12%%: got %.1f, want 85", asFraction)
	}
}

func TestROEFractionAndPercentAgree(t *testing.T) {
	asFraction, _ := scoreROE(types.Float(0.15))
	asPercent, _ := scoreROE(types.Float(15))
	if asFraction != asPercent {
		t.Errorf("0.15 scored %.1f but 15 scored %.1f", asFraction, asPercent)
	}
	if asFraction != 85 {
		t.Errorf("ROE 15%%: got %.1f, want 85", asFraction)
	}
}

func TestROENegativeScoresZero(t *testing.T) {
	got, ok := scoreROE(types.Float(-0.05))
	if !ok {
		t.Fatal("negative ROE is a valid observation, not a missing one")
	}
	if got != 0 {
		t.Errorf("got %.1f, want 0", got)
	}
}

func TestDebtToEquityBands(t *testing.T) {
	tests := []struct {
		de   float64
		want float64
	}{
		{0.1, 100},
		{0.5, 80},
		{0.9, 60},
		{1.2, 40},
		{2.0, 35}, // 40 - (2.0-1.5)*10
		{6.0, 0},
	}

	for _, tt := range tests {
		got, ok := scoreDebtToEquity(types.Float(tt.de))
		if !ok || !almostEqual(got, tt.want) {
			t.Errorf("D/E %.1f: got %.1f (ok=%v), want %.1f", tt.de, got, ok, tt.want)
		}
	}
}

func TestRevenueGrowthBands(t *testing.T) {
	tests := []struct {
		growth float64
		want   float64
	}{
		{0.35, 100},
		{0.25, 90},
		{0.12, 75},
		{0.07, 60},
		{0.0, 50},
		{-0.03, 40},
		{-0.08, 25},
		{-0.20, 0},
		{25, 90}, // percentage form of 0.25
	}

	for _, tt := range tests {
		got, ok := scoreRevenueGrowth(types.Float(tt.growth))
		if !ok || !almostEqual(got, tt.want) {
			t.Errorf("growth %.2f: got %.1f (ok=%v), want %.1f", tt.growth, got, ok, tt.want)
		}
	}
}

func TestFundamentalScoreRenormalizesOverPresentMetrics(t *testing.T) {
	n := NewNormalizer(DefaultMetricWeights())

	// Only ROE present; its sub-score should pass through undiluted.
	f := &types.FundamentalSnapshot{Ticker: "TCS", ROE: types.Float(0.25)}
	got := n.FundamentalScore(context.Background(), f)
	if got != 100 {
		t.Errorf("got %.1f, want 100", got)
	}
}

func TestFundamentalScoreAllMissing(t *testing.T) {
	n := NewNormalizer(DefaultMetricWeights())

	got := n.FundamentalScore(context.Background(), &types.FundamentalSnapshot{Ticker: "INFY"})
	if got != 50 {
		t.Errorf("record with no metrics: got %.1f, want neutral 50", got)
	}
}

func TestFundamentalScoreNilAndErrorRecords(t *testing.T) {
	n := NewNormalizer(DefaultMetricWeights())
	ctx := context.Background()

	if got := n.FundamentalScore(ctx, nil); got != 50 {
		t.Errorf("nil record: got %.1f, want 50", got)
	}

	f := &types.FundamentalSnapshot{
		Ticker: "SBIN",
		ROE:    types.Float(0.25),
		Err:    "upstream timeout",
	}
	if got := n.FundamentalScore(ctx, f); got != 50 {
		t.Errorf("error record: got %.1f, want 50 even with metrics present", got)
	}
}

func TestFundamentalScoreWeightedBlend(t *testing.T) {
	n := NewNormalizer(DefaultMetricWeights())

	// PE 10 -> 100 (w .20), ROE 0.12 -> 65 (w .25)
	f := &types.FundamentalSnapshot{
		Ticker:  "HDFCBANK",
		PERatio: types.Float(10),
		ROE:     types.Float(0.12),
	}
	want := (100*0.20 + 65*0.25) / 0.45
	got := n.FundamentalScore(context.Background(), f)
	if !almostEqual(got, want) {
		t.Errorf("got %.4f, want %.4f", got, want)
	}
}

func TestFundamentalScoreCustomWeights(t *testing.T) {
	n := NewNormalizer(MetricWeights{PERatio: 1})

	f := &types.FundamentalSnapshot{
		Ticker:  "ITC",
		PERatio: types.Float(22),
		ROE:     types.Float(0.25), // weight zero, must be ignored
	}
	if got := n.FundamentalScore(context.Background(), f); got != 65 {
		t.Errorf("got %.1f, want 65", got)
	}
}

func TestFundamentalScoreIdempotent(t *testing.T) {
	n := NewNormalizer(DefaultMetricWeights())
	f := &types.FundamentalSnapshot{
		Ticker:       "RELIANCE",
		PERatio:      types.Float(24.5),
		PBRatio:      types.Float(2.1),
		ROE:          types.Float(0.09),
		DebtToEquity: types.Float(0.44),
	}

	first := n.FundamentalScore(context.Background(), f)
	second := n.FundamentalScore(context.Background(), f)
	if first != second {
		t.Errorf("same record scored %.4f then %.4f", first, second)
	}
}

func TestSentimentScoreNeutralNoCoverage(t *testing.T) {
	n := NewNormalizer(DefaultMetricWeights())

	s := &types.SentimentSnapshot{Ticker: "WIPRO"}
	// base 50, coverage 20, ratio 50, consistency 100
	want := 50.0 + (20-50)*0.20 + 0 + (100-50)*0.10
	got := n.SentimentScore(context.Background(), s)
	if !almostEqual(got, want) {
		t.Errorf("got %.2f, want %.2f", got, want)
	}
}

func TestSentimentScoreStrongPositive(t *testing.T) {
	n := NewNormalizer(DefaultMetricWeights())

	s := &types.SentimentSnapshot{
		Ticker:              "TITAN",
		AvgSentiment:        0.8,
		TotalArticles:       12,
		PositiveCount:       10,
		NegativeCount:       1,
		NeutralCount:        1,
		SentimentVolatility: 0.05,
	}
	// base 70, coverage 85, ratio 100, consistency 100
	want := 70.0 + (85-50)*0.20 + (100-50)*0.20 + (100-50)*0.10
	got := n.SentimentScore(context.Background(), s)
	if !almostEqual(got, want) {
		t.Errorf("got %.2f, want %.2f", got, want)
	}
}

func TestSentimentScoreClamped(t *testing.T) {
	n := NewNormalizer(DefaultMetricWeights())
	ctx := context.Background()

	high := &types.SentimentSnapshot{
		AvgSentiment:  1.0,
		TotalArticles: 20,
		PositiveCount: 20,
	}
	if got := n.SentimentScore(ctx, high); got > 100 {
		t.Errorf("score %.2f exceeds 100", got)
	}

	low := &types.SentimentSnapshot{
		AvgSentiment:        -1.0,
		TotalArticles:       1,
		NegativeCount:       1,
		SentimentVolatility: 0.9,
	}
	if got := n.SentimentScore(ctx, low); got < 0 {
		t.Errorf("score %.2f below 0", got)
	}
}

func TestSentimentScoreNilRecord(t *testing.T) {
	n := NewNormalizer(DefaultMetricWeights())
	if got := n.SentimentScore(context.Background(), nil); got != 50 {
		t.Errorf("got %.1f, want 50", got)
	}
}

func TestInterpretBands(t *testing.T) {
	tests := []struct {
		score float64
		grade string
	}{
		{92, "A"},
		{85, "A"},
		{70, "B"},
		{55, "C"},
		{40, "D"},
		{39.9, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		if got := Interpret(tt.score); got.Grade != tt.grade {
			t.Errorf("score %.1f: got grade %s, want %s", tt.score, got.Grade, tt.grade)
		}
	}
}

func TestRangeNormalize(t *testing.T) {
	if got := RangeNormalize(75, 50, 100); got != 50 {
		t.Errorf("got %.1f, want 50", got)
	}
	if got := RangeNormalize(200, 0, 100); got != 100 {
		t.Errorf("out-of-range value should clamp, got %.1f", got)
	}
	if got := RangeNormalize(5, 5, 5); got != 50 {
		t.Errorf("degenerate range: got %.1f, want 50", got)
	}
}

func TestPercentileScore(t *testing.T) {
	peers := []float64{10, 20, 30, 40}
	if got := PercentileScore(25, peers); got != 50 {
		t.Errorf("got %.1f, want 50", got)
	}
	if got := PercentileScore(5, peers); got != 0 {
		t.Errorf("got %.1f, want 0", got)
	}
	if got := PercentileScore(100, nil); got != 50 {
		t.Errorf("no peers: got %.1f, want 50", got)
	}
}
