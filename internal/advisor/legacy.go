package advisor

import (
	"stock-advisor/internal/types"
)

// Legacy additive scoring. Each metric adds or subtracts points from a
// neutral 50 instead of blending normalized sub-scores, so a record
// with many strong metrics can pile points the normalized path would
// average away. Kept selectable for comparison runs against the
// normalized pipeline.

func legacyFundamentalScore(f *types.FundamentalSnapshot) float64 {
	if f == nil {
		return 50
	}

	score := 50.0

	if pe := f.PERatio; pe != nil && *pe > 0 {
		switch {
		case *pe < 15:
			score += 25
		case *pe < 20:
			score += 20
		case *pe < 25:
			score += 15
		case *pe < 35:
			score += 5
		default:
			score -= 10
		}
	}

	if pb := f.PBRatio; pb != nil && *pb > 0 {
		switch {
		case *pb < 1.5:
			score += 15
		case *pb < 3:
			score += 10
		case *pb < 5:
			score += 5
		default:
			score -= 5
		}
	}

	if roe := f.ROE; roe != nil {
		// Values below 1 are fractions, everything else a percentage
		roePercent := *roe
		if roePercent < 1 {
			roePercent = roePercent * 100
		}
		switch {
		case roePercent > 20:
			score += 20
		case roePercent > 15:
			score += 15
		case roePercent > 10:
			score += 10
		case roePercent > 5:
			score += 5
		default:
			score -= 5
		}
	}

	if margin := f.ProfitMargin; margin != nil {
		marginPercent := *margin
		if marginPercent < 1 {
			marginPercent = marginPercent * 100
		}
		switch {
		case marginPercent > 20:
			score += 10
		case marginPercent > 10:
			score += 7
		case marginPercent > 5:
			score += 4
		case marginPercent > 0:
			score += 2
		default:
			score -= 5
		}
	}

	if de := f.DebtToEquity; de != nil {
		switch {
		case *de < 0.3:
			score += 10
		case *de < 0.6:
			score += 7
		case *de < 1.0:
			score += 3
		default:
			score -= 5
		}
	}

	if growth := f.RevenueGrowth; growth != nil {
		growthPercent := *growth
		if growthPercent < 1 {
			growthPercent = growthPercent * 100
		}
		switch {
		case growthPercent > 20:
			score += 5
		case growthPercent > 10:
			score += 3
		case growthPercent < -10:
			score -= 5
		}
	}

	return clamp(score, 0, 100)
}

func legacySentimentScore(s *types.SentimentSnapshot) float64 {
	if s == nil {
		return 50
	}

	score := 50.0 + s.AvgSentiment*20

	switch {
	case s.TotalArticles >= 10:
		score += 20
	case s.TotalArticles >= 5:
		score += 15
	case s.TotalArticles >= 2:
		score += 10
	case s.TotalArticles >= 1:
		score += 5
	}

	if total := s.PositiveCount + s.NegativeCount; total > 0 {
		ratio := float64(s.PositiveCount) / float64(total)
		switch {
		case ratio >= 0.8:
			score += 20
		case ratio >= 0.6:
			score += 15
		case ratio >= 0.4:
			score += 5
		case ratio >= 0.2:
			score -= 5
		default:
			score -= 15
		}
	}

	if s.SentimentVolatility > 0.5 {
		score -= 10
	} else if s.SentimentVolatility > 0.3 {
		score -= 5
	}

	return clamp(score, 0, 100)
}
