package news

import (
	"context"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"stock-advisor/internal/trace"
	"stock-advisor/internal/types"
)

// Polarity classification cutoffs on the compound score
const (
	positiveCutoff = 0.05
	negativeCutoff = -0.05
)

// Keyword lexicons for headline polarity, lowercase. Weights reflect
// how strongly a term signals direction in Indian financial news.
var bullishWords = map[string]float64{
	"bullish": 0.7, "rally": 0.6, "surge": 0.7, "soar": 0.7,
	"upbeat": 0.5, "positive": 0.4, "growth": 0.4, "upgrade": 0.6,
	"outperform": 0.6, "buy": 0.5, "strong": 0.4, "recovery": 0.5,
	"breakout": 0.6, "record high": 0.7, "all-time high": 0.7,
	"beat": 0.5, "beats estimate": 0.6, "exceeds": 0.5,
	"expansion": 0.4, "profit": 0.3, "dividend": 0.4,
	"accumulate": 0.5, "jump": 0.5, "gain": 0.4, "bonus": 0.4,
}

var bearishWords = map[string]float64{
	"bearish": 0.7, "crash": 0.8, "plunge": 0.7, "slump": 0.6,
	"negative": 0.4, "downgrade": 0.6, "underperform": 0.6,
	"sell": 0.5, "weak": 0.4, "decline": 0.5, "loss": 0.4,
	"selloff": 0.7, "fall": 0.4, "correction": 0.5, "tumble": 0.6,
	"default": 0.7, "fraud": 0.8, "scam": 0.8, "probe": 0.5,
	"investigation": 0.5, "penalty": 0.5, "cut": 0.3, "miss": 0.5,
	"warning": 0.5, "concern": 0.3, "drop": 0.4,
}

// Analyzer scores article text with a keyword lexicon. Deterministic
// and offline, no model downloads needed.
type Analyzer struct{}

// NewAnalyzer creates a sentiment analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// ScoreText returns a compound polarity score in [-1, 1] for a piece
// of text. Text with no lexicon hits scores exactly 0.
func (a *Analyzer) ScoreText(text string) float64 {
	lower := strings.ToLower(text)

	var bullScore, bearScore float64
	for word, weight := range bullishWords {
		if strings.Contains(lower, word) {
			bullScore += weight
		}
	}
	for word, weight := range bearishWords {
		if strings.Contains(lower, word) {
			bearScore += weight
		}
	}

	total := bullScore + bearScore
	if total == 0 {
		return 0
	}
	return (bullScore - bearScore) / total
}

// Classify maps a compound score to its polarity label
func Classify(compound float64) string {
	switch {
	case compound >= positiveCutoff:
		return "positive"
	case compound <= negativeCutoff:
		return "negative"
	default:
		return "neutral"
	}
}

// Analyze scores a set of articles and aggregates them into a
// sentiment record. Articles with under 10 characters of text are
// skipped; an empty set yields a neutral record, not an error.
func (a *Analyzer) Analyze(ctx context.Context, ticker string, articles []types.NewsArticle) *types.SentimentSnapshot {
	_, span := trace.StartSpan(ctx, "analyze-article-sentiment")
	defer span.End()

	compounds := []float64{}
	scored := []types.ArticleSentiment{}
	var positive, negative, neutral int

	for _, article := range articles {
		text := article.Title
		if article.Content != "" {
			text += " " + article.Content
		}
		if len(strings.TrimSpace(text)) < 10 {
			continue
		}

		compound := a.ScoreText(text)
		label := Classify(compound)
		switch label {
		case "positive":
			positive++
		case "negative":
			negative++
		default:
			neutral++
		}

		compounds = append(compounds, compound)
		scored = append(scored, types.ArticleSentiment{
			Title:  truncateTitle(article.Title),
			URL:    article.URL,
			Source: article.Source,
			Score:  compound,
			Label:  label,
		})
	}

	if len(compounds) == 0 {
		return NeutralSnapshot(ticker, "No scorable articles found")
	}

	min, max := compounds[0], compounds[0]
	for _, c := range compounds[1:] {
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}

	return &types.SentimentSnapshot{
		Ticker:              ticker,
		AvgSentiment:        stat.Mean(compounds, nil),
		SentimentMin:        min,
		SentimentMax:        max,
		SentimentVolatility: stat.PopStdDev(compounds, nil),
		PositiveCount:       positive,
		NegativeCount:       negative,
		NeutralCount:        neutral,
		TotalArticles:       len(compounds),
		Articles:            scored,
		FetchedAt:           time.Now().Unix(),
	}
}

// NeutralSnapshot is the degraded record used when no articles are
// available or scraping failed.
func NeutralSnapshot(ticker, note string) *types.SentimentSnapshot {
	return &types.SentimentSnapshot{
		Ticker:    ticker,
		Note:      note,
		FetchedAt: time.Now().Unix(),
	}
}

// truncateTitle caps stored titles at 100 runes without splitting a
// multibyte character.
func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) > 100 {
		return string(runes[:100])
	}
	return title
}
