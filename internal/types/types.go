package types

// Recommendation is the advisory label derived from the overall score.
type Recommendation string

const (
	RecommendBuy  Recommendation = "BUY"
	RecommendHold Recommendation = "HOLD"
	RecommendSell Recommendation = "SELL"
)

// StockListing is one row of the screening universe.
type StockListing struct {
	Ticker       string `json:"ticker"`
	Name         string `json:"name"`
	MarketCap    string `json:"market_cap"`
	CurrentPrice string `json:"current_price"`
	Source       string `json:"source"` // "screener.in" or "fallback"
}

// FundamentalSnapshot holds the raw fundamental record for one company.
// All ratio fields are nullable: nil means the upstream source did not
// report the metric. ROE, margin and growth may arrive as a fraction
// (0.15) or a percentage (15); the scoring layer unifies the two.
type FundamentalSnapshot struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector,omitempty"`
	Industry    string `json:"industry,omitempty"`

	// Valuation ratios
	PERatio *float64 `json:"pe_ratio"`
	PBRatio *float64 `json:"pb_ratio"`

	// Profitability
	ROE          *float64 `json:"roe"`
	ProfitMargin *float64 `json:"profit_margin"`

	// Financial health
	DebtToEquity *float64 `json:"debt_to_equity"`

	// Growth
	RevenueGrowth *float64 `json:"revenue_growth"`

	// Display-only fields
	CurrentPrice  *float64 `json:"current_price"`
	MarketCap     string   `json:"market_cap,omitempty"` // preformatted, e.g. "₹1.25T"
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	Beta          *float64 `json:"beta,omitempty"`

	DataQuality string `json:"data_quality"` // "good", "fair", "poor", "error"
	Err         string `json:"error,omitempty"`
	FetchedAt   int64  `json:"fetched_at"`
}

// NewsArticle is a single scraped news item.
type NewsArticle struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content,omitempty"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at,omitempty"`
	Symbol      string `json:"symbol"`
}

// ArticleSentiment is the per-article polarity result.
type ArticleSentiment struct {
	Title  string  `json:"title"`
	URL    string  `json:"url,omitempty"`
	Source string  `json:"source,omitempty"`
	Score  float64 `json:"score"` // compound polarity in [-1, 1]
	Label  string  `json:"label"` // "positive", "negative", "neutral"
}

// SentimentSnapshot aggregates article sentiment for one company.
// An absence of coverage is a valid snapshot with TotalArticles == 0,
// not an error condition.
type SentimentSnapshot struct {
	Ticker              string             `json:"ticker"`
	AvgSentiment        float64            `json:"avg_sentiment"` // [-1, 1]
	SentimentMin        float64            `json:"sentiment_min"`
	SentimentMax        float64            `json:"sentiment_max"`
	SentimentVolatility float64            `json:"sentiment_volatility"` // std dev of compounds
	PositiveCount       int                `json:"positive_count"`
	NegativeCount       int                `json:"negative_count"`
	NeutralCount        int                `json:"neutral_count"`
	TotalArticles       int                `json:"total_articles"`
	Articles            []ArticleSentiment `json:"articles,omitempty"`
	Note                string             `json:"note,omitempty"`
	FetchedAt           int64              `json:"fetched_at"`
}

// WeightSplit records the blend weights actually used, as percentages.
type WeightSplit struct {
	FundamentalPct float64 `json:"fundamental"`
	SentimentPct   float64 `json:"sentiment"`
}

// AnalysisResult is the final per-ticker output. Immutable once returned.
type AnalysisResult struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"company_name"`

	OverallScore     float64        `json:"overall_score"`
	FundamentalScore float64        `json:"fundamental_score"`
	SentimentScore   float64        `json:"sentiment_score"`
	Recommendation   Recommendation `json:"recommendation"`
	Reasoning        string         `json:"reasoning"`
	WeightsUsed      WeightSplit    `json:"weights_used"`

	// Pass-through display fields
	CurrentPrice  *float64 `json:"current_price"`
	MarketCap     string   `json:"market_cap,omitempty"`
	PERatio       *float64 `json:"pe_ratio"`
	PBRatio       *float64 `json:"pb_ratio"`
	ROE           *float64 `json:"roe"`
	AvgSentiment  float64  `json:"avg_sentiment"`
	PositiveCount int      `json:"positive_count"`
	NegativeCount int      `json:"negative_count"`
	TotalArticles int      `json:"total_articles"`

	FundamentalQuality string `json:"fundamental_quality"`
	SentimentQuality   string `json:"sentiment_quality"`

	Err        string `json:"error,omitempty"`
	AnalyzedAt int64  `json:"analyzed_at"`
}

// StockBundle pairs the two raw records for one ticker going into aggregation.
type StockBundle struct {
	Ticker      string               `json:"ticker"`
	CompanyName string               `json:"company_name"`
	Fundamental *FundamentalSnapshot `json:"fundamental_data"`
	Sentiment   *SentimentSnapshot   `json:"sentiment_data"`
}

// PortfolioSummary is the batch-level statistics over analysis results.
type PortfolioSummary struct {
	TotalStocks    int                    `json:"total_stocks"`
	AverageScore   float64                `json:"average_score"`
	ScoreStdDev    float64                `json:"score_std"`
	Distribution   map[Recommendation]int `json:"recommendation_distribution"`
	TopPerformer   *AnalysisResult        `json:"top_performer"`
	WorstPerformer *AnalysisResult        `json:"worst_performer"`
}

// Float returns a pointer to v. Convenience for building nullable records.
func Float(v float64) *float64 { return &v }
