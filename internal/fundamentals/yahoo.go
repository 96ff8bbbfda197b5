package fundamentals

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"stock-advisor/internal/api"
	"stock-advisor/internal/cache"
	"stock-advisor/internal/interfaces"
	"stock-advisor/internal/logger"
	"stock-advisor/internal/types"
)

const (
	yahooBaseURL     = "https://query1.finance.yahoo.com"
	quoteSummaryPath = "/v10/finance/quoteSummary/%s?modules=summaryDetail,financialData,defaultKeyStatistics,price,assetProfile"
	nseSuffix        = ".NS"
)

// YahooProvider fetches fundamentals from the Yahoo Finance quoteSummary
// API. Upstream failures never surface as errors: the returned snapshot
// carries the failure in its Err field so scoring can degrade to neutral.
type YahooProvider struct {
	client *api.Client
	cache  interfaces.Cache
	ttl    time.Duration
}

// NewYahooProvider creates a Yahoo Finance fundamentals provider
func NewYahooProvider(store interfaces.Cache, ttl time.Duration) *YahooProvider {
	return &YahooProvider{
		client: api.NewClient(
			api.WithBaseURL(yahooBaseURL),
			api.WithTimeout(15*time.Second),
			api.WithLogging(true),
		),
		cache: store,
		ttl:   ttl,
	}
}

// Fetch retrieves the fundamental record for a ticker. NSE tickers
// without an exchange suffix get .NS appended.
func (p *YahooProvider) Fetch(ctx context.Context, ticker string) *types.FundamentalSnapshot {
	yfTicker := ticker
	if !strings.Contains(yfTicker, ".") {
		yfTicker = yfTicker + nseSuffix
	}

	cacheKey := cache.MakeKey("fundamentals", yfTicker)
	if p.cache != nil {
		if data, ok := p.cache.Get(cacheKey, p.ttl); ok {
			var cached types.FundamentalSnapshot
			if err := json.Unmarshal(data, &cached); err == nil {
				logger.Debug(ctx, "Fundamentals served from cache", "ticker", ticker)
				return &cached
			}
		}
	}

	resp, err := p.client.GETWithRetry(ctx, fmt.Sprintf(quoteSummaryPath, yfTicker), nil, api.YahooFinanceHeaders())
	if err != nil {
		logger.ErrorWithErr(ctx, "Fundamentals fetch failed", err, "ticker", ticker)
		return errorSnapshot(ticker, err)
	}

	var qs quoteSummaryResponse
	if err := resp.ParseJSON(&qs); err != nil {
		return errorSnapshot(ticker, err)
	}
	if qs.QuoteSummary.Error != nil {
		return errorSnapshot(ticker, fmt.Errorf("yahoo: %s", qs.QuoteSummary.Error.Description))
	}
	if len(qs.QuoteSummary.Result) == 0 {
		return errorSnapshot(ticker, fmt.Errorf("no quoteSummary result for %s", yfTicker))
	}

	snapshot := buildSnapshot(ticker, &qs.QuoteSummary.Result[0])

	if p.cache != nil {
		if data, err := json.Marshal(snapshot); err == nil {
			p.cache.Set(cacheKey, data)
		}
	}

	logger.Info(ctx, "Fundamentals fetched", "ticker", ticker, "quality", snapshot.DataQuality)
	return snapshot
}

func errorSnapshot(ticker string, err error) *types.FundamentalSnapshot {
	return &types.FundamentalSnapshot{
		Ticker:      ticker,
		DataQuality: "error",
		Err:         err.Error(),
		FetchedAt:   time.Now().Unix(),
	}
}

func buildSnapshot(ticker string, r *quoteSummaryResult) *types.FundamentalSnapshot {
	s := &types.FundamentalSnapshot{
		Ticker:    ticker,
		FetchedAt: time.Now().Unix(),
	}

	var rawMarketCap *float64

	if price := r.Price; price != nil {
		s.CompanyName = price.LongName
		if s.CompanyName == "" {
			s.CompanyName = price.ShortName
		}
		s.CurrentPrice = price.RegularMarketPrice.value()
		rawMarketCap = price.MarketCap.value()
	}
	if s.CompanyName == "" {
		s.CompanyName = ticker
	}

	if profile := r.AssetProfile; profile != nil {
		s.Sector = profile.Sector
		s.Industry = profile.Industry
	}

	if detail := r.SummaryDetail; detail != nil {
		s.PERatio = detail.TrailingPE.value()
		s.DividendYield = detail.DividendYield.value()
		s.Beta = detail.Beta.value()
	}

	if stats := r.DefaultKeyStatistics; stats != nil {
		s.PBRatio = stats.PriceToBook.value()
	}

	if fin := r.FinancialData; fin != nil {
		s.ROE = fin.ReturnOnEquity.value()
		s.ProfitMargin = fin.ProfitMargins.value()
		s.DebtToEquity = fin.DebtToEquity.value()
		s.RevenueGrowth = fin.RevenueGrowth.value()
		if s.CurrentPrice == nil {
			s.CurrentPrice = fin.CurrentPrice.value()
		}
	}

	if rawMarketCap != nil {
		s.MarketCap = FormatINR(*rawMarketCap)
	} else {
		s.MarketCap = "N/A"
	}

	s.DataQuality = assessQuality(s.PERatio, s.PBRatio, s.ROE, rawMarketCap)
	return s
}

// assessQuality grades the record by how many of the key metrics arrived
func assessQuality(metrics ...*float64) string {
	available := 0
	for _, m := range metrics {
		if m != nil {
			available++
		}
	}
	switch {
	case available >= 3:
		return "good"
	case available >= 2:
		return "fair"
	default:
		return "poor"
	}
}

// FormatINR renders a rupee amount in Indian market convention, using
// crore and lakh below the billion scale.
func FormatINR(value float64) string {
	switch {
	case value >= 1e12:
		return fmt.Sprintf("₹%.2fT", value/1e12)
	case value >= 1e9:
		return fmt.Sprintf("₹%.2fB", value/1e9)
	case value >= 1e7:
		return fmt.Sprintf("₹%.2fCr", value/1e7)
	case value >= 1e5:
		return fmt.Sprintf("₹%.2fL", value/1e5)
	default:
		return fmt.Sprintf("₹%.0f", value)
	}
}

// Valuation is a simplified fair-value estimate anchored on the
// long-run average market PE.
type Valuation struct {
	CurrentPrice       float64 `json:"current_price"`
	EstimatedFairValue float64 `json:"estimated_fair_value"`
	UpsidePotential    float64 `json:"upside_potential"` // percent
	Verdict            string  `json:"valuation"`        // "undervalued" or "overvalued"
}

const averageMarketPE = 20.0

// IntrinsicValue estimates fair value from the PE spread against the
// average market multiple. Needs both PE and price to be present.
func IntrinsicValue(f *types.FundamentalSnapshot) (*Valuation, error) {
	if f == nil || f.PERatio == nil || f.CurrentPrice == nil || *f.PERatio <= 0 || *f.CurrentPrice <= 0 {
		return nil, fmt.Errorf("insufficient data for valuation")
	}

	price := *f.CurrentPrice
	fairValue := price * (averageMarketPE / *f.PERatio)

	verdict := "overvalued"
	if fairValue > price {
		verdict = "undervalued"
	}

	return &Valuation{
		CurrentPrice:       price,
		EstimatedFairValue: fairValue,
		UpsidePotential:    (fairValue - price) / price * 100,
		Verdict:            verdict,
	}, nil
}

// quoteSummary wire types. Yahoo wraps every numeric in a raw/fmt pair.

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	SummaryDetail        *summaryDetail        `json:"summaryDetail"`
	FinancialData        *financialData        `json:"financialData"`
	DefaultKeyStatistics *defaultKeyStatistics `json:"defaultKeyStatistics"`
	Price                *priceModule          `json:"price"`
	AssetProfile         *assetProfile         `json:"assetProfile"`
}

type yahooValue struct {
	Raw *float64 `json:"raw"`
}

func (v *yahooValue) value() *float64 {
	if v == nil {
		return nil
	}
	return v.Raw
}

type summaryDetail struct {
	TrailingPE    *yahooValue `json:"trailingPE"`
	DividendYield *yahooValue `json:"dividendYield"`
	Beta          *yahooValue `json:"beta"`
}

type financialData struct {
	CurrentPrice   *yahooValue `json:"currentPrice"`
	ReturnOnEquity *yahooValue `json:"returnOnEquity"`
	ProfitMargins  *yahooValue `json:"profitMargins"`
	DebtToEquity   *yahooValue `json:"debtToEquity"`
	RevenueGrowth  *yahooValue `json:"revenueGrowth"`
}

type defaultKeyStatistics struct {
	PriceToBook *yahooValue `json:"priceToBook"`
}

type priceModule struct {
	LongName           string      `json:"longName"`
	ShortName          string      `json:"shortName"`
	RegularMarketPrice *yahooValue `json:"regularMarketPrice"`
	MarketCap          *yahooValue `json:"marketCap"`
}

type assetProfile struct {
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}
