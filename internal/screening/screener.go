package screening

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"stock-advisor/internal/api"
	"stock-advisor/internal/cache"
	"stock-advisor/internal/interfaces"
	"stock-advisor/internal/logger"
	"stock-advisor/internal/types"
)

const screenerBaseURL = "https://www.screener.in"

var companyHrefPattern = regexp.MustCompile(`/company/([^/]+)/`)

// Screener discovers the stock universe from screener.in, falling back
// to a static list of large-cap NSE names when the site is unreachable.
type Screener struct {
	baseURL string
	client  *api.Client
	cache   interfaces.Cache
	ttl     time.Duration
	timeout time.Duration
}

// NewScreener creates a screener.in-backed universe provider
func NewScreener(store interfaces.Cache, ttl time.Duration) *Screener {
	return &Screener{
		baseURL: screenerBaseURL,
		client: api.NewClient(
			api.WithTimeout(10*time.Second),
			api.WithLogging(true),
		),
		cache:   store,
		ttl:     ttl,
		timeout: 10 * time.Second,
	}
}

// TopStocks returns up to limit stocks ranked by market cap. Scraping
// failures degrade to the fallback list rather than an error.
func (s *Screener) TopStocks(ctx context.Context, limit int) ([]types.StockListing, error) {
	if limit <= 0 {
		limit = 10
	}

	cacheKey := cache.MakeKey("screening", "top-stocks")
	if s.cache != nil {
		if data, ok := s.cache.Get(cacheKey, s.ttl); ok {
			var cached []types.StockListing
			if err := json.Unmarshal(data, &cached); err == nil && len(cached) > 0 {
				logger.Debug(ctx, "Universe served from cache", "stocks", len(cached))
				return truncate(cached, limit), nil
			}
		}
	}

	stocks, err := s.scrapeTopStocks(ctx, limit)
	if err != nil || len(stocks) == 0 {
		logger.Warn(ctx, "Screener scrape failed, using fallback universe", "error", err)
		return FallbackStocks(limit), nil
	}

	if s.cache != nil {
		if data, err := json.Marshal(stocks); err == nil {
			s.cache.Set(cacheKey, data)
		}
	}

	return stocks, nil
}

func (s *Screener) scrapeTopStocks(ctx context.Context, limit int) ([]types.StockListing, error) {
	stocks := []types.StockListing{}

	c := colly.NewCollector(
		colly.AllowedDomains("www.screener.in"),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		for key, value := range api.ScreenerHeaders() {
			r.Headers.Set(key, value)
		}
	})

	c.OnHTML("table.data-table tbody tr", func(e *colly.HTMLElement) {
		if len(stocks) >= limit {
			return
		}

		link := e.DOM.Find("td a").First()
		name := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if name == "" || href == "" {
			return
		}

		matches := companyHrefPattern.FindStringSubmatch(href)
		if len(matches) < 2 {
			return
		}
		// Yahoo-style .NS suffixes don't belong in the universe
		ticker := strings.TrimSuffix(matches[1], ".NS")

		cells := e.DOM.Find("td")
		marketCap := cellText(cells, 1)
		currentPrice := cellText(cells, 2)

		stocks = append(stocks, types.StockListing{
			Ticker:       ticker,
			Name:         name,
			MarketCap:    marketCap,
			CurrentPrice: currentPrice,
			Source:       "screener.in",
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Screener scraping error", err, "url", r.Request.URL.String())
	})

	screenURL := s.baseURL + "/screens/71/top-companies-by-market-cap/"
	if err := c.Visit(screenURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", screenURL, err)
	}
	c.Wait()

	logger.Info(ctx, "Screener scrape completed", "stocks", len(stocks))
	return stocks, nil
}

// Validate reports whether a ticker has a company page on screener.in
func (s *Screener) Validate(ctx context.Context, ticker string) bool {
	_, err := s.client.GET(ctx, fmt.Sprintf("%s/company/%s/", s.baseURL, ticker), api.ScreenerHeaders())
	return err == nil
}

// Search looks up companies by name or symbol via the screener.in search API
func (s *Screener) Search(ctx context.Context, query string) ([]types.StockListing, error) {
	searchURL := fmt.Sprintf("%s/api/company/search/?q=%s", s.baseURL, url.QueryEscape(query))

	resp, err := s.client.GET(ctx, searchURL, api.ScreenerHeaders())
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	var raw []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := resp.ParseJSON(&raw); err != nil {
		return nil, err
	}

	results := make([]types.StockListing, 0, len(raw))
	for _, r := range raw {
		matches := companyHrefPattern.FindStringSubmatch(r.URL)
		if len(matches) < 2 {
			continue
		}
		results = append(results, types.StockListing{
			Ticker: matches[1],
			Name:   strings.TrimSpace(r.Name),
			Source: "screener.in",
		})
	}

	return results, nil
}

// FallbackStocks returns the static large-cap NSE universe used when
// scraping is unavailable.
func FallbackStocks(limit int) []types.StockListing {
	popular := []types.StockListing{
		{Ticker: "RELIANCE", Name: "Reliance Industries Limited"},
		{Ticker: "TCS", Name: "Tata Consultancy Services Limited"},
		{Ticker: "HDFCBANK", Name: "HDFC Bank Limited"},
		{Ticker: "INFY", Name: "Infosys Limited"},
		{Ticker: "ICICIBANK", Name: "ICICI Bank Limited"},
		{Ticker: "HINDUNILVR", Name: "Hindustan Unilever Limited"},
		{Ticker: "ITC", Name: "ITC Limited"},
		{Ticker: "SBIN", Name: "State Bank of India"},
		{Ticker: "BHARTIARTL", Name: "Bharti Airtel Limited"},
		{Ticker: "KOTAKBANK", Name: "Kotak Mahindra Bank Limited"},
		{Ticker: "LT", Name: "Larsen & Toubro Limited"},
		{Ticker: "ASIANPAINT", Name: "Asian Paints Limited"},
		{Ticker: "MARUTI", Name: "Maruti Suzuki India Limited"},
		{Ticker: "HCLTECH", Name: "HCL Technologies Limited"},
		{Ticker: "AXISBANK", Name: "Axis Bank Limited"},
		{Ticker: "TITAN", Name: "Titan Company Limited"},
		{Ticker: "ULTRACEMCO", Name: "UltraTech Cement Limited"},
		{Ticker: "WIPRO", Name: "Wipro Limited"},
		{Ticker: "NESTLEIND", Name: "Nestle India Limited"},
		{Ticker: "POWERGRID", Name: "Power Grid Corporation of India Limited"},
	}

	selected := truncate(popular, limit)
	for i := range selected {
		selected[i].MarketCap = "N/A"
		selected[i].CurrentPrice = "N/A"
		selected[i].Source = "fallback"
	}
	return selected
}

func cellText(cells *goquery.Selection, index int) string {
	text := strings.TrimSpace(cells.Eq(index).Text())
	if text == "" {
		return "N/A"
	}
	return text
}

func truncate(stocks []types.StockListing, limit int) []types.StockListing {
	if limit > 0 && len(stocks) > limit {
		return stocks[:limit]
	}
	return stocks
}
