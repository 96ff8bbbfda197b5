package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"stock-advisor/internal/api"
	"stock-advisor/internal/logger"
	"stock-advisor/internal/types"
)

// Scraper collects headlines for a ticker from Indian financial news
// sites, with Google News as a fallback when the primary sources come
// up empty.
type Scraper struct {
	sources []Source
	timeout time.Duration
}

// Source is one scrapeable news site
type Source struct {
	Name       string
	BaseURL    string
	SearchPath string // {symbol} is replaced with the lowercase ticker
	Container  string // CSS selector for one article block
	Title      string
	Link       string
	Summary    string
	RateLimit  time.Duration
}

func defaultSources() []Source {
	return []Source{
		{
			Name:       "MoneyControl",
			BaseURL:    "https://www.moneycontrol.com",
			SearchPath: "/news/tags/{symbol}.html",
			Container:  "li.clearfix",
			Title:      "h2 a, h3 a",
			Link:       "h2 a, h3 a",
			Summary:    "p",
			RateLimit:  2 * time.Second,
		},
		{
			Name:       "EconomicTimes",
			BaseURL:    "https://economictimes.indiatimes.com",
			SearchPath: "/topic/{symbol}",
			Container:  "div.story-box",
			Title:      "a",
			Link:       "a",
			Summary:    "p",
			RateLimit:  2 * time.Second,
		},
		{
			Name:       "BusinessStandard",
			BaseURL:    "https://www.business-standard.com",
			SearchPath: "/search?q={symbol}",
			Container:  "div.listing-txt",
			Title:      "a.Hdng",
			Link:       "a.Hdng",
			Summary:    "p",
			RateLimit:  2 * time.Second,
		},
	}
}

// NewScraper creates a scraper over the default source list
func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		timeout: timeout,
	}
}

// Scrape fetches up to maxArticles headlines for a ticker, spread
// across the configured sources. Duplicate titles are dropped. A
// source failing is logged and skipped, never fatal.
func (s *Scraper) Scrape(ctx context.Context, ticker, companyName string, maxArticles int) []types.NewsArticle {
	perSource := maxArticles / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	collected := []types.NewsArticle{}
	for _, source := range s.sources {
		articles, err := s.scrapeSource(ctx, source, ticker, perSource)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", source.Name, "ticker", ticker)
			continue
		}
		collected = append(collected, articles...)

		time.Sleep(source.RateLimit)
	}

	if len(collected) == 0 && companyName != "" {
		logger.Info(ctx, "Primary sources empty, trying Google News", "ticker", ticker)
		if articles, err := s.scrapeGoogleNews(ctx, ticker, companyName, maxArticles); err == nil {
			collected = articles
		}
	}

	collected = dedupeByTitle(collected)
	if len(collected) > maxArticles {
		collected = collected[:maxArticles]
	}

	logger.Info(ctx, "News scraping completed", "ticker", ticker, "articles", len(collected))
	return collected
}

func (s *Scraper) scrapeSource(ctx context.Context, source Source, ticker string, maxArticles int) ([]types.NewsArticle, error) {
	articles := []types.NewsArticle{}

	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(source.BaseURL)),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", api.BrowserHeaders()["User-Agent"])
	})

	c.OnHTML(source.Container, func(e *colly.HTMLElement) {
		if len(articles) >= maxArticles {
			return
		}

		title := strings.TrimSpace(e.ChildText(source.Title))
		link := e.ChildAttr(source.Link, "href")
		if title == "" || link == "" {
			return
		}
		if !strings.HasPrefix(link, "http") {
			link = source.BaseURL + link
		}

		articles = append(articles, types.NewsArticle{
			Title:   title,
			URL:     link,
			Content: strings.TrimSpace(e.ChildText(source.Summary)),
			Source:  source.Name,
			Symbol:  ticker,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.Warn(ctx, "Scraping error", "source", source.Name, "url", r.Request.URL.String(), "error", err)
	})

	searchURL := source.BaseURL + strings.ReplaceAll(source.SearchPath, "{symbol}", strings.ToLower(ticker))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", searchURL, err)
	}
	c.Wait()

	return articles, nil
}

func (s *Scraper) scrapeGoogleNews(ctx context.Context, ticker, companyName string, maxArticles int) ([]types.NewsArticle, error) {
	articles := []types.NewsArticle{}

	c := colly.NewCollector(
		colly.AllowedDomains("news.google.com", "www.google.com"),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", api.BrowserHeaders()["User-Agent"])
	})

	c.OnHTML("article", func(e *colly.HTMLElement) {
		if len(articles) >= maxArticles {
			return
		}

		title := e.ChildText("h3, h4")
		link := e.ChildAttr("a", "href")
		if title == "" || link == "" {
			return
		}
		if strings.HasPrefix(link, "./articles/") {
			link = "https://news.google.com" + link[1:]
		}

		articles = append(articles, types.NewsArticle{
			Title:  title,
			URL:    link,
			Source: "GoogleNews",
			Symbol: ticker,
		})
	})

	query := url.QueryEscape(companyName + " stock news India")
	searchURL := fmt.Sprintf("https://news.google.com/search?q=%s&hl=en-IN&gl=IN&ceid=IN:en", query)
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to scrape Google News: %w", err)
	}
	c.Wait()

	return articles, nil
}

// dedupeByTitle drops repeats of the same headline across sources
func dedupeByTitle(articles []types.NewsArticle) []types.NewsArticle {
	seen := make(map[string]bool, len(articles))
	unique := make([]types.NewsArticle, 0, len(articles))

	for _, a := range articles {
		key := strings.ToLower(strings.TrimSpace(a.Title))
		if len(key) <= 10 || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, a)
	}

	return unique
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
