package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DataSource string `yaml:"data_source"` // "LIVE" or "MOCK"
	Universe   struct {
		Static   []string `yaml:"static"`
		Screener struct {
			Enabled bool `yaml:"enabled"`
			TopN    int  `yaml:"top_n"`
		} `yaml:"screener"`
	} `yaml:"universe"`
	Weights struct {
		Fundamental float64 `yaml:"fundamental"`
		Sentiment   float64 `yaml:"sentiment"`
	} `yaml:"weights"`
	Scoring struct {
		Mode    string `yaml:"mode"` // "normalized" or "legacy"
		Metrics struct {
			PERatio       float64 `yaml:"pe_ratio"`
			PBRatio       float64 `yaml:"pb_ratio"`
			ROE           float64 `yaml:"roe"`
			DebtToEquity  float64 `yaml:"debt_to_equity"`
			ProfitMargin  float64 `yaml:"profit_margin"`
			RevenueGrowth float64 `yaml:"revenue_growth"`
		} `yaml:"metrics"`
	} `yaml:"scoring"`
	News struct {
		Enabled        bool `yaml:"enabled"`
		MaxArticles    int  `yaml:"max_articles"`
		CacheMinutes   int  `yaml:"cache_minutes"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
	} `yaml:"news"`
	Cache struct {
		Dir                   string `yaml:"dir"`
		FundamentalTTLMinutes int    `yaml:"fundamental_ttl_minutes"`
		ScreeningTTLMinutes   int    `yaml:"screening_ttl_minutes"`
	} `yaml:"cache"`
}

func (c *Config) Validate() error {
	if c.DataSource != "LIVE" && c.DataSource != "MOCK" {
		return fmt.Errorf("invalid data_source '%s': must be 'LIVE' or 'MOCK'", c.DataSource)
	}
	if len(c.Universe.Static) == 0 && !c.Universe.Screener.Enabled {
		return errors.New("universe.static cannot be empty when the screener is disabled")
	}
	if c.Scoring.Mode != "normalized" && c.Scoring.Mode != "legacy" {
		return fmt.Errorf("scoring.mode must be 'normalized' or 'legacy', got '%s'", c.Scoring.Mode)
	}
	if c.Weights.Fundamental < 0 && c.Weights.Sentiment < 0 {
		return fmt.Errorf("weights cannot both be negative, got %.2f/%.2f",
			c.Weights.Fundamental, c.Weights.Sentiment)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.DataSource == "" {
		c.DataSource = "LIVE"
	}
	if c.Scoring.Mode == "" {
		c.Scoring.Mode = "normalized"
	}
	if c.Weights.Fundamental == 0 && c.Weights.Sentiment == 0 {
		c.Weights.Fundamental = 0.5
		c.Weights.Sentiment = 0.5
	}
	if c.Universe.Screener.TopN == 0 {
		c.Universe.Screener.TopN = 10
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 15
	}
	if c.News.CacheMinutes == 0 {
		c.News.CacheMinutes = 60
	}
	if c.News.TimeoutSeconds == 0 {
		c.News.TimeoutSeconds = 30
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = "cache/advisor"
	}
	if c.Cache.FundamentalTTLMinutes == 0 {
		c.Cache.FundamentalTTLMinutes = 5
	}
	if c.Cache.ScreeningTTLMinutes == 0 {
		c.Cache.ScreeningTTLMinutes = 60
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
