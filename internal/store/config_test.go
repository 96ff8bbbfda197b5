package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
data_source: MOCK
universe:
  static: [RELIANCE, TCS]
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Scoring.Mode != "normalized" {
		t.Errorf("mode %q, want normalized", cfg.Scoring.Mode)
	}
	if cfg.Weights.Fundamental != 0.5 || cfg.Weights.Sentiment != 0.5 {
		t.Errorf("weights %+v, want 0.5/0.5", cfg.Weights)
	}
	if cfg.Universe.Screener.TopN != 10 {
		t.Errorf("top_n %d, want 10", cfg.Universe.Screener.TopN)
	}
	if cfg.News.MaxArticles != 15 || cfg.News.CacheMinutes != 60 {
		t.Errorf("news defaults %+v", cfg.News)
	}
	if cfg.Cache.FundamentalTTLMinutes != 5 || cfg.Cache.ScreeningTTLMinutes != 60 {
		t.Errorf("cache defaults %+v", cfg.Cache)
	}
}

func TestLoadConfigExplicitValues(t *testing.T) {
	path := writeConfig(t, `
data_source: LIVE
universe:
  static: [INFY]
weights:
  fundamental: 0.7
  sentiment: 0.3
scoring:
  mode: legacy
  metrics:
    pe_ratio: 0.4
    roe: 0.6
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Scoring.Mode != "legacy" {
		t.Errorf("mode %q", cfg.Scoring.Mode)
	}
	if cfg.Weights.Fundamental != 0.7 {
		t.Errorf("fundamental weight %.1f", cfg.Weights.Fundamental)
	}
	if cfg.Scoring.Metrics.ROE != 0.6 {
		t.Errorf("roe weight %.1f", cfg.Scoring.Metrics.ROE)
	}
}

func TestValidateRejectsBadDataSource(t *testing.T) {
	path := writeConfig(t, `
data_source: STAGING
universe:
  static: [TCS]
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for unknown data_source")
	}
}

func TestValidateRejectsEmptyUniverse(t *testing.T) {
	path := writeConfig(t, `
data_source: MOCK
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error when universe is empty and screener disabled")
	}
}

func TestValidateAllowsScreenerOnlyUniverse(t *testing.T) {
	path := writeConfig(t, `
data_source: LIVE
universe:
  screener:
    enabled: true
    top_n: 5
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.Universe.Screener.Enabled || cfg.Universe.Screener.TopN != 5 {
		t.Errorf("screener config %+v", cfg.Universe.Screener)
	}
}

func TestValidateRejectsBadScoringMode(t *testing.T) {
	path := writeConfig(t, `
data_source: MOCK
universe:
  static: [TCS]
scoring:
  mode: experimental
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for unknown scoring mode")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
