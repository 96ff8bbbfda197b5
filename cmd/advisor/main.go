package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"stock-advisor/internal/advisor"
	"stock-advisor/internal/cache"
	"stock-advisor/internal/fundamentals"
	"stock-advisor/internal/interfaces"
	"stock-advisor/internal/logger"
	"stock-advisor/internal/news"
	"stock-advisor/internal/screening"
	"stock-advisor/internal/store"
	"stock-advisor/internal/trace"
	"stock-advisor/internal/types"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	ticker := flag.String("ticker", "", "analyze a single ticker instead of the universe")
	jsonOut := flag.String("json", "", "write results to a JSON file")
	flag.Parse()

	must(logger.Init())
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	cfg, err := store.LoadConfig(*configPath)
	must(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer logger.Shutdown(ctx)
	defer trace.Shutdown(ctx)

	fileCache := cache.NewFileCache(cfg.Cache.Dir)

	var fundamentalProvider interfaces.FundamentalProvider
	if cfg.DataSource == "MOCK" {
		log.Println(">> MOCK data source")
		fundamentalProvider = fundamentals.NewMockProvider()
	} else {
		fundamentalProvider = fundamentals.NewYahooProvider(
			fileCache,
			time.Duration(cfg.Cache.FundamentalTTLMinutes)*time.Minute,
		)
	}

	screener := screening.NewScreener(
		fileCache,
		time.Duration(cfg.Cache.ScreeningTTLMinutes)*time.Minute,
	)

	var sentimentProvider interfaces.SentimentProvider
	if cfg.DataSource == "MOCK" {
		sentimentProvider = news.NewMockProvider()
	} else {
		sentimentProvider = news.NewService(fileCache, news.ServiceConfig{
			Enabled:     cfg.News.Enabled,
			MaxArticles: cfg.News.MaxArticles,
			CacheTTL:    time.Duration(cfg.News.CacheMinutes) * time.Minute,
			Timeout:     time.Duration(cfg.News.TimeoutSeconds) * time.Second,
		})
	}

	adv := advisor.New(cfg, screener, fundamentalProvider, sentimentProvider)

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║            Stock Advisor - Equity Scoring Report             ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Println()

	if *ticker != "" {
		result := adv.AnalyzeTicker(ctx, *ticker, "")
		printResult(1, result)
		if *jsonOut != "" {
			saveJSON([]*types.AnalysisResult{result}, nil, *jsonOut)
		}
		return
	}

	results, summary, err := adv.AnalyzeUniverse(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("                     RANKED RECOMMENDATIONS")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
	scores := make([]float64, len(results))
	for i, result := range results {
		scores[i] = result.OverallScore
	}
	best := scores[0]
	worst := scores[len(scores)-1]

	for i, result := range results {
		printResult(i+1, result)
		fmt.Printf("  🏅 Percentile:       %.0fth among %d analyzed (relative strength %.0f/100)\n",
			advisor.PercentileScore(result.OverallScore, scores), len(results),
			advisor.RangeNormalize(result.OverallScore, worst, best))
		fmt.Println()
	}

	printSummary(summary)

	if *jsonOut != "" {
		saveJSON(results, summary, *jsonOut)
	}
}

func printResult(rank int, r *types.AnalysisResult) {
	emoji := "⚠️"
	switch r.Recommendation {
	case types.RecommendBuy:
		emoji = "✅"
	case types.RecommendSell:
		emoji = "❌"
	}

	fmt.Printf("%s Rank #%d: %s (%.1f/100 - %s)\n", emoji, rank, r.Ticker, r.OverallScore, r.Recommendation)
	fmt.Println("─────────────────────────────────────────────────────────────")
	if r.CompanyName != "" && r.CompanyName != r.Ticker {
		fmt.Printf("  🏢 Company:          %s\n", r.CompanyName)
	}
	if r.Err != "" {
		fmt.Printf("  ⚠️  Error:            %s\n", r.Err)
		return
	}

	grade := advisor.Interpret(r.OverallScore)
	fmt.Printf("  🎓 Grade:            %s (%s)\n", grade.Grade, grade.Rating)
	fmt.Printf("  📊 Fundamentals:     %.1f/100 (quality: %s, weight %.0f%%)\n",
		r.FundamentalScore, r.FundamentalQuality, r.WeightsUsed.FundamentalPct)
	fmt.Printf("  📰 Sentiment:        %.1f/100 (quality: %s, weight %.0f%%)\n",
		r.SentimentScore, r.SentimentQuality, r.WeightsUsed.SentimentPct)

	if r.CurrentPrice != nil {
		fmt.Printf("  💰 Price:            ₹%.2f\n", *r.CurrentPrice)
	}
	if r.MarketCap != "" && r.MarketCap != "N/A" {
		fmt.Printf("  🏦 Market Cap:       %s\n", r.MarketCap)
	}
	if r.PERatio != nil {
		fmt.Printf("  📐 PE Ratio:         %.2f\n", *r.PERatio)
	}
	if v, err := fundamentals.IntrinsicValue(&types.FundamentalSnapshot{
		Ticker:       r.Ticker,
		PERatio:      r.PERatio,
		CurrentPrice: r.CurrentPrice,
	}); err == nil {
		fmt.Printf("  ⚖️  Fair Value:       ₹%.2f (%s, %+.1f%%)\n",
			v.EstimatedFairValue, v.Verdict, v.UpsidePotential)
	}
	if r.TotalArticles > 0 {
		fmt.Printf("  🗞️  News:             %d articles (%d+ / %d-)\n",
			r.TotalArticles, r.PositiveCount, r.NegativeCount)
	}

	fmt.Println()
	fmt.Printf("  📝 %s\n", r.Reasoning)
}

func printSummary(s *types.PortfolioSummary) {
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("                       PORTFOLIO SUMMARY")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("Total Analyzed:     %d stocks\n", s.TotalStocks)
	fmt.Printf("Average Score:      %.1f/100 (σ %.1f)\n", s.AverageScore, s.ScoreStdDev)
	fmt.Printf("Distribution:       %d BUY / %d HOLD / %d SELL\n",
		s.Distribution[types.RecommendBuy],
		s.Distribution[types.RecommendHold],
		s.Distribution[types.RecommendSell])
	if s.TopPerformer != nil {
		fmt.Printf("Top Performer:      %s (%.1f)\n", s.TopPerformer.Ticker, s.TopPerformer.OverallScore)
	}
	if s.WorstPerformer != nil {
		fmt.Printf("Worst Performer:    %s (%.1f)\n", s.WorstPerformer.Ticker, s.WorstPerformer.OverallScore)
	}
	fmt.Println()
}

func saveJSON(results []*types.AnalysisResult, summary *types.PortfolioSummary, filename string) {
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create JSON file: %v\n", err)
		return
	}
	defer file.Close()

	payload := struct {
		Results []*types.AnalysisResult `json:"results"`
		Summary *types.PortfolioSummary `json:"summary,omitempty"`
	}{Results: results, Summary: summary}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write JSON: %v\n", err)
		return
	}

	fmt.Printf("💾 Results saved to %s\n", filename)
}
