// MandiWatch — Agricultural Commodity Price Intelligence
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agrisage/mandiwatch/api"
	"github.com/agrisage/mandiwatch/internal/agridata"
	marketanalysis "github.com/agrisage/mandiwatch/internal/analysis/market"
	"github.com/agrisage/mandiwatch/internal/analysis/suitability"
	"github.com/agrisage/mandiwatch/internal/catalog"
	"github.com/agrisage/mandiwatch/internal/config"
	"github.com/agrisage/mandiwatch/internal/source"
	"github.com/agrisage/mandiwatch/internal/sources/agmarknet"
	"github.com/agrisage/mandiwatch/internal/sources/agrifeeds"
	"github.com/agrisage/mandiwatch/internal/sources/mandiboard"
	"github.com/agrisage/mandiwatch/internal/synthetic"
	"github.com/agrisage/mandiwatch/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mandiwatch",
	Short: "MandiWatch — Agricultural Commodity Price Intelligence",
	Long: `MandiWatch tracks Indian agricultural commodity prices across
government APIs, mandi board listings, and RSS bulletins, with a
synthetic fallback so price requests always succeed. It also scores
crop suitability from weather and regional reference data.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("state", "Delhi", "requesting state for market resolution")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(commoditiesCmd)
	rootCmd.AddCommand(pricesCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(suitabilityCmd)
	rootCmd.AddCommand(cropsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// buildPipeline wires the catalog, sources, and generators from config.
func buildPipeline() (*catalog.Catalog, *agridata.DB, *source.Chain, *synthetic.Generator) {
	cat := catalog.Load(cfg.Catalog.PricesPath)
	crops := agridata.Load(cfg.Catalog.CropsPath)
	synth := synthetic.New(cat)

	var sources []source.Source
	if cfg.Sources.Agmarknet.Enabled {
		sources = append(sources, agmarknet.New(cfg.Sources.Agmarknet.BaseURL))
	}
	if cfg.Sources.MandiBoard.Enabled {
		sources = append(sources, mandiboard.New(cfg.Sources.MandiBoard.BaseURL))
	}
	if cfg.Sources.AgriFeeds.Enabled {
		sources = append(sources, agrifeeds.New(cfg.Sources.AgriFeeds.FeedURLs))
	}

	chain := source.NewChain(cat, synth, sources,
		source.WithTimeout(cfg.Sources.Timeout()),
		source.WithConcurrency(cfg.Analysis.ConcurrentFetches),
	)
	return cat, crops, chain, synth
}

func requestLocation(cmd *cobra.Command) models.Location {
	state, _ := cmd.Flags().GetString("state")
	return models.Location{State: state}
}

func splitCommodities(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("MandiWatch %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Commodities Command ---

var commoditiesCmd = &cobra.Command{
	Use:   "commodities",
	Short: "List commodities in the price catalog",
	Run: func(cmd *cobra.Command, args []string) {
		cat, _, _, _ := buildPipeline()
		names := cat.Commodities()
		if len(names) == 0 {
			fmt.Println("catalog is empty")
			return
		}
		for _, name := range names {
			e, _ := cat.Entry(name)
			fmt.Printf("%-12s baseline ₹%.2f/%s  trend: %s\n", name, e.Baseline, e.Unit, e.Trend)
		}
	},
}

// --- Prices Command ---

var pricesCmd = &cobra.Command{
	Use:   "prices [commodity,...]",
	Short: "Fetch current commodity prices (external sources with synthetic fallback)",
	Run: func(cmd *cobra.Command, args []string) {
		_, _, chain, _ := buildPipeline()

		var commodities []string
		if len(args) > 0 {
			commodities = splitCommodities(strings.Join(args, ","))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		prices := chain.GetPrices(ctx, requestLocation(cmd), commodities)
		for _, p := range prices {
			fmt.Printf("%-12s ₹%9.2f  %-10s %-16s via %s\n",
				p.Commodity, p.CurrentPrice, p.Trend, p.MarketLocation, p.Source)
		}
	},
}

// --- Trend Command ---

var trendCmd = &cobra.Command{
	Use:   "trend <commodity>",
	Short: "Show the generated price trend history for a commodity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, _, synth := buildPipeline()

		days, _ := cmd.Flags().GetInt("days")
		report, err := synth.TrendHistory(args[0], days)
		if err != nil {
			if errors.Is(err, synthetic.ErrCommodityNotFound) {
				fmt.Printf("commodity %q not found in catalog\n", args[0])
				return nil
			}
			return err
		}

		fmt.Printf("%s (%s), baseline ₹%.2f, change over period ₹%+.2f\n",
			report.Commodity, report.Trend, report.CurrentPrice, report.PriceChange)
		for _, pt := range report.PriceHistory {
			fmt.Printf("  %s  ₹%.2f\n", pt.Date, pt.Price)
		}
		return nil
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [commodity,...]",
	Short: "Analyze market conditions over a price batch",
	Run: func(cmd *cobra.Command, args []string) {
		_, _, chain, _ := buildPipeline()

		var commodities []string
		if len(args) > 0 {
			commodities = splitCommodities(strings.Join(args, ","))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		prices := chain.GetPrices(ctx, requestLocation(cmd), commodities)
		summary, err := marketanalysis.Analyze(prices)
		if err != nil {
			fmt.Println("no price data available")
			return
		}

		fmt.Printf("Sentiment:      %s\n", summary.Sentiment)
		fmt.Printf("Average price:  ₹%.2f\n", summary.AveragePrice)
		fmt.Printf("Trends:         %d increasing / %d decreasing / %d stable\n",
			summary.TrendDistribution[models.TrendIncreasing],
			summary.TrendDistribution[models.TrendDecreasing],
			summary.TrendDistribution[models.TrendStable])
		fmt.Printf("Best:           %s at ₹%.2f (%s)\n",
			summary.BestPerforming.Commodity, summary.BestPerforming.Price, summary.BestPerforming.Trend)
		fmt.Printf("Worst:          %s at ₹%.2f (%s)\n",
			summary.WorstPerforming.Commodity, summary.WorstPerforming.Price, summary.WorstPerforming.Trend)
		fmt.Printf("Recommendation: %s\n", summary.Recommendation)
	},
}

// --- Suitability Command ---

var suitabilityCmd = &cobra.Command{
	Use:   "suitability <crop>",
	Short: "Score how well a crop fits a state and weather conditions",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, crops, _, _ := buildPipeline()

		temp, _ := cmd.Flags().GetFloat64("temperature")
		rain, _ := cmd.Flags().GetFloat64("rainfall")
		humidity, _ := cmd.Flags().GetFloat64("humidity")
		state, _ := cmd.Flags().GetString("state")

		score := suitability.New(crops).Score(args[0], state, models.WeatherConditions{
			Temperature: temp,
			Rainfall:    rain,
			Humidity:    humidity,
		})
		fmt.Printf("%s in %s: suitability %.2f\n", args[0], state, score)
	},
}

// --- Crops Command ---

var cropsCmd = &cobra.Command{
	Use:   "crops",
	Short: "List crops for a cropping season",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, crops, _, _ := buildPipeline()

		raw, _ := cmd.Flags().GetString("season")
		season := models.Season(strings.ToLower(raw))
		profile, ok := agridata.SeasonInfo(season)
		if !ok {
			return fmt.Errorf("unknown season %q (use kharif, rabi, or zaid)", raw)
		}

		fmt.Printf("%s (%s): %s\n", season, strings.Join(profile.Months, ", "), profile.Description)
		for _, name := range crops.SeasonalCrops(season) {
			fmt.Printf("  %s\n", name)
		}
		return nil
	},
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, crops, chain, synth := buildPipeline()

		srv := api.NewServer(cfg, cat, crops, chain, synth)
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("MandiWatch API listening on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check connectivity of the configured price sources",
	Run: func(cmd *cobra.Command, args []string) {
		_, _, chain, _ := buildPipeline()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		for _, src := range chain.Sources() {
			pinger, ok := src.(source.Pinger)
			if !ok {
				fmt.Printf("%-12s no health check\n", src.Name())
				continue
			}
			if err := pinger.Ping(ctx); err != nil {
				fmt.Printf("%-12s UNREACHABLE (%v)\n", src.Name(), err)
				continue
			}
			fmt.Printf("%-12s ok\n", src.Name())
		}
		fmt.Println("synthetic    always available")
	},
}

func init() {
	trendCmd.Flags().Int("days", synthetic.DefaultTrendDays, "history length in days")
	suitabilityCmd.Flags().Float64("temperature", suitability.DefaultTemperature, "temperature in °C")
	suitabilityCmd.Flags().Float64("rainfall", suitability.DefaultRainfall, "seasonal rainfall in mm")
	suitabilityCmd.Flags().Float64("humidity", suitability.DefaultHumidity, "relative humidity in percent")
	cropsCmd.Flags().String("season", "kharif", "cropping season (kharif, rabi, zaid)")
}
