package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jiaming2012/options-lab/src/backtester"
	"github.com/jiaming2012/options-lab/src/eventmodels"
)

func loadCandles(path string) ([]eventmodels.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loadCandles: error opening %s: %w", path, err)
	}
	defer f.Close()

	var dtos []*eventmodels.CsvCandleDTO
	if err := gocsv.UnmarshalFile(f, &dtos); err != nil {
		return nil, fmt.Errorf("loadCandles: error parsing %s: %w", path, err)
	}

	candles := make([]eventmodels.Candle, 0, len(dtos))
	for i, dto := range dtos {
		candle, err := dto.ToModel()
		if err != nil {
			return nil, fmt.Errorf("loadCandles: row %d: %w", i, err)
		}

		candles = append(candles, *candle)
	}

	return candles, nil
}

func loadStrategy(path string) (*eventmodels.Strategy, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("loadStrategy: error reading %s: %w", path, err)
	}

	var dto eventmodels.StrategyYAML
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, "", fmt.Errorf("loadStrategy: error decoding %s: %w", path, err)
	}

	strategy, err := dto.ToModel()
	if err != nil {
		return nil, "", err
	}

	return strategy, dto.Underlying, nil
}

var runCmd = &cobra.Command{
	Use:   "backtester --candles data/btc_daily.csv --strategy strategies/condor.yaml",
	Short: "Replay an option strategy against a historical candle series",
	Run: func(cmd *cobra.Command, args []string) {
		candlesPath, err := cmd.Flags().GetString("candles")
		if err != nil {
			log.Fatalf("error getting candles: %v", err)
		}

		strategyPath, err := cmd.Flags().GetString("strategy")
		if err != nil {
			log.Fatalf("error getting strategy: %v", err)
		}

		capital, err := cmd.Flags().GetFloat64("capital")
		if err != nil {
			log.Fatalf("error getting capital: %v", err)
		}

		rate, err := cmd.Flags().GetFloat64("rate")
		if err != nil {
			log.Fatalf("error getting rate: %v", err)
		}

		vol, err := cmd.Flags().GetFloat64("vol")
		if err != nil {
			log.Fatalf("error getting vol: %v", err)
		}

		stepHours, err := cmd.Flags().GetInt("step-hours")
		if err != nil {
			log.Fatalf("error getting step-hours: %v", err)
		}

		candles, err := loadCandles(candlesPath)
		if err != nil {
			log.Fatalf("%v", err)
		}

		if len(candles) == 0 {
			log.Fatalf("no candles found in %s", candlesPath)
		}

		strategy, underlying, err := loadStrategy(strategyPath)
		if err != nil {
			log.Fatalf("%v", err)
		}

		feed := backtester.NewHistoricalFeed()
		if err := feed.AddCandles(underlying, candles); err != nil {
			log.Fatalf("%v", err)
		}

		run, err := backtester.New(backtester.Config{
			Strategy:          *strategy,
			Symbol:            underlying,
			StartTime:         candles[0].Timestamp,
			EndTime:           candles[len(candles)-1].Timestamp,
			Step:              time.Duration(stepHours) * time.Hour,
			InitialCapital:    capital,
			RiskFreeRate:      rate,
			DefaultVolatility: vol,
		}, feed)
		if err != nil {
			log.Fatalf("%v", err)
		}

		result, err := run.Run()
		if err != nil {
			log.Fatalf("backtest failed: %v", err)
		}

		log.WithFields(log.Fields{
			"backtest": result.ID,
			"trades":   len(result.Trades),
			"steps":    len(result.Equity),
		}).Info("backtest complete")

		fmt.Println(result.Report())
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file found: %v", err)
	}

	runCmd.PersistentFlags().String("candles", "", "Path to the underlying candle CSV")
	runCmd.PersistentFlags().String("strategy", "", "Path to the strategy YAML definition")
	runCmd.PersistentFlags().Float64("capital", 100000, "Initial capital")
	runCmd.PersistentFlags().Float64("rate", 0.05, "Annualized risk-free rate")
	runCmd.PersistentFlags().Float64("vol", 0.8, "Default volatility for model pricing when a leg has no implied vol")
	runCmd.PersistentFlags().Int("step-hours", 24, "Simulation step size in hours")

	runCmd.MarkPersistentFlagRequired("candles")
	runCmd.MarkPersistentFlagRequired("strategy")

	if err := runCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}
