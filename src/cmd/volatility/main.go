package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/options-lab/src/eventmodels"
	"github.com/jiaming2012/options-lab/src/solvers"
	"github.com/jiaming2012/options-lab/src/volatility"
)

func loadCloses(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loadCloses: error opening %s: %w", path, err)
	}
	defer f.Close()

	var dtos []*eventmodels.CsvCandleDTO
	if err := gocsv.UnmarshalFile(f, &dtos); err != nil {
		return nil, fmt.Errorf("loadCloses: error parsing %s: %w", path, err)
	}

	closes := make([]float64, 0, len(dtos))
	for i, dto := range dtos {
		candle, err := dto.ToModel()
		if err != nil {
			return nil, fmt.Errorf("loadCloses: row %d: %w", i, err)
		}

		closes = append(closes, candle.Close)
	}

	return closes, nil
}

func coneTable(cone []volatility.ConeLevel) string {
	display := &strings.Builder{}

	table := tablewriter.NewWriter(display)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnSeparator("")
	table.SetHeader([]string{"Window", "Min", "P25", "Median", "P75", "Max", "Current"})

	for _, level := range cone {
		table.Append([]string{
			fmt.Sprintf("%d", level.Window),
			fmt.Sprintf("%.2f%%", level.Min*100),
			fmt.Sprintf("%.2f%%", level.P25*100),
			fmt.Sprintf("%.2f%%", level.Median*100),
			fmt.Sprintf("%.2f%%", level.P75*100),
			fmt.Sprintf("%.2f%%", level.Max*100),
			fmt.Sprintf("%.2f%%", level.Current*100),
		})
	}

	table.Render()
	return display.String()
}

var volCmd = &cobra.Command{
	Use:   "volatility --candles data/btc_daily.csv",
	Short: "Summarize realized volatility for a candle series",
	Run: func(cmd *cobra.Command, args []string) {
		candlesPath, err := cmd.Flags().GetString("candles")
		if err != nil {
			log.Fatalf("error getting candles: %v", err)
		}

		window, err := cmd.Flags().GetInt("window")
		if err != nil {
			log.Fatalf("error getting window: %v", err)
		}

		horizon, err := cmd.Flags().GetInt("horizon")
		if err != nil {
			log.Fatalf("error getting horizon: %v", err)
		}

		impliedVol, err := cmd.Flags().GetFloat64("implied-vol")
		if err != nil {
			log.Fatalf("error getting implied-vol: %v", err)
		}

		closes, err := loadCloses(candlesPath)
		if err != nil {
			log.Fatalf("%v", err)
		}

		historical, err := volatility.HistoricalVolatility(closes, window)
		if err != nil {
			log.Fatalf("failed to calculate historical volatility: %v", err)
		}

		log.WithFields(log.Fields{
			"window":     window,
			"historical": fmt.Sprintf("%.2f%%", historical*100),
		}).Info("realized volatility")

		returns, err := solvers.LogReturns(closes)
		if err != nil {
			log.Fatalf("failed to calculate returns: %v", err)
		}

		garch, err := volatility.GarchForecast(returns, horizon)
		if err != nil {
			log.Fatalf("failed to run the garch forecast: %v", err)
		}

		log.WithFields(log.Fields{
			"horizon":  horizon,
			"forecast": fmt.Sprintf("%.2f%%", garch.Forecast[horizon-1]*100),
			"long_run": fmt.Sprintf("%.2f%%", garch.LongRunVol*100),
		}).Info("garch forecast")

		cone, err := volatility.VolatilityCone(closes, []int{window / 2, window, window * 2})
		if err != nil {
			log.Fatalf("failed to build the volatility cone: %v", err)
		}

		fmt.Println(coneTable(cone))

		if impliedVol > 0 {
			comparison, err := volatility.Compare(historical, impliedVol)
			if err != nil {
				log.Fatalf("failed to compare volatilities: %v", err)
			}

			log.WithFields(log.Fields{
				"implied":   fmt.Sprintf("%.2f%%", comparison.Implied*100),
				"diff":      fmt.Sprintf("%.2f%%", comparison.PercentDiff*100),
				"sentiment": comparison.Sentiment,
			}).Info("implied vs realized")
		}
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file found: %v", err)
	}

	volCmd.PersistentFlags().String("candles", "", "Path to the candle CSV")
	volCmd.PersistentFlags().Int("window", 30, "Trailing window in trading periods")
	volCmd.PersistentFlags().Int("horizon", 7, "GARCH forecast horizon in trading periods")
	volCmd.PersistentFlags().Float64("implied-vol", 0, "Optional implied vol to compare against realized")

	volCmd.MarkPersistentFlagRequired("candles")

	if err := volCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}
