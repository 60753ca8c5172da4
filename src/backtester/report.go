package backtester

import (
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Report renders the run summary as a plain-text table.
func (r *Result) Report() string {
	display := &strings.Builder{}
	display.WriteString(fmt.Sprintf("Backtest %s (%s)\n", r.ID, r.State))

	table := tablewriter.NewWriter(display)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnSeparator("")

	metrics := r.Metrics

	table.Append([]string{"Total Return", fmt.Sprintf("%.2f%%", metrics.TotalReturn*100)})
	table.Append([]string{"Annualized Return", fmt.Sprintf("%.2f%%", metrics.AnnualizedReturn*100)})
	table.Append([]string{"Sharpe Ratio", fmt.Sprintf("%.2f", metrics.SharpeRatio)})
	table.Append([]string{"Sortino Ratio", fmt.Sprintf("%.2f", metrics.SortinoRatio)})
	table.Append([]string{"Calmar Ratio", fmt.Sprintf("%.2f", metrics.CalmarRatio)})
	table.Append([]string{"Max Drawdown", fmt.Sprintf("%.2f%%", metrics.MaxDrawdown*100)})
	table.Append([]string{"Max Drawdown Duration", metrics.MaxDrawdownDuration.Round(time.Minute).String()})
	table.Append([]string{"Win Rate", fmt.Sprintf("%.2f%%", metrics.WinRate*100)})
	table.Append([]string{"Profit Factor", fmt.Sprintf("%.2f", metrics.ProfitFactor)})
	table.Append([]string{"Trades", fmt.Sprintf("%d", metrics.NumTrades)})
	table.Append([]string{"Model Fallbacks", fmt.Sprintf("%d", r.FallbackEvents)})

	table.Render()
	return display.String()
}
