package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hausbuch/hausbuch/internal/domain/report"
)

var (
	flagCurrency string
	flagMonths   []string
	flagPeriod   string
	flagMonth    string
	flagExport   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Spending reports",
}

var reportTrendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Cumulative spending trend, weekly or month-vs-month",
	Long: `Without --months, compares the running week (from Monday, up to
today) against the previous week. With --months M1,M2 (YYYY-MM),
compares cumulative daily spending of the two months instead.`,
	RunE: runReportTrend,
}

var reportFlowsCmd = &cobra.Command{
	Use:   "flows",
	Short: "Spending grouped by merchant and payment account",
	RunE:  runReportFlows,
}

var reportUtilizationCmd = &cobra.Command{
	Use:   "utilization",
	Short: "Per-product utilization statistics from the checkout history",
	RunE:  runReportUtilization,
}

var reportMonthCmd = &cobra.Command{
	Use:   "month",
	Short: "Monthly breakdown by category, optionally exported as xlsx",
	RunE:  runReportMonth,
}

func runReportTrend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := app.renewalNotice(ctx); err != nil {
		return err
	}

	if len(flagMonths) == 2 {
		comparison, err := app.Reports.MonthlyTrend(ctx, flagMonths[0], flagMonths[1], flagCurrency)
		if err != nil {
			return err
		}
		fmt.Printf("Cumulative spending (%s)\n", comparison.Currency)
		printSeries(comparison.Month1, comparison.Series1)
		printSeries(comparison.Month2, comparison.Series2)
		fmt.Printf("%s total %.2f, %s total %.2f, diff %+.2f\n",
			comparison.Month1, comparison.Total1,
			comparison.Month2, comparison.Total2, comparison.Diff())
		return nil
	}
	if len(flagMonths) != 0 {
		return fmt.Errorf("--months needs exactly two YYYY-MM values")
	}

	week, err := app.Reports.WeeklyTrend(ctx, flagCurrency)
	if err != nil {
		return err
	}
	fmt.Printf("Cumulative spending this week vs last (%s)\n", week.Currency)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "\t%s\t\n", strings.Join(week.Labels, "\t"))
	fmt.Fprintf(w, "this\t%s\t\n", joinSeries(week.Current, len(week.Labels)))
	fmt.Fprintf(w, "last\t%s\t\n", joinSeries(week.Previous, len(week.Labels)))
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("So far %.2f, last week %.2f\n", week.CurrentTotal(), week.PreviousTotal())
	return nil
}

func runReportFlows(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := app.renewalNotice(ctx); err != nil {
		return err
	}

	flows, err := app.Reports.Flows(ctx, report.FlowPeriod(flagPeriod))
	if err != nil {
		return err
	}

	fmt.Printf("Flows (%s, in %s)\n", flows.Period, app.Config.BaseCurrency)
	fmt.Println("By merchant:")
	printFlows(flows.Sources)
	fmt.Println("By account:")
	printFlows(flows.Accounts)
	return nil
}

func runReportUtilization(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	stats, err := app.Reports.Utilization(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tAVG%\tMIN%\tMAX%\tBUYS\tAVG DAYS\tAVG PRICE\t")
	for _, p := range stats.Products {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%d\t%d\t%d\t%.1f\t%.2f %s\t\n",
			p.Name, p.Category, p.AvgUtilization, p.MinUtilization, p.MaxUtilization,
			p.Count, p.AvgDays, p.AvgPrice, p.Currency)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d product(s), overall avg %.1f%%, high (>=80%%): %d, low (<50%%): %d\n",
		len(stats.Products), stats.OverallAvg, stats.HighCount, stats.LowCount)
	return nil
}

func runReportMonth(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := app.renewalNotice(ctx); err != nil {
		return err
	}

	month := flagMonth
	if month == "" {
		month = time.Now().Format("2006-01")
	}

	breakdown, err := app.Reports.Breakdown(ctx, month)
	if err != nil {
		return err
	}

	fmt.Printf("Spending %s by category (%s)\n", breakdown.Month, app.Config.BaseCurrency)
	for _, cat := range breakdown.Categories {
		fmt.Printf("  %-12s %10.2f\n", cat.Category, cat.Total)
	}
	fmt.Printf("  %-12s %10.2f\n", "total", breakdown.Total)

	if flagExport != "" {
		if err := app.Reports.ExportMonthlyWorkbook(ctx, month, flagExport); err != nil {
			return err
		}
		fmt.Printf("Workbook written to %s\n", flagExport)
	}
	return nil
}

func printFlows(flows []report.Flow) {
	var sum float64
	for _, flow := range flows {
		fmt.Printf("  %-16s %10.2f\n", flow.Name, flow.Total)
		sum += flow.Total
	}
	fmt.Printf("  %-16s %10.2f\n", "total", sum)
}

func printSeries(label string, series []float64) {
	fmt.Printf("%s:", label)
	for _, v := range series {
		fmt.Printf(" %.2f", v)
	}
	fmt.Println()
}

func joinSeries(series []float64, width int) string {
	parts := make([]string, 0, width)
	for i := 0; i < width; i++ {
		if i < len(series) {
			parts = append(parts, fmt.Sprintf("%.2f", series[i]))
		} else {
			parts = append(parts, "-")
		}
	}
	return strings.Join(parts, "\t")
}

func init() {
	reportTrendCmd.Flags().StringVar(&flagCurrency, "currency", "", "display currency (default base currency)")
	reportTrendCmd.Flags().StringSliceVar(&flagMonths, "months", nil, "two months to compare, e.g. 2025-10,2025-09")
	reportFlowsCmd.Flags().StringVar(&flagPeriod, "period", "month", "window: month, quarter, year or all")
	reportMonthCmd.Flags().StringVar(&flagMonth, "month", "", "month YYYY-MM (default current)")
	reportMonthCmd.Flags().StringVar(&flagExport, "export", "", "write an xlsx workbook to this path")

	reportCmd.AddCommand(reportTrendCmd, reportFlowsCmd, reportUtilizationCmd, reportMonthCmd)
	rootCmd.AddCommand(reportCmd)
}
