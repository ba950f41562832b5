package cli

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show the exchange-rate snapshot table",
	RunE:  runRates,
}

func runRates(cmd *cobra.Command, args []string) error {
	engine, err := app.Rates.Engine(cmd.Context())
	if err != nil {
		return err
	}
	table := engine.Table()

	currencies := make(map[string]bool)
	for _, snap := range table.Snapshots {
		for currency := range snap.Rates {
			currencies[currency] = true
		}
	}
	columns := make([]string, 0, len(currencies))
	for currency := range currencies {
		columns = append(columns, currency)
	}
	sort.Strings(columns)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprint(w, "MONTH")
	for _, currency := range columns {
		fmt.Fprintf(w, "\t%s", currency)
	}
	fmt.Fprintln(w, "\t")
	for _, snap := range table.Snapshots {
		fmt.Fprint(w, snap.Month)
		for _, currency := range columns {
			if rate, ok := snap.Rates[currency]; ok {
				fmt.Fprintf(w, "\t%g", rate)
			} else {
				fmt.Fprint(w, "\t-")
			}
		}
		fmt.Fprintln(w, "\t")
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("Base currency: %s (rates are units per 1 %s)\n",
		engine.BaseCurrency(), engine.BaseCurrency())
	return nil
}

func init() {
	rootCmd.AddCommand(ratesCmd)
}
