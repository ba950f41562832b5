package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hausbuch/hausbuch/internal/domain/item"
)

var subsCmd = &cobra.Command{
	Use:   "subs",
	Short: "Manage subscriptions",
}

var subsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscriptions with due dates and totals",
	RunE:  runSubsList,
}

var subsRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Remove a subscription definition",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubsRemove,
}

var subsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the renewal check now",
	RunE:  runSubsCheck,
}

func runSubsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := app.renewalNotice(ctx); err != nil {
		return err
	}

	subs, err := app.Subs.List(ctx)
	if err != nil {
		return err
	}
	totals, err := app.Subs.Totals(ctx)
	if err != nil {
		return err
	}

	today := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPRICE\tPERIOD\tNEXT DUE\tIN\t")
	for _, sub := range subs {
		due := "?"
		if next, err := time.Parse(item.DateLayout, sub.NextDate); err == nil {
			due = fmt.Sprintf("%dd", int(next.Sub(today).Hours()/24)+1)
		}
		fmt.Fprintf(w, "%s\t%.2f %s\t%s:%s\t%s\t%s\t\n",
			sub.Name, sub.Price, sub.Currency, sub.Period, sub.Anchor,
			sub.NextDate, due)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d subscription(s), monthly %.2f, yearly %.2f\n",
		totals.Count, totals.MonthlyTotal, totals.YearlyTotal)
	return nil
}

func runSubsRemove(cmd *cobra.Command, args []string) error {
	if err := app.Subs.Remove(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Removed subscription %s\n", args[0])
	return nil
}

func runSubsCheck(cmd *cobra.Command, args []string) error {
	renewed, err := app.Subs.CheckRenewals(cmd.Context())
	if err != nil {
		return err
	}
	if len(renewed) == 0 {
		fmt.Println("No renewals due")
		return nil
	}
	for _, name := range renewed {
		fmt.Printf("Renewed %s\n", name)
	}
	return nil
}

func init() {
	subsCmd.AddCommand(subsListCmd, subsRemoveCmd, subsCheckCmd)
	rootCmd.AddCommand(subsCmd)
}
