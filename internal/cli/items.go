package cli

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hausbuch/hausbuch/internal/domain/subscription"
)

var (
	flagCategory    string
	flagSort        string
	flagUtilization int
	flagSellPrice   float64
	flagSellAccount string
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "List items in inventory",
	RunE:  runInventory,
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout IDS...",
	Short: "Check out items with a utilization rating",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheckout,
}

var sellCmd = &cobra.Command{
	Use:   "sell IDS...",
	Short: "Sell items",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSell,
}

var loseCmd = &cobra.Command{
	Use:   "lose IDS...",
	Short: "Mark items as lost",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLose,
}

var recoverCmd = &cobra.Command{
	Use:   "recover IDS...",
	Short: "Recover lost items back into inventory",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRecover,
}

var deleteCmd = &cobra.Command{
	Use:   "delete IDS...",
	Short: "Delete items without archiving (error correction, AA settlement)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDelete,
}

var lostCmd = &cobra.Command{
	Use:   "lost",
	Short: "List lost items",
	RunE:  runLost,
}

func runInventory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := app.renewalNotice(ctx); err != nil {
		return err
	}

	items, err := app.Items.ListInventory(ctx)
	if err != nil {
		return err
	}
	engine, err := app.Rates.Engine(ctx)
	if err != nil {
		return err
	}
	subs, err := app.Subs.List(ctx)
	if err != nil {
		return err
	}
	subByName := make(map[string]subscription.Subscription, len(subs))
	for _, sub := range subs {
		subByName[sub.Name] = sub
	}

	if flagCategory != "" {
		filtered := items[:0]
		for _, it := range items {
			if it.Category == flagCategory {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}

	values := make(map[string]float64, len(items))
	for _, it := range items {
		value, err := engine.ToBase(it.ActualPrice, it.Currency, it.PurchaseDate)
		if err != nil {
			app.Log.Warn("skipping value conversion for listing")
			value = 0
		}
		values[it.ID] = value
	}

	switch flagSort {
	case "value":
		sort.SliceStable(items, func(i, j int) bool {
			return values[items[i].ID] > values[items[j].ID]
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].PurchaseDate != items[j].PurchaseDate {
				return items[i].PurchaseDate > items[j].PurchaseDate
			}
			return items[i].ID < items[j].ID
		})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\tCATEGORY\tDATE\tPRICE\t%s\t\n", app.Config.BaseCurrency)
	var total float64
	for _, it := range items {
		note := ""
		if sub, ok := subByName[it.Name]; ok {
			note = fmt.Sprintf(" (%s:%s)", sub.Period, sub.Anchor)
		}
		fmt.Fprintf(w, "%s\t%s%s\t%s\t%s\t%.2f %s\t%.2f\t\n",
			it.ID, it.Name, note, it.Category, it.PurchaseDate,
			it.ActualPrice, it.Currency, values[it.ID])
		total += values[it.ID]
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d item(s), %.2f %s\n", len(items), total, app.Config.BaseCurrency)
	return nil
}

func runCheckout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := app.renewalNotice(ctx); err != nil {
		return err
	}
	if err := app.ItemSvc.CheckOut(ctx, args, flagUtilization); err != nil {
		return err
	}
	fmt.Printf("Checked out %d item(s) at %d%% utilization\n", len(args), flagUtilization)
	return nil
}

func runSell(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := app.renewalNotice(ctx); err != nil {
		return err
	}
	if err := app.ItemSvc.Sell(ctx, args, flagSellPrice, flagSellAccount); err != nil {
		return err
	}
	fmt.Printf("Sold %d item(s) for %.2f\n", len(args), flagSellPrice)
	return nil
}

func runLose(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := app.renewalNotice(ctx); err != nil {
		return err
	}
	if err := app.ItemSvc.MarkLost(ctx, args); err != nil {
		return err
	}
	fmt.Printf("Marked %d item(s) lost\n", len(args))
	return nil
}

func runRecover(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := app.renewalNotice(ctx); err != nil {
		return err
	}
	if err := app.ItemSvc.Recover(ctx, args); err != nil {
		return err
	}
	fmt.Printf("Recovered %d item(s)\n", len(args))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := app.renewalNotice(ctx); err != nil {
		return err
	}
	if err := app.ItemSvc.Delete(ctx, args); err != nil {
		return err
	}
	fmt.Printf("Deleted %d item(s)\n", len(args))
	return nil
}

func runLost(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	records, err := app.Items.ListLost(ctx)
	if err != nil {
		return err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].LostDate > records[j].LostDate
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPURCHASED\tLOST\tPRICE\t")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f %s\t\n",
			rec.ID, rec.Name, rec.Category, rec.PurchaseDate, rec.LostDate,
			rec.ActualPrice, rec.Currency)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d lost item(s)\n", len(records))
	return nil
}

func init() {
	inventoryCmd.Flags().StringVar(&flagCategory, "category", "", "only list one category")
	inventoryCmd.Flags().StringVar(&flagSort, "sort", "date", "sort order: date or value")

	checkoutCmd.Flags().IntVar(&flagUtilization, "utilization", 100, "utilization percentage (0-100)")
	sellCmd.Flags().Float64Var(&flagSellPrice, "price", 0, "sell price")
	sellCmd.Flags().StringVar(&flagSellAccount, "account", "", "receiving account")
	_ = sellCmd.MarkFlagRequired("price")

	rootCmd.AddCommand(inventoryCmd, checkoutCmd, sellCmd, loseCmd, recoverCmd, deleteCmd, lostCmd)
}
