package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var flagInputFile string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Record a purchase block",
	Long: `Read a purchase block from a file or stdin and record its items.

A block has an optional metadata section between --- separators
(日期/入金/出金/币种 with full-width colons), ## category headers,
item lines "name >> price" (with optional "invoice :: name" and
"standard :: actual" forms) and deposit returns "Pfand (N) << amount".
Quick-input shorthand ($account, ## #category, ?product) is expanded
against the catalog first.`,
	RunE: runIngest,
}

var subscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Register subscriptions from a block",
	Long: `Read a subscription block from a file or stdin. Body lines look like

  订阅:M:25 Crunchyroll >> 6.99
  订阅:Y:0101 Adobe CC >> 599

Each definition is stored, its product marked recurring, and the first
instance lands in inventory immediately.`,
	RunE: runSubscribe,
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := app.renewalNotice(ctx); err != nil {
		return err
	}

	text, err := readInput()
	if err != nil {
		return err
	}

	expanded, err := app.Ingest.ExpandText(ctx, text)
	if err != nil {
		return err
	}
	if expanded != text {
		fmt.Println("Expanded input:")
		fmt.Println(expanded)
		fmt.Println()
	}

	summary, err := app.Ingest.IngestPurchases(ctx, text)
	if err != nil {
		return err
	}

	fmt.Printf("Recorded %d item(s) (batch %s)\n", summary.ItemCount, summary.BatchID)
	for currency, total := range summary.TotalsByCurrency {
		fmt.Printf("  %s %.2f\n", currency, total)
	}
	if summary.DepositsReturned > 0 {
		fmt.Printf("Deposit returns settled: %d item(s)\n", summary.DepositsReturned)
	}
	return nil
}

func runSubscribe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := app.renewalNotice(ctx); err != nil {
		return err
	}

	text, err := readInput()
	if err != nil {
		return err
	}

	subs, err := app.Ingest.IngestSubscriptions(ctx, text)
	if err != nil {
		return err
	}

	fmt.Printf("Registered %d subscription(s)\n", len(subs))
	for _, sub := range subs {
		fmt.Printf("  %s %s:%s %.2f %s, next due %s\n",
			sub.Name, sub.Period, sub.Anchor, sub.Price, sub.Currency, sub.NextDate)
	}
	return nil
}

// readInput reads the block text from --file or stdin
func readInput() (string, error) {
	if flagInputFile != "" {
		data, err := os.ReadFile(flagInputFile)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func init() {
	ingestCmd.Flags().StringVarP(&flagInputFile, "file", "f", "", "read the block from a file instead of stdin")
	subscribeCmd.Flags().StringVarP(&flagInputFile, "file", "f", "", "read the block from a file instead of stdin")
	rootCmd.AddCommand(ingestCmd, subscribeCmd)
}
