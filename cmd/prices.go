package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"lottosim/domain/pricing"
	"lottosim/report"

	"github.com/spf13/cobra"
)

func newPricesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prices",
		Short: "Show the price and win chance of every ticket size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writePriceTable(cmd.OutOrStdout())
		},
	}
}

func writePriceTable(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Numbers\tPrice\tSena chance\tOdds\t")
	for _, row := range pricing.Table() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t\n",
			row.Size, report.FormatMoney(row.Price), report.FormatProbability(row.Probability), report.FormatOdds(row.Probability))
	}
	return w.Flush()
}
