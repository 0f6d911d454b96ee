package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/resolution"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/sampling"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show sampling and resolution catalogs",
	Long:  `Print the sampling rates and resolution modes the selectors choose from`,
	Run: func(cmd *cobra.Command, args []string) {
		showCatalogs()
	},
}

// showCatalogs prints both catalogs in table form
func showCatalogs() {
	fmt.Printf("Sampling Catalog (finest to coarsest)\n")
	fmt.Printf("=====================================\n")

	samplingTable := tablewriter.NewWriter(os.Stdout)
	samplingTable.Header([]string{"Rate", "Label", "Interval (min)", "Points/Day"})
	for _, opt := range sampling.Catalog() {
		samplingTable.Append([]string{
			string(opt.Rate),
			opt.Label,
			fmt.Sprintf("%d", opt.IntervalMinutes),
			fmt.Sprintf("%d", opt.PointsPerDay),
		})
	}
	samplingTable.Render()

	fmt.Printf("\nResolution Catalog (increasing span)\n")
	fmt.Printf("====================================\n")

	resolutionTable := tablewriter.NewWriter(os.Stdout)
	resolutionTable.Header([]string{"Mode", "Label", "Max Span (days)", "Target Points", "Interval (min)"})
	for _, opt := range resolution.Catalog() {
		maxSpan := "unbounded"
		if !opt.Unbounded() {
			maxSpan = fmt.Sprintf("%d", opt.MaxSpanDays)
		}
		resolutionTable.Append([]string{
			string(opt.Mode),
			opt.Label,
			maxSpan,
			fmt.Sprintf("%d", opt.TargetPoints),
			fmt.Sprintf("%d", opt.IntervalMinutes),
		})
	}
	resolutionTable.Render()
}

// init registers the catalog command with the root command
func init() {
	rootCmd.AddCommand(catalogCmd)
}
