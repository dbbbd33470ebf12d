package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hkeating27/Red-Crafter/internal/craft"
)

// NewRankCommand runs one full ranking pass from the terminal.
func NewRankCommand(opts *RootOptions) *cobra.Command {
	var (
		world       string
		showSkipped bool
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank craftable items by expected profit after tax",
		RunE: func(cmd *cobra.Command, args []string) error {
			if world == "" {
				return fmt.Errorf("--world is required")
			}

			env, err := setup(opts, "[rank] ")
			if err != nil {
				return err
			}

			sess := craft.NewSession(world, env.catalog, env.provider, env.logger)
			rows, skipped, err := sess.Rank(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"world":        world,
					"items":        rows,
					"skippedCount": len(skipped),
					"skipped":      skipped,
				})
			}

			tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ITEM\tNAME\tSELL\tCOST\tQTY\tTAX\tPROFIT\tPROFIT%")
			for _, r := range rows {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%.2f\n",
					r.ItemID, r.Name, r.SellPricePerUnit, r.CostPerUnit,
					r.OutputQty, r.EstimatedTaxGil, r.ProfitGil, r.ProfitPercent)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d ranked, %d skipped\n", len(rows), len(skipped))

			if showSkipped {
				for _, sk := range skipped {
					line := fmt.Sprintf("skipped %d %s: %s", sk.ItemID, sk.Name, sk.Reason)
					if sk.Note != "" {
						line += " (" + sk.Note + ")"
					}
					if sk.Reason == craft.SkipOutlier {
						line += fmt.Sprintf(" (sell=%d cost=%d)", sk.SellPrice, sk.UnitCost)
					}
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&world, "world", "", "world/market to price against")
	cmd.Flags().BoolVar(&showSkipped, "skipped", false, "also list skipped recipes with reasons")
	return cmd
}
