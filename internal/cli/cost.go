package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hkeating27/Red-Crafter/internal/craft"
)

// NewCostCommand resolves the unit cost of one item from the terminal.
func NewCostCommand(opts *RootOptions) *cobra.Command {
	var (
		world  string
		itemID int
		tree   bool
	)

	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Compute the cheapest unit cost for one item (craft vs. buy)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if world == "" {
				return fmt.Errorf("--world is required")
			}
			if itemID <= 0 {
				return fmt.Errorf("--item must be a positive item id")
			}

			env, err := setup(opts, "[cost] ")
			if err != nil {
				return err
			}

			sess := craft.NewSession(world, env.catalog, env.provider, env.logger)
			out := cmd.OutOrStdout()

			if tree {
				node := sess.CostTree(cmd.Context(), itemID, 1)
				if opts.Format == "json" {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(node)
				}
				printTree(out, node)
				return nil
			}

			cost, note := sess.EvaluateCost(cmd.Context(), itemID)
			if opts.Format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"world":           world,
					"itemId":          itemID,
					"computedCostGil": cost,
					"note":            note,
				})
			}
			fmt.Fprintf(out, "item %d on %s: %d gil (%s)\n", itemID, world, cost, note)
			return nil
		},
	}

	cmd.Flags().StringVar(&world, "world", "", "world/market to price against")
	cmd.Flags().IntVar(&itemID, "item", 0, "item id")
	cmd.Flags().BoolVar(&tree, "tree", false, "print the full crafting plan")
	return cmd
}

func printTree(out io.Writer, node *craft.CostNode) {
	for i := 0; i < node.Depth; i++ {
		fmt.Fprint(out, "  ")
	}
	name := node.Name
	if name == "" {
		name = fmt.Sprintf("item %d", node.ItemID)
	}
	fmt.Fprintf(out, "%s x%d: %d gil/unit, %d total (%s)\n", name, node.Qty, node.UnitCost, node.TotalCost, node.Note)
	for _, child := range node.Ingredients {
		printTree(out, child)
	}
}
