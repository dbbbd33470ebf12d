package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewSearchCommand looks up catalog items by approximate name.
func NewSearchCommand(opts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search NAME",
		Short: "Find catalog items by approximate name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(opts, "[search] ")
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			matches := env.catalog.Search(query, limit)

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"query": query, "matches": matches})
			}

			if len(matches) == 0 {
				fmt.Fprintf(out, "no items matching %q\n", query)
				return nil
			}
			for _, m := range matches {
				fmt.Fprintf(out, "%d\t%s\n", m.ItemID, m.Name)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum matches to print")
	return cmd
}
