package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookmeta/internal/source"
)

func newVariantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "variants TITLE [AUTHOR]",
		Short:   "List the Open Library searches tried for a title and author, in order",
		Example: `  bookmeta variants "The Hobbit: or There and Back Again" "J.R.R. Tolkien"`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var author string
			if len(args) == 2 {
				author = args[1]
			}
			for i, p := range source.QueryVariants(args[0], author) {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, p); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
