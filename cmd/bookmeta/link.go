package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookmeta/internal/resolver"
)

func newLinkCmd() *cobra.Command {
	var flags lookupFlags

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Print the Open Library page for a book without any lookup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.query()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), resolver.BuildReferenceLink(q.Title, q.Author, q.ISBN))
			return err
		},
	}
	flags.register(cmd)
	return cmd
}
