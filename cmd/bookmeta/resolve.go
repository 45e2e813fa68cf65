package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"

	"bookmeta/internal/app"
	"bookmeta/internal/entity"
	"bookmeta/internal/resolver"
)

var errNoQuery = errors.New("--title or --isbn is required")

type lookupFlags struct {
	title, author, isbn string
}

func (f *lookupFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Book title")
	cmd.Flags().StringVarP(&f.author, "author", "a", "", "Author name(s)")
	cmd.Flags().StringVarP(&f.isbn, "isbn", "i", "", "ISBN-10 or ISBN-13")
}

func (f *lookupFlags) query() (entity.Query, error) {
	q := entity.Query{Title: f.title, Author: f.author, ISBN: f.isbn}.Clean()
	if q.Title == "" && q.ISBN == "" {
		return q, errNoQuery
	}
	return q, nil
}

func newResolveCmd(e *env) *cobra.Command {
	var flags lookupFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a cover, ISBN and subjects for one book",
		Example: `  bookmeta resolve --title "Dune" --author "Frank Herbert"
  bookmeta resolve --isbn 978-0441013593 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.query()
			if err != nil {
				return err
			}

			res := app.NewResolver(e.cfg, e.log, nil).Chain.Resolve(cmd.Context(), q)
			out := resolver.ResolveResponse{
				Resolution: res,
				Found:      res.HasCover(),
				Link:       resolver.BuildReferenceLink(q.Title, q.Author, q.ISBN),
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			return printResolution(cmd, out)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func printResolution(cmd *cobra.Command, out resolver.ResolveResponse) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	row := func(k, v string) {
		if v == "" {
			v = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\n", k, v)
	}
	row("found", fmt.Sprint(out.Found))
	row("cover", out.CoverURL)
	row("isbn", out.ISBN)
	row("subjects", strings.ReplaceAll(out.Subjects, ",", ", "))
	row("link", out.Link)
	return tw.Flush()
}
