package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"bookmeta/internal/app"
	"bookmeta/internal/httpx"
	"bookmeta/internal/observability"
	"bookmeta/internal/refresh"
)

func newRebuildCmd(e *env) *cobra.Command {
	var opts refresh.Options
	var workers int

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Re-resolve stored books and save any covers found",
		Long: `Rebuild walks the books table, resolves each book and stores the cover,
ISBN and subjects it finds. The run is recorded and its id printed, so it can
also be inspected through GET /refresh-runs/{id}.`,
		Example: `  bookmeta rebuild --missing-only
  bookmeta rebuild --limit 100 --workers 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if details := httpx.Validate(opts); details != nil {
				return fmt.Errorf("%s", details[0].Message)
			}
			cfg := e.cfg
			if workers > 0 {
				cfg.RefreshWorkers = workers
			}

			pool, err := app.OpenDB(cmd.Context(), cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			m := observability.NewMetrics()
			res := app.NewResolver(cfg, e.log, m)
			svc := app.NewServices(pool, cfg, res.Service, e.log, m)

			run, err := svc.Refresh.Run(cmd.Context(), opts)
			if run != nil {
				e.log.WithFields(logrus.Fields{"run_id": run.ID, "status": run.Status}).Debug("run recorded")
				fmt.Fprintf(cmd.OutOrStdout(), "run %s %s: scanned=%d resolved=%d updated=%d failed=%d\n",
					run.ID, run.Status, run.BooksScanned, run.BooksResolved, run.BooksUpdated, run.BooksFailed)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&opts.MissingOnly, "missing-only", false, "Only books without a cover")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Stop after this many books (0 for all)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent lookups (defaults to REFRESH_WORKERS)")
	return cmd
}
