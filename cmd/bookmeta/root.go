package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"bookmeta/internal/config"
	"bookmeta/internal/platform/logging"
)

// env is filled in before any subcommand runs.
type env struct {
	cfg config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	var verbose bool

	cmd := &cobra.Command{
		Use:   "bookmeta",
		Short: "Resolve book covers and metadata from Open Library and Google Books",
		Long: `bookmeta resolves a cover image, ISBN and subjects for a book from its
title, author and optional ISBN. It tries an ISBN lookup first, then a ranked
Open Library search, then any Google Books image, and reports nothing rather
than guess.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnvFiles()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level := cfg.LogLevel
			if verbose {
				level = "debug"
			}
			log, err := logging.NewWithWriter(cmd.ErrOrStderr(), level, cfg.LogFormat)
			if err != nil {
				return err
			}
			e.cfg, e.log = cfg, log
			return nil
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	cmd.AddCommand(newResolveCmd(e))
	cmd.AddCommand(newLinkCmd())
	cmd.AddCommand(newVariantsCmd())
	cmd.AddCommand(newRebuildCmd(e))

	return cmd
}
