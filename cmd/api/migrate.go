package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply SQL migrations or Mongo indexes for the configured store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		_, closeLedger, err := openLedger(cmd.Context(), cfg, log, true)
		if err != nil {
			return err
		}
		closeLedger()
		return nil
	},
}
