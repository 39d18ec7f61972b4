package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration without running anything",
	Long: `Validate loads the config document and builds the action registry,
surfacing the same errors a run would hit: malformed documents, missing
fields, invalid globs and bad command templates.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, reg, err := loadRegistry()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d actions)\n", cfg.Path, reg.Len())
		return nil
	},
}
