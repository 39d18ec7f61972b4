package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/precheck/pkg/topics"
)

var topicsCmd = &cobra.Command{
	Use:   "topics [topic]",
	Short: "Show documentation topics",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, name := range topics.List() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}

		rendered, err := topics.Render(args[0], 0)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}
