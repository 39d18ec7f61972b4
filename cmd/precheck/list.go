package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured actions in execution order",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, reg, err := loadRegistry()
		if err != nil {
			return err
		}

		if noColor {
			pterm.DisableColor()
		}

		for _, action := range reg.Actions() {
			var markers []string
			if !action.Enabled {
				markers = append(markers, "disabled")
			}
			if action.Mutating {
				markers = append(markers, "mutating")
			}

			name := pterm.Bold.Sprint(action.Name)
			if !action.Enabled {
				name = action.Name
			}

			suffix := ""
			if len(markers) > 0 {
				suffix = " [" + strings.Join(markers, ", ") + "]"
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", name, suffix)
			fmt.Fprintf(cmd.OutOrStdout(), "    run:     %s\n", action.Run.Raw())
			fmt.Fprintf(cmd.OutOrStdout(), "    include: %s\n", action.Include)
		}

		if reg.Len() == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no actions configured")
		}
		return nil
	},
}
