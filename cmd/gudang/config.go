package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the settings file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective settings",
			RunE: func(cmd *cobra.Command, args []string) error {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(a.currentSettings())
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one setting, e.g. printer.port COM3",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				next, err := a.currentSettings().Set(args[0], args[1])
				if err != nil {
					return err
				}
				if err := next.Save(a.settingsPath); err != nil {
					return fmt.Errorf("failed to save settings: %w", err)
				}
				a.setSettings(next)
				fmt.Fprintf(os.Stdout, "saved %s, title is now %q\n", a.settingsPath, next.Title())
				return nil
			},
		},
	)
	return cmd
}
