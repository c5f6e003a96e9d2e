package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var settingsPath string
	a := &app{}

	root := &cobra.Command{
		Use:           "gudang",
		Short:         "Warehouse stock-out terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := newApp(settingsPath)
			if err != nil {
				return err
			}
			a.cfg = built.cfg
			a.settingsPath = built.settingsPath
			a.logger = built.logger
			a.metrics = built.metrics
			a.setSettings(built.currentSettings())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&settingsPath, "config", "", "settings file (default $GUDANG_CONFIG or config/config.json)")

	root.AddCommand(
		newServeCmd(a),
		newShellCmd(a),
		newMigrateCmd(a),
		newSchemaCmd(a),
		newItemsCmd(a),
		newAdjustCmd(a),
		newConfigCmd(a),
	)
	return root
}
