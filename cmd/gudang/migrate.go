package main

import (
	"fmt"
	"os"

	itemRepoPkg "github.com/fekuna/gudang-pos/internal/item/repository"
	"github.com/fekuna/gudang-pos/internal/migration"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	opts := migration.Options{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy the CSV inventory into the SQLite items table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.CSVPath == "" {
				opts.CSVPath = a.currentSettings().Data.CSVPath
			}
			if opts.DBPath == "" {
				opts.DBPath = a.currentSettings().Data.DBPath
			}
			if opts.ReportPath == "" {
				opts.ReportPath = a.cfg.Migration.ReportPath
			}
			if !cmd.Flags().Changed("batch-size") {
				opts.BatchSize = a.cfg.Migration.BatchSize
			}

			db, err := a.openDB(opts.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			m := migration.NewMigrator(db, itemRepoPkg.NewSQLiteRepository(db), a.logger, a.metrics)
			report, err := m.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendRows([]table.Row{
				{"inserted", report.Load.Inserted},
				{"skipped", report.Load.Skipped},
				{"duplicates", len(report.DuplicatesByName)},
				{"dry run", report.DryRun},
				{"report", opts.ReportPath},
			})
			t.Render()
			for _, c := range report.Load.Conflicts {
				fmt.Fprintf(os.Stdout, "conflict: %s: %s\n", c.Name, c.Error)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.CSVPath, "csv", "", "source CSV (default from settings)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite database (default from settings)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "run without backup or inserts")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", migration.DefaultBatchSize, "insert batch size")
	cmd.Flags().StringVar(&opts.ReportPath, "report", "", "report path (default $MIGRATION_REPORT)")
	return cmd
}
