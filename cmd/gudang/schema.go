package main

import (
	"os"

	"github.com/fekuna/gudang-pos/internal/database/sqlite"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newSchemaCmd(a *app) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Create the relational schema and list its tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := sqlite.Initialize(ctx, db); err != nil {
				return err
			}
			objects, err := sqlite.Objects(ctx, db)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Type", "Name", "Table"})
			for _, o := range objects {
				t.AppendRow(table.Row{o.Type, o.Name, o.TableName})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database (default from settings)")
	return cmd
}
