package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fekuna/gudang-pos/internal/database/sqlite"
	itemDto "github.com/fekuna/gudang-pos/internal/item/dto"
	itemRepoPkg "github.com/fekuna/gudang-pos/internal/item/repository"
	"github.com/fekuna/gudang-pos/internal/model"
	stockDto "github.com/fekuna/gudang-pos/internal/stock/dto"
	stockRepoPkg "github.com/fekuna/gudang-pos/internal/stock/repository"
	stockUCPkg "github.com/fekuna/gudang-pos/internal/stock/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newItemsCmd(a *app) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Query and edit the relational item catalogue",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database (default from settings)")
	cmd.AddCommand(
		newItemsSearchCmd(a, &dbPath),
		newItemsAddCmd(a, &dbPath),
		newItemsMoveCmd(a, &dbPath),
	)
	return cmd
}

func newItemsSearchCmd(a *app, dbPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Find items by name, code or barcode",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := sqlite.Initialize(ctx, db); err != nil {
				return err
			}
			items, err := itemRepoPkg.NewSQLiteRepository(db).Search(ctx, &itemDto.ItemFilters{
				Keyword: strings.Join(args, " "),
				Limit:   limit,
			})
			if err != nil {
				return err
			}
			renderItems(items)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", itemDto.DefaultSearchLimit, "maximum rows")
	return cmd
}

func newItemsAddCmd(a *app, dbPath *string) *cobra.Command {
	var (
		unit, code, barcode string
		stock               int
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Insert an item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := sqlite.Initialize(ctx, db); err != nil {
				return err
			}
			input := &itemDto.CreateItemInput{
				Name:         strings.Join(args, " "),
				Unit:         unit,
				CurrentStock: stock,
			}
			if code != "" {
				input.Code = &code
			}
			if barcode != "" {
				input.Barcode = &barcode
			}
			id, err := itemRepoPkg.NewSQLiteRepository(db).Insert(ctx, input)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "item %d created\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&unit, "unit", "", "unit (default pcs)")
	cmd.Flags().StringVar(&code, "code", "", "unique item code")
	cmd.Flags().StringVar(&barcode, "barcode", "", "unique barcode")
	cmd.Flags().IntVar(&stock, "stock", 0, "opening stock")
	return cmd
}

// newItemsMoveCmd records a stock movement: gudang items move --person Budi 3:2 7:1
func newItemsMoveCmd(a *app, dbPath *string) *cobra.Command {
	input := &stockDto.MovementInput{}
	var trxType string
	cmd := &cobra.Command{
		Use:   "move <item-id>:<qty>...",
		Short: "Record an OUT or IN movement for one or more items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Type = model.TransactionType(strings.ToUpper(trxType))
			lines, err := parseMovementLines(args)
			if err != nil {
				return err
			}
			input.Lines = lines

			db, err := a.openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := sqlite.Initialize(ctx, db); err != nil {
				return err
			}
			uc := stockUCPkg.NewStockUseCase(itemRepoPkg.NewSQLiteRepository(db), stockRepoPkg.NewSQLiteRepository(db), a.logger)
			trx, items, err := uc.RecordMovement(ctx, input)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.SetTitle(trx.TransactionNumber)
			t.AppendHeader(table.Row{"Item", "Qty", "Before", "After"})
			for _, l := range items {
				t.AppendRow(table.Row{l.ItemID, l.Quantity, l.StockBefore, l.StockAfter})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&input.PersonName, "person", "", "who takes or brings the goods")
	cmd.Flags().StringVar(&trxType, "type", string(model.TransactionOut), "OUT or IN")
	cmd.Flags().StringVar(&input.Notes, "notes", "", "free text")
	_ = cmd.MarkFlagRequired("person")
	return cmd
}

// parseMovementLines reads "<item-id>:<qty>" arguments.
func parseMovementLines(args []string) ([]stockDto.MovementLine, error) {
	lines := make([]stockDto.MovementLine, 0, len(args))
	for _, arg := range args {
		idText, qtyText, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("expected <item-id>:<qty>, got %q", arg)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(idText), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid item id %q", idText)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(qtyText))
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q", qtyText)
		}
		lines = append(lines, stockDto.MovementLine{ItemID: id, Quantity: qty})
	}
	return lines, nil
}

func newAdjustCmd(a *app) *cobra.Command {
	var (
		dbPath, reason string
		history        bool
	)
	cmd := &cobra.Command{
		Use:   "adjust <item-id> <new-stock>",
		Short: "Set an item's stock and log the adjustment",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			db, err := a.openDB(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := sqlite.Initialize(ctx, db); err != nil {
				return err
			}
			uc := stockUCPkg.NewStockUseCase(itemRepoPkg.NewSQLiteRepository(db), stockRepoPkg.NewSQLiteRepository(db), a.logger)

			if len(args) == 2 {
				newStock, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid stock %q", args[1])
				}
				adj, err := uc.AdjustStock(ctx, &stockDto.AdjustStockInput{ItemID: id, NewStock: newStock, Reason: reason})
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "item %d: %d -> %d (%+d)\n", id, adj.OldStock, adj.NewStock, adj.Adjustment)
			} else if !history {
				return fmt.Errorf("new stock is required unless --history is set")
			}

			if history {
				adjs, err := uc.ListAdjustments(ctx, id)
				if err != nil {
					return err
				}
				t := table.NewWriter()
				t.SetOutputMirror(os.Stdout)
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"When", "Old", "New", "Delta", "Reason"})
				for _, adj := range adjs {
					r := ""
					if adj.Reason != nil {
						r = *adj.Reason
					}
					t.AppendRow(table.Row{adj.CreatedAt.Format("2006-01-02 15:04"), adj.OldStock, adj.NewStock, adj.Adjustment, r})
				}
				t.Render()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database (default from settings)")
	cmd.Flags().StringVar(&reason, "reason", "", "why the stock changed")
	cmd.Flags().BoolVar(&history, "history", false, "list the item's adjustments")
	return cmd
}

func renderItems(items []model.Item) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Code", "Name", "Barcode", "Stock", "Unit", "Active"})
	for _, it := range items {
		t.AppendRow(table.Row{it.ID, deref(it.Code), it.Name, deref(it.Barcode), it.CurrentStock, it.Unit, it.Active})
	}
	t.Render()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
