package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fekuna/gudang-pos/internal/database/sqlite"
	"github.com/fekuna/gudang-pos/internal/model"
	"github.com/jmoiron/sqlx"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.NewSQLite(&sqlite.Config{Path: filepath.Join(t.TempDir(), "app.db")})
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := sqlite.Initialize(ctx, db); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return db
}

func insertItem(t *testing.T, db *sqlx.DB, name string, stock int) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO items (name, current_stock) VALUES (?, ?)`, name, stock)
	if err != nil {
		t.Fatal(err)
	}
	id, _ := res.LastInsertId()
	return id
}

func TestDeleteTransactionCascadesItems(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewSQLiteRepository(db)
	widget := insertItem(t, db, "Widget", 10)

	trx := &model.Transaction{TransactionNumber: "TRX-001", PersonName: "John", TransactionType: model.TransactionOut}
	trxID, err := repo.ApplyMovement(ctx, trx, []model.TransactionItem{
		{ItemID: widget, Quantity: 2, StockBefore: 10, StockAfter: 8},
	})
	if err != nil {
		t.Fatalf("ApplyMovement: %v", err)
	}

	items, err := repo.ListTransactionItems(ctx, trxID)
	if err != nil || len(items) != 1 {
		t.Fatalf("ListTransactionItems: %+v, %v", items, err)
	}

	var stock int
	if err := db.Get(&stock, `SELECT current_stock FROM items WHERE id = ?`, widget); err != nil {
		t.Fatal(err)
	}
	if stock != 8 {
		t.Errorf("current_stock = %d, want 8", stock)
	}

	if err := repo.DeleteTransaction(ctx, trxID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	var remaining int
	if err := db.Get(&remaining, `SELECT count(*) FROM transaction_items WHERE transaction_id = ?`, trxID); err != nil {
		t.Fatal(err)
	}
	if remaining != 0 {
		t.Errorf("remaining transaction_items = %d, want 0", remaining)
	}
}

func TestApplyMovementIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewSQLiteRepository(db)
	widget := insertItem(t, db, "Widget", 10)

	trx := &model.Transaction{TransactionNumber: "TRX-002", PersonName: "Ann", TransactionType: model.TransactionOut}
	_, err := repo.ApplyMovement(ctx, trx, []model.TransactionItem{
		{ItemID: widget, Quantity: 1, StockBefore: 10, StockAfter: 9},
		{ItemID: 4242, Quantity: 1, StockBefore: 1, StockAfter: 0},
	})
	if err == nil {
		t.Fatal("expected foreign key failure")
	}

	var n int
	if err := db.Get(&n, `SELECT count(*) FROM transactions`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("transactions = %d after failed movement", n)
	}
	var stock int
	if err := db.Get(&stock, `SELECT current_stock FROM items WHERE id = ?`, widget); err != nil {
		t.Fatal(err)
	}
	if stock != 10 {
		t.Errorf("current_stock = %d, want untouched 10", stock)
	}
}

func TestTransactionTypeCheckConstraint(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(newTestDB(t))

	trx := &model.Transaction{TransactionNumber: "TRX-003", PersonName: "Ann", TransactionType: "GIFT"}
	if _, err := repo.ApplyMovement(ctx, trx, nil); err == nil {
		t.Fatal("expected CHECK constraint failure for unknown type")
	}

	got, err := repo.GetTransaction(ctx, "TRX-003")
	if err != nil || got != nil {
		t.Errorf("GetTransaction = %+v, %v", got, err)
	}
}

func TestAdjustStockWithRecord(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewSQLiteRepository(db)
	id := insertItem(t, db, "Bolt", 10)

	reason := "recount"
	adj := &model.StockAdjustment{ItemID: id, OldStock: 10, NewStock: 12, Adjustment: 2, Reason: &reason}
	if _, err := repo.AdjustStockWithRecord(ctx, adj); err != nil {
		t.Fatalf("AdjustStockWithRecord: %v", err)
	}

	adjs, err := repo.ListAdjustments(ctx, id)
	if err != nil || len(adjs) != 1 {
		t.Fatalf("ListAdjustments: %+v, %v", adjs, err)
	}
	if adjs[0].Adjustment != 2 || adjs[0].Reason == nil || *adjs[0].Reason != "recount" || adjs[0].CreatedAt.IsZero() {
		t.Errorf("adjustment = %+v", adjs[0])
	}

	var stock int
	if err := db.Get(&stock, `SELECT current_stock FROM items WHERE id = ?`, id); err != nil {
		t.Fatal(err)
	}
	if stock != 12 {
		t.Errorf("current_stock = %d, want 12", stock)
	}
}
