package dto

import "github.com/fekuna/gudang-pos/internal/model"

type AdjustStockInput struct {
	ItemID   int64
	NewStock int
	Reason   string
}

type MovementInput struct {
	PersonName string
	Type       model.TransactionType
	Notes      string
	Lines      []MovementLine
}

type MovementLine struct {
	ItemID   int64
	Quantity int
}
