package model

type TransactionType string

const (
	TransactionOut    TransactionType = "OUT"
	TransactionIn     TransactionType = "IN"
	TransactionAdjust TransactionType = "ADJUST"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionOut, TransactionIn, TransactionAdjust:
		return true
	}
	return false
}

type Transaction struct {
	ID                int64           `db:"id" json:"id"`
	TransactionNumber string          `db:"transaction_number" json:"transaction_number"`
	PersonName        string          `db:"person_name" json:"person_name"`
	TransactionType   TransactionType `db:"transaction_type" json:"transaction_type"`
	Notes             *string         `db:"notes" json:"notes"`
	CreatedAt         DBTime          `db:"created_at" json:"created_at"`
}

// TransactionItem is the immutable audit line of a stock movement.
type TransactionItem struct {
	ID            int64 `db:"id" json:"id"`
	TransactionID int64 `db:"transaction_id" json:"transaction_id"`
	ItemID        int64 `db:"item_id" json:"item_id"`
	Quantity      int   `db:"quantity" json:"quantity"`
	StockBefore   int   `db:"stock_before" json:"stock_before"`
	StockAfter    int   `db:"stock_after" json:"stock_after"`
}

type StockAdjustment struct {
	ID         int64   `db:"id" json:"id"`
	ItemID     int64   `db:"item_id" json:"item_id"`
	OldStock   int     `db:"old_stock" json:"old_stock"`
	NewStock   int     `db:"new_stock" json:"new_stock"`
	Adjustment int     `db:"adjustment" json:"adjustment"`
	Reason     *string `db:"reason" json:"reason"`
	CreatedAt  DBTime  `db:"created_at" json:"created_at"`
}
