package model

type Item struct {
	ID           int64   `db:"id" json:"id"`
	Code         *string `db:"code" json:"code"`
	Name         string  `db:"name" json:"name"`
	GroupID      *int64  `db:"group_id" json:"group_id"`
	Unit         string  `db:"unit" json:"unit"`
	Barcode      *string `db:"barcode" json:"barcode"`
	CurrentStock int     `db:"current_stock" json:"current_stock"`
	Active       bool    `db:"active" json:"active"`
	CreatedAt    DBTime  `db:"created_at" json:"created_at"`
	UpdatedAt    DBTime  `db:"updated_at" json:"updated_at"`
}

// ProductGroup is an optional, possibly nested, item category.
type ProductGroup struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	ParentID  *int64 `db:"parent_id" json:"parent_id"`
	CreatedAt DBTime `db:"created_at" json:"created_at"`
}
