package model

// StockRow is one line of the CSV inventory file.
type StockRow struct {
	Name  string
	Stock int
	Unit  string
}
