package dto

const DefaultSearchLimit = 50

type ItemFilters struct {
	Keyword string // matched against name, code and barcode
	Limit   int
}

type BatchResult struct {
	Inserted  int
	Conflicts []RowConflict
}

type RowConflict struct {
	Index int
	Name  string
	Err   error
}
