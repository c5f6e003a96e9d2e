package dto

// CreateItemInput describes a new item. Unit defaults to "pcs" and Active to
// true when left empty.
type CreateItemInput struct {
	Name         string
	Unit         string
	Code         *string
	Barcode      *string
	CurrentStock int
	GroupID      *int64
	Active       *bool
}

// UpdateItemInput carries a partial update: nil fields are left untouched.
type UpdateItemInput struct {
	Code         *string
	Name         *string
	GroupID      *int64
	Unit         *string
	Barcode      *string
	CurrentStock *int
	Active       *bool
}
