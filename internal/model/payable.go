package model

// PayableStatus is the settlement state of an account payable.
type PayableStatus string

const (
	PayableStatusPending PayableStatus = "pending"
	PayableStatusPaid    PayableStatus = "paid"
)

// PayableRecord is one row in accounts_payable. Amounts are stored in cents.
type PayableRecord struct {
	DueDate       string // "YYYY-MM-DD"
	EventID       int64
	SupplierID    *int64 // nil when the supplier is unknown
	CategoryID    int64
	SubcategoryID int64
	AmountCents   int64
	Description   string
	Status        PayableStatus
	Notes         string
	CreatedBy     int64
}
