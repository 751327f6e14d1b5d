package schema

import (
	"time"
)

// Event is a cost center row. Only active events accept new payables.
type Event struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"size:200;not null"`
	Active    bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Event) TableName() string { return "events" }

// Category is a ledger category; Type is "expense" or "revenue".
type Category struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"size:120;not null"`
	Type string `gorm:"size:16;not null;index"`
}

func (Category) TableName() string { return "categories" }

type Subcategory struct {
	ID         int64     `gorm:"primaryKey"`
	Name       string    `gorm:"size:120;not null"`
	CategoryID int64     `gorm:"not null;index"`
	Category   *Category `gorm:"constraint:OnDelete:RESTRICT"`
}

func (Subcategory) TableName() string { return "subcategories" }

type Supplier struct {
	ID       int64  `gorm:"primaryKey"`
	Name     string `gorm:"size:200;not null"`
	Document string `gorm:"size:20"`
}

func (Supplier) TableName() string { return "suppliers" }

// User is the minimal user shape the importer and permission editor rely on.
type User struct {
	ID      int64  `gorm:"primaryKey"`
	Name    string `gorm:"size:120;not null"`
	Email   string `gorm:"size:200;uniqueIndex"`
	Profile string `gorm:"size:16;not null;default:operator"`
}

func (User) TableName() string { return "users" }

// Payable is an account payable. Money is integer cents and the due date is
// a calendar date with no time zone.
type Payable struct {
	ID            int64        `gorm:"primaryKey"`
	DueDate       time.Time    `gorm:"type:date;not null;index"`
	EventID       int64        `gorm:"not null;index"`
	Event         *Event       `gorm:"constraint:OnDelete:RESTRICT"`
	SupplierID    *int64       `gorm:"index"`
	Supplier      *Supplier    `gorm:"constraint:OnDelete:SET NULL"`
	CategoryID    int64        `gorm:"not null"`
	Category      *Category    `gorm:"constraint:OnDelete:RESTRICT"`
	SubcategoryID int64        `gorm:"not null"`
	Subcategory   *Subcategory `gorm:"constraint:OnDelete:RESTRICT"`
	AmountCents   int64        `gorm:"not null"`
	Description   string       `gorm:"type:text"`
	Status        string       `gorm:"size:16;not null;default:pending;index"`
	Notes         string       `gorm:"type:text"`
	CreatedBy     int64        `gorm:"not null"`
	Creator       *User        `gorm:"foreignKey:CreatedBy;constraint:OnDelete:RESTRICT"`
	CreatedAt     time.Time    `gorm:"not null"`
}

func (Payable) TableName() string { return "accounts_payable" }

type Module struct {
	ID        string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"size:120;not null"`
	Available bool   `gorm:"not null"`
	SortOrder int    `gorm:"not null;default:0"`
}

func (Module) TableName() string { return "modules" }

// UserModulePermission is one module grant. Position keeps the order in which
// modules were enabled for the user.
type UserModulePermission struct {
	UserID     int64   `gorm:"primaryKey"`
	User       *User   `gorm:"constraint:OnDelete:CASCADE"`
	ModuleID   string  `gorm:"primaryKey;size:64"`
	Module     *Module `gorm:"constraint:OnDelete:CASCADE"`
	Position   int     `gorm:"not null"`
	CanView    bool    `gorm:"not null"`
	CanCreate  bool    `gorm:"not null;default:false"`
	CanEdit    bool    `gorm:"not null;default:false"`
	CanDelete  bool    `gorm:"not null;default:false"`
	CanApprove bool    `gorm:"not null;default:false"`
	CanExport  bool    `gorm:"not null;default:false"`
}

func (UserModulePermission) TableName() string { return "user_module_permissions" }

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&Event{},
		&Category{},
		&Subcategory{},
		&Supplier{},
		&User{},
		&Payable{},
		&Module{},
		&UserModulePermission{},
	}
}
