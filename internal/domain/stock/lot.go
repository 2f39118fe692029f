package stock

import (
	"time"

	"github.com/google/uuid"
)

// Lot is one inventory batch of a medicine. Lots are append-only: after
// creation only Quantity ever changes, and only downward as doses consume it.
// Corrections and reversals arrive as new adjustment lots, never as edits, so
// the purchase history stays auditable.
type Lot struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	MedicineID uuid.UUID `gorm:"column:medicine_id;type:uuid;not null;index"`

	Quantity       float64    `gorm:"column:quantity;not null"`   // remaining units
	UnitPrice      float64    `gorm:"column:unit_price;not null"` // 0 for adjustment lots
	PurchaseDate   time.Time  `gorm:"column:purchase_date;not null;index"`
	ExpirationDate *time.Time `gorm:"column:expiration_date"`

	Notes string `gorm:"column:notes;type:text"` // tags adjustment/reversal lots
}

func (Lot) TableName() string {
	return "tracker.stock_lots"
}

func (l *Lot) Validate() error {
	if l.MedicineID == uuid.Nil {
		return ErrMedicineRequired
	}
	if l.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if l.UnitPrice < 0 {
		return ErrNegativePrice
	}
	if l.PurchaseDate.IsZero() {
		return ErrPurchaseDateRequired
	}
	return nil
}
