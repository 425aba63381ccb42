package model

import (
	"time"
)

// StockItem is an inventory unit tracked per residence. Quantity is only ever
// changed through the inventory engine so that every mutation is paired with a
// ledger entry.
type StockItem struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Name        string        `json:"name" gorm:"type:varchar(100);not null"`
	Category    StockCategory `json:"category" gorm:"type:varchar(30);index;not null"`
	Quantity    int           `json:"quantity" gorm:"not null;default:0"`
	MinQuantity int           `json:"min_quantity" gorm:"not null;default:0"`
	Unit        string        `json:"unit" gorm:"type:varchar(20)"`
	Residence   Residence     `json:"residence" gorm:"type:varchar(50);index;not null"`
	Notes       string        `json:"notes,omitempty" gorm:"type:text"`
	LastUpdated time.Time     `json:"last_updated"`

	// LowStock is derived on reads, never stored.
	LowStock bool `json:"low_stock" gorm:"-"`
}

// IsLowStock reports whether the item has fallen to or below its reorder
// threshold.
func (s *StockItem) IsLowStock() bool {
	return s.Quantity <= s.MinQuantity
}

// StockTransaction is one immutable ledger entry recording a single quantity
// adjustment. The ledger is append-only; rows survive deletion of the item
// they reference.
type StockTransaction struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	StockItemID uint            `json:"stock_item_id" gorm:"index;not null"`
	Type        TransactionType `json:"type" gorm:"type:varchar(10);not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	Date        time.Time       `json:"date"`
	UpdatedBy   string          `json:"updated_by" gorm:"type:varchar(100)"`
	Reason      string          `json:"reason" gorm:"type:text;not null"`

	// ItemName is resolved on reads so history stays meaningful after an
	// item is deleted.
	ItemName string `json:"item_name,omitempty" gorm:"-"`
}
