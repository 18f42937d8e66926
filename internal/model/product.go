package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a part or consumable sold by the garage.
// Every product owns exactly one Inventory record sharing its primary key;
// both rows are created and deleted together by the product service.
type Product struct {
	ID           uint             `json:"product_id" gorm:"primarykey;column:product_id"`
	Name         string           `json:"name" gorm:"type:varchar(255);not null;uniqueIndex"`
	SellingPrice decimal.Decimal  `json:"selling_price" gorm:"type:numeric(10,2);not null"`
	UnitCost     *decimal.Decimal `json:"unit_cost,omitempty" gorm:"type:numeric(10,2)"`
	CategoryID   *uint            `json:"category_id,omitempty"`
	Category     *Category        `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Inventory    *Inventory       `json:"inventory,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Inventory holds the stock ledger row for one product. ProductID is both
// the primary key and the foreign key to the owning product (1:1).
type Inventory struct {
	ProductID       uint             `json:"product_id" gorm:"primarykey"`
	CurrentStock    decimal.Decimal  `json:"current_stock" gorm:"type:numeric(10,2);not null;default:0"`
	MinStockLevel   *decimal.Decimal `json:"min_stock_level,omitempty" gorm:"type:numeric(10,2)"`
	LastRestockDate *time.Time       `json:"last_restock_date,omitempty" gorm:"type:date"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// NeedsReorder reports whether the row is at or below its configured
// reorder point. Rows without a threshold are never flagged.
func (i *Inventory) NeedsReorder() bool {
	return i.MinStockLevel != nil && i.CurrentStock.LessThanOrEqual(*i.MinStockLevel)
}

// Category groups products. Referenced by products, never owned by them.
type Category struct {
	ID          uint      `json:"category_id" gorm:"primarykey;column:category_id"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
