package models

import (
	"time"
)

// InventoryItem records owned quantity and pricing for one Card. Prices are
// pointers so that "never recorded" stays distinct from an actual zero yen.
type InventoryItem struct {
	ID            uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	CardID        uint       `json:"card_id" gorm:"not null;index"`
	Card          Card       `json:"card" gorm:"foreignKey:CardID"`
	Quantity      int        `json:"quantity" gorm:"default:0"`
	PurchasePrice *float64   `json:"purchase_price"`
	MarketPrice   *float64   `json:"current_market_price"`
	PurchaseDate  *time.Time `json:"purchase_date"`
	Location      string     `json:"location"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CreateInventoryRequest struct {
	CardID        uint       `json:"card_id" binding:"required"`
	Quantity      int        `json:"quantity" binding:"omitempty,gte=0"`
	PurchasePrice *float64   `json:"purchase_price" binding:"omitempty,gte=0"`
	MarketPrice   *float64   `json:"current_market_price" binding:"omitempty,gte=0"`
	PurchaseDate  *time.Time `json:"purchase_date"`
	Location      string     `json:"location"`
	Notes         string     `json:"notes"`
}

// UpdateInventoryRequest is a partial update; nil fields are left untouched.
type UpdateInventoryRequest struct {
	Quantity      *int       `json:"quantity" binding:"omitempty,gte=0"`
	PurchasePrice *float64   `json:"purchase_price" binding:"omitempty,gte=0"`
	MarketPrice   *float64   `json:"current_market_price" binding:"omitempty,gte=0"`
	PurchaseDate  *time.Time `json:"purchase_date"`
	Location      *string    `json:"location"`
	Notes         *string    `json:"notes"`
}

// InventoryStats are the header totals over the full inventory table,
// independent of any client-side search filter.
type InventoryStats struct {
	TotalQuantity int     `json:"total_quantity"`
	UniqueCards   int     `json:"unique_cards"`
	TotalValue    float64 `json:"total_value"`
}
