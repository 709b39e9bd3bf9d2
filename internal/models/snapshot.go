package models

import (
	"time"
)

// InventoryValueSnapshot is one daily record of total inventory value,
// written by the snapshot service for charting value over time.
type InventoryValueSnapshot struct {
	ID            uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	SnapshotDate  time.Time `json:"snapshot_date" gorm:"index"`
	TotalQuantity int       `json:"total_quantity"`
	UniqueCards   int       `json:"unique_cards"`
	TotalValue    float64   `json:"total_value"`
	CreatedAt     time.Time `json:"created_at"`
}

type ValueHistoryResponse struct {
	Snapshots []InventoryValueSnapshot `json:"snapshots"`
	Period    string                   `json:"period"`
}
