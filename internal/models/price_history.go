package models

import (
	"time"
)

// PriceHistoryEntry is one timestamped price observation for a card.
// The log is append-only; ordering is applied at read time.
type PriceHistoryEntry struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CardID       uint      `json:"card_id" gorm:"not null;index"`
	Card         Card      `json:"card" gorm:"foreignKey:CardID"`
	Price        float64   `json:"price" gorm:"not null"`
	Source       string    `json:"source"` // mercari, yahoo_auction, pokemon_tcg_api, ...
	Condition    string    `json:"condition"`
	Notes        string    `json:"notes"`
	DateRecorded time.Time `json:"date_recorded"`
}

type CreatePriceHistoryRequest struct {
	Price     float64 `json:"price" binding:"gte=0"`
	Source    string  `json:"source"`
	Condition string  `json:"condition"`
	Notes     string  `json:"notes"`
}

// PriceRefreshStatus reports the refresh worker's progress for the status
// endpoint.
type PriceRefreshStatus struct {
	LastUpdateTime    time.Time `json:"last_update_time"`
	NextUpdateTime    time.Time `json:"next_update_time"`
	CardsUpdatedToday int       `json:"cards_updated_today"`
	BatchSize         int       `json:"batch_size"`
	QueueSize         int       `json:"queue_size"`
}
