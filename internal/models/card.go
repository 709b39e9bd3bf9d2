package models

import (
	"time"
)

// Default attribute values applied when a card is created without them.
// The collection is Japanese-market focused, hence language "JP".
const (
	DefaultCondition = "NM"
	DefaultLanguage  = "JP"
)

type Card struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"not null;index"`
	CardNumber  string    `json:"card_number"`
	SetName     string    `json:"set_name" gorm:"not null;index"`
	Rarity      string    `json:"rarity"`
	Condition   string    `json:"condition" gorm:"default:'NM'"`
	Language    string    `json:"language" gorm:"default:'JP'"`
	ImageURL    string    `json:"image_url"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateCardRequest struct {
	Name        string `json:"name" binding:"required"`
	CardNumber  string `json:"card_number"`
	SetName     string `json:"set_name" binding:"required"`
	Rarity      string `json:"rarity"`
	Condition   string `json:"condition"`
	Language    string `json:"language"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

// UpdateCardRequest is a partial update; nil fields are left untouched.
type UpdateCardRequest struct {
	Name        *string `json:"name"`
	CardNumber  *string `json:"card_number"`
	SetName     *string `json:"set_name"`
	Rarity      *string `json:"rarity"`
	Condition   *string `json:"condition"`
	Language    *string `json:"language"`
	ImageURL    *string `json:"image_url"`
	Description *string `json:"description"`
}

// ToCard builds a Card with defaults filled in for condition and language.
func (r CreateCardRequest) ToCard() Card {
	condition := r.Condition
	if condition == "" {
		condition = DefaultCondition
	}
	language := r.Language
	if language == "" {
		language = DefaultLanguage
	}
	return Card{
		Name:        r.Name,
		CardNumber:  r.CardNumber,
		SetName:     r.SetName,
		Rarity:      r.Rarity,
		Condition:   condition,
		Language:    language,
		ImageURL:    r.ImageURL,
		Description: r.Description,
	}
}

// BulkUploadResult is the typed response of the CSV bulk upload endpoint.
// Errors are human-readable row-level messages for direct display.
type BulkUploadResult struct {
	CreatedCount int      `json:"created_count"`
	Errors       []string `json:"errors"`
	Cards        []Card   `json:"cards"`
}
