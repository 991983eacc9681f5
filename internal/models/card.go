package models

import (
	"time"

	"github.com/google/uuid"
)

// Pack представляет набор (пак) карт
type Pack struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Code        *string    `json:"code,omitempty"`
	ReleaseDate *time.Time `json:"releaseDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Заполняется только в ответе GET /api/packs/:id
	Cards []Card `json:"cards,omitempty"`
}

// Card представляет карту из мастер-каталога
type Card struct {
	ID          uuid.UUID `json:"id"`
	PackID      uuid.UUID `json:"packId"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Rarity      *string   `json:"rarity,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Pack *Pack `json:"pack,omitempty"`
}
