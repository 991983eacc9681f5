package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы элементов коллекции: карта в списке желаемого или отдаваемого
const (
	CollectionWanted  = "wanted"
	CollectionOffered = "offered"
)

// CollectionItem представляет одну позицию коллекции пользователя.
// Уникальность: одна запись на (пользователь, карта, тип).
type CollectionItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	CardID    uuid.UUID `json:"cardId"`
	CardName  string    `json:"cardName,omitempty"`
	CardType  string    `json:"cardType"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Card *Card `json:"card,omitempty"`
}
