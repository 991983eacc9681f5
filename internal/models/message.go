package models

import (
	"time"

	"github.com/google/uuid"
)

// Message представляет сообщение в чате предложения обмена.
// Сообщения неизменяемы и никогда не удаляются.
type Message struct {
	ID           uuid.UUID `json:"id"`
	TradeOfferID uuid.UUID `json:"tradeOfferId"`
	SenderID     uuid.UUID `json:"senderId"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`

	Sender *UserSummary `json:"sender,omitempty"`
}
