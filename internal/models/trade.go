package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы предложения обмена. PENDING — единственное нетерминальное
// состояние: любое другое значение означает, что предложение закрыто.
const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
	StatusCanceled = "CANCELED"
)

// Направления позиций внутри предложения
const (
	ItemWanted = "WANTED"
	ItemGiven  = "GIVEN"
)

// TradeOffer представляет предложение обмена картами
type TradeOffer struct {
	ID         uuid.UUID `json:"id"`
	SenderID   uuid.UUID `json:"senderId"`
	ReceiverID uuid.UUID `json:"receiverId"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Items    []TradeOfferItem `json:"items,omitempty"`
	Sender   *User            `json:"sender,omitempty"`
	Messages []Message        `json:"messages,omitempty"`
}

// IsOpen сообщает, является ли предложение открытым (без конкретного
// адресата). Открытое предложение кодируется как receiverId == senderId.
func (t *TradeOffer) IsOpen() bool {
	return t.SenderID == t.ReceiverID
}

// IsParticipant сообщает, является ли пользователь участником предложения
func (t *TradeOffer) IsParticipant(userID uuid.UUID) bool {
	return t.SenderID == userID || t.ReceiverID == userID
}

// TradeOfferItem представляет одну позицию предложения обмена
type TradeOfferItem struct {
	ID           uuid.UUID `json:"id"`
	TradeOfferID uuid.UUID `json:"tradeOfferId"`
	CardID       uuid.UUID `json:"cardId"`
	Type         string    `json:"type"` // WANTED | GIVEN
	Quantity     int       `json:"quantity"`
	CreatedAt    time.Time `json:"createdAt"`
	CardName     string    `json:"cardName,omitempty"`
}

// TradeOfferResponse — форма предложения обмена в API-ответах.
// Статус здесь нормализован до active/closed, позиции отдаются как
// cards с cardType wanted/offered: эту форму закрепили существующие
// веб-клиенты.
type TradeOfferResponse struct {
	ID        uuid.UUID               `json:"id"`
	UserID    uuid.UUID               `json:"userId"`
	Status    string                  `json:"status"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
	Cards     []TradeOfferCard        `json:"cards"`
	User      *User                   `json:"user,omitempty"`
	Messages  []Message               `json:"messages,omitempty"`
}

// TradeOfferCard — позиция предложения в API-ответе
type TradeOfferCard struct {
	ID           uuid.UUID `json:"id"`
	TradeOfferID uuid.UUID `json:"tradeOfferId"`
	CardName     string    `json:"cardName"`
	CardType     string    `json:"cardType"` // wanted | offered
	Quantity     int       `json:"quantity"`
	CreatedAt    time.Time `json:"createdAt"`
}
