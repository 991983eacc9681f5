package trade

import (
	"github.com/google/uuid"

	"github.com/ddanilovv/poketrade-api/internal/apperrors"
	"github.com/ddanilovv/poketrade-api/internal/models"
)

// Тело POST /api/trade-offers приходит в одной из двух форм:
// явный список позиций по id карты, либо два списка по именам карт
// (их шлёт веб-клиент конструктора предложений). Форма определяется
// один раз на границе, движок всегда получает нормализованный список.

type offerItemPayload struct {
	CardID   string `json:"cardId"`
	Type     string `json:"type"` // WANTED | GIVEN
	Quantity int    `json:"quantity"`
}

type namedCardPayload struct {
	CardName string `json:"cardName"`
	Quantity int    `json:"quantity"`
}

type createOfferRequest struct {
	ReceiverID   string             `json:"receiverId"`
	Items        []offerItemPayload `json:"items"`
	WantedCards  []namedCardPayload `json:"wantedCards"`
	OfferedCards []namedCardPayload `json:"offeredCards"`
}

// Формы тела запроса
const (
	payloadShapeItems = "items"
	payloadShapeNamed = "named"
)

// detectShape определяет форму тела запроса. Пустое тело — ошибка
// валидации; смешивать формы нельзя.
func detectShape(req *createOfferRequest) (string, error) {
	hasItems := len(req.Items) > 0
	hasNamed := len(req.WantedCards) > 0 || len(req.OfferedCards) > 0

	switch {
	case hasItems && hasNamed:
		return "", apperrors.Validation("Provide either items or named card lists, not both", nil)
	case hasItems:
		return payloadShapeItems, nil
	case hasNamed:
		return payloadShapeNamed, nil
	default:
		return "", apperrors.Validation("Invalid payload", nil)
	}
}

// offerItemInput — нормализованная позиция, с которой работает движок
type offerItemInput struct {
	CardID   uuid.UUID
	Type     string
	Quantity int
}

// explicitItems разбирает и проверяет явный список позиций
func explicitItems(payload []offerItemPayload) ([]offerItemInput, error) {
	items := make([]offerItemInput, 0, len(payload))
	for _, p := range payload {
		cardID, err := uuid.Parse(p.CardID)
		if err != nil {
			return nil, apperrors.Validation("Invalid cardId in items", nil)
		}
		if p.Type != models.ItemWanted && p.Type != models.ItemGiven {
			return nil, apperrors.Validation("Item type must be WANTED or GIVEN", nil)
		}
		if p.Quantity <= 0 {
			return nil, apperrors.Validation("Item quantity must be positive", nil)
		}
		items = append(items, offerItemInput{
			CardID:   cardID,
			Type:     p.Type,
			Quantity: p.Quantity,
		})
	}
	return items, nil
}
