package chat

import (
	"github.com/google/uuid"

	"github.com/ddanilovv/poketrade-api/internal/apperrors"
	"github.com/ddanilovv/poketrade-api/internal/models"
)

// authorizeAccess решает, может ли пользователь читать и писать в чат
// предложения. Открытое предложение (sender == receiver) доступно любому
// авторизованному пользователю, адресное — только участникам. Чистая
// функция, база сюда не заходит.
func authorizeAccess(offer *models.TradeOffer, userID uuid.UUID) error {
	if offer.IsOpen() {
		return nil
	}
	if !offer.IsParticipant(userID) {
		return apperrors.Forbidden("You are not a participant of this trade")
	}
	return nil
}
