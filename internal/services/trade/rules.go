package trade

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ddanilovv/poketrade-api/internal/apperrors"
	"github.com/ddanilovv/poketrade-api/internal/models"
)

// Правила жизненного цикла предложения обмена. Вынесены в чистые
// функции: они не трогают базу и проверяются юнит-тестами.

// NormalizeTarget приводит целевой статус к каноническому виду.
// Неизвестные значения не подменяются — их отклонит
// AuthorizeStatusChange.
func NormalizeTarget(status string) string {
	return strings.ToUpper(strings.TrimSpace(status))
}

// AuthorizeStatusChange проверяет допустимость перехода статуса и право
// пользователя его выполнить:
//
//	PENDING -> ACCEPTED | REJECTED  — только получатель
//	PENDING -> CANCELED             — отправитель или получатель
//
// Любой другой целевой статус отклоняется, а предложение вне PENDING
// менять нельзя — все конечные статусы терминальны.
func AuthorizeStatusChange(offer *models.TradeOffer, actorID uuid.UUID, target string) error {
	if offer.Status != models.StatusPending {
		return apperrors.AlreadyFinalized("Trade is already finalized")
	}

	switch target {
	case models.StatusAccepted, models.StatusRejected:
		if offer.ReceiverID != actorID {
			return apperrors.Forbidden("Only receiver can accept or reject")
		}
	case models.StatusCanceled:
		if !offer.IsParticipant(actorID) {
			return apperrors.Forbidden("Not authorized to cancel this trade")
		}
	default:
		return apperrors.InvalidOperation("Invalid status")
	}

	return nil
}

// NormalizeStatus отображает хранимый статус в форму для API-ответов:
// active для PENDING, closed для любого терминального статуса.
// Эту пару значений закрепили существующие веб-клиенты.
func NormalizeStatus(status string) string {
	if status == models.StatusPending {
		return "active"
	}
	return "closed"
}

// ownershipRequired сообщает, нужна ли проверка владения: она касается
// только отдаваемых (GIVEN) позиций
func ownershipRequired(items []offerItemInput) bool {
	for _, item := range items {
		if item.Type == models.ItemGiven {
			return true
		}
	}
	return false
}

// verifyOwnership сверяет отдаваемые позиции с картами offered-коллекции
// отправителя. owned — количество по id карты; hasCollection=false
// означает, что коллекции у отправителя нет вовсе.
func verifyOwnership(owned map[uuid.UUID]int, hasCollection bool, items []offerItemInput) error {
	if !ownershipRequired(items) {
		return nil
	}
	if !hasCollection {
		return apperrors.InsufficientOwnership("Sender has no collection")
	}

	for _, item := range items {
		if item.Type != models.ItemGiven {
			continue
		}
		if owned[item.CardID] < item.Quantity {
			return apperrors.InsufficientOwnership(
				fmt.Sprintf("You do not have enough quantity of card %s", item.CardID))
		}
	}

	return nil
}

// canViewMessages решает, показывать ли пользователю историю сообщений
// предложения: чат адресного предложения конфиденциален для участников
func canViewMessages(offer *models.TradeOffer, userID uuid.UUID) bool {
	return offer.IsOpen() || offer.IsParticipant(userID)
}

// NormalizeCardFilter приводит фильтр по имени карты к канонической
// форме: пустой после обрезки пробелов фильтр означает его отсутствие
func NormalizeCardFilter(cardName string) string {
	return strings.TrimSpace(cardName)
}

// escapeLikePattern экранирует метасимволы LIKE, чтобы пользовательский
// фильтр сравнивался буквально
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// NormalizePage нормализует параметры пагинации: невалидные значения
// заменяются значениями по умолчанию (страница 1, размер 20).
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return page, pageSize
}

// cardTypeOf переводит направление позиции в форму ответа
func cardTypeOf(itemType string) string {
	if itemType == models.ItemWanted {
		return "wanted"
	}
	return "offered"
}

// toResponse собирает API-форму предложения обмена
func toResponse(t *models.TradeOffer) models.TradeOfferResponse {
	cards := make([]models.TradeOfferCard, 0, len(t.Items))
	for _, item := range t.Items {
		cards = append(cards, models.TradeOfferCard{
			ID:           item.ID,
			TradeOfferID: item.TradeOfferID,
			CardName:     item.CardName,
			CardType:     cardTypeOf(item.Type),
			Quantity:     item.Quantity,
			CreatedAt:    item.CreatedAt,
		})
	}

	return models.TradeOfferResponse{
		ID:        t.ID,
		UserID:    t.SenderID,
		Status:    NormalizeStatus(t.Status),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Cards:     cards,
		User:      t.Sender,
		Messages:  t.Messages,
	}
}
