package trade

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ddanilovv/poketrade-api/internal/apperrors"
	"github.com/ddanilovv/poketrade-api/internal/config"
	"github.com/ddanilovv/poketrade-api/internal/db"
	"github.com/ddanilovv/poketrade-api/internal/models"
	"github.com/ddanilovv/poketrade-api/internal/utils"
)

// TradeService представляет движок предложений обмена
type TradeService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewTradeService создает новый экземпляр TradeService
func NewTradeService(cfg *config.Config) *TradeService {
	return &TradeService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// CreateTradeOffer создает новое предложение обмена
func (s *TradeService) CreateTradeOffer(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	var req createOfferRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperrors.Validation("Invalid payload", nil)
	}

	shape, err := detectShape(&req)
	if err != nil {
		return err
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var items []offerItemInput
	switch shape {
	case payloadShapeItems:
		items, err = explicitItems(req.Items)
	case payloadShapeNamed:
		items, err = resolveNamedItems(ctx, req.WantedCards, req.OfferedCards)
	}
	if err != nil {
		return err
	}

	var receiverID *uuid.UUID
	if req.ReceiverID != "" {
		parsed, parseErr := uuid.Parse(req.ReceiverID)
		if parseErr != nil {
			return apperrors.Validation("Invalid receiverId", nil)
		}
		receiverID = &parsed
	}

	offer, err := createTradeOffer(ctx, userID, receiverID, items)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toResponse(offer))
}

// GetTradeOffers обрабатывает GET /api/trade-offers.
// С параметром type это листинг своих предложений (sent/received/все),
// иначе — публичный поиск открытых предложений по имени карты.
// Эти два режима взаимоисключающие в рамках одного запроса.
func (s *TradeService) GetTradeOffers(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	direction := c.Query("type")
	cardName := c.Query("cardName")
	pageParam := c.Query("page")

	if direction == "" && (cardName != "" || pageParam != "") {
		return s.searchOffers(c, cardName, pageParam)
	}

	if direction != "" && direction != "sent" && direction != "received" {
		return apperrors.Validation("type must be sent or received", nil)
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	offers, err := listTradeOffers(ctx, userID, direction)
	if err != nil {
		log.Printf("Ошибка запроса предложений обмена: %v", err)
		return apperrors.Internal("Failed to load trade offers", err)
	}

	responses := make([]models.TradeOfferResponse, 0, len(offers))
	for i := range offers {
		responses = append(responses, toResponse(&offers[i]))
	}

	return c.JSON(responses)
}

// searchOffers возвращает страницу открытых предложений для публичного поиска
func (s *TradeService) searchOffers(c fiber.Ctx, cardName, pageParam string) error {
	// Фильтр из одних пробелов равносилен его отсутствию
	cardName = NormalizeCardFilter(cardName)

	page, _ := strconv.Atoi(pageParam)
	page, pageSize := NormalizePage(page, 20)

	ctx, cancel := db.GetContext()
	defer cancel()

	offers, total, err := searchTradeOffers(ctx, cardName, page, pageSize)
	if err != nil {
		log.Printf("Ошибка поиска предложений обмена: %v", err)
		return apperrors.Internal("Failed to search trade offers", err)
	}

	responses := make([]models.TradeOfferResponse, 0, len(offers))
	for i := range offers {
		responses = append(responses, toResponse(&offers[i]))
	}

	return c.JSON(fiber.Map{
		"tradeOffers": responses,
		"total":       total,
	})
}

// GetTradeOfferByID возвращает предложение с позициями. История
// сообщений включается только для участников: чат адресного предложения
// не виден посторонним (см. canViewMessages).
func (s *TradeService) GetTradeOfferByID(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	offerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperrors.Validation("Invalid trade offer id", nil)
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	offer, err := getTradeOfferDetail(ctx, offerID)
	if err != nil {
		return err
	}

	if canViewMessages(offer, userID) {
		offer.Messages, err = loadOfferMessages(ctx, offerID)
		if err != nil {
			return apperrors.Internal("Failed to load trade offer", err)
		}
	}

	return c.JSON(toResponse(offer))
}

// UpdateTradeStatus переводит предложение в целевой статус.
// Терминальные статусы менять нельзя; права проверяются по таблице
// переходов (см. AuthorizeStatusChange).
func (s *TradeService) UpdateTradeStatus(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	offerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperrors.Validation("Invalid trade offer id", nil)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return apperrors.Validation("Invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.Validation("Missing status", nil)
	}

	target := NormalizeTarget(req.Status)

	ctx, cancel := db.GetContext()
	defer cancel()

	var offer models.TradeOffer
	err = db.Pool.QueryRow(ctx, `
        SELECT id, sender_id, receiver_id, status
        FROM trade_offers
        WHERE id = $1
    `, offerID).Scan(&offer.ID, &offer.SenderID, &offer.ReceiverID, &offer.Status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NotFound("Trade offer")
		}
		log.Printf("Ошибка запроса предложения обмена: %v", err)
		return apperrors.Internal("Failed to load trade offer", err)
	}

	if err := AuthorizeStatusChange(&offer, userID, target); err != nil {
		return err
	}

	_, err = db.Pool.Exec(ctx, `
        UPDATE trade_offers
        SET status = $1, updated_at = NOW()
        WHERE id = $2
    `, target, offerID)
	if err != nil {
		log.Printf("Ошибка обновления статуса предложения: %v", err)
		return apperrors.Internal("Failed to update trade offer", err)
	}

	updated, err := getTradeOfferDetail(ctx, offerID)
	if err != nil {
		return err
	}

	return c.JSON(toResponse(updated))
}

// GetUserTradeOffers возвращает предложения, созданные пользователем
// (страница профиля)
func (s *TradeService) GetUserTradeOffers(c fiber.Ctx) error {
	targetUserID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperrors.Validation("Invalid user id", nil)
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	offers, err := loadOffers(ctx, `
        SELECT id, sender_id, receiver_id, status, created_at, updated_at
        FROM trade_offers
        WHERE sender_id = $1
        ORDER BY created_at DESC
    `, targetUserID)
	if err != nil {
		log.Printf("Ошибка запроса предложений пользователя: %v", err)
		return apperrors.Internal("Failed to load trade offers", err)
	}

	responses := make([]models.TradeOfferResponse, 0, len(offers))
	for i := range offers {
		responses = append(responses, toResponse(&offers[i]))
	}

	return c.JSON(responses)
}

// resolveNamedItems превращает списки имён карт в нормализованные позиции.
// Имя, отсутствующее в мастер-каталоге, — ошибка NOT_FOUND.
func resolveNamedItems(ctx context.Context, wanted, offered []namedCardPayload) ([]offerItemInput, error) {
	items := make([]offerItemInput, 0, len(wanted)+len(offered))

	resolve := func(cards []namedCardPayload, itemType string) error {
		for _, named := range cards {
			if named.CardName == "" {
				return apperrors.Validation("Card name must not be empty", nil)
			}
			if named.Quantity <= 0 {
				return apperrors.Validation("Item quantity must be positive", nil)
			}

			var cardID uuid.UUID
			err := db.Pool.QueryRow(ctx, `
                SELECT id FROM cards WHERE name = $1 ORDER BY created_at ASC LIMIT 1
            `, named.CardName).Scan(&cardID)
			if err != nil {
				if err == pgx.ErrNoRows {
					return apperrors.NotFound(fmt.Sprintf("Card %q", named.CardName))
				}
				return apperrors.Internal("Failed to resolve card name", err)
			}

			items = append(items, offerItemInput{
				CardID:   cardID,
				Type:     itemType,
				Quantity: named.Quantity,
			})
		}
		return nil
	}

	if err := resolve(wanted, models.ItemWanted); err != nil {
		return nil, err
	}
	if err := resolve(offered, models.ItemGiven); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, apperrors.Validation("Invalid payload", nil)
	}

	return items, nil
}

// createTradeOffer проверяет владение отдаваемыми картами и атомарно
// сохраняет предложение с позициями. Проверка владения выполняется на
// момент создания; резервирования карт нет.
func createTradeOffer(ctx context.Context, senderID uuid.UUID, receiverID *uuid.UUID, items []offerItemInput) (*models.TradeOffer, error) {
	if receiverID != nil && *receiverID == senderID {
		return nil, apperrors.InvalidOperation("Cannot trade with yourself")
	}

	// Открытое предложение кодируется как receiver = sender
	targetReceiverID := senderID
	if receiverID != nil {
		targetReceiverID = *receiverID
	}

	if err := checkOwnership(ctx, senderID, items); err != nil {
		return nil, err
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to create trade offer", err)
	}
	defer tx.Rollback(ctx)

	var offerID uuid.UUID
	err = tx.QueryRow(ctx, `
        INSERT INTO trade_offers (sender_id, receiver_id, status)
        VALUES ($1, $2, 'PENDING')
        RETURNING id
    `, senderID, targetReceiverID).Scan(&offerID)
	if err != nil {
		return nil, apperrors.Internal("Failed to create trade offer", err)
	}

	for _, item := range items {
		_, err = tx.Exec(ctx, `
            INSERT INTO trade_offer_items (trade_offer_id, card_id, type, quantity)
            VALUES ($1, $2, $3, $4)
        `, offerID, item.CardID, item.Type, item.Quantity)
		if err != nil {
			return nil, apperrors.Internal("Failed to create trade offer", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, apperrors.Internal("Failed to create trade offer", err)
	}

	return getTradeOfferDetail(ctx, offerID)
}

// checkOwnership загружает offered-коллекцию отправителя и сверяет её с
// отдаваемыми позициями (см. verifyOwnership)
func checkOwnership(ctx context.Context, senderID uuid.UUID, items []offerItemInput) error {
	if !ownershipRequired(items) {
		return nil
	}

	var collectionID uuid.UUID
	err := db.Pool.QueryRow(ctx, `
        SELECT id FROM card_collections WHERE user_id = $1
    `, senderID).Scan(&collectionID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return verifyOwnership(nil, false, items)
		}
		return apperrors.Internal("Failed to check ownership", err)
	}

	rows, err := db.Pool.Query(ctx, `
        SELECT card_id, quantity
        FROM collection_items
        WHERE collection_id = $1 AND card_type = 'offered'
    `, collectionID)
	if err != nil {
		return apperrors.Internal("Failed to check ownership", err)
	}
	defer rows.Close()

	owned := map[uuid.UUID]int{}
	for rows.Next() {
		var cardID uuid.UUID
		var quantity int
		if err := rows.Scan(&cardID, &quantity); err != nil {
			return apperrors.Internal("Failed to check ownership", err)
		}
		owned[cardID] = quantity
	}

	return verifyOwnership(owned, true, items)
}

// listTradeOffers возвращает предложения пользователя, сначала новые
func listTradeOffers(ctx context.Context, userID uuid.UUID, direction string) ([]models.TradeOffer, error) {
	var query string
	switch direction {
	case "sent":
		query = `
            SELECT id, sender_id, receiver_id, status, created_at, updated_at
            FROM trade_offers
            WHERE sender_id = $1
            ORDER BY created_at DESC
        `
	case "received":
		query = `
            SELECT id, sender_id, receiver_id, status, created_at, updated_at
            FROM trade_offers
            WHERE receiver_id = $1
            ORDER BY created_at DESC
        `
	default:
		query = `
            SELECT id, sender_id, receiver_id, status, created_at, updated_at
            FROM trade_offers
            WHERE sender_id = $1 OR receiver_id = $1
            ORDER BY created_at DESC
        `
	}

	return loadOffers(ctx, query, userID)
}

// searchTradeOffers возвращает страницу публично видимых предложений:
// только PENDING и только от пользователей вне чёрного списка. Фильтр по
// имени карты смотрит на отдаваемые (GIVEN) позиции; подстрока
// регистрозависимая, как в существующем поиске.
func searchTradeOffers(ctx context.Context, cardName string, page, pageSize int) ([]models.TradeOffer, int, error) {
	where := `
        FROM trade_offers t
        JOIN users u ON u.id = t.sender_id
        WHERE t.status = 'PENDING' AND u.is_blacklisted = FALSE
    `
	args := []interface{}{}

	if cardName != "" {
		where += `
          AND EXISTS (
            SELECT 1
            FROM trade_offer_items i
            JOIN cards c ON c.id = i.card_id
            WHERE i.trade_offer_id = t.id
              AND i.type = 'GIVEN'
              AND c.name LIKE '%' || $1 || '%' ESCAPE '\'
          )
        `
		args = append(args, escapeLikePattern(cardName))
	}

	var total int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT t.id, t.sender_id, t.receiver_id, t.status, t.created_at, t.updated_at ` +
		where +
		fmt.Sprintf(` ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	offers, err := loadOffers(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return offers, total, nil
}

// loadOffers выполняет запрос списка предложений и дозагружает позиции
// и отправителя для каждого
func loadOffers(ctx context.Context, query string, args ...interface{}) ([]models.TradeOffer, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := []models.TradeOffer{}
	for rows.Next() {
		var offer models.TradeOffer
		if err := rows.Scan(
			&offer.ID,
			&offer.SenderID,
			&offer.ReceiverID,
			&offer.Status,
			&offer.CreatedAt,
			&offer.UpdatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range offers {
		offers[i].Items, err = loadOfferItems(ctx, offers[i].ID)
		if err != nil {
			return nil, err
		}
		offers[i].Sender = getUserInfo(ctx, offers[i].SenderID)
	}

	return offers, nil
}

// getTradeOfferDetail загружает предложение с позициями и отправителем.
// Историю сообщений вызывающий дозагружает сам: её видимость зависит от
// того, кто спрашивает.
func getTradeOfferDetail(ctx context.Context, offerID uuid.UUID) (*models.TradeOffer, error) {
	var offer models.TradeOffer
	err := db.Pool.QueryRow(ctx, `
        SELECT id, sender_id, receiver_id, status, created_at, updated_at
        FROM trade_offers
        WHERE id = $1
    `, offerID).Scan(
		&offer.ID,
		&offer.SenderID,
		&offer.ReceiverID,
		&offer.Status,
		&offer.CreatedAt,
		&offer.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound("Trade offer")
		}
		return nil, apperrors.Internal("Failed to load trade offer", err)
	}

	offer.Items, err = loadOfferItems(ctx, offerID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load trade offer", err)
	}

	offer.Sender = getUserInfo(ctx, offer.SenderID)

	return &offer, nil
}

// loadOfferItems загружает позиции предложения с именами карт
func loadOfferItems(ctx context.Context, offerID uuid.UUID) ([]models.TradeOfferItem, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT i.id, i.trade_offer_id, i.card_id, i.type, i.quantity, i.created_at, c.name
        FROM trade_offer_items i
        JOIN cards c ON c.id = i.card_id
        WHERE i.trade_offer_id = $1
        ORDER BY i.created_at ASC, i.id ASC
    `, offerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.TradeOfferItem{}
	for rows.Next() {
		var item models.TradeOfferItem
		if err := rows.Scan(
			&item.ID,
			&item.TradeOfferID,
			&item.CardID,
			&item.Type,
			&item.Quantity,
			&item.CreatedAt,
			&item.CardName,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// loadOfferMessages загружает историю сообщений в хронологическом порядке
func loadOfferMessages(ctx context.Context, offerID uuid.UUID) ([]models.Message, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT m.id, m.trade_offer_id, m.sender_id, m.content, m.created_at,
               u.id, u.name, u.poke_poke_id
        FROM messages m
        JOIN users u ON u.id = m.sender_id
        WHERE m.trade_offer_id = $1
        ORDER BY m.created_at ASC
    `, offerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var msg models.Message
		var sender models.UserSummary
		if err := rows.Scan(
			&msg.ID,
			&msg.TradeOfferID,
			&msg.SenderID,
			&msg.Content,
			&msg.CreatedAt,
			&sender.ID,
			&sender.Name,
			&sender.PokePokeID,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		msg.Sender = &sender
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// getUserInfo получает информацию об отправителе предложения
func getUserInfo(ctx context.Context, userID uuid.UUID) *models.User {
	var user models.User
	err := db.Pool.QueryRow(ctx, `
        SELECT id, poke_poke_id, name, role, is_blacklisted, created_at, updated_at
        FROM users
        WHERE id = $1
    `, userID).Scan(
		&user.ID,
		&user.PokePokeID,
		&user.Name,
		&user.Role,
		&user.IsBlacklisted,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		log.Printf("Ошибка получения пользователя %s: %v", userID, err)
		return nil
	}

	return &user
}
