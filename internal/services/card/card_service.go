package card

import (
	"context"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ddanilovv/poketrade-api/internal/apperrors"
	"github.com/ddanilovv/poketrade-api/internal/config"
	"github.com/ddanilovv/poketrade-api/internal/db"
	"github.com/ddanilovv/poketrade-api/internal/models"
	"github.com/ddanilovv/poketrade-api/internal/utils"
)

var validate = validator.New()

// CardService представляет сервис мастер-каталога карт и коллекций
type CardService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewCardService создает новый экземпляр CardService
func NewCardService(cfg *config.Config) *CardService {
	return &CardService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetCardMaster возвращает мастер-каталог карт, опционально по паку
func (s *CardService) GetCardMaster(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	query := `
        SELECT c.id, c.pack_id, c.name, c.description, c.rarity, c.created_at, c.updated_at,
               p.id, p.name, p.code, p.release_date, p.created_at, p.updated_at
        FROM cards c
        JOIN packs p ON p.id = c.pack_id
    `
	args := []interface{}{}

	if packID := c.Query("packId"); packID != "" {
		parsed, err := uuid.Parse(packID)
		if err != nil {
			return apperrors.Validation("Invalid packId", nil)
		}
		query += ` WHERE c.pack_id = $1`
		args = append(args, parsed)
	}

	query += ` ORDER BY p.release_date DESC NULLS LAST, c.name ASC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Ошибка запроса мастер-каталога: %v", err)
		return apperrors.Internal("Failed to load card master", err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		var card models.Card
		var pack models.Pack
		if err := rows.Scan(
			&card.ID,
			&card.PackID,
			&card.Name,
			&card.Description,
			&card.Rarity,
			&card.CreatedAt,
			&card.UpdatedAt,
			&pack.ID,
			&pack.Name,
			&pack.Code,
			&pack.ReleaseDate,
			&pack.CreatedAt,
			&pack.UpdatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		card.Pack = &pack
		cards = append(cards, card)
	}

	return c.JSON(cards)
}

// GetCollection возвращает коллекцию текущего пользователя
func (s *CardService) GetCollection(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	ctx, cancel := db.GetContext()
	defer cancel()

	items, err := loadCollectionItems(ctx, userID)
	if err != nil {
		log.Printf("Ошибка запроса коллекции: %v", err)
		return apperrors.Internal("Failed to load collection", err)
	}

	return c.JSON(items)
}

type updateCollectionRequest struct {
	CardID   string `json:"cardId" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	CardType string `json:"cardType" validate:"omitempty,oneof=wanted offered"`
}

// UpdateCollection добавляет или обновляет позицию коллекции
func (s *CardService) UpdateCollection(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	var req updateCollectionRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperrors.Validation("Invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return apperrors.FromValidationErrors(err)
	}
	if req.CardType == "" {
		req.CardType = models.CollectionOffered
	}

	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		return apperrors.Validation("Invalid cardId", nil)
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем, что карта существует в мастер-каталоге
	var cardName string
	err = db.Pool.QueryRow(ctx, `
        SELECT name FROM cards WHERE id = $1
    `, cardID).Scan(&cardName)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NotFound("Card")
		}
		log.Printf("Ошибка запроса карты: %v", err)
		return apperrors.Internal("Failed to update collection", err)
	}

	// Гарантируем, что коллекция пользователя существует
	var collectionID uuid.UUID
	err = db.Pool.QueryRow(ctx, `
        INSERT INTO card_collections (user_id)
        VALUES ($1)
        ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
        RETURNING id
    `, userID).Scan(&collectionID)
	if err != nil {
		log.Printf("Ошибка создания коллекции: %v", err)
		return apperrors.Internal("Failed to update collection", err)
	}

	var item models.CollectionItem
	err = db.Pool.QueryRow(ctx, `
        INSERT INTO collection_items (collection_id, card_id, card_type, quantity)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (collection_id, card_id, card_type)
        DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()
        RETURNING id, card_id, card_type, quantity, created_at, updated_at
    `, collectionID, cardID, req.CardType, req.Quantity).Scan(
		&item.ID,
		&item.CardID,
		&item.CardType,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		log.Printf("Ошибка обновления позиции коллекции: %v", err)
		return apperrors.Internal("Failed to update collection", err)
	}

	item.UserID = userID
	item.CardName = cardName

	return c.JSON(item)
}

// RemoveFromCollection удаляет карту из коллекции пользователя.
// Если cardType не указан, удаляются обе позиции карты.
func (s *CardService) RemoveFromCollection(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	cardID, err := uuid.Parse(c.Params("cardId"))
	if err != nil {
		return apperrors.Validation("Invalid cardId", nil)
	}

	cardType := c.Query("cardType")
	if cardType != "" && cardType != models.CollectionWanted && cardType != models.CollectionOffered {
		return apperrors.Validation("Invalid cardType", nil)
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var collectionID uuid.UUID
	err = db.Pool.QueryRow(ctx, `
        SELECT id FROM card_collections WHERE user_id = $1
    `, userID).Scan(&collectionID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NotFound("Collection")
		}
		log.Printf("Ошибка запроса коллекции: %v", err)
		return apperrors.Internal("Failed to remove from collection", err)
	}

	if cardType != "" {
		_, err = db.Pool.Exec(ctx, `
            DELETE FROM collection_items
            WHERE collection_id = $1 AND card_id = $2 AND card_type = $3
        `, collectionID, cardID, cardType)
	} else {
		_, err = db.Pool.Exec(ctx, `
            DELETE FROM collection_items
            WHERE collection_id = $1 AND card_id = $2
        `, collectionID, cardID)
	}
	if err != nil {
		log.Printf("Ошибка удаления позиции коллекции: %v", err)
		return apperrors.Internal("Failed to remove from collection", err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// loadCollectionItems загружает позиции коллекции пользователя с именами карт
func loadCollectionItems(ctx context.Context, userID uuid.UUID) ([]models.CollectionItem, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT ci.id, ci.card_id, ci.card_type, ci.quantity, ci.created_at, ci.updated_at, c.name
        FROM collection_items ci
        JOIN card_collections cc ON cc.id = ci.collection_id
        JOIN cards c ON c.id = ci.card_id
        WHERE cc.user_id = $1
        ORDER BY ci.created_at ASC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CollectionItem{}
	for rows.Next() {
		var item models.CollectionItem
		if err := rows.Scan(
			&item.ID,
			&item.CardID,
			&item.CardType,
			&item.Quantity,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.CardName,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		item.UserID = userID
		items = append(items, item)
	}

	return items, nil
}
