package user

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ddanilovv/poketrade-api/internal/apperrors"
	"github.com/ddanilovv/poketrade-api/internal/config"
	"github.com/ddanilovv/poketrade-api/internal/db"
	"github.com/ddanilovv/poketrade-api/internal/models"
	"github.com/ddanilovv/poketrade-api/internal/utils"
)

// UserService представляет сервис публичных профилей
type UserService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewUserService создает новый экземпляр UserService
func NewUserService(cfg *config.Config) *UserService {
	return &UserService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetProfile возвращает публичный профиль пользователя вместе с его коллекцией
func (s *UserService) GetProfile(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperrors.Validation("Invalid user id", nil)
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var summary models.UserSummary
	err = db.Pool.QueryRow(ctx, `
        SELECT id, name, poke_poke_id FROM users WHERE id = $1
    `, userID).Scan(&summary.ID, &summary.Name, &summary.PokePokeID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NotFound("User")
		}
		log.Printf("Ошибка запроса пользователя: %v", err)
		return apperrors.Internal("Failed to load profile", err)
	}

	rows, err := db.Pool.Query(ctx, `
        SELECT ci.id, ci.card_id, ci.card_type, ci.quantity, ci.created_at, ci.updated_at, c.name
        FROM collection_items ci
        JOIN card_collections cc ON cc.id = ci.collection_id
        JOIN cards c ON c.id = ci.card_id
        WHERE cc.user_id = $1
        ORDER BY ci.created_at ASC
    `, userID)
	if err != nil {
		log.Printf("Ошибка запроса коллекции: %v", err)
		return apperrors.Internal("Failed to load profile", err)
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

	return c.JSON(fiber.Map{
		"id":         summary.ID,
		"pokePokeId": summary.PokePokeID,
		"name":       summary.Name,
		"collection": items,
	})
}

type setBlacklistRequest struct {
	IsBlacklisted bool `json:"isBlacklisted"`
}

// SetBlacklist включает или снимает блокировку пользователя. Только для
// администраторов; блокировка вступает в силу для новых токенов и для
// видимости в поиске и публичных предложениях сразу.
func (s *UserService) SetBlacklist(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperrors.Validation("Invalid user id", nil)
	}

	var req setBlacklistRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperrors.Validation("Invalid payload", nil)
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
        UPDATE users SET is_blacklisted = $1, updated_at = NOW() WHERE id = $2
    `, req.IsBlacklisted, userID)
	if err != nil {
		log.Printf("Ошибка обновления блокировки: %v", err)
		return apperrors.Internal("Failed to update user", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("User")
	}

	return c.JSON(fiber.Map{
		"id":            userID,
		"isBlacklisted": req.IsBlacklisted,
	})
}
