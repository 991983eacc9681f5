package search

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/ddanilovv/poketrade-api/internal/apperrors"
	"github.com/ddanilovv/poketrade-api/internal/config"
	"github.com/ddanilovv/poketrade-api/internal/db"
	"github.com/ddanilovv/poketrade-api/internal/models"
	"github.com/ddanilovv/poketrade-api/internal/utils"
)

// SearchService представляет сервис поиска пользователей по картам
type SearchService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewSearchService создает новый экземпляр SearchService
func NewSearchService(cfg *config.Config) *SearchService {
	return &SearchService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// searchResult — один пользователь, держащий искомую карту
type searchResult struct {
	User     models.UserSummary `json:"user"`
	CardType string             `json:"cardType"`
	Quantity int                `json:"quantity"`
}

// SearchUsersByCard возвращает пользователей, у которых карта есть в
// коллекции. Пользователи из чёрного списка скрыты.
func (s *SearchService) SearchUsersByCard(c fiber.Ctx) error {
	rawCardID := c.Query("cardId")
	if rawCardID == "" {
		return apperrors.Validation("Missing cardId query parameter", nil)
	}

	cardID, err := uuid.Parse(rawCardID)
	if err != nil {
		return apperrors.Validation("Invalid cardId", nil)
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
        SELECT u.id, u.name, u.poke_poke_id, ci.card_type, ci.quantity
        FROM collection_items ci
        JOIN card_collections cc ON cc.id = ci.collection_id
        JOIN users u ON u.id = cc.user_id
        WHERE ci.card_id = $1 AND u.is_blacklisted = FALSE
        ORDER BY ci.quantity DESC
    `, cardID)
	if err != nil {
		log.Printf("Ошибка поиска по карте: %v", err)
		return apperrors.Internal("Search failed", err)
	}
	defer rows.Close()

	results := []searchResult{}
	for rows.Next() {
		var r searchResult
		if err := rows.Scan(
			&r.User.ID,
			&r.User.Name,
			&r.User.PokePokeID,
			&r.CardType,
			&r.Quantity,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		results = append(results, r)
	}

	return c.JSON(results)
}
