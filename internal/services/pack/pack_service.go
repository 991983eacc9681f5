package pack

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ddanilovv/poketrade-api/internal/apperrors"
	"github.com/ddanilovv/poketrade-api/internal/config"
	"github.com/ddanilovv/poketrade-api/internal/db"
	"github.com/ddanilovv/poketrade-api/internal/models"
)

// PackService представляет сервис для работы с паками
type PackService struct {
	cfg *config.Config
}

// NewPackService создает новый экземпляр PackService
func NewPackService(cfg *config.Config) *PackService {
	return &PackService{cfg: cfg}
}

// GetPacks возвращает все паки, сначала самые свежие по дате выхода
func (s *PackService) GetPacks(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
        SELECT id, name, code, release_date, created_at, updated_at
        FROM packs
        ORDER BY release_date DESC NULLS LAST
    `)
	if err != nil {
		log.Printf("Ошибка запроса паков: %v", err)
		return apperrors.Internal("Failed to load packs", err)
	}
	defer rows.Close()

	packs := []models.Pack{}
	for rows.Next() {
		var pack models.Pack
		if err := rows.Scan(
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
		packs = append(packs, pack)
	}

	return c.JSON(packs)
}

// GetPackByID возвращает пак вместе с его картами
func (s *PackService) GetPackByID(c fiber.Ctx) error {
	packID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperrors.Validation("Invalid pack id", nil)
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var pack models.Pack
	err = db.Pool.QueryRow(ctx, `
        SELECT id, name, code, release_date, created_at, updated_at
        FROM packs
        WHERE id = $1
    `, packID).Scan(
		&pack.ID,
		&pack.Name,
		&pack.Code,
		&pack.ReleaseDate,
		&pack.CreatedAt,
		&pack.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NotFound("Pack")
		}
		log.Printf("Ошибка запроса пака: %v", err)
		return apperrors.Internal("Failed to load pack", err)
	}

	rows, err := db.Pool.Query(ctx, `
        SELECT id, pack_id, name, description, rarity, created_at, updated_at
        FROM cards
        WHERE pack_id = $1
        ORDER BY name ASC
    `, packID)
	if err != nil {
		log.Printf("Ошибка запроса карт пака: %v", err)
		return apperrors.Internal("Failed to load pack", err)
	}
	defer rows.Close()

	pack.Cards = []models.Card{}
	for rows.Next() {
		var card models.Card
		if err := rows.Scan(
			&card.ID,
			&card.PackID,
			&card.Name,
			&card.Description,
			&card.Rarity,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		pack.Cards = append(pack.Cards, card)
	}

	return c.JSON(pack)
}
