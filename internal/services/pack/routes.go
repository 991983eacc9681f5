package pack

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает публичные маршруты каталога паков
func (s *PackService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/packs")

	api.Get("/", s.GetPacks)
	api.Get("/:id", s.GetPackByID)
}
