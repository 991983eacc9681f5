package card

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ddanilovv/poketrade-api/internal/middleware"
)

// SetupRoutes настраивает маршруты каталога и коллекций
func (s *CardService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/cards")

	// Публичный мастер-каталог
	api.Get("/master", s.GetCardMaster)

	// Коллекция текущего пользователя
	authMiddleware := middleware.AuthMiddleware(s.jwtService)
	api.Get("/", s.GetCollection, authMiddleware)
	api.Put("/", s.UpdateCollection, authMiddleware)
	api.Delete("/:cardId", s.RemoveFromCollection, authMiddleware)
}
