package search

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ddanilovv/poketrade-api/internal/middleware"
)

// SetupRoutes настраивает маршруты поиска
func (s *SearchService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/search")

	api.Use(middleware.AuthMiddleware(s.jwtService))

	api.Get("/", s.SearchUsersByCard)
}
