package chat

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ddanilovv/poketrade-api/internal/middleware"
)

// SetupRoutes настраивает маршруты чата предложений обмена
func (s *ChatService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/trade-offers/:id/messages")

	api.Use(middleware.AuthMiddleware(s.jwtService))

	api.Post("/", s.SendMessage)
	api.Get("/", s.GetMessages)
	api.Get("/stream", s.StreamMessages)
}
