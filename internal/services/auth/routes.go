package auth

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ddanilovv/poketrade-api/internal/middleware"
)

// SetupRoutes настраивает маршруты авторизации
func (s *AuthService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/auth")

	api.Post("/register", s.Register)
	api.Post("/login", s.Login)
	api.Post("/telegram", s.TelegramAuth)

	api.Get("/me", s.Me, middleware.AuthMiddleware(s.jwtService))
}
