package user

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ddanilovv/poketrade-api/internal/middleware"
)

// SetupRoutes настраивает маршруты профилей
func (s *UserService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/users")

	api.Use(middleware.AuthMiddleware(s.jwtService))

	api.Get("/:id/profile", s.GetProfile)

	// Админские операции
	api.Patch("/:id/blacklist", s.SetBlacklist, middleware.AdminMiddleware())
}
