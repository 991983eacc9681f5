package trade

import (
	"github.com/gofiber/fiber/v3"

	"github.com/ddanilovv/poketrade-api/internal/middleware"
)

// SetupRoutes настраивает маршруты предложений обмена
func (s *TradeService) SetupRoutes(app *fiber.App) {
	authMiddleware := middleware.AuthMiddleware(s.jwtService)

	api := app.Group("/api/trade-offers")
	api.Use(authMiddleware)

	// Заблокированные пользователи не могут создавать предложения
	api.Post("/", s.CreateTradeOffer, middleware.BlacklistMiddleware())
	api.Get("/", s.GetTradeOffers)
	api.Get("/:id", s.GetTradeOfferByID)
	api.Patch("/:id/status", s.UpdateTradeStatus)

	// Предложения на странице профиля пользователя
	app.Get("/api/users/:id/trade-offers", s.GetUserTradeOffers, authMiddleware)
}
