package main

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/ddanilovv/poketrade-api/internal/apperrors"
	"github.com/ddanilovv/poketrade-api/internal/config"
	"github.com/ddanilovv/poketrade-api/internal/db"
	"github.com/ddanilovv/poketrade-api/internal/services/auth"
	"github.com/ddanilovv/poketrade-api/internal/services/card"
	"github.com/ddanilovv/poketrade-api/internal/services/chat"
	"github.com/ddanilovv/poketrade-api/internal/services/pack"
	"github.com/ddanilovv/poketrade-api/internal/services/search"
	"github.com/ddanilovv/poketrade-api/internal/services/trade"
	"github.com/ddanilovv/poketrade-api/internal/services/upload"
	"github.com/ddanilovv/poketrade-api/internal/services/user"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем базу данных
	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer db.CloseDB()

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "PokeTrade API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Брокер рассылает сообщения чата всем подключённым SSE-клиентам
	broker := chat.NewBroker()

	// Создаём сервисы
	authService := auth.NewAuthService(cfg)
	packService := pack.NewPackService(cfg)
	cardService := card.NewCardService(cfg)
	searchService := search.NewSearchService(cfg)
	userService := user.NewUserService(cfg)
	tradeService := trade.NewTradeService(cfg)
	chatService := chat.NewChatService(cfg, broker)
	uploadService := upload.NewUploadService(cfg)

	// Регистрируем маршруты
	authService.SetupRoutes(app)
	packService.SetupRoutes(app)
	cardService.SetupRoutes(app)
	searchService.SetupRoutes(app)
	userService.SetupRoutes(app)
	tradeService.SetupRoutes(app)
	chatService.SetupRoutes(app)
	uploadService.SetupRoutes(app)

	app.Get("/api/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Запускаем сервер
	log.Printf("✅ PokeTrade API запущен на порту %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	// Доменные ошибки несут свой код и статус
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body := fiber.Map{
			"code":    appErr.Code,
			"message": appErr.Message,
		}
		if appErr.Details != nil {
			body["details"] = appErr.Details
		}
		return c.Status(appErr.Status).JSON(body)
	}

	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
