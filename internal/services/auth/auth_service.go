package auth

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	initdata "github.com/telegram-mini-apps/init-data-golang"
	"golang.org/x/crypto/bcrypt"

	"github.com/ddanilovv/poketrade-api/internal/apperrors"
	"github.com/ddanilovv/poketrade-api/internal/config"
	"github.com/ddanilovv/poketrade-api/internal/db"
	"github.com/ddanilovv/poketrade-api/internal/models"
	"github.com/ddanilovv/poketrade-api/internal/utils"
)

var validate = validator.New()

// AuthService – структура для обработки авторизации
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewAuthService – конструктор AuthService
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetJWTService возвращает JWT сервис для middleware
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

type registerRequest struct {
	PokePokeID string `json:"pokePokeId" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type loginRequest struct {
	PokePokeID string `json:"pokePokeId" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// Register регистрирует пользователя по платформенному идентификатору
func (s *AuthService) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperrors.Validation("Invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return apperrors.FromValidationErrors(err)
	}

	if !utils.IsValidPokePokeID(req.PokePokeID) {
		return apperrors.InvalidOperation("Invalid PokePoke ID format")
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем, что идентификатор ещё не занят
	var existingID uuid.UUID
	err := db.Pool.QueryRow(ctx, `
        SELECT id FROM users WHERE poke_poke_id = $1
    `, req.PokePokeID).Scan(&existingID)
	if err == nil {
		return apperrors.InvalidOperation("User already exists")
	}
	if err != pgx.ErrNoRows {
		log.Printf("Ошибка проверки существования пользователя: %v", err)
		return apperrors.Internal("Failed to register user", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("Failed to register user", err)
	}

	var user models.User
	err = db.Pool.QueryRow(ctx, `
        INSERT INTO users (poke_poke_id, name, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, poke_poke_id, name, role, is_blacklisted, created_at, updated_at
    `, req.PokePokeID, req.Name, string(passwordHash)).Scan(
		&user.ID,
		&user.PokePokeID,
		&user.Name,
		&user.Role,
		&user.IsBlacklisted,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		log.Printf("Ошибка создания пользователя: %v", err)
		return apperrors.Internal("Failed to register user", err)
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Role, user.IsBlacklisted)
	if err != nil {
		return apperrors.Internal("Failed to generate token", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":         user.ID,
			"pokePokeId": user.PokePokeID,
			"name":       user.Name,
			"role":       user.Role,
		},
	})
}

// Login выполняет вход по платформенному идентификатору и паролю
func (s *AuthService) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperrors.Validation("Invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return apperrors.FromValidationErrors(err)
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var user models.User
	var passwordHash *string
	err := db.Pool.QueryRow(ctx, `
        SELECT id, poke_poke_id, name, password_hash, role, is_blacklisted, created_at, updated_at
        FROM users
        WHERE poke_poke_id = $1
    `, req.PokePokeID).Scan(
		&user.ID,
		&user.PokePokeID,
		&user.Name,
		&passwordHash,
		&user.Role,
		&user.IsBlacklisted,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		// Не различаем "нет пользователя" и "неверный пароль"
		return apperrors.Unauthorized("Invalid credentials")
	}

	// У аккаунтов, созданных через Telegram, пароль может отсутствовать
	if passwordHash == nil {
		return apperrors.Unauthorized("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*passwordHash), []byte(req.Password)); err != nil {
		return apperrors.Unauthorized("Invalid credentials")
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Role, user.IsBlacklisted)
	if err != nil {
		return apperrors.Internal("Failed to generate token", err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":         user.ID,
			"pokePokeId": user.PokePokeID,
			"name":       user.Name,
			"role":       user.Role,
		},
	})
}

// Me возвращает профиль текущего пользователя
func (s *AuthService) Me(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	ctx, cancel := db.GetContext()
	defer cancel()

	var user models.User
	var avatarURL *string
	err := db.Pool.QueryRow(ctx, `
        SELECT id, poke_poke_id, name, role, is_blacklisted, avatar_url, created_at, updated_at
        FROM users
        WHERE id = $1
    `, userID).Scan(
		&user.ID,
		&user.PokePokeID,
		&user.Name,
		&user.Role,
		&user.IsBlacklisted,
		&avatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NotFound("User")
		}
		log.Printf("Ошибка запроса пользователя: %v", err)
		return apperrors.Internal("Failed to load user", err)
	}
	if avatarURL != nil {
		user.AvatarURL = *avatarURL
	}

	return c.JSON(user)
}

// TelegramAuth проверяет initData Telegram Mini App, создаёт или находит
// привязанного пользователя и возвращает JWT
func (s *AuthService) TelegramAuth(c fiber.Ctx) error {
	if s.cfg.TelegramBotToken == "" {
		return apperrors.InvalidOperation("Telegram login is not configured")
	}

	var payload struct {
		InitData string `json:"init_data" validate:"required"`
	}
	if err := c.Bind().Body(&payload); err != nil {
		return apperrors.Validation("Invalid payload", nil)
	}
	if err := validate.Struct(payload); err != nil {
		return apperrors.FromValidationErrors(err)
	}

	// Проверяем подпись initData
	expiration := 24 * time.Hour
	if err := initdata.Validate(payload.InitData, s.cfg.TelegramBotToken, expiration); err != nil {
		return apperrors.Unauthorized("Invalid Telegram data")
	}

	data, err := initdata.Parse(payload.InitData)
	if err != nil {
		return apperrors.Validation("Failed to parse initData", nil)
	}

	user, err := s.findOrCreateTelegramUser(data.User.ID, data.User.Username,
		data.User.FirstName, data.User.LastName, data.User.PhotoURL)
	if err != nil {
		log.Printf("Ошибка авторизации через Telegram: %v", err)
		return apperrors.Internal("Telegram login failed", err)
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Role, user.IsBlacklisted)
	if err != nil {
		return apperrors.Internal("Failed to generate token", err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":         user.ID,
			"pokePokeId": user.PokePokeID,
			"name":       user.Name,
			"role":       user.Role,
		},
	})
}

// findOrCreateTelegramUser находит пользователя по telegram_id или
// создаёт нового со сгенерированным платформенным идентификатором
func (s *AuthService) findOrCreateTelegramUser(telegramID int64, username, firstName, lastName, photoURL string) (*models.User, error) {
	ctx, cancel := db.GetContext()
	defer cancel()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var userID uuid.UUID
	err = tx.QueryRow(ctx, `
        SELECT user_id FROM telegram_users WHERE telegram_id = $1
    `, telegramID).Scan(&userID)

	if err == pgx.ErrNoRows {
		// Первый вход: создаём пользователя и привязку
		pokePokeID, genErr := utils.GeneratePokePokeID()
		if genErr != nil {
			return nil, genErr
		}

		name := firstName
		if lastName != "" {
			name = firstName + " " + lastName
		}
		if name == "" {
			name = username
		}

		err = tx.QueryRow(ctx, `
            INSERT INTO users (poke_poke_id, name, avatar_url)
            VALUES ($1, $2, NULLIF($3, ''))
            RETURNING id
        `, pokePokeID, name, photoURL).Scan(&userID)
		if err != nil {
			return nil, err
		}

		_, err = tx.Exec(ctx, `
            INSERT INTO telegram_users (user_id, telegram_id, username, first_name, last_name, photo_url)
            VALUES ($1, $2, $3, $4, $5, $6)
        `, userID, telegramID, username, firstName, lastName, photoURL)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	} else {
		// Повторный вход: обновляем данные Telegram профиля
		_, err = tx.Exec(ctx, `
            UPDATE telegram_users
            SET username = $1, first_name = $2, last_name = $3, photo_url = $4, updated_at = NOW()
            WHERE telegram_id = $5
        `, username, firstName, lastName, photoURL, telegramID)
		if err != nil {
			return nil, err
		}
	}

	var user models.User
	err = tx.QueryRow(ctx, `
        SELECT id, poke_poke_id, name, role, is_blacklisted, created_at, updated_at
        FROM users
        WHERE id = $1
    `, userID).Scan(
		&user.ID,
		&user.PokePokeID,
		&user.Name,
		&user.Role,
		&user.IsBlacklisted,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &user, nil
}
