package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/ddanilovv/poketrade-api/internal/apperrors"
	"github.com/ddanilovv/poketrade-api/internal/utils"
)

// AuthMiddleware создаёт middleware для проверки JWT.
// Токен принимается из заголовка Authorization (Bearer) или из
// query-параметра token — EventSource не умеет выставлять заголовки,
// поэтому SSE-поток передаёт токен в URL.
func AuthMiddleware(jwtService *utils.JWTService) fiber.Handler {
	return func(c fiber.Ctx) error {
		tokenString := ""

		authHeader := c.Get("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return apperrors.Unauthorized("Invalid authorization header format")
			}
			tokenString = parts[1]
		} else {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			return apperrors.Unauthorized("Missing authorization token")
		}

		claims, err := jwtService.ParseClaims(tokenString)
		if err != nil {
			return apperrors.Unauthorized("Invalid or expired token")
		}

		// Добавляем данные пользователя в контекст запроса
		c.Locals("userID", claims.UserID)
		c.Locals("userRole", claims.Role)
		c.Locals("isBlacklisted", claims.IsBlacklisted)

		return c.Next()
	}
}

// AdminMiddleware пропускает только администраторов.
// Должен стоять после AuthMiddleware.
func AdminMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		role, _ := c.Locals("userRole").(string)
		if role != "ADMIN" {
			return apperrors.Forbidden("Admin access required")
		}
		return c.Next()
	}
}

// BlacklistMiddleware блокирует действия заблокированных пользователей.
// Должен стоять после AuthMiddleware.
func BlacklistMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if blacklisted, _ := c.Locals("isBlacklisted").(bool); blacklisted {
			return apperrors.Forbidden("User is blacklisted")
		}
		return c.Next()
	}
}
