package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTService отвечает за создание и валидацию JWT токенов
type JWTService struct {
	secretKey string
}

// AuthClaims — полезная нагрузка токена, используемая middleware
type AuthClaims struct {
	UserID        uuid.UUID
	Role          string
	IsBlacklisted bool
}

// NewJWTService создаёт новый экземпляр JWTService
func NewJWTService(secretKey string) *JWTService {
	return &JWTService{secretKey: secretKey}
}

// GenerateToken создаёт JWT токен со сроком действия 24 часа
func (s *JWTService) GenerateToken(userID uuid.UUID, role string, isBlacklisted bool) (string, error) {
	claims := jwt.MapClaims{
		"id":             userID.String(),
		"role":           role,
		"is_blacklisted": isBlacklisted,
		"exp":            time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// ParseClaims проверяет токен и извлекает полезную нагрузку
func (s *JWTService) ParseClaims(tokenString string) (*AuthClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("невалидный токен")
	}

	rawID, ok := claims["id"].(string)
	if !ok {
		return nil, fmt.Errorf("в токене отсутствует id пользователя")
	}

	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("неверный формат id пользователя: %w", err)
	}

	role, _ := claims["role"].(string)
	isBlacklisted, _ := claims["is_blacklisted"].(bool)

	return &AuthClaims{
		UserID:        userID,
		Role:          role,
		IsBlacklisted: isBlacklisted,
	}, nil
}
