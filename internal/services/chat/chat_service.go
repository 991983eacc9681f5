package chat

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ddanilovv/poketrade-api/internal/apperrors"
	"github.com/ddanilovv/poketrade-api/internal/config"
	"github.com/ddanilovv/poketrade-api/internal/db"
	"github.com/ddanilovv/poketrade-api/internal/models"
	"github.com/ddanilovv/poketrade-api/internal/utils"
)

// Интервал keep-alive комментариев в SSE-потоке. Помимо поддержания
// соединения, неудачная запись комментария — единственный способ
// заметить отвал клиента на простаивающем потоке.
const streamPingPeriod = 30 * time.Second

// ChatService представляет чат предложений обмена: сохранение сообщений
// и живую рассылку подписчикам
type ChatService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	broker     *Broker
}

// NewChatService создает новый экземпляр ChatService
func NewChatService(cfg *config.Config, broker *Broker) *ChatService {
	return &ChatService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		broker:     broker,
	}
}

// ensureAccess загружает предложение и проверяет право пользователя на
// его чат (см. authorizeAccess)
func ensureAccess(ctx context.Context, offerID, userID uuid.UUID) error {
	var offer models.TradeOffer
	err := db.Pool.QueryRow(ctx, `
        SELECT id, sender_id, receiver_id, status
        FROM trade_offers
        WHERE id = $1
    `, offerID).Scan(&offer.ID, &offer.SenderID, &offer.ReceiverID, &offer.Status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NotFound("Trade offer")
		}
		return apperrors.Internal("Failed to load trade offer", err)
	}

	return authorizeAccess(&offer, userID)
}

// SendMessage сохраняет сообщение и рассылает его живым подписчикам.
// Рассылка best-effort и не может провалить сохранённую запись.
func (s *ChatService) SendMessage(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	offerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperrors.Validation("Invalid trade offer id", nil)
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return apperrors.Validation("Invalid payload", nil)
	}
	if strings.TrimSpace(req.Content) == "" {
		return apperrors.Validation("Message content required", nil)
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if err := ensureAccess(ctx, offerID, userID); err != nil {
		return err
	}

	var msg models.Message
	err = db.Pool.QueryRow(ctx, `
        INSERT INTO messages (trade_offer_id, sender_id, content)
        VALUES ($1, $2, $3)
        RETURNING id, trade_offer_id, sender_id, content, created_at
    `, offerID, userID, req.Content).Scan(
		&msg.ID,
		&msg.TradeOfferID,
		&msg.SenderID,
		&msg.Content,
		&msg.CreatedAt,
	)
	if err != nil {
		log.Printf("Ошибка сохранения сообщения: %v", err)
		return apperrors.Internal("Failed to send message", err)
	}

	msg.Sender = getSenderSummary(ctx, userID)

	s.broker.Publish(offerID, &msg)

	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetMessages возвращает полную историю сообщений предложения в
// хронологическом порядке
func (s *ChatService) GetMessages(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	offerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperrors.Validation("Invalid trade offer id", nil)
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if err := ensureAccess(ctx, offerID, userID); err != nil {
		return err
	}

	rows, err := db.Pool.Query(ctx, `
        SELECT m.id, m.trade_offer_id, m.sender_id, m.content, m.created_at,
               u.id, u.name, u.poke_poke_id
        FROM messages m
        JOIN users u ON u.id = m.sender_id
        WHERE m.trade_offer_id = $1
        ORDER BY m.created_at ASC
    `, offerID)
	if err != nil {
		log.Printf("Ошибка запроса сообщений: %v", err)
		return apperrors.Internal("Failed to load messages", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var msg models.Message
		var sender models.UserSummary
		if err := rows.Scan(
			&msg.ID,
			&msg.TradeOfferID,
			&msg.SenderID,
			&msg.Content,
			&msg.CreatedAt,
			&sender.ID,
			&sender.Name,
			&sender.PokePokeID,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		msg.Sender = &sender
		messages = append(messages, msg)
	}

	return c.JSON(messages)
}

// StreamMessages отдаёт живой поток сообщений предложения как
// text/event-stream. Поток не заменяет GET /messages: события, ушедшие
// до подключения, через него не приходят — клиент сначала читает
// историю, потом подписывается и дедуплицирует по id события.
func (s *ChatService) StreamMessages(c fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	offerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperrors.Validation("Invalid trade offer id", nil)
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if err := ensureAccess(ctx, offerID, userID); err != nil {
		return err
	}

	sub, unsubscribe := s.broker.Subscribe(offerID)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	reqCtx := c.RequestCtx()
	reqCtx.SetBodyStreamWriter(func(w *bufio.Writer) {
		// Отписка на любом пути завершения потока
		defer unsubscribe()

		// Синтетический retry и комментарий при подключении
		fmt.Fprintf(w, "retry: 3000\n\n")
		fmt.Fprintf(w, ": connected\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		ticker := time.NewTicker(streamPingPeriod)
		defer ticker.Stop()

		for {
			select {
			case frame := <-sub.Events():
				if _, err := w.Write(frame); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := fmt.Fprintf(w, ": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-reqCtx.Done():
				return
			}
		}
	})

	return nil
}

// getSenderSummary получает краткую информацию об отправителе сообщения
func getSenderSummary(ctx context.Context, userID uuid.UUID) *models.UserSummary {
	var sender models.UserSummary
	err := db.Pool.QueryRow(ctx, `
        SELECT id, name, poke_poke_id FROM users WHERE id = $1
    `, userID).Scan(&sender.ID, &sender.Name, &sender.PokePokeID)
	if err != nil {
		log.Printf("Ошибка получения пользователя %s: %v", userID, err)
		return nil
	}
	return &sender
}
