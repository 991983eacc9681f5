package chat

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/ddanilovv/poketrade-api/internal/models"
)

// Размер буфера исходящих событий одного подписчика. Подписчик, не
// успевающий вычитывать буфер, пропускает события: доставка best-effort,
// источником истины остаётся GET /messages.
const subscriberBufferSize = 16

// Subscriber представляет одно живое SSE-соединение, подписанное на чат
// предложения обмена
type Subscriber struct {
	ch chan []byte
}

// Events возвращает канал готовых SSE-кадров
func (s *Subscriber) Events() <-chan []byte {
	return s.ch
}

// Broker — процессный реестр живых подписок: offerID -> множество
// подписчиков. Broker строго локален по отношению к процессу; при
// горизонтальном масштабировании подписчики разных инстансов друг друга
// не видят, для этого нужен внешний pub/sub.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[*Subscriber]struct{}
}

// NewBroker создает новый экземпляр Broker. Создаётся один раз на
// процесс и передаётся в ChatService.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[uuid.UUID]map[*Subscriber]struct{}),
	}
}

// Subscribe регистрирует подписку на чат предложения и возвращает
// функцию отписки. Отписку обязан вызвать владелец соединения на любом
// пути завершения, иначе реестр удержит мёртвый хендл.
func (b *Broker) Subscribe(offerID uuid.UUID) (*Subscriber, func()) {
	sub := &Subscriber{ch: make(chan []byte, subscriberBufferSize)}

	b.mu.Lock()
	set, exists := b.subscribers[offerID]
	if !exists {
		set = make(map[*Subscriber]struct{})
		b.subscribers[offerID] = set
	}
	set[sub] = struct{}{}
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		if set, ok := b.subscribers[offerID]; ok {
			delete(set, sub)
			// Пустое множество убираем, чтобы реестр не рос от чатов,
			// которые больше никто не смотрит
			if len(set) == 0 {
				delete(b.subscribers, offerID)
			}
		}
		b.mu.Unlock()
	}

	return sub, unsubscribe
}

// Publish рассылает сообщение всем текущим подписчикам предложения.
// Кадр рендерится один раз на публикацию. Отправка неблокирующая:
// переполненный буфер подписчика просто пропускает событие, ошибка
// одного хендла не мешает остальным и не влияет на сохранённую запись.
func (b *Broker) Publish(offerID uuid.UUID, message *models.Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	set, exists := b.subscribers[offerID]
	if !exists || len(set) == 0 {
		return
	}

	frame, err := renderEvent(message)
	if err != nil {
		log.Printf("Ошибка рендеринга SSE события: %v", err)
		return
	}

	for sub := range set {
		select {
		case sub.ch <- frame:
		default:
			// Подписчик не успевает — пропускаем без ретраев
		}
	}
}

// renderEvent собирает SSE-кадр сообщения. Строка id несёт id
// сообщения, по нему клиент дедуплицирует события против истории.
func renderEvent(message *models.Message) ([]byte, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return nil, err
	}
	frame := fmt.Sprintf("id: %s\nevent: message\ndata: %s\n\n", message.ID, data)
	return []byte(frame), nil
}
