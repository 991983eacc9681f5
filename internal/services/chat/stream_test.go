package chat

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddanilovv/poketrade-api/internal/models"
)

func testMessage(offerID uuid.UUID, content string) *models.Message {
	return &models.Message{
		ID:           uuid.New(),
		TradeOfferID: offerID,
		SenderID:     uuid.New(),
		Content:      content,
		CreatedAt:    time.Now(),
	}
}

func receiveFrame(t *testing.T, sub *Subscriber) []byte {
	t.Helper()
	select {
	case frame := <-sub.Events():
		return frame
	case <-time.After(time.Second):
		t.Fatal("не дождались события от брокера")
		return nil
	}
}

func TestBrokerPublishDeliversToSubscribers(t *testing.T) {
	broker := NewBroker()
	offerID := uuid.New()

	sub1, unsub1 := broker.Subscribe(offerID)
	defer unsub1()
	sub2, unsub2 := broker.Subscribe(offerID)
	defer unsub2()

	msg := testMessage(offerID, "привет")
	broker.Publish(offerID, msg)

	frame1 := receiveFrame(t, sub1)
	frame2 := receiveFrame(t, sub2)

	// Кадр рендерится один раз и рассылается всем
	assert.Equal(t, frame1, frame2)
	assert.Contains(t, string(frame1), fmt.Sprintf("id: %s\n", msg.ID))
	assert.Contains(t, string(frame1), "event: message\n")
	assert.Contains(t, string(frame1), `"content":"привет"`)
	assert.True(t, string(frame1)[len(frame1)-2:] == "\n\n", "кадр должен завершаться пустой строкой")
}

func TestBrokerScopesByOffer(t *testing.T) {
	broker := NewBroker()
	offerA := uuid.New()
	offerB := uuid.New()

	subA, unsubA := broker.Subscribe(offerA)
	defer unsubA()
	subB, unsubB := broker.Subscribe(offerB)
	defer unsubB()

	broker.Publish(offerA, testMessage(offerA, "только для A"))

	receiveFrame(t, subA)

	select {
	case <-subB.Events():
		t.Fatal("сообщение чужого предложения не должно приходить")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBrokerPublishWithoutSubscribers(t *testing.T) {
	broker := NewBroker()

	// Не должно паниковать и блокироваться
	broker.Publish(uuid.New(), testMessage(uuid.New(), "в пустоту"))
}

func TestBrokerUnsubscribe(t *testing.T) {
	broker := NewBroker()
	offerID := uuid.New()

	sub, unsubscribe := broker.Subscribe(offerID)
	unsubscribe()
	// Повторный вызов безопасен
	unsubscribe()

	broker.Publish(offerID, testMessage(offerID, "после отписки"))

	select {
	case <-sub.Events():
		t.Fatal("после отписки события приходить не должны")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBrokerSkipsSlowSubscriber(t *testing.T) {
	broker := NewBroker()
	offerID := uuid.New()

	slow, unsubSlow := broker.Subscribe(offerID)
	defer unsubSlow()
	fast, unsubFast := broker.Subscribe(offerID)
	defer unsubFast()

	// Переполняем буфер медленного подписчика
	for i := 0; i < subscriberBufferSize+5; i++ {
		broker.Publish(offerID, testMessage(offerID, fmt.Sprintf("msg %d", i)))
	}

	// Быстрый подписчик продолжает получать события после дренажа
	for i := 0; i < subscriberBufferSize; i++ {
		receiveFrame(t, fast)
	}
	for len(fast.Events()) > 0 {
		<-fast.Events()
	}
	for len(slow.Events()) > 0 {
		<-slow.Events()
	}

	broker.Publish(offerID, testMessage(offerID, "после затора"))
	frame := receiveFrame(t, fast)
	require.Contains(t, string(frame), "после затора")
}
