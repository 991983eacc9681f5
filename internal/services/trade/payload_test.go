package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddanilovv/poketrade-api/internal/apperrors"
	"github.com/ddanilovv/poketrade-api/internal/models"
)

func TestDetectShape(t *testing.T) {
	t.Run("explicit items", func(t *testing.T) {
		shape, err := detectShape(&createOfferRequest{
			Items: []offerItemPayload{{CardID: uuid.NewString(), Type: models.ItemGiven, Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, payloadShapeItems, shape)
	})

	t.Run("named card lists", func(t *testing.T) {
		shape, err := detectShape(&createOfferRequest{
			WantedCards: []namedCardPayload{{CardName: "ピカチュウex", Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, payloadShapeNamed, shape)

		shape, err = detectShape(&createOfferRequest{
			OfferedCards: []namedCardPayload{{CardName: "イーブイ", Quantity: 2}},
		})
		require.NoError(t, err)
		assert.Equal(t, payloadShapeNamed, shape)
	})

	t.Run("mixed shapes rejected", func(t *testing.T) {
		_, err := detectShape(&createOfferRequest{
			Items:       []offerItemPayload{{CardID: uuid.NewString(), Type: models.ItemGiven, Quantity: 1}},
			WantedCards: []namedCardPayload{{CardName: "ピカチュウex", Quantity: 1}},
		})
		assert.True(t, apperrors.Is(err, "VALIDATION_ERROR"))
	})

	t.Run("empty body rejected", func(t *testing.T) {
		_, err := detectShape(&createOfferRequest{})
		assert.True(t, apperrors.Is(err, "VALIDATION_ERROR"))
	})
}

func TestExplicitItems(t *testing.T) {
	cardID := uuid.New()

	t.Run("valid items", func(t *testing.T) {
		items, err := explicitItems([]offerItemPayload{
			{CardID: cardID.String(), Type: models.ItemWanted, Quantity: 1},
			{CardID: cardID.String(), Type: models.ItemGiven, Quantity: 3},
		})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, cardID, items[0].CardID)
		assert.Equal(t, models.ItemWanted, items[0].Type)
		assert.Equal(t, 3, items[1].Quantity)
	})

	t.Run("invalid card id", func(t *testing.T) {
		_, err := explicitItems([]offerItemPayload{
			{CardID: "not-a-uuid", Type: models.ItemGiven, Quantity: 1},
		})
		assert.True(t, apperrors.Is(err, "VALIDATION_ERROR"))
	})

	t.Run("unknown item type", func(t *testing.T) {
		_, err := explicitItems([]offerItemPayload{
			{CardID: cardID.String(), Type: "offered", Quantity: 1},
		})
		assert.True(t, apperrors.Is(err, "VALIDATION_ERROR"))
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		_, err := explicitItems([]offerItemPayload{
			{CardID: cardID.String(), Type: models.ItemGiven, Quantity: 0},
		})
		assert.True(t, apperrors.Is(err, "VALIDATION_ERROR"))
	})
}
