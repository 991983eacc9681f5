package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddanilovv/poketrade-api/internal/apperrors"
	"github.com/ddanilovv/poketrade-api/internal/models"
)

func pendingOffer(sender, receiver uuid.UUID) *models.TradeOffer {
	return &models.TradeOffer{
		ID:         uuid.New(),
		SenderID:   sender,
		ReceiverID: receiver,
		Status:     models.StatusPending,
	}
}

func TestAuthorizeStatusChange(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()
	stranger := uuid.New()

	tests := []struct {
		name     string
		offer    *models.TradeOffer
		actor    uuid.UUID
		target   string
		wantCode string
	}{
		{
			name:   "receiver accepts",
			offer:  pendingOffer(sender, receiver),
			actor:  receiver,
			target: models.StatusAccepted,
		},
		{
			name:   "receiver rejects",
			offer:  pendingOffer(sender, receiver),
			actor:  receiver,
			target: models.StatusRejected,
		},
		{
			name:     "sender cannot accept",
			offer:    pendingOffer(sender, receiver),
			actor:    sender,
			target:   models.StatusAccepted,
			wantCode: "FORBIDDEN",
		},
		{
			name:     "stranger cannot reject",
			offer:    pendingOffer(sender, receiver),
			actor:    stranger,
			target:   models.StatusRejected,
			wantCode: "FORBIDDEN",
		},
		{
			name:   "sender cancels",
			offer:  pendingOffer(sender, receiver),
			actor:  sender,
			target: models.StatusCanceled,
		},
		{
			name:   "receiver cancels",
			offer:  pendingOffer(sender, receiver),
			actor:  receiver,
			target: models.StatusCanceled,
		},
		{
			name:     "stranger cannot cancel",
			offer:    pendingOffer(sender, receiver),
			actor:    stranger,
			target:   models.StatusCanceled,
			wantCode: "FORBIDDEN",
		},
		{
			name:     "unknown target status",
			offer:    pendingOffer(sender, receiver),
			actor:    receiver,
			target:   "DONE",
			wantCode: "INVALID_OPERATION",
		},
		{
			name:     "pending is not a valid target",
			offer:    pendingOffer(sender, receiver),
			actor:    receiver,
			target:   models.StatusPending,
			wantCode: "INVALID_OPERATION",
		},
		{
			name: "accepted offer is terminal",
			offer: &models.TradeOffer{
				SenderID:   sender,
				ReceiverID: receiver,
				Status:     models.StatusAccepted,
			},
			actor:    receiver,
			target:   models.StatusRejected,
			wantCode: "ALREADY_FINALIZED",
		},
		{
			name: "canceled offer is terminal",
			offer: &models.TradeOffer{
				SenderID:   sender,
				ReceiverID: receiver,
				Status:     models.StatusCanceled,
			},
			actor:    sender,
			target:   models.StatusCanceled,
			wantCode: "ALREADY_FINALIZED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeStatusChange(tt.offer, tt.actor, tt.target)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.wantCode), "ожидался код %s, получено %v", tt.wantCode, err)
		})
	}
}

func TestAuthorizeStatusChangeOpenOffer(t *testing.T) {
	// Открытое предложение: receiver_id = sender_id, отменять может
	// только сам автор
	sender := uuid.New()
	offer := pendingOffer(sender, sender)

	assert.NoError(t, AuthorizeStatusChange(offer, sender, models.StatusCanceled))

	err := AuthorizeStatusChange(offer, uuid.New(), models.StatusCanceled)
	assert.True(t, apperrors.Is(err, "FORBIDDEN"))
}

func TestNormalizeTarget(t *testing.T) {
	assert.Equal(t, "ACCEPTED", NormalizeTarget("accepted"))
	assert.Equal(t, "CANCELED", NormalizeTarget("  Canceled  "))
	assert.Equal(t, "REJECTED", NormalizeTarget("REJECTED"))
	assert.Equal(t, "", NormalizeTarget("   "))
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, "active", NormalizeStatus(models.StatusPending))
	assert.Equal(t, "closed", NormalizeStatus(models.StatusAccepted))
	assert.Equal(t, "closed", NormalizeStatus(models.StatusRejected))
	assert.Equal(t, "closed", NormalizeStatus(models.StatusCanceled))
}

func TestNormalizePage(t *testing.T) {
	page, size := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)

	page, size = NormalizePage(-5, -1)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)

	page, size = NormalizePage(3, 50)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, size)
}

func TestVerifyOwnership(t *testing.T) {
	cardA := uuid.New()
	cardB := uuid.New()

	t.Run("wanted-only offer skips the check", func(t *testing.T) {
		items := []offerItemInput{{CardID: cardA, Type: models.ItemWanted, Quantity: 3}}
		assert.False(t, ownershipRequired(items))
		assert.NoError(t, verifyOwnership(nil, false, items))
	})

	t.Run("no collection", func(t *testing.T) {
		items := []offerItemInput{{CardID: cardA, Type: models.ItemGiven, Quantity: 1}}
		err := verifyOwnership(nil, false, items)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, "INSUFFICIENT_OWNERSHIP"))
		assert.EqualError(t, err, "INSUFFICIENT_OWNERSHIP: Sender has no collection")
	})

	t.Run("offering more than owned", func(t *testing.T) {
		owned := map[uuid.UUID]int{cardA: 2}
		items := []offerItemInput{{CardID: cardA, Type: models.ItemGiven, Quantity: 3}}
		err := verifyOwnership(owned, true, items)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, "INSUFFICIENT_OWNERSHIP"))
		assert.Contains(t, err.Error(), cardA.String())
	})

	t.Run("card absent from collection", func(t *testing.T) {
		owned := map[uuid.UUID]int{cardA: 2}
		items := []offerItemInput{{CardID: cardB, Type: models.ItemGiven, Quantity: 1}}
		err := verifyOwnership(owned, true, items)
		assert.True(t, apperrors.Is(err, "INSUFFICIENT_OWNERSHIP"))
	})

	t.Run("exact quantity passes", func(t *testing.T) {
		owned := map[uuid.UUID]int{cardA: 2}
		items := []offerItemInput{
			{CardID: cardA, Type: models.ItemGiven, Quantity: 2},
			{CardID: cardB, Type: models.ItemWanted, Quantity: 5},
		}
		assert.NoError(t, verifyOwnership(owned, true, items))
	})
}

func TestCanViewMessages(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()

	directed := pendingOffer(sender, receiver)
	assert.True(t, canViewMessages(directed, sender))
	assert.True(t, canViewMessages(directed, receiver))
	assert.False(t, canViewMessages(directed, uuid.New()))

	open := pendingOffer(sender, sender)
	assert.True(t, canViewMessages(open, uuid.New()))
}

func TestNormalizeCardFilter(t *testing.T) {
	assert.Equal(t, "ピカチュウ", NormalizeCardFilter("  ピカチュウ  "))
	assert.Equal(t, "", NormalizeCardFilter("   "))
	assert.Equal(t, "", NormalizeCardFilter(""))
}

func TestEscapeLikePattern(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLikePattern(`100%`))
	assert.Equal(t, `a\_b`, escapeLikePattern(`a_b`))
	assert.Equal(t, `c\\d`, escapeLikePattern(`c\d`))
	assert.Equal(t, `\\\%\_`, escapeLikePattern(`\%_`))
	assert.Equal(t, "ピカチュウ", escapeLikePattern("ピカチュウ"))
}

func TestToResponseCardTypes(t *testing.T) {
	offer := pendingOffer(uuid.New(), uuid.New())
	offer.Items = []models.TradeOfferItem{
		{ID: uuid.New(), TradeOfferID: offer.ID, CardName: "ピカチュウex", Type: models.ItemWanted, Quantity: 1},
		{ID: uuid.New(), TradeOfferID: offer.ID, CardName: "イーブイ", Type: models.ItemGiven, Quantity: 2},
	}

	resp := toResponse(offer)

	require.Len(t, resp.Cards, 2)
	assert.Equal(t, "wanted", resp.Cards[0].CardType)
	assert.Equal(t, "offered", resp.Cards[1].CardType)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, offer.SenderID, resp.UserID)
}
