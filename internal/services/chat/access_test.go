package chat

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddanilovv/poketrade-api/internal/apperrors"
	"github.com/ddanilovv/poketrade-api/internal/models"
)

func TestAuthorizeAccess(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()

	directed := &models.TradeOffer{
		ID:         uuid.New(),
		SenderID:   sender,
		ReceiverID: receiver,
		Status:     models.StatusPending,
	}
	open := &models.TradeOffer{
		ID:         uuid.New(),
		SenderID:   sender,
		ReceiverID: sender,
		Status:     models.StatusPending,
	}

	tests := []struct {
		name      string
		offer     *models.TradeOffer
		user      uuid.UUID
		forbidden bool
	}{
		{name: "directed: sender allowed", offer: directed, user: sender},
		{name: "directed: receiver allowed", offer: directed, user: receiver},
		{name: "directed: stranger forbidden", offer: directed, user: uuid.New(), forbidden: true},
		{name: "open: author allowed", offer: open, user: sender},
		{name: "open: anyone allowed", offer: open, user: uuid.New()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authorizeAccess(tt.offer, tt.user)
			if !tt.forbidden {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, "FORBIDDEN"))
			assert.EqualError(t, err, "FORBIDDEN: You are not a participant of this trade")
		})
	}
}
