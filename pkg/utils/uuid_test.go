package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInvoiceNo(t *testing.T) {
	id := uuid.MustParse("0a1b2c3d-4e5f-4a6b-8c7d-8e9f0a1b2c3d")
	at := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)

	assert.Equal(t, "INV-20240309140506-0A1B2C3D", GenerateInvoiceNo(id, at))
}

func TestLineItemIDIsStable(t *testing.T) {
	invoice := uuid.New()

	assert.Equal(t, LineItemID(invoice, 0), LineItemID(invoice, 0))
	assert.NotEqual(t, LineItemID(invoice, 0), LineItemID(invoice, 1))
	assert.NotEqual(t, LineItemID(invoice, 0), LineItemID(uuid.New(), 0))
}

func TestSessionTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	userID := uuid.New()

	token, expiresAt, err := m.GenerateAccessToken(userID, "till@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "till@example.com", claims.Email)

	_, err = NewJWTManager("other", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)
	token, _, err := m.GenerateAccessToken(uuid.New(), "a@b.c")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}
