package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	SetSecret("test-signing-secret")
}

func TestSessionTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateSessionToken(userID)
	require.NoError(t, err)

	claims, err := VerifyToken(token, PurposeSession)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, PurposeSession, claims.Purpose)
	assert.NotEmpty(t, claims.ID)
}

func TestPasswordResetTokenRoundTrip(t *testing.T) {
	token, err := GeneratePasswordResetToken("user@example.com")
	require.NoError(t, err)

	claims, err := VerifyToken(token, PurposePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Subject)
}

func TestVerifyTokenRejectsWrongPurpose(t *testing.T) {
	token, err := GenerateSessionToken(uuid.New())
	require.NoError(t, err)

	_, err = VerifyToken(token, PurposePasswordReset)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("someone", PurposeSession, -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(token, PurposeSession)
	assert.Equal(t, ErrExpiredToken, err)
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	token, err := GenerateSessionToken(uuid.New())
	require.NoError(t, err)

	tampered := token[:len(token)-1]
	if token[len(token)-1] == 'A' {
		tampered += "B"
	} else {
		tampered += "A"
	}

	_, err = VerifyToken(tampered, PurposeSession)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestVerifyTokenRejectsEmptyAndGarbage(t *testing.T) {
	_, err := VerifyToken("", PurposeSession)
	assert.Equal(t, ErrInvalidToken, err)

	_, err = VerifyToken("not.a.jwt", PurposeSession)
	assert.Equal(t, ErrInvalidToken, err)
}
