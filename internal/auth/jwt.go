package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	jwtSecretKey    = []byte(os.Getenv("JWT_SECRET"))
)

// Token purposes. A token minted for one purpose never verifies as another.
const (
	PurposeSession       = "session"
	PurposePasswordReset = "password_reset"
)

const (
	SessionTTL       = 24 * time.Hour
	PasswordResetTTL = time.Hour
)

type Claims struct {
	Subject string `json:"sub_value"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// SetSecret overrides the signing key loaded from the environment.
func SetSecret(secret string) {
	if secret != "" {
		jwtSecretKey = []byte(secret)
	}
}

// GenerateToken signs a token binding subject to purpose for ttl.
func GenerateToken(subject, purpose string, ttl time.Duration) (string, error) {
	claims := Claims{
		Subject: subject,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "goboard",
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecretKey)
}

// GenerateSessionToken signs a session token for a user id.
func GenerateSessionToken(userID uuid.UUID) (string, error) {
	return GenerateToken(userID.String(), PurposeSession, SessionTTL)
}

// GeneratePasswordResetToken signs a reset token embedding the user's email.
func GeneratePasswordResetToken(email string) (string, error) {
	return GenerateToken(email, PurposePasswordReset, PasswordResetTTL)
}

// VerifyToken checks signature, expiry and purpose and returns the claims.
// A token minted for a different purpose fails as invalid, not expired.
func VerifyToken(tokenString, purpose string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
