package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTService issues and validates the short-lived reset tokens that gate the
// EMERGENCY to SAFE transition.
type JWTService struct {
	secretKey     []byte
	resetTokenTTL time.Duration
}

type ResetClaims struct {
	TokenType string `json:"tokenType"`
	jwt.RegisteredClaims
}

func NewJWTService(secretKey string) *JWTService {
	return &JWTService{
		secretKey:     []byte(secretKey),
		resetTokenTTL: 2 * time.Minute,
	}
}

// GenerateResetToken mints a token proving a successful PIN verification.
func (j *JWTService) GenerateResetToken() (string, error) {
	now := time.Now()

	claims := ResetClaims{
		TokenType: "reset",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.resetTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "lifeline",
			ID:        GenerateUUID(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// ValidateResetToken checks signature, expiry and token type.
func (j *JWTService) ValidateResetToken(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &ResetClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return j.secretKey, nil
	})
	if err != nil {
		return err
	}

	claims, ok := token.Claims.(*ResetClaims)
	if !ok || !token.Valid {
		return errors.New("invalid token")
	}
	if claims.TokenType != "reset" {
		return errors.New("invalid token type")
	}

	return nil
}
