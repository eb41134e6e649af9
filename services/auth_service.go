package services

import (
	"errors"

	"lifeline/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidPIN = errors.New("invalid PIN")

// AuthService is the authentication collaborator. A successful PIN
// verification yields a short-lived reset token; only that token can move the
// state machine out of EMERGENCY.
type AuthService struct {
	pinHash    []byte
	jwtService *utils.JWTService
	feedback   *FeedbackService
}

func NewAuthService(pin, jwtSecret string, feedback *FeedbackService) *AuthService {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		logrus.Fatalf("Failed to hash PIN: %v", err)
	}

	return &AuthService{
		pinHash:    hash,
		jwtService: utils.NewJWTService(jwtSecret),
		feedback:   feedback,
	}
}

// VerifyPIN checks the PIN and returns a reset token on success.
func (as *AuthService) VerifyPIN(pin string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(as.pinHash, []byte(pin)); err != nil {
		as.feedback.Signal(FeedbackError)
		return "", ErrInvalidPIN
	}

	as.feedback.Signal(FeedbackSuccess)
	return as.jwtService.GenerateResetToken()
}

// VerifyResetToken reports whether the token proves a recent successful
// authentication.
func (as *AuthService) VerifyResetToken(token string) error {
	return as.jwtService.ValidateResetToken(token)
}
