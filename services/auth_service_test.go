package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyPINIssuesResetToken(t *testing.T) {
	auth := NewAuthService("1234", "test-secret", NewFeedbackService())

	token, err := auth.VerifyPIN("1234")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	assert.NoError(t, auth.VerifyResetToken(token))
}

func TestVerifyPINRejectsWrongValue(t *testing.T) {
	auth := NewAuthService("1234", "test-secret", NewFeedbackService())

	_, err := auth.VerifyPIN("0000")
	assert.ErrorIs(t, err, ErrInvalidPIN)
}

func TestVerifyResetTokenRejectsGarbage(t *testing.T) {
	auth := NewAuthService("1234", "test-secret", NewFeedbackService())

	assert.Error(t, auth.VerifyResetToken(""))
	assert.Error(t, auth.VerifyResetToken("not.a.token"))
}

func TestVerifyResetTokenRejectsForeignSecret(t *testing.T) {
	issuer := NewAuthService("1234", "secret-one", NewFeedbackService())
	verifier := NewAuthService("1234", "secret-two", NewFeedbackService())

	token, err := issuer.VerifyPIN("1234")
	require.NoError(t, err)

	assert.Error(t, verifier.VerifyResetToken(token))
}
