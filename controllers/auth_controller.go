package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"lifeline/models"
	"lifeline/services"
	"lifeline/utils"
)

type AuthController struct {
	auth      *services.AuthService
	validator *utils.ValidationService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{
		auth:      auth,
		validator: utils.NewValidationService(),
	}
}

// VerifyPIN exchanges a correct PIN for a short-lived reset token.
func (ac *AuthController) VerifyPIN(c *gin.Context) {
	var req models.VerifyPINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if validationErrors := ac.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	token, err := ac.auth.VerifyPIN(req.PIN)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPIN) {
			utils.UnauthorizedResponse(c, "Incorrect PIN")
			return
		}
		logrus.Errorf("PIN verification failed: %v", err)
		utils.InternalServerErrorResponse(c, "Failed to verify PIN")
		return
	}

	utils.SuccessResponse(c, "PIN verified", gin.H{"resetToken": token})
}
