package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"lifeline/models"
	"lifeline/services"
	"lifeline/utils"
)

type ContactController struct {
	guardian *services.GuardianService
}

func NewContactController(guardian *services.GuardianService) *ContactController {
	return &ContactController{
		guardian: guardian,
	}
}

// GetContacts lists all emergency contacts.
func (cc *ContactController) GetContacts(c *gin.Context) {
	utils.SuccessResponse(c, "Contacts retrieved successfully", cc.guardian.Contacts())
}

// CreateContact adds a new emergency contact.
func (cc *ContactController) CreateContact(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	contact, validationErrors, err := cc.guardian.AddContact(req)
	if len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}
	if err != nil {
		logrus.Errorf("Create contact failed: %v", err)
		utils.InternalServerErrorResponse(c, "Failed to create contact")
		return
	}

	utils.CreatedResponse(c, "Contact created successfully", contact)
}

// UpdateContact replaces an existing contact.
func (cc *ContactController) UpdateContact(c *gin.Context) {
	contactID := c.Param("contactId")

	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	contact, validationErrors, err := cc.guardian.UpdateContact(contactID, req)
	if len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}
	if err != nil {
		if errors.Is(err, services.ErrContactNotFound) {
			utils.NotFoundResponse(c, "Contact")
			return
		}
		logrus.Errorf("Update contact failed: %v", err)
		utils.InternalServerErrorResponse(c, "Failed to update contact")
		return
	}

	utils.SuccessResponse(c, "Contact updated successfully", contact)
}

// DeleteContact removes a contact.
func (cc *ContactController) DeleteContact(c *gin.Context) {
	contactID := c.Param("contactId")

	if err := cc.guardian.DeleteContact(contactID); err != nil {
		if errors.Is(err, services.ErrContactNotFound) {
			utils.NotFoundResponse(c, "Contact")
			return
		}
		logrus.Errorf("Delete contact failed: %v", err)
		utils.InternalServerErrorResponse(c, "Failed to delete contact")
		return
	}

	utils.SuccessResponse(c, "Contact deleted successfully", nil)
}
