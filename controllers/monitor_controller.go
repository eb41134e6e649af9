package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"lifeline/models"
	"lifeline/services"
	"lifeline/utils"
)

type MonitorController struct {
	guardian *services.GuardianService
	log      *services.ActivityLog
	dispatch *services.DispatchService
}

func NewMonitorController(guardian *services.GuardianService, log *services.ActivityLog, dispatch *services.DispatchService) *MonitorController {
	return &MonitorController{
		guardian: guardian,
		log:      log,
		dispatch: dispatch,
	}
}

// =================== INTENTS ===================

// CheckIn confirms the user is safe and re-arms the check-in deadline.
func (mc *MonitorController) CheckIn(c *gin.Context) {
	if err := mc.guardian.CheckIn(); err != nil {
		if errors.Is(err, services.ErrAuthenticationRequired) {
			utils.ConflictResponse(c, "Emergency is active, PIN verification is required to reset")
			return
		}
		logrus.Errorf("Check-in failed: %v", err)
		utils.InternalServerErrorResponse(c, "Failed to check in")
		return
	}

	utils.SuccessResponse(c, "Check-in confirmed", mc.guardian.Snapshot())
}

// TriggerSOS immediately escalates to EMERGENCY.
func (mc *MonitorController) TriggerSOS(c *gin.Context) {
	mc.guardian.TriggerSOS()
	utils.SuccessResponse(c, "SOS triggered", mc.guardian.Snapshot())
}

// Reset clears an active emergency. Requires a reset token obtained through
// PIN verification.
func (mc *MonitorController) Reset(c *gin.Context) {
	var req models.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if err := mc.guardian.Reset(req.ResetToken); err != nil {
		if errors.Is(err, services.ErrAuthenticationRequired) {
			utils.UnauthorizedResponse(c, "Invalid or expired reset token")
			return
		}
		logrus.Errorf("Reset failed: %v", err)
		utils.InternalServerErrorResponse(c, "Failed to reset")
		return
	}

	utils.SuccessResponse(c, "User marked safe", mc.guardian.Snapshot())
}

// =================== READ MODELS ===================

// GetStatus returns the current state, deadlines and sensor snapshot.
func (mc *MonitorController) GetStatus(c *gin.Context) {
	utils.SuccessResponse(c, "Status retrieved successfully", mc.guardian.Snapshot())
}

// GetLogs returns activity log entries, newest first.
func (mc *MonitorController) GetLogs(c *gin.Context) {
	entries := mc.log.Entries()

	if limitParam := c.Query("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 1 {
			utils.BadRequestResponse(c, "Invalid limit parameter")
			return
		}
		if limit < len(entries) {
			entries = entries[:limit]
		}
	}

	utils.SuccessResponse(c, "Activity log retrieved successfully", entries)
}

// GetDispatches returns dispatch attempts, newest first.
func (mc *MonitorController) GetDispatches(c *gin.Context) {
	utils.SuccessResponse(c, "Dispatch attempts retrieved successfully", mc.dispatch.Attempts())
}

// =================== SETTINGS ===================

// GetSettings returns the current protocol settings.
func (mc *MonitorController) GetSettings(c *gin.Context) {
	utils.SuccessResponse(c, "Settings retrieved successfully", mc.guardian.Settings())
}

// UpdateSettings applies a partial settings update.
func (mc *MonitorController) UpdateSettings(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	settings, validationErrors := mc.guardian.UpdateSettings(req)
	if len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	utils.SuccessResponse(c, "Settings updated successfully", settings)
}
