package controllers

import (
	"github.com/gin-gonic/gin"

	"lifeline/models"
	"lifeline/services"
	"lifeline/utils"
)

type SensorController struct {
	guardian  *services.GuardianService
	clock     services.Clock
	validator *utils.ValidationService
}

func NewSensorController(guardian *services.GuardianService, clock services.Clock) *SensorController {
	return &SensorController{
		guardian:  guardian,
		clock:     clock,
		validator: utils.NewValidationService(),
	}
}

// UpdateLocation ingests a GPS sample. Last value wins.
func (sc *SensorController) UpdateLocation(c *gin.Context) {
	var req models.LocationSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if validationErrors := sc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	sc.guardian.OnLocationSample(models.LocationSample{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Accuracy:  req.Accuracy,
		SampledAt: sc.clock.Now(),
	})

	utils.SuccessResponse(c, "Location updated successfully", nil)
}

// UpdateBattery ingests the battery fraction.
func (sc *SensorController) UpdateBattery(c *gin.Context) {
	var req models.BatteryLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}
	if validationErrors := sc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	sc.guardian.OnBatteryLevel(req.Level)
	utils.SuccessResponse(c, "Battery level updated successfully", nil)
}

// UpdateRecording flags whether a voice recording is available for dispatch.
func (sc *SensorController) UpdateRecording(c *gin.Context) {
	var req models.RecordingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	sc.guardian.SetVoiceRecording(req.Present)
	utils.SuccessResponse(c, "Recording flag updated successfully", nil)
}
