package models

// TimeUnit is the unit of the check-in interval. Month and year conversion is
// approximate (30 and 365 days); no calendar arithmetic is attempted.
type TimeUnit string

const (
	UnitMinutes TimeUnit = "minutes"
	UnitHours   TimeUnit = "hours"
	UnitDays    TimeUnit = "days"
	UnitMonths  TimeUnit = "months"
	UnitYears   TimeUnit = "years"
)

// EmergencySettings drives the escalation protocol.
type EmergencySettings struct {
	CheckInIntervalValue      int      `json:"checkInIntervalValue" bson:"checkInIntervalValue"`
	CheckInIntervalUnit       TimeUnit `json:"checkInIntervalUnit" bson:"checkInIntervalUnit"`
	WarningGracePeriodMinutes int      `json:"warningGracePeriodMinutes" bson:"warningGracePeriodMinutes"`
	CustomSafetyMessage       string   `json:"customSafetyMessage" bson:"customSafetyMessage"`
	AutoCallPolice            bool     `json:"autoCallPolice" bson:"autoCallPolice"`
	LiveTrackingEnabled       bool     `json:"liveTrackingEnabled" bson:"liveTrackingEnabled"`
}

// DefaultSettings returns the out-of-the-box protocol configuration.
func DefaultSettings() EmergencySettings {
	return EmergencySettings{
		CheckInIntervalValue:      30,
		CheckInIntervalUnit:       UnitMinutes,
		WarningGracePeriodMinutes: 60,
		CustomSafetyMessage:       "I haven't checked in. Please verify my safety.",
		AutoCallPolice:            true,
		LiveTrackingEnabled:       true,
	}
}

// UpdateSettingsRequest carries a partial settings update. Nil fields are
// left unchanged; bool fields are pointers so they can be toggled off.
type UpdateSettingsRequest struct {
	CheckInIntervalValue      *int      `json:"checkInIntervalValue" validate:"omitempty,min=1"`
	CheckInIntervalUnit       *TimeUnit `json:"checkInIntervalUnit" validate:"omitempty,oneof=minutes hours days months years"`
	WarningGracePeriodMinutes *int      `json:"warningGracePeriodMinutes" validate:"omitempty,min=1"`
	CustomSafetyMessage       *string   `json:"customSafetyMessage" validate:"omitempty,max=500"`
	AutoCallPolice            *bool     `json:"autoCallPolice"`
	LiveTrackingEnabled       *bool     `json:"liveTrackingEnabled"`
}
