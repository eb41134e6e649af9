package models

// Contact is a person notified during escalation. IDs are unique by
// construction; the dispatch engine only reads contacts.
type Contact struct {
	ID                string `json:"id" bson:"_id"`
	Name              string `json:"name" bson:"name"`
	Phone             string `json:"phone,omitempty" bson:"phone,omitempty"`
	Email             string `json:"email,omitempty" bson:"email,omitempty"`
	NotifyOnWarning   bool   `json:"notifyOnWarning" bson:"notifyOnWarning"`
	NotifyOnEmergency bool   `json:"notifyOnEmergency" bson:"notifyOnEmergency"`
	EnableSMS         bool   `json:"enableSMS" bson:"enableSMS"`
	EnableEmail       bool   `json:"enableEmail" bson:"enableEmail"`
}

// ContactRequest is the payload for creating or replacing a contact.
type ContactRequest struct {
	Name              string `json:"name" validate:"required,min=1,max=100"`
	Phone             string `json:"phone" validate:"omitempty,min=3,max=20"`
	Email             string `json:"email" validate:"omitempty,email"`
	NotifyOnWarning   bool   `json:"notifyOnWarning"`
	NotifyOnEmergency bool   `json:"notifyOnEmergency"`
	EnableSMS         bool   `json:"enableSMS"`
	EnableEmail       bool   `json:"enableEmail"`
}
