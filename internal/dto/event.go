package dto

import (
	"encoding/json"
)

// Event type discriminators accepted on the ingest endpoint
const (
	EventTypeAppOpen = "app_open"
	EventTypePayment = "payment"
)

// SubmitEventRequest is the tracking envelope: a type discriminator plus a
// type-specific payload decoded in a second pass.
type SubmitEventRequest struct {
	EventType string          `json:"event_type" binding:"required,oneof=app_open payment"`
	Data      json.RawMessage `json:"data" binding:"required"`
}

// AppOpenPayload represents an app-open tracking event
type AppOpenPayload struct {
	CampaignParameter string `json:"campaign_parameter" binding:"required,max=255"`
	EndUserID         int64  `json:"end_user_id" binding:"required,gt=0"`
	DisplayName       string `json:"display_name,omitempty" binding:"max=255"`
	LanguageTag       string `json:"language_tag,omitempty" binding:"max=35"`
}

// PaymentPayload represents a payment tracking event. CampaignParameter is
// accepted for wire compatibility but ignored: payments are attributed to the
// stored first-touch campaign.
type PaymentPayload struct {
	EndUserID         int64  `json:"end_user_id" binding:"required,gt=0"`
	Amount            int64  `json:"amount" binding:"required,gt=0"`
	PaymentReference  string `json:"payment_reference,omitempty" binding:"max=255"`
	CampaignParameter string `json:"campaign_parameter,omitempty"`
}

// AppOpenResponse reports the attribution outcome of an app-open event
type AppOpenResponse struct {
	EndUserID     int64  `json:"end_user_id"`
	FirstCampaign string `json:"first_campaign"`
	NewUser       bool   `json:"new_user"`
}

// PaymentResponse reports the attribution outcome of a payment event
type PaymentResponse struct {
	EndUserID          int64  `json:"end_user_id"`
	AttributedCampaign string `json:"attributed_campaign"`
	Amount             int64  `json:"amount"`
}
