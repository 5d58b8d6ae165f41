package domain

import "time"

// PaymentIntent represents a created Stripe payment intent
type PaymentIntent struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RequestID    string    `gorm:"column:request_id;uniqueIndex;size:64" json:"request_id"`
	ExternalID   string    `gorm:"column:external_id;index" json:"external_id"` // stripe payment_intent id
	Currency     string    `gorm:"column:currency;size:8" json:"currency"`
	Amount       int64     `gorm:"column:amount" json:"amount"`
	Status       string    `gorm:"column:status;default:created" json:"status"` // created, failed
	FailReason   string    `gorm:"column:fail_reason" json:"fail_reason,omitempty"`
	ClientIP     string    `gorm:"column:client_ip;size:64" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PaymentIntent) TableName() string {
	return "payment_intents"
}

// CreateIntentRequest is sent by the checkout frontend
type CreateIntentRequest struct {
	Currency string   `json:"currency" binding:"required"`
	Amount   *float64 `json:"amount"`
}

// CreateIntentResponse is returned to the checkout frontend
type CreateIntentResponse struct {
	ClientSecret   string `json:"clientSecret"`
	PublishableKey string `json:"publishableKey"`
	IsMock         bool   `json:"isMock,omitempty"`
	Message        string `json:"message,omitempty"`
}
