// Package repository persists checkout records.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/roadshop/checkout-backend/internal/domain"
)

// IntentRepository handles payment intent persistence
type IntentRepository struct {
	db *gorm.DB
}

// NewIntentRepository creates a new IntentRepository
func NewIntentRepository(db *gorm.DB) *IntentRepository {
	_ = db.AutoMigrate(&domain.PaymentIntent{})
	return &IntentRepository{db: db}
}

// Create inserts a new intent record
func (r *IntentRepository) Create(ctx context.Context, intent *domain.PaymentIntent) error {
	return r.db.WithContext(ctx).Create(intent).Error
}

// FindByRequestID finds an intent by its idempotency request id.
// Returns nil without error when no record exists.
func (r *IntentRepository) FindByRequestID(ctx context.Context, requestID string) (*domain.PaymentIntent, error) {
	var intent domain.PaymentIntent
	err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&intent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

// FindByExternalID finds an intent by the gateway's intent id
func (r *IntentRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.PaymentIntent, error) {
	var intent domain.PaymentIntent
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&intent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

// Update saves changes to an intent record
func (r *IntentRepository) Update(ctx context.Context, intent *domain.PaymentIntent) error {
	return r.db.WithContext(ctx).Save(intent).Error
}

// ListRecent lists the newest intents for operational inspection
func (r *IntentRepository) ListRecent(ctx context.Context, limit int) ([]domain.PaymentIntent, error) {
	var intents []domain.PaymentIntent
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&intents).Error
	return intents, err
}
