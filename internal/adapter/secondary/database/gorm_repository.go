package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/linknk/satellite-payments/internal/constant/model/db"
	"github.com/linknk/satellite-payments/internal/core"
	"github.com/linknk/satellite-payments/internal/port/output"
)

// GormSessionRepository is a secondary adapter that implements the SessionRepository output port
type GormSessionRepository struct {
	gormDB *gorm.DB
}

// NewGormSessionRepository creates a new GORM payment session repository
func NewGormSessionRepository(gormDB *gorm.DB) output.SessionRepository {
	return &GormSessionRepository{gormDB: gormDB}
}

// toCore converts db.PaymentSession to core.PaymentSession
func toCore(p *db.PaymentSession) *core.PaymentSession {
	return &core.PaymentSession{
		ID:                 p.ID,
		CheckoutRequestID:  p.CheckoutRequestID,
		MerchantRequestID:  p.MerchantRequestID,
		PhoneNumber:        p.PhoneNumber,
		Amount:             p.Amount,
		Status:             core.SessionStatus(p.Status),
		ResultCode:         p.ResultCode,
		ResultDesc:         deref(p.ResultDesc),
		MpesaReceiptNumber: deref(p.MpesaReceiptNumber),
		TransactionDate:    deref(p.TransactionDate),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// fromCore converts core.PaymentSession to db.PaymentSession
func fromCore(p *core.PaymentSession) *db.PaymentSession {
	return &db.PaymentSession{
		ID:                 p.ID,
		CheckoutRequestID:  p.CheckoutRequestID,
		MerchantRequestID:  p.MerchantRequestID,
		PhoneNumber:        p.PhoneNumber,
		Amount:             p.Amount,
		Status:             db.SessionStatus(p.Status),
		ResultCode:         p.ResultCode,
		ResultDesc:         ref(p.ResultDesc),
		MpesaReceiptNumber: ref(p.MpesaReceiptNumber),
		TransactionDate:    ref(p.TransactionDate),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// Create creates a new payment session
func (r *GormSessionRepository) Create(ctx context.Context, session *core.PaymentSession) error {
	dbSession := fromCore(session)
	if err := r.gormDB.WithContext(ctx).Create(dbSession).Error; err != nil {
		return fmt.Errorf("%w: failed to create payment session: %v", core.ErrPersistence, err)
	}
	// Update core entity with values set by GORM hooks
	session.ID = dbSession.ID
	session.CreatedAt = dbSession.CreatedAt
	session.UpdatedAt = dbSession.UpdatedAt
	return nil
}

// GetByCheckoutRequestID retrieves a payment session by its provider correlation id
func (r *GormSessionRepository) GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*core.PaymentSession, error) {
	var dbSession db.PaymentSession
	if err := r.gormDB.WithContext(ctx).
		Where("checkout_request_id = ?", checkoutRequestID).
		First(&dbSession).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: failed to get payment session: %v", core.ErrPersistence, err)
	}
	return toCore(&dbSession), nil
}

// Finalize atomically applies the callback outcome if the session is still pending
// Uses SELECT FOR UPDATE so concurrent callbacks cannot both write
func (r *GormSessionRepository) Finalize(ctx context.Context, outcome core.CallbackOutcome) (*core.PaymentSession, error) {
	var finalized *core.PaymentSession

	err := r.gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dbSession db.PaymentSession

		// Lock the row and check status using SELECT FOR UPDATE
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("checkout_request_id = ?", outcome.CheckoutRequestID).
			First(&dbSession).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return core.ErrSessionNotFound
			}
			return fmt.Errorf("%w: failed to lock payment session: %v", core.ErrPersistence, err)
		}

		session := toCore(&dbSession)
		if err := session.Apply(outcome); err != nil {
			return err
		}

		updated := fromCore(session)
		updated.UpdatedAt = time.Now()
		if err := tx.Save(updated).Error; err != nil {
			return fmt.Errorf("%w: failed to update payment session: %v", core.ErrPersistence, err)
		}

		session.UpdatedAt = updated.UpdatedAt
		finalized = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return finalized, nil
}

// GormSubscriptionRepository implements the SubscriptionRepository output port
type GormSubscriptionRepository struct {
	gormDB *gorm.DB
}

// NewGormSubscriptionRepository creates a new GORM subscription repository
func NewGormSubscriptionRepository(gormDB *gorm.DB) output.SubscriptionRepository {
	return &GormSubscriptionRepository{gormDB: gormDB}
}

// Activate inserts the subscription, doing nothing if the checkout already has one
func (r *GormSubscriptionRepository) Activate(ctx context.Context, sub *core.Subscription) error {
	row := &db.Subscription{
		ID:                sub.ID,
		CheckoutRequestID: sub.CheckoutRequestID,
		PhoneNumber:       sub.PhoneNumber,
		Amount:            sub.Amount,
		ActivatedAt:       sub.ActivatedAt,
		ExpiresAt:         sub.ExpiresAt,
	}

	result := r.gormDB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "checkout_request_id"}},
			DoNothing: true,
		}).
		Create(row)
	if result.Error != nil {
		return fmt.Errorf("%w: failed to create subscription: %v", core.ErrPersistence, result.Error)
	}
	if result.RowsAffected == 0 {
		return core.ErrSubscriptionExists
	}
	sub.ID = row.ID
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ref(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
