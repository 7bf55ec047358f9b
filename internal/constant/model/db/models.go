package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionStatus represents the status of a payment session
type SessionStatus string

const (
	SessionStatusPending SessionStatus = "pending"
	SessionStatusSuccess SessionStatus = "success"
	SessionStatusFailed  SessionStatus = "failed"
)

// PaymentSession represents a payment session row in the database
type PaymentSession struct {
	ID                 uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	CheckoutRequestID  string        `gorm:"type:varchar(255);not null;uniqueIndex" json:"checkout_request_id"`
	MerchantRequestID  string        `gorm:"type:varchar(255)" json:"merchant_request_id"`
	PhoneNumber        string        `gorm:"type:varchar(20);not null" json:"phone_number"`
	Amount             int           `gorm:"not null" json:"amount"`
	Status             SessionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ResultCode         *int          `json:"result_code"`
	ResultDesc         *string       `gorm:"type:text" json:"result_desc"`
	MpesaReceiptNumber *string       `gorm:"type:varchar(50)" json:"mpesa_receipt_number"`
	TransactionDate    *string       `gorm:"type:varchar(20)" json:"transaction_date"`
	CreatedAt          time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PaymentSession) TableName() string {
	return "payment_sessions"
}

// BeforeCreate is a GORM hook that runs before creating a record
func (p *PaymentSession) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = SessionStatusPending
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	return nil
}

// BeforeUpdate is a GORM hook that runs before updating a record
func (p *PaymentSession) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}

// Subscription represents an activated satellite bundle
type Subscription struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CheckoutRequestID string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"checkout_request_id"`
	PhoneNumber       string    `gorm:"type:varchar(20);not null;index" json:"phone_number"`
	Amount            int       `gorm:"not null" json:"amount"`
	ActivatedAt       time.Time `gorm:"not null" json:"activated_at"`
	ExpiresAt         time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}

// BeforeCreate is a GORM hook that runs before creating a record
func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	return nil
}
