package models

import "time"

// PaymentStatus is the closed set of APC payment states.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Payment represents one APC payment attempt. Retries after failure
// create new rows; only PENDING rows move to PAID/FAILED/REFUNDED while
// the provider intent is outstanding.
type Payment struct {
	PaymentID        int           `gorm:"primaryKey;column:payment_id" json:"payment_id"`
	SubmissionID     int           `gorm:"column:submission_id" json:"submission_id"`
	UserID           int           `gorm:"column:user_id" json:"user_id"`
	Amount           float64       `gorm:"column:amount" json:"amount"`
	Currency         string        `gorm:"column:currency" json:"currency"`
	PaymentReference string        `gorm:"column:payment_reference;unique" json:"payment_reference"`
	ProviderIntentID *string       `gorm:"column:provider_intent_id" json:"provider_intent_id,omitempty"`
	Status           PaymentStatus `gorm:"column:status" json:"status"`
	FailureReason    *string       `gorm:"column:failure_reason" json:"failure_reason,omitempty"`
	PaidAt           *time.Time    `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreatedAt        time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"column:updated_at" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table for Payment.
func (Payment) TableName() string {
	return "payments"
}
