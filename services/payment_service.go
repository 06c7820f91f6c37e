package services

import (
	"fmt"
	"strings"
	"time"

	"journal-management-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InitiatePayment creates a PENDING APC payment for an accepted
// submission and, when the submission is still ACCEPTED, moves it to
// PAYMENT_PENDING. Retries after a failed attempt create a new row.
func InitiatePayment(tx *gorm.DB, submission *models.Submission, settings JournalSettings, actorID int) (*models.Payment, error) {
	if submission.Status != models.StatusAccepted && submission.Status != models.StatusPaymentPending {
		return nil, fmt.Errorf("%w: submission is %s", ErrPreconditionFailed, submission.Status)
	}
	if settings.APCFee <= 0 {
		return nil, fmt.Errorf("%w: no APC fee configured", ErrPreconditionFailed)
	}

	var openCount int64
	if err := tx.Model(&models.Payment{}).
		Where("submission_id = ? AND status = ?", submission.SubmissionID, models.PaymentPending).
		Count(&openCount).Error; err != nil {
		return nil, fmt.Errorf("failed to check open payments: %w", err)
	}
	if openCount > 0 {
		return nil, fmt.Errorf("%w: a payment is already pending", ErrPreconditionFailed)
	}

	now := time.Now()
	payment := models.Payment{
		SubmissionID:     submission.SubmissionID,
		UserID:           submission.UserID,
		Amount:           settings.APCFee,
		Currency:         settings.Currency,
		PaymentReference: uuid.NewString(),
		Status:           models.PaymentPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := tx.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	if submission.Status == models.StatusAccepted {
		if err := Transition(tx, submission, models.StatusPaymentPending, TransitionEvent{
			ActorID:     actorID,
			Description: fmt.Sprintf("APC payment of %.2f %s initiated", payment.Amount, payment.Currency),
		}); err != nil {
			return nil, err
		}
	} else {
		if err := AppendTimeline(tx, submission.SubmissionID, models.EventPayment,
			fmt.Sprintf("APC payment of %.2f %s re-initiated", payment.Amount, payment.Currency), actorID); err != nil {
			return nil, err
		}
	}
	return &payment, nil
}

// MarkPaymentPaid flips a PENDING payment to PAID. Payment confirmation
// does not itself publish the submission; it only records the paid state
// and the timeline event.
func MarkPaymentPaid(tx *gorm.DB, payment *models.Payment, providerIntentID string, actorID int) error {
	if payment.Status != models.PaymentPending {
		return fmt.Errorf("%w: payment is %s", ErrPreconditionFailed, payment.Status)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     models.PaymentPaid,
		"paid_at":    now,
		"updated_at": now,
	}
	if trimmed := strings.TrimSpace(providerIntentID); trimmed != "" {
		updates["provider_intent_id"] = trimmed
	}
	if err := tx.Model(&models.Payment{}).
		Where("payment_id = ?", payment.PaymentID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to mark payment paid: %w", err)
	}

	payment.Status = models.PaymentPaid
	payment.PaidAt = &now

	return AppendTimeline(tx, payment.SubmissionID, models.EventPayment,
		fmt.Sprintf("APC payment %s confirmed", payment.PaymentReference), actorID)
}

// MarkPaymentFailed flips a PENDING payment to FAILED with the provider's
// failure reason.
func MarkPaymentFailed(tx *gorm.DB, payment *models.Payment, reason string, actorID int) error {
	if payment.Status != models.PaymentPending {
		return fmt.Errorf("%w: payment is %s", ErrPreconditionFailed, payment.Status)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     models.PaymentFailed,
		"updated_at": now,
	}
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		updates["failure_reason"] = trimmed
	}
	if err := tx.Model(&models.Payment{}).
		Where("payment_id = ?", payment.PaymentID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}

	payment.Status = models.PaymentFailed

	return AppendTimeline(tx, payment.SubmissionID, models.EventPayment,
		fmt.Sprintf("APC payment %s failed", payment.PaymentReference), actorID)
}
