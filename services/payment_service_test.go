package services

import (
	"errors"
	"regexp"
	"testing"

	"journal-management-api/models"

	"gorm.io/gorm"
)

func TestInitiatePaymentValidation(t *testing.T) {
	settings := JournalSettings{APCFee: 300, Currency: "USD"}

	for _, status := range []models.SubmissionStatus{
		models.StatusDraft,
		models.StatusUnderReview,
		models.StatusPublished,
		models.StatusRejected,
	} {
		submission := &models.Submission{SubmissionID: 1, Status: status}
		if _, err := InitiatePayment(nil, submission, settings, 1); !errors.Is(err, ErrPreconditionFailed) {
			t.Errorf("status %s: expected ErrPreconditionFailed, got %v", status, err)
		}
	}

	accepted := &models.Submission{SubmissionID: 1, Status: models.StatusAccepted}
	if _, err := InitiatePayment(nil, accepted, JournalSettings{APCFee: 0}, 1); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("zero fee: expected ErrPreconditionFailed, got %v", err)
	}
}

func TestMarkPaymentPaidRequiresPending(t *testing.T) {
	for _, status := range []models.PaymentStatus{models.PaymentPaid, models.PaymentFailed, models.PaymentRefunded} {
		payment := &models.Payment{PaymentID: 1, Status: status}
		if err := MarkPaymentPaid(nil, payment, "pi_123", 1); !errors.Is(err, ErrPreconditionFailed) {
			t.Errorf("status %s: expected ErrPreconditionFailed, got %v", status, err)
		}
	}
}

func TestMarkPaymentPaidConfirmsPendingPayment(t *testing.T) {
	// Confirming a PENDING payment updates the payment row and appends a
	// timeline event, nothing else.
	steps := []*queryStep{
		{kind: kindExec, pattern: regexp.MustCompile("UPDATE `payments` SET")},
		{kind: kindExec, pattern: regexp.MustCompile("INSERT INTO `submission_timeline`")},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()
	session := db.Session(&gorm.Session{SkipDefaultTransaction: true})

	payment := &models.Payment{
		PaymentID:        9,
		SubmissionID:     42,
		Status:           models.PaymentPending,
		PaymentReference: "ref-42",
	}
	if err := MarkPaymentPaid(session, payment, "pi_123", 7); err != nil {
		t.Fatalf("MarkPaymentPaid returned error: %v", err)
	}
	if payment.Status != models.PaymentPaid {
		t.Errorf("payment status = %s, want %s", payment.Status, models.PaymentPaid)
	}
	if payment.PaidAt == nil {
		t.Error("expected paid_at to be stamped")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestMarkPaymentFailedRequiresPending(t *testing.T) {
	payment := &models.Payment{PaymentID: 1, Status: models.PaymentPaid}
	if err := MarkPaymentFailed(nil, payment, "card declined", 1); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("expected ErrPreconditionFailed, got %v", err)
	}
}
