// controllers/payment.go - APC payments and provider webhook
package controllers

import (
	"net/http"
	"os"
	"strings"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

// InitiatePayment creates a PENDING APC payment for an accepted
// submission and moves it to PAYMENT_PENDING.
func InitiatePayment(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)

	submission, ok := findSubmission(c, submissionID)
	if !ok {
		return
	}

	settings, err := services.GetJournalSettings(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	payment, err := services.InitiatePayment(tx, submission, settings, userID)
	if err != nil {
		tx.Rollback()
		respondWorkflowError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate payment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Payment initiated",
		"payment":    payment,
		"submission": submission,
	})
}

// ConfirmPayment marks a pending payment PAID after a client-side
// provider confirmation. Publication remains a separate admin step.
func ConfirmPayment(c *gin.Context) {
	paymentID, ok := paramID(c, "paymentId")
	if !ok {
		return
	}
	userID := currentUserID(c)
	roleID := currentRoleID(c)

	type ConfirmRequest struct {
		ProviderIntentID string `json:"provider_intent_id"`
	}
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var payment models.Payment
	query := config.DB.Where("payment_id = ?", paymentID)
	if !models.IsEditorialRole(roleID) {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := services.MarkPaymentPaid(tx, &payment, req.ProviderIntentID, userID); err != nil {
		tx.Rollback()
		respondWorkflowError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm payment"})
		return
	}

	notifyPaymentConfirmed(&payment)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment confirmed",
		"payment": payment,
	})
}

// PaymentWebhook receives the payment provider's event push
// (payment_intent.succeeded / payment_intent.payment_failed). The
// payment row is matched by the reference we put into the intent
// metadata. Confirming a payment never publishes by itself.
func PaymentWebhook(c *gin.Context) {
	// Shared-secret check; the provider SDK's signature scheme is an
	// external concern.
	secret := os.Getenv("PAYMENT_WEBHOOK_SECRET")
	if secret != "" && c.GetHeader("X-Webhook-Secret") != secret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook secret"})
		return
	}

	type webhookEvent struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID       string `json:"id"`
				Metadata struct {
					PaymentReference string `json:"payment_reference"`
				} `json:"metadata"`
				LastPaymentError struct {
					Message string `json:"message"`
				} `json:"last_payment_error"`
			} `json:"object"`
		} `json:"data"`
	}

	var event webhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
		return
	}

	reference := strings.TrimSpace(event.Data.Object.Metadata.PaymentReference)
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing payment reference"})
		return
	}

	var payment models.Payment
	if err := config.DB.Where("payment_reference = ?", reference).First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	switch event.Type {
	case "payment_intent.succeeded":
		if err := services.MarkPaymentPaid(tx, &payment, event.Data.Object.ID, payment.UserID); err != nil {
			tx.Rollback()
			respondWorkflowError(c, err)
			return
		}
	case "payment_intent.payment_failed":
		if err := services.MarkPaymentFailed(tx, &payment, event.Data.Object.LastPaymentError.Message, payment.UserID); err != nil {
			tx.Rollback()
			respondWorkflowError(c, err)
			return
		}
	default:
		tx.Rollback()
		// Unknown events are acknowledged so the provider stops retrying.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
		return
	}

	if event.Type == "payment_intent.succeeded" {
		notifyPaymentConfirmed(&payment)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// GetSubmissionPayments lists payment attempts for a submission.
func GetSubmissionPayments(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, ok := findSubmission(c, submissionID); !ok {
		return
	}

	var payments []models.Payment
	if err := config.DB.Where("submission_id = ?", submissionID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"payments": payments,
		"total":    len(payments),
	})
}

func notifyPaymentConfirmed(payment *models.Payment) {
	var submission models.Submission
	if err := config.DB.Where("submission_id = ?", payment.SubmissionID).First(&submission).Error; err != nil {
		return
	}
	if err := services.Notify(config.DB, services.NotifyInput{
		UserID:   submission.UserID,
		EventKey: services.EventKeyPaymentConfirmed,
		Data: map[string]string{
			"submission_number": submission.SubmissionNumber,
			"title":             submission.Title,
			"reference":         payment.PaymentReference,
		},
		Type:         "success",
		SubmissionID: submission.SubmissionID,
	}); err != nil {
		logNotifyFailure("payment_confirmed", err)
	}
}
