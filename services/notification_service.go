package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"

	"gorm.io/gorm"
)

// Notification event keys with a row in email_templates.
const (
	EventKeySubmissionReceived = "submission_received"
	EventKeyScreeningResult    = "screening_result"
	EventKeyReviewerInvited    = "reviewer_invited"
	EventKeyReviewReminder     = "review_reminder"
	EventKeyReviewCompleted    = "review_completed"
	EventKeyDecisionMade       = "decision_made"
	EventKeyRevisionReceived   = "revision_received"
	EventKeyPaymentConfirmed   = "payment_confirmed"
	EventKeyPublished          = "published"
)

// NotifyInput describes one recipient of a workflow event.
type NotifyInput struct {
	UserID       int
	EventKey     string
	Data         map[string]string
	Type         string // info|success|warning|error, default info
	SubmissionID int
}

// applyPlaceholders substitutes {{key}} markers in a template string.
func applyPlaceholders(text string, data map[string]string) string {
	out := text
	for key, value := range data {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}

func fetchEmailTemplate(db *gorm.DB, eventKey string) (*models.EmailTemplate, error) {
	var tmpl models.EmailTemplate
	if err := db.Where("template_key = ? AND deleted_at IS NULL", eventKey).First(&tmpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: email template %q", ErrNotFound, eventKey)
		}
		return nil, fmt.Errorf("failed to load email template: %w", err)
	}
	return &tmpl, nil
}

// Notify writes the in-app notification row and dispatches the templated
// email in a goroutine. Email delivery is best-effort and at-most-once:
// a failed send is logged and never retried, and never affects the
// already committed workflow state.
func Notify(db *gorm.DB, input NotifyInput) error {
	tmpl, err := fetchEmailTemplate(db, input.EventKey)
	if err != nil {
		return err
	}

	title := applyPlaceholders(tmpl.SubjectTemplate, input.Data)
	body := applyPlaceholders(tmpl.BodyTemplate, input.Data)

	notifType := input.Type
	if notifType == "" {
		notifType = "info"
	}

	submissionID := uint(input.SubmissionID)
	notification := models.Notification{
		UserID:   uint(input.UserID),
		Title:    title,
		Message:  body,
		Type:     notifType,
		CreateAt: time.Now(),
	}
	if input.SubmissionID > 0 {
		notification.RelatedSubmissionID = &submissionID
	}
	if err := db.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	var recipient models.User
	if err := db.Select("user_id", "first_name", "last_name", "email").
		Where("user_id = ? AND delete_at IS NULL", input.UserID).
		First(&recipient).Error; err != nil {
		log.Printf("notification recipient %d not found, skipping email: %v", input.UserID, err)
		return nil
	}
	if recipient.Email == "" {
		return nil
	}

	go func(to, name, subject, message string) {
		html := BuildEmailHTML(subject, name, message)
		sendMailSafe([]string{to}, subject, html)
	}(recipient.Email, recipient.FullName(), title, body)

	return nil
}

// NotifyMany fans one event out to several recipients; per-recipient
// failures are logged and do not stop the rest.
func NotifyMany(db *gorm.DB, userIDs []int, eventKey string, data map[string]string, notifType string, submissionID int) {
	for _, userID := range userIDs {
		if err := Notify(db, NotifyInput{
			UserID:       userID,
			EventKey:     eventKey,
			Data:         data,
			Type:         notifType,
			SubmissionID: submissionID,
		}); err != nil {
			log.Printf("notification dispatch failed (event=%s user=%d): %v", eventKey, userID, err)
		}
	}
}

// EditorialUserIDs returns the active editors and admins, the default
// recipients for author-triggered events.
func EditorialUserIDs(db *gorm.DB) []int {
	var ids []int
	if err := db.Model(&models.User{}).
		Where("role_id IN ? AND delete_at IS NULL AND is_active = ?",
			[]int{models.RoleEditor, models.RoleAdmin}, true).
		Pluck("user_id", &ids).Error; err != nil {
		log.Printf("failed to load editorial users: %v", err)
		return nil
	}
	return ids
}

func sendMailSafe(to []string, subject, html string) {
	if err := config.SendMail(to, subject, html); err != nil {
		log.Printf("notification email send failed (subject=%q to=%v): %v", subject, to, err)
	}
}
