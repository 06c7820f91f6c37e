package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"journal-management-api/models"

	"gorm.io/gorm"
)

// GenerateDOI builds the deterministic DOI string assigned at publication:
// <prefix>/<year>.<submission-number>. Once stored on the submission the
// DOI is never regenerated.
func GenerateDOI(prefix string, year int, submissionNumber string) string {
	return fmt.Sprintf("%s/%d.%s", strings.TrimSuffix(prefix, "/"), year, submissionNumber)
}

// HasPaidPayment reports whether the submission has at least one PAID
// payment, the gate publication must pass.
func HasPaidPayment(db *gorm.DB, submissionID int) (bool, error) {
	var count int64
	if err := db.Model(&models.Payment{}).
		Where("submission_id = ? AND status = ?", submissionID, models.PaymentPaid).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check payments: %w", err)
	}
	return count > 0, nil
}

// PublicationInput carries the issue placement for a publish operation.
type PublicationInput struct {
	Volume *int
	Issue  *int
	Pages  *string
}

// Publish moves an ACCEPTED or PAYMENT_PENDING submission to PUBLISHED.
// It requires a PAID payment, assigns the DOI idempotently, and creates
// or refreshes the denormalized Article feeding the public read path.
func Publish(tx *gorm.DB, submission *models.Submission, input PublicationInput, settings JournalSettings, actorID int) (*models.Article, error) {
	if submission.Status != models.StatusAccepted && submission.Status != models.StatusPaymentPending {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, submission.Status, models.StatusPublished)
	}

	paid, err := HasPaidPayment(tx, submission.SubmissionID)
	if err != nil {
		return nil, err
	}
	if !paid && settings.APCFee > 0 {
		return nil, ErrPaymentRequired
	}

	doi := ""
	if submission.DOI != nil && *submission.DOI != "" {
		doi = *submission.DOI
	} else {
		doi = GenerateDOI(settings.DOIPrefix, time.Now().Year(), submission.SubmissionNumber)
		if err := tx.Model(&models.Submission{}).
			Where("submission_id = ?", submission.SubmissionID).
			Update("doi", doi).Error; err != nil {
			return nil, fmt.Errorf("failed to assign DOI: %w", err)
		}
		submission.DOI = &doi
	}

	placement := map[string]interface{}{}
	if input.Volume != nil {
		placement["volume"] = *input.Volume
		submission.Volume = input.Volume
	}
	if input.Issue != nil {
		placement["issue"] = *input.Issue
		submission.Issue = input.Issue
	}
	if input.Pages != nil {
		placement["pages"] = *input.Pages
		submission.Pages = input.Pages
	}
	if len(placement) > 0 {
		if err := tx.Model(&models.Submission{}).
			Where("submission_id = ?", submission.SubmissionID).
			Updates(placement).Error; err != nil {
			return nil, fmt.Errorf("failed to record issue placement: %w", err)
		}
	}

	if err := Transition(tx, submission, models.StatusPublished, TransitionEvent{
		ActorID:     actorID,
		Description: fmt.Sprintf("Published with DOI %s", doi),
	}); err != nil {
		return nil, err
	}

	article, err := upsertArticle(tx, submission, doi)
	if err != nil {
		return nil, err
	}
	return article, nil
}

func upsertArticle(tx *gorm.DB, submission *models.Submission, doi string) (*models.Article, error) {
	authors, err := citationAuthors(tx, submission)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var article models.Article
	err = tx.Where("submission_id = ?", submission.SubmissionID).First(&article).Error
	switch {
	case err == nil:
		article.Title = submission.Title
		article.Abstract = submission.Abstract
		article.Authors = authors
		article.Keywords = submission.Keywords
		article.DOI = doi
		article.Volume = submission.Volume
		article.Issue = submission.Issue
		article.Pages = submission.Pages
		article.PublishedAt = now
		article.UpdatedAt = now
		article.DeletedAt = nil
		if err := tx.Save(&article).Error; err != nil {
			return nil, fmt.Errorf("failed to update article: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		article = models.Article{
			SubmissionID: submission.SubmissionID,
			Title:        submission.Title,
			Abstract:     submission.Abstract,
			Authors:      authors,
			Keywords:     submission.Keywords,
			DOI:          doi,
			Volume:       submission.Volume,
			Issue:        submission.Issue,
			Pages:        submission.Pages,
			PublishedAt:  now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Create(&article).Error; err != nil {
			return nil, fmt.Errorf("failed to create article: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to load article: %w", err)
	}
	return &article, nil
}

// citationAuthors builds the denormalized author string: owning author
// first, then co-authors in display order.
func citationAuthors(tx *gorm.DB, submission *models.Submission) (string, error) {
	names := make([]string, 0, 4)

	var owner models.User
	if err := tx.Where("user_id = ?", submission.UserID).First(&owner).Error; err == nil {
		names = append(names, owner.FullName())
	}

	var coauthors []models.SubmissionAuthor
	if err := tx.Preload("User").
		Where("submission_id = ?", submission.SubmissionID).
		Order("display_order ASC").
		Find(&coauthors).Error; err != nil {
		return "", fmt.Errorf("failed to load co-authors: %w", err)
	}
	for _, ca := range coauthors {
		if ca.User != nil {
			names = append(names, ca.User.FullName())
		}
	}
	return strings.Join(names, ", "), nil
}

// Unpublish reverts a PUBLISHED submission to ACCEPTED and soft-deletes
// the public article. The DOI and the timeline history are retained.
func Unpublish(tx *gorm.DB, submission *models.Submission, actorID int, reason string) error {
	if submission.Status != models.StatusPublished {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, submission.Status, models.StatusAccepted)
	}

	description := "Publication withdrawn"
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		description = fmt.Sprintf("Publication withdrawn: %s", trimmed)
	}

	if err := Transition(tx, submission, models.StatusAccepted, TransitionEvent{
		ActorID:     actorID,
		Description: description,
	}); err != nil {
		return err
	}

	now := time.Now()
	if err := tx.Model(&models.Article{}).
		Where("submission_id = ? AND deleted_at IS NULL", submission.SubmissionID).
		Updates(map[string]interface{}{
			"deleted_at": now,
			"updated_at": now,
		}).Error; err != nil {
		return fmt.Errorf("failed to retire article: %w", err)
	}
	return nil
}
