package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"journal-management-api/models"

	"gorm.io/gorm"
)

// IsOverdue is the single source of truth for the derived overdue
// condition. OVERDUE is never stored on the review row.
func IsOverdue(review *models.Review, now time.Time) bool {
	if review.Status == models.ReviewCompleted || review.Status == models.ReviewDeclined {
		return false
	}
	return review.DueDate.Before(now)
}

// DecisionReady reports whether enough reviews are completed for an
// editorial decision.
func DecisionReady(completedReviews int, settings JournalSettings) bool {
	return completedReviews >= settings.MinReviews
}

// CountCompletedReviews returns the number of COMPLETED reviews on a
// submission.
func CountCompletedReviews(db *gorm.DB, submissionID int) (int, error) {
	var count int64
	if err := db.Model(&models.Review{}).
		Where("submission_id = ? AND status = ?", submissionID, models.ReviewCompleted).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count completed reviews: %w", err)
	}
	return int(count), nil
}

// InviteReviewer creates a PENDING review for the given reviewer. It
// fails when the reviewer already has an open review on the submission,
// appears on the excluded-reviewers list, or is one of the authors.
func InviteReviewer(tx *gorm.DB, submission *models.Submission, reviewerID int, dueDate time.Time, editorID int) (*models.Review, error) {
	if reviewerID == submission.UserID {
		return nil, fmt.Errorf("%w: reviewer is the submitting author", ErrPreconditionFailed)
	}

	var coauthorCount int64
	if err := tx.Model(&models.SubmissionAuthor{}).
		Where("submission_id = ? AND user_id = ?", submission.SubmissionID, reviewerID).
		Count(&coauthorCount).Error; err != nil {
		return nil, fmt.Errorf("failed to check authorship conflict: %w", err)
	}
	if coauthorCount > 0 {
		return nil, fmt.Errorf("%w: reviewer is a co-author", ErrPreconditionFailed)
	}

	var excludedCount int64
	if err := tx.Model(&models.ExcludedReviewer{}).
		Where("submission_id = ? AND user_id = ?", submission.SubmissionID, reviewerID).
		Count(&excludedCount).Error; err != nil {
		return nil, fmt.Errorf("failed to check excluded reviewers: %w", err)
	}
	if excludedCount > 0 {
		return nil, ErrReviewerExcluded
	}

	var openCount int64
	if err := tx.Model(&models.Review{}).
		Where("submission_id = ? AND reviewer_id = ? AND status IN ?",
			submission.SubmissionID, reviewerID,
			[]models.ReviewStatus{models.ReviewPending, models.ReviewInProgress}).
		Count(&openCount).Error; err != nil {
		return nil, fmt.Errorf("failed to check open reviews: %w", err)
	}
	if openCount > 0 {
		return nil, ErrAlreadyReviewing
	}

	now := time.Now()
	review := models.Review{
		SubmissionID: submission.SubmissionID,
		ReviewerID:   reviewerID,
		Status:       models.ReviewPending,
		InvitedAt:    now,
		DueDate:      dueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	description := fmt.Sprintf("Reviewer %d invited, review due %s", reviewerID, dueDate.Format("2006-01-02"))
	if err := AppendTimeline(tx, submission.SubmissionID, models.EventReviewerInvited, description, editorID); err != nil {
		return nil, err
	}
	return &review, nil
}

// RespondToInvitation moves a PENDING review to IN_PROGRESS or DECLINED.
// Repeat calls are rejected as state violations, including a second
// accept on an already accepted invitation.
func RespondToInvitation(tx *gorm.DB, review *models.Review, accept bool, notes string) error {
	if review.Status != models.ReviewPending {
		return fmt.Errorf("%w: review is %s", ErrReviewNotOpen, review.Status)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"updated_at": now,
	}
	if accept {
		updates["status"] = models.ReviewInProgress
		updates["accepted_at"] = now
	} else {
		updates["status"] = models.ReviewDeclined
		if trimmed := strings.TrimSpace(notes); trimmed != "" {
			updates["decline_reason"] = trimmed
		}
	}

	if err := tx.Model(&models.Review{}).
		Where("review_id = ?", review.ReviewID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	action := "declined"
	if accept {
		action = "accepted"
		review.Status = models.ReviewInProgress
		review.AcceptedAt = &now
	} else {
		review.Status = models.ReviewDeclined
	}
	review.UpdatedAt = now

	description := fmt.Sprintf("Reviewer %s the review invitation", action)
	return AppendTimeline(tx, review.SubmissionID, models.EventReviewerAction, description, review.ReviewerID)
}

// ReviewSubmission carries the reviewer's completed assessment.
type ReviewSubmission struct {
	Recommendation       string
	Rating               int
	AuthorComments       string
	ConfidentialComments string
}

// CompleteReview moves an IN_PROGRESS review to COMPLETED and records the
// recommendation, rating and comments. Completed reviews are immutable.
func CompleteReview(tx *gorm.DB, review *models.Review, result ReviewSubmission) error {
	if review.Status != models.ReviewInProgress {
		return fmt.Errorf("%w: review is %s", ErrReviewNotOpen, review.Status)
	}
	if !models.IsValidRecommendation(result.Recommendation) {
		return fmt.Errorf("%w: %q", ErrInvalidRecommend, result.Recommendation)
	}
	if result.Rating < 1 || result.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrPreconditionFailed)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":          models.ReviewCompleted,
		"recommendation":  result.Recommendation,
		"rating":          result.Rating,
		"author_comments": result.AuthorComments,
		"submitted_at":    now,
		"updated_at":      now,
	}
	if strings.TrimSpace(result.ConfidentialComments) != "" {
		updates["confidential_comments"] = result.ConfidentialComments
	}

	if err := tx.Model(&models.Review{}).
		Where("review_id = ?", review.ReviewID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to complete review: %w", err)
	}

	review.Status = models.ReviewCompleted
	review.Recommendation = &result.Recommendation
	review.Rating = &result.Rating
	review.SubmittedAt = &now
	review.UpdatedAt = now

	description := fmt.Sprintf("Review submitted with recommendation %s", result.Recommendation)
	return AppendTimeline(tx, review.SubmissionID, models.EventReviewerAction, description, review.ReviewerID)
}

// SendReminder increments the reminder counter for an open review.
func SendReminder(tx *gorm.DB, review *models.Review, editorID int) error {
	if !review.IsOpen() {
		return fmt.Errorf("%w: review is %s", ErrReviewNotOpen, review.Status)
	}

	now := time.Now()
	if err := tx.Model(&models.Review{}).
		Where("review_id = ?", review.ReviewID).
		Updates(map[string]interface{}{
			"reminder_count":   gorm.Expr("reminder_count + 1"),
			"last_reminder_at": now,
			"updated_at":       now,
		}).Error; err != nil {
		return fmt.Errorf("failed to record reminder: %w", err)
	}

	review.ReminderCount++
	review.LastReminderAt = &now
	review.UpdatedAt = now

	return AppendTimeline(tx, review.SubmissionID, models.EventReviewerAction,
		fmt.Sprintf("Reminder sent to reviewer %d", review.ReviewerID), editorID)
}

// ExtendDeadline pushes the due date of an open review forward. The new
// date must be after the current one and a reason is required.
func ExtendDeadline(tx *gorm.DB, review *models.Review, newDate time.Time, reason string, editorID int) error {
	if !review.IsOpen() {
		return fmt.Errorf("%w: review is %s", ErrReviewNotOpen, review.Status)
	}
	if !newDate.After(review.DueDate) {
		return ErrDeadlineNotExtended
	}
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: extension reason", ErrCommentsRequired)
	}

	now := time.Now()
	if err := tx.Model(&models.Review{}).
		Where("review_id = ?", review.ReviewID).
		Updates(map[string]interface{}{
			"due_date":   newDate,
			"updated_at": now,
		}).Error; err != nil {
		return fmt.Errorf("failed to extend deadline: %w", err)
	}

	review.DueDate = newDate
	review.UpdatedAt = now

	description := fmt.Sprintf("Review deadline extended to %s: %s", newDate.Format("2006-01-02"), strings.TrimSpace(reason))
	return AppendTimeline(tx, review.SubmissionID, models.EventReviewerAction, description, editorID)
}

// RemoveReviewer forces an open review to DECLINED with an editor-supplied
// reason. The row is kept for the audit trail rather than deleted.
func RemoveReviewer(tx *gorm.DB, review *models.Review, reason string, editorID int) error {
	if !review.IsOpen() {
		return fmt.Errorf("%w: review is %s", ErrReviewClosed, review.Status)
	}
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return fmt.Errorf("%w: removal reason", ErrCommentsRequired)
	}

	now := time.Now()
	if err := tx.Model(&models.Review{}).
		Where("review_id = ?", review.ReviewID).
		Updates(map[string]interface{}{
			"status":         models.ReviewDeclined,
			"decline_reason": trimmed,
			"updated_at":     now,
		}).Error; err != nil {
		return fmt.Errorf("failed to remove reviewer: %w", err)
	}

	review.Status = models.ReviewDeclined
	review.DeclineReason = &trimmed
	review.UpdatedAt = now

	return AppendTimeline(tx, review.SubmissionID, models.EventReviewerAction,
		fmt.Sprintf("Reviewer %d removed: %s", review.ReviewerID, trimmed), editorID)
}

// NextRevisionNumber returns the strictly increasing revision number for
// the submission's next revision, starting at 1.
func NextRevisionNumber(db *gorm.DB, submissionID int) (int, error) {
	var max int
	err := db.Model(&models.Revision{}).
		Where("submission_id = ?", submissionID).
		Select("COALESCE(MAX(revision_number), 0)").
		Scan(&max).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("failed to determine revision number: %w", err)
	}
	return max + 1, nil
}
