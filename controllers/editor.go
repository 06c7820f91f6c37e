// controllers/editor.go - Editorial workflow endpoints
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetEditorSubmissions lists submissions in the editorial pipeline. The
// optional status filter narrows to one lifecycle state.
func GetEditorSubmissions(c *gin.Context) {
	status := c.Query("status")

	var submissions []models.Submission
	query := config.DB.Preload("User").
		Preload("Reviews.Reviewer").
		Where("deleted_at IS NULL AND status <> ?", models.StatusDraft)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("submitted_at ASC").Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// ScreenSubmission applies an initial screening decision: open the
// screening, proceed to review, return for formatting, or reject.
func ScreenSubmission(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)

	type ScreenRequest struct {
		Decision string `json:"decision" binding:"required"`
		Comments string `json:"comments"`
	}
	var req ScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision := strings.ToUpper(strings.TrimSpace(req.Decision))

	// Every screening outcome except opening the screening needs comments.
	comments := strings.TrimSpace(req.Comments)
	if decision != services.ScreenOpen && comments == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comments are required for this decision"})
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	target, err := services.ScreeningTarget(submission.Status, decision)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	description := fmt.Sprintf("Screening decision: %s", decision)
	if comments != "" {
		description = fmt.Sprintf("Screening decision %s: %s", decision, comments)
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := services.Transition(tx, &submission, target, services.TransitionEvent{
		ActorID:     userID,
		Description: description,
	}); err != nil {
		tx.Rollback()
		respondWorkflowError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply screening decision"})
		return
	}

	notifyAuthor(&submission, services.EventKeyScreeningResult, map[string]string{
		"submission_number": submission.SubmissionNumber,
		"title":             submission.Title,
		"decision":          decision,
		"comments":          comments,
	})

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Screening decision applied",
		"submission": submission,
	})
}

// AssignReviewer invites a reviewer with a due date.
func AssignReviewer(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)

	type AssignRequest struct {
		ReviewerID int    `json:"reviewer_id" binding:"required"`
		DueDate    string `json:"due_date"` // YYYY-MM-DD, defaults from settings
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}
	if submission.Status != models.StatusUnderReview && submission.Status != models.StatusInitialReview {
		c.JSON(http.StatusConflict, gin.H{"error": "Submission is not in a reviewable state"})
		return
	}

	var reviewer models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL AND is_active = ?", req.ReviewerID, true).
		First(&reviewer).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reviewer not found"})
		return
	}

	settings, err := services.GetJournalSettings(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	dueDate := time.Now().AddDate(0, 0, settings.ReviewDueDays)
	if strings.TrimSpace(req.DueDate) != "" {
		parsed, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date, expected YYYY-MM-DD"})
			return
		}
		dueDate = parsed
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	review, err := services.InviteReviewer(tx, &submission, req.ReviewerID, dueDate, userID)
	if err != nil {
		tx.Rollback()
		respondWorkflowError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign reviewer"})
		return
	}

	if err := services.Notify(config.DB, services.NotifyInput{
		UserID:   req.ReviewerID,
		EventKey: services.EventKeyReviewerInvited,
		Data: map[string]string{
			"submission_number": submission.SubmissionNumber,
			"title":             submission.Title,
			"due_date":          dueDate.Format("2006-01-02"),
		},
		Type:         "info",
		SubmissionID: submission.SubmissionID,
	}); err != nil {
		// Invitation stands even if the notification fails.
		logNotifyFailure("reviewer_invited", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reviewer invited",
		"review":  review,
	})
}

// GetSubmissionReviews returns all reviews on a submission for the
// editor, including the derived overdue flag and completed-count summary.
func GetSubmissionReviews(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var reviews []models.Review
	if err := config.DB.Preload("Reviewer").
		Where("submission_id = ?", submissionID).
		Order("invited_at ASC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	settings, err := services.GetJournalSettings(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	completed := 0
	views := make([]reviewView, 0, len(reviews))
	for i := range reviews {
		if reviews[i].Status == models.ReviewCompleted {
			completed++
		}
		views = append(views, reviewView{
			Review:  reviews[i],
			Overdue: services.IsOverdue(&reviews[i], now),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"reviews":        views,
		"completed":      completed,
		"required":       settings.MinReviews,
		"decision_ready": services.DecisionReady(completed, settings),
	})
}

// MakeDecision applies the editorial decision on an UNDER_REVIEW
// submission once enough completed reviews exist.
func MakeDecision(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)

	type DecisionRequest struct {
		Decision string `json:"decision" binding:"required"`
		Comments string `json:"comments" binding:"required"`
	}
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision := strings.ToUpper(strings.TrimSpace(req.Decision))
	target, err := services.DecisionTarget(decision)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	settings, err := services.GetJournalSettings(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	completed, err := services.CountCompletedReviews(config.DB, submission.SubmissionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !services.DecisionReady(completed, settings) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("%v: %d of %d completed reviews",
				services.ErrNotEnoughReviews, completed, settings.MinReviews),
		})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := services.Transition(tx, &submission, target, services.TransitionEvent{
		ActorID:     userID,
		Description: fmt.Sprintf("Editorial decision %s: %s", decision, strings.TrimSpace(req.Comments)),
	}); err != nil {
		tx.Rollback()
		respondWorkflowError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply decision"})
		return
	}

	notifyAuthor(&submission, services.EventKeyDecisionMade, map[string]string{
		"submission_number": submission.SubmissionNumber,
		"title":             submission.Title,
		"decision":          decision,
		"comments":          strings.TrimSpace(req.Comments),
	})

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Decision applied",
		"submission": submission,
	})
}

// RevisionDecision handles a REVISED submission: accept, send for
// re-review, or reject. Re-review reopens the review cycle with at least
// one reviewer.
func RevisionDecision(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)

	type RevisionDecisionRequest struct {
		Decision    string `json:"decision" binding:"required"`
		Comments    string `json:"comments" binding:"required"`
		ReviewerIDs []int  `json:"reviewer_ids"`
	}
	var req RevisionDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision := strings.ToUpper(strings.TrimSpace(req.Decision))
	if decision == services.RevisionDecisionReview && len(req.ReviewerIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Re-review requires at least one reviewer"})
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	target, err := services.RevisionDecisionTarget(submission.Status, decision)
	if err != nil {
		respondWorkflowError(c, err)
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

	if err := services.Transition(tx, &submission, target, services.TransitionEvent{
		ActorID:     userID,
		Description: fmt.Sprintf("Revision decision %s: %s", decision, strings.TrimSpace(req.Comments)),
	}); err != nil {
		tx.Rollback()
		respondWorkflowError(c, err)
		return
	}

	if decision == services.RevisionDecisionReview {
		dueDate := time.Now().AddDate(0, 0, settings.ReviewDueDays)
		for _, reviewerID := range req.ReviewerIDs {
			if _, err := services.InviteReviewer(tx, &submission, reviewerID, dueDate, userID); err != nil {
				tx.Rollback()
				respondWorkflowError(c, err)
				return
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply revision decision"})
		return
	}

	notifyAuthor(&submission, services.EventKeyDecisionMade, map[string]string{
		"submission_number": submission.SubmissionNumber,
		"title":             submission.Title,
		"decision":          decision,
		"comments":          strings.TrimSpace(req.Comments),
	})

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Revision decision applied",
		"submission": submission,
	})
}

// SendReviewReminder nudges an unresponsive reviewer.
func SendReviewReminder(c *gin.Context) {
	reviewID, ok := paramID(c, "reviewId")
	if !ok {
		return
	}
	userID := currentUserID(c)

	review, ok := findReview(c, reviewID)
	if !ok {
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := services.SendReminder(tx, review, userID); err != nil {
		tx.Rollback()
		respondWorkflowError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send reminder"})
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ?", review.SubmissionID).First(&submission).Error; err == nil {
		if err := services.Notify(config.DB, services.NotifyInput{
			UserID:   review.ReviewerID,
			EventKey: services.EventKeyReviewReminder,
			Data: map[string]string{
				"submission_number": submission.SubmissionNumber,
				"title":             submission.Title,
				"due_date":          review.DueDate.Format("2006-01-02"),
			},
			Type:         "warning",
			SubmissionID: submission.SubmissionID,
		}); err != nil {
			logNotifyFailure("review_reminder", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reminder sent",
		"review":  review,
	})
}

// ExtendReviewDeadline pushes a review due date forward.
func ExtendReviewDeadline(c *gin.Context) {
	reviewID, ok := paramID(c, "reviewId")
	if !ok {
		return
	}
	userID := currentUserID(c)

	type ExtendRequest struct {
		NewDate string `json:"new_date" binding:"required"` // YYYY-MM-DD
		Reason  string `json:"reason" binding:"required"`
	}
	var req ExtendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newDate, err := time.Parse("2006-01-02", req.NewDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	review, ok := findReview(c, reviewID)
	if !ok {
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := services.ExtendDeadline(tx, review, newDate, req.Reason, userID); err != nil {
		tx.Rollback()
		respondWorkflowError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to extend deadline"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Deadline extended",
		"review":  review,
	})
}

// RemoveReviewer forces an open review to DECLINED with a reason.
func RemoveReviewer(c *gin.Context) {
	reviewID, ok := paramID(c, "reviewId")
	if !ok {
		return
	}
	userID := currentUserID(c)

	type RemoveRequest struct {
		Reason string `json:"reason" binding:"required"`
	}
	var req RemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, ok := findReview(c, reviewID)
	if !ok {
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := services.RemoveReviewer(tx, review, req.Reason, userID); err != nil {
		tx.Rollback()
		respondWorkflowError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove reviewer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reviewer removed",
		"review":  review,
	})
}

// GetReviewers lists active users eligible to review.
func GetReviewers(c *gin.Context) {
	var reviewers []models.User
	if err := config.DB.
		Where("role_id IN ? AND delete_at IS NULL AND is_active = ?",
			[]int{models.RoleReviewer, models.RoleEditor}, true).
		Order("last_name ASC").
		Find(&reviewers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviewers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"reviewers": reviewers,
		"total":     len(reviewers),
	})
}

func findReview(c *gin.Context, reviewID int) (*models.Review, bool) {
	var review models.Review
	if err := config.DB.Where("review_id = ?", reviewID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load review"})
		}
		return nil, false
	}
	return &review, true
}

func notifyAuthor(submission *models.Submission, eventKey string, data map[string]string) {
	if err := services.Notify(config.DB, services.NotifyInput{
		UserID:       submission.UserID,
		EventKey:     eventKey,
		Data:         data,
		Type:         "info",
		SubmissionID: submission.SubmissionID,
	}); err != nil {
		logNotifyFailure(eventKey, err)
	}
}
