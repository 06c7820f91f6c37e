// controllers/submission.go
package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"
	"journal-management-api/utils"

	"github.com/gin-gonic/gin"
)

var submissionNumberMutex sync.Mutex

// ===================== SUBMISSION MANAGEMENT =====================

// GetSubmissions returns the caller's submissions (all submissions for
// editors and admins).
func GetSubmissions(c *gin.Context) {
	userID := currentUserID(c)
	roleID := currentRoleID(c)

	status := c.Query("status")
	manuscriptType := c.Query("manuscript_type")

	var submissions []models.Submission
	query := config.DB.Preload("User").
		Preload("Authors.User").
		Preload("Files").
		Where("deleted_at IS NULL")

	// Filter by owner if not an editorial role
	if !models.IsEditorialRole(roleID) {
		query = query.Where("user_id = ?", userID)
	}

	// Apply filters
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if manuscriptType != "" {
		query = query.Where("manuscript_type = ?", manuscriptType)
	}

	if err := query.Order("created_at DESC").Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// GetSubmission returns a specific submission with its relations.
func GetSubmission(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)
	roleID := currentRoleID(c)

	var submission models.Submission
	query := config.DB.Preload("User").
		Preload("Authors.User").
		Preload("Files").
		Preload("Revisions.Files").
		Preload("Reviews.Reviewer")

	if !models.IsEditorialRole(roleID) {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.Where("submission_id = ? AND deleted_at IS NULL", submissionID).First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	// Authors never see confidential reviewer comments or reviewer
	// identities on double-blind submissions.
	if !models.IsEditorialRole(roleID) {
		for i := range submission.Reviews {
			submission.Reviews[i].ConfidentialComments = nil
			if submission.DoubleBlind {
				submission.Reviews[i].Reviewer = nil
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": submission,
	})
}

// CreateSubmission creates a new submission in DRAFT.
func CreateSubmission(c *gin.Context) {
	userID := currentUserID(c)

	type CreateSubmissionRequest struct {
		Title          string `json:"title" binding:"required"`
		Abstract       string `json:"abstract"`
		Keywords       string `json:"keywords"`
		ManuscriptType string `json:"manuscript_type" binding:"required"`
		DoubleBlind    bool   `json:"double_blind"`
	}

	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Validate manuscript type
	validTypes := []string{"research_article", "review_article", "short_communication", "case_report"}
	isValidType := false
	for _, validType := range validTypes {
		if req.ManuscriptType == validType {
			isValidType = true
			break
		}
	}
	if !isValidType {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manuscript type"})
		return
	}

	now := time.Now()
	submission := models.Submission{
		SubmissionNumber: generateSubmissionNumber(req.ManuscriptType),
		UserID:           userID,
		Title:            utils.SanitizeInput(req.Title),
		Abstract:         utils.SanitizeInput(req.Abstract),
		Keywords:         utils.SanitizeInput(req.Keywords),
		ManuscriptType:   req.ManuscriptType,
		Status:           models.StatusDraft,
		DoubleBlind:      req.DoubleBlind,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := config.DB.Create(&submission).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create submission"})
		return
	}

	config.DB.Preload("User").First(&submission, submission.SubmissionID)
	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Submission created successfully",
		"submission": submission,
	})
}

// UpdateSubmission updates a draft's metadata.
func UpdateSubmission(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	submission, ok := findSubmission(c, submissionID)
	if !ok {
		return
	}
	if !submission.IsEditable() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot modify a submitted manuscript"})
		return
	}

	type UpdateSubmissionRequest struct {
		Title       *string `json:"title"`
		Abstract    *string `json:"abstract"`
		Keywords    *string `json:"keywords"`
		DoubleBlind *bool   `json:"double_blind"`
	}

	var req UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title cannot be empty"})
			return
		}
		updates["title"] = utils.SanitizeInput(*req.Title)
	}
	if req.Abstract != nil {
		updates["abstract"] = utils.SanitizeInput(*req.Abstract)
	}
	if req.Keywords != nil {
		updates["keywords"] = utils.SanitizeInput(*req.Keywords)
	}
	if req.DoubleBlind != nil {
		updates["double_blind"] = *req.DoubleBlind
	}

	if err := config.DB.Model(&models.Submission{}).
		Where("submission_id = ?", submission.SubmissionID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission"})
		return
	}

	config.DB.First(submission, submission.SubmissionID)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Submission updated successfully",
		"submission": submission,
	})
}

// DeleteSubmission soft-deletes a DRAFT. Submitted manuscripts are never
// deleted; authors withdraw them instead.
func DeleteSubmission(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	submission, ok := findSubmission(c, submissionID)
	if !ok {
		return
	}
	if submission.Status != models.StatusDraft {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only drafts can be deleted; withdraw instead"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.Submission{}).
		Where("submission_id = ?", submission.SubmissionID).
		Updates(map[string]interface{}{"deleted_at": now, "updated_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete submission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Draft deleted"})
}

// SubmitSubmission moves a DRAFT (or a manuscript returned for
// formatting) to SUBMITTED once the required fields and the main
// manuscript file are present.
func SubmitSubmission(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND user_id = ? AND deleted_at IS NULL", submissionID, userID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	if strings.TrimSpace(submission.Title) == "" || strings.TrimSpace(submission.Abstract) == "" || strings.TrimSpace(submission.Keywords) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title, abstract and keywords are required before submitting"})
		return
	}

	var manuscriptCount int64
	if err := config.DB.Model(&models.SubmissionFile{}).
		Where("submission_id = ? AND kind = ? AND deleted_at IS NULL", submission.SubmissionID, "manuscript").
		Count(&manuscriptCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check manuscript files"})
		return
	}
	if manuscriptCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A main manuscript file is required before submitting"})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := services.Transition(tx, &submission, models.StatusSubmitted, services.TransitionEvent{
		ActorID:     userID,
		Description: "Manuscript submitted for consideration",
	}); err != nil {
		tx.Rollback()
		respondWorkflowError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize submission"})
		return
	}

	data := map[string]string{
		"submission_number": submission.SubmissionNumber,
		"title":             submission.Title,
	}
	services.NotifyMany(config.DB, append(services.EditorialUserIDs(config.DB), userID),
		services.EventKeySubmissionReceived, data, "info", submission.SubmissionID)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Manuscript submitted",
		"submission": submission,
	})
}

// WithdrawSubmission moves any non-terminal submission to WITHDRAWN.
func WithdrawSubmission(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)

	type WithdrawRequest struct {
		Reason string `json:"reason"`
	}
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND user_id = ? AND deleted_at IS NULL", submissionID, userID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	description := "Submission withdrawn by author"
	if trimmed := strings.TrimSpace(req.Reason); trimmed != "" {
		description = fmt.Sprintf("Submission withdrawn by author: %s", trimmed)
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := services.Transition(tx, &submission, models.StatusWithdrawn, services.TransitionEvent{
		ActorID:     userID,
		Description: description,
	}); err != nil {
		tx.Rollback()
		respondWorkflowError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to withdraw submission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Submission withdrawn",
		"submission": submission,
	})
}

// GetSubmissionTimeline returns the append-only event log, oldest first.
func GetSubmissionTimeline(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if _, ok := findSubmission(c, submissionID); !ok {
		return
	}

	var entries []models.SubmissionTimeline
	if err := config.DB.Preload("Performer").
		Where("submission_id = ?", submissionID).
		Order("created_at ASC, timeline_id ASC").
		Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch timeline"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"timeline": entries,
		"total":    len(entries),
	})
}

// generateSubmissionNumber builds a unique human-readable manuscript
// number such as JMS-2026-RA-163553.
func generateSubmissionNumber(manuscriptType string) string {
	submissionNumberMutex.Lock()
	defer submissionNumberMutex.Unlock()

	var prefix string
	switch manuscriptType {
	case "research_article":
		prefix = "RA"
	case "review_article":
		prefix = "RV"
	case "short_communication":
		prefix = "SC"
	case "case_report":
		prefix = "CR"
	default:
		prefix = "MS"
	}

	now := time.Now()
	return fmt.Sprintf("JMS-%d-%s-%06d", now.Year(), prefix, now.UnixNano()%1000000)
}
