// controllers/revision.go - Author revision handling
package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

// SubmitRevision creates the next revision bundle for a
// REVISION_REQUIRED submission and moves it to REVISED. The request is a
// multipart form: response_text plus zero or more files; at least one of
// the two must be present. Prior revisions and their files are kept.
func SubmitRevision(c *gin.Context) {
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

	responseText := strings.TrimSpace(c.PostForm("response_text"))

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}
	files := form.File["files"]

	if responseText == "" && len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A revision needs a response text or at least one file"})
		return
	}

	if submission.Status != models.StatusRevisionRequired {
		c.JSON(http.StatusConflict, gin.H{"error": "Submission is not awaiting a revision"})
		return
	}

	revisionNumber, err := services.NextRevisionNumber(config.DB, submission.SubmissionID)
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

	now := time.Now()
	revision := models.Revision{
		SubmissionID:   submission.SubmissionID,
		RevisionNumber: revisionNumber,
		ResponseText:   responseText,
		SubmittedAt:    now,
		CreatedAt:      now,
	}
	if err := tx.Create(&revision).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create revision"})
		return
	}

	if err := services.AppendTimeline(tx, submission.SubmissionID, models.EventRevision,
		fmt.Sprintf("Revision %d received with author response", revisionNumber), userID); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record revision"})
		return
	}

	if err := services.Transition(tx, &submission, models.StatusRevised, services.TransitionEvent{
		ActorID:     userID,
		Description: fmt.Sprintf("Revision %d submitted", revisionNumber),
	}); err != nil {
		tx.Rollback()
		respondWorkflowError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit revision"})
		return
	}

	// Files are stored after the commit; a failed save leaves the
	// revision valid with the response text.
	saved := make([]models.SubmissionFile, 0, len(files))
	for _, file := range files {
		fileHeader := file
		record, apiErr := storeSubmissionFile(c, &submission, &revision.RevisionID, "revision",
			fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size,
			func(dst string) error { return c.SaveUploadedFile(fileHeader, dst) })
		if apiErr != "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": apiErr})
			return
		}
		saved = append(saved, *record)
	}

	data := map[string]string{
		"submission_number": submission.SubmissionNumber,
		"title":             submission.Title,
		"revision_number":   fmt.Sprintf("%d", revisionNumber),
	}
	services.NotifyMany(config.DB, services.EditorialUserIDs(config.DB),
		services.EventKeyRevisionReceived, data, "info", submission.SubmissionID)

	revision.Files = saved
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Revision submitted",
		"revision":   revision,
		"submission": submission,
	})
}

// GetRevisions lists a submission's revisions, newest first.
func GetRevisions(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, ok := findSubmission(c, submissionID); !ok {
		return
	}

	var revisions []models.Revision
	if err := config.DB.Preload("Files").
		Where("submission_id = ?", submissionID).
		Order("revision_number DESC").
		Find(&revisions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch revisions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"revisions": revisions,
		"total":     len(revisions),
	})
}
