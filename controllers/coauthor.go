// controllers/coauthor.go - Co-author management
package controllers

import (
	"net/http"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

// AddCoauthor adds a co-author to an editable submission.
func AddCoauthor(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	type AddCoauthorRequest struct {
		UserID          int  `json:"user_id" binding:"required"`
		DisplayOrder    int  `json:"display_order"`
		IsCorresponding bool `json:"is_corresponding"`
	}

	var req AddCoauthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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

	// Validate co-author user exists
	var coauthor models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", req.UserID).First(&coauthor).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Co-author user not found"})
		return
	}

	// Prevent adding the submission owner as co-author
	if submission.UserID == req.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot add submission owner as co-author"})
		return
	}

	// Check if user is already a co-author
	var existing models.SubmissionAuthor
	if err := config.DB.Where("submission_id = ? AND user_id = ?", submissionID, req.UserID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User is already a co-author"})
		return
	}

	// Auto-assign display order if not provided
	if req.DisplayOrder == 0 {
		order, err := services.NextAuthorOrder(config.DB, submissionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		req.DisplayOrder = order
	}

	entry := models.SubmissionAuthor{
		SubmissionID:    submission.SubmissionID,
		UserID:          req.UserID,
		DisplayOrder:    req.DisplayOrder,
		IsCorresponding: req.IsCorresponding,
		CreatedAt:       time.Now(),
	}

	if err := config.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add co-author"})
		return
	}

	config.DB.Preload("User").First(&entry, entry.ID)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Co-author added successfully",
		"coauthor": entry,
	})
}

// GetCoauthors returns all co-authors for a submission in display order.
func GetCoauthors(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if _, ok := findSubmission(c, submissionID); !ok {
		return
	}

	var coauthors []models.SubmissionAuthor
	if err := config.DB.Preload("User").
		Where("submission_id = ?", submissionID).
		Order("display_order ASC").
		Find(&coauthors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch co-authors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"coauthors": coauthors,
		"total":     len(coauthors),
	})
}

// RemoveCoauthor removes a co-author from an editable submission.
func RemoveCoauthor(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	coauthorID, ok := paramID(c, "coauthor_id")
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

	result := config.DB.Where("id = ? AND submission_id = ?", coauthorID, submissionID).
		Delete(&models.SubmissionAuthor{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove co-author"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Co-author not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Co-author removed"})
}

// AddExcludedReviewer records a reviewer the author asks to exclude.
func AddExcludedReviewer(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}

	type ExcludeRequest struct {
		UserID int    `json:"user_id" binding:"required"`
		Reason string `json:"reason"`
	}
	var req ExcludeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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

	var existing models.ExcludedReviewer
	if err := config.DB.Where("submission_id = ? AND user_id = ?", submissionID, req.UserID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Reviewer already excluded"})
		return
	}

	entry := models.ExcludedReviewer{
		SubmissionID: submission.SubmissionID,
		UserID:       req.UserID,
		CreatedAt:    time.Now(),
	}
	if req.Reason != "" {
		entry.Reason = &req.Reason
	}

	if err := config.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to exclude reviewer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reviewer excluded", "excluded": entry})
}
