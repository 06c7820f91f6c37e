// controllers/review.go - Reviewer-facing endpoints
package controllers

import (
	"net/http"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

// reviewView decorates a review with the derived overdue flag for the UI.
type reviewView struct {
	models.Review
	Overdue bool `json:"overdue"`
}

// GetMyReviews returns the caller's review assignments with the derived
// overdue flag.
func GetMyReviews(c *gin.Context) {
	userID := currentUserID(c)
	statusFilter := c.Query("status")

	var reviews []models.Review
	query := config.DB.Preload("Submission").
		Where("reviewer_id = ?", userID)
	if statusFilter != "" {
		query = query.Where("status = ?", statusFilter)
	}
	if err := query.Order("due_date ASC").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	now := time.Now()
	views := make([]reviewView, 0, len(reviews))
	for i := range reviews {
		// Reviewer never sees author identity on double-blind submissions.
		if reviews[i].Submission != nil && reviews[i].Submission.DoubleBlind {
			reviews[i].Submission.User = nil
			reviews[i].Submission.UserID = 0
		}
		views = append(views, reviewView{
			Review:  reviews[i],
			Overdue: services.IsOverdue(&reviews[i], now),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reviews": views,
		"total":   len(views),
	})
}

// RespondToReview lets the invited reviewer accept or decline. A repeat
// call on a non-pending review is rejected as a state violation.
func RespondToReview(c *gin.Context) {
	reviewID, ok := paramID(c, "reviewId")
	if !ok {
		return
	}
	userID := currentUserID(c)

	type RespondRequest struct {
		Accept *bool  `json:"accept" binding:"required"`
		Notes  string `json:"notes"`
	}
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var review models.Review
	if err := config.DB.Where("review_id = ? AND reviewer_id = ?", reviewID, userID).
		First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := services.RespondToInvitation(tx, &review, *req.Accept, req.Notes); err != nil {
		tx.Rollback()
		respondWorkflowError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record response"})
		return
	}

	message := "Invitation declined"
	if *req.Accept {
		message = "Invitation accepted"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"review":  review,
	})
}

// SubmitReview records the completed assessment. Only valid from
// IN_PROGRESS; the review is immutable afterwards.
func SubmitReview(c *gin.Context) {
	reviewID, ok := paramID(c, "reviewId")
	if !ok {
		return
	}
	userID := currentUserID(c)

	type SubmitReviewRequest struct {
		Recommendation       string `json:"recommendation" binding:"required"`
		Rating               int    `json:"rating" binding:"required"`
		AuthorComments       string `json:"author_comments" binding:"required"`
		ConfidentialComments string `json:"confidential_comments"`
	}
	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var review models.Review
	if err := config.DB.Where("review_id = ? AND reviewer_id = ?", reviewID, userID).
		First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := services.CompleteReview(tx, &review, services.ReviewSubmission{
		Recommendation:       req.Recommendation,
		Rating:               req.Rating,
		AuthorComments:       req.AuthorComments,
		ConfidentialComments: req.ConfidentialComments,
	}); err != nil {
		tx.Rollback()
		respondWorkflowError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit review"})
		return
	}

	// Tell the editors a review arrived; best-effort.
	var submission models.Submission
	if err := config.DB.Where("submission_id = ?", review.SubmissionID).First(&submission).Error; err == nil {
		data := map[string]string{
			"submission_number": submission.SubmissionNumber,
			"title":             submission.Title,
		}
		services.NotifyMany(config.DB, services.EditorialUserIDs(config.DB),
			services.EventKeyReviewCompleted, data, "info", submission.SubmissionID)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review submitted",
		"review":  review,
	})
}
