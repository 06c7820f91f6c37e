package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func currentUserID(c *gin.Context) int {
	value, _ := c.Get("userID")
	userID, _ := value.(int)
	return userID
}

func currentRoleID(c *gin.Context) int {
	value, _ := c.Get("roleID")
	roleID, _ := value.(int)
	return roleID
}

func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// respondWorkflowError maps service errors onto the HTTP taxonomy: state
// violations 409, precondition/validation failures 400, missing rows 404.
func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrReviewNotOpen),
		errors.Is(err, services.ErrReviewClosed),
		errors.Is(err, services.ErrAlreadyReviewing):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPreconditionFailed),
		errors.Is(err, services.ErrReviewerExcluded),
		errors.Is(err, services.ErrNotEnoughReviews),
		errors.Is(err, services.ErrPaymentRequired),
		errors.Is(err, services.ErrCommentsRequired),
		errors.Is(err, services.ErrInvalidRecommend),
		errors.Is(err, services.ErrDeadlineNotExtended):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// logNotifyFailure records a best-effort notification failure. The
// triggering state change is already committed and stays committed.
func logNotifyFailure(eventKey string, err error) {
	log.Printf("notification dispatch failed (event=%s): %v", eventKey, err)
}

// findSubmission loads a submission enforcing ownership for non-editorial
// roles.
func findSubmission(c *gin.Context, submissionID int) (*models.Submission, bool) {
	userID := currentUserID(c)
	roleID := currentRoleID(c)

	var submission models.Submission
	query := config.DB.Where("submission_id = ? AND deleted_at IS NULL", submissionID)
	if !models.IsEditorialRole(roleID) {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return nil, false
	}
	return &submission, true
}
