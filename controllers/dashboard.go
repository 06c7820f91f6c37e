// controllers/dashboard.go - Workload overview for the editorial office
package controllers

import (
	"net/http"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetEditorDashboard returns submission counts by status, review
// workload, and payment totals for the editorial dashboard.
func GetEditorDashboard(c *gin.Context) {
	type statusCount struct {
		Status models.SubmissionStatus `json:"status"`
		Count  int64                   `json:"count"`
	}

	var byStatus []statusCount
	if err := config.DB.Model(&models.Submission{}).
		Select("status, COUNT(*) as count").
		Where("deleted_at IS NULL").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submission stats"})
		return
	}

	var pendingInvites, activeReviews int64
	if err := config.DB.Model(&models.Review{}).
		Where("status = ?", models.ReviewPending).
		Count(&pendingInvites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch review stats"})
		return
	}
	if err := config.DB.Model(&models.Review{}).
		Where("status = ?", models.ReviewInProgress).
		Count(&activeReviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch review stats"})
		return
	}

	// Overdue is derived from the due date, never stored.
	var openReviews []models.Review
	if err := config.DB.
		Where("status IN ?", []models.ReviewStatus{models.ReviewPending, models.ReviewInProgress}).
		Find(&openReviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch review stats"})
		return
	}
	now := time.Now()
	var overdue int64
	for i := range openReviews {
		if services.IsOverdue(&openReviews[i], now) {
			overdue++
		}
	}

	var pendingPayments, paidPayments int64
	config.DB.Model(&models.Payment{}).Where("status = ?", models.PaymentPending).Count(&pendingPayments)
	config.DB.Model(&models.Payment{}).Where("status = ?", models.PaymentPaid).Count(&paidPayments)

	var recent []models.Submission
	if err := config.DB.Preload("Authors").Preload("Authors.User").
		Where("deleted_at IS NULL AND status != ?", models.StatusDraft).
		Order("created_at DESC").Limit(10).
		Find(&recent).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"submissions_by_status": byStatus,
		"reviews": gin.H{
			"pending_invitations": pendingInvites,
			"in_progress":         activeReviews,
			"overdue":             overdue,
		},
		"payments": gin.H{
			"pending": pendingPayments,
			"paid":    paidPayments,
		},
		"recent_submissions": recent,
	})
}
