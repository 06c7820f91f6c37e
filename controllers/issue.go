// controllers/issue.go - Journal issue management (admin)
package controllers

import (
	"net/http"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"

	"github.com/gin-gonic/gin"
)

// GetIssues lists journal issues, newest volume/number first.
func GetIssues(c *gin.Context) {
	var issues []models.Issue
	if err := config.DB.Order("volume DESC, number DESC").Find(&issues).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch issues"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "issues": issues})
}

// CreateIssue creates a new journal issue.
func CreateIssue(c *gin.Context) {
	var req struct {
		Volume int     `json:"volume" binding:"required"`
		Number int     `json:"number" binding:"required"`
		Year   int     `json:"year" binding:"required"`
		Title  *string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var existing int64
	if err := config.DB.Model(&models.Issue{}).
		Where("volume = ? AND number = ?", req.Volume, req.Number).
		Count(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check issues"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Issue already exists"})
		return
	}

	now := time.Now()
	issue := models.Issue{
		Volume:    req.Volume,
		Number:    req.Number,
		Year:      req.Year,
		Title:     req.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := config.DB.Create(&issue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "issue": issue})
}

// UpdateIssue edits an issue's metadata or marks it published.
func UpdateIssue(c *gin.Context) {
	issueID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title       *string `json:"title"`
		IsPublished *bool   `json:"is_published"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var issue models.Issue
	if err := config.DB.Where("issue_id = ?", issueID).First(&issue).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	now := time.Now()
	if req.Title != nil {
		issue.Title = req.Title
	}
	if req.IsPublished != nil {
		issue.IsPublished = *req.IsPublished
		if *req.IsPublished && issue.PublishedAt == nil {
			issue.PublishedAt = &now
		}
	}
	issue.UpdatedAt = now

	if err := config.DB.Save(&issue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "issue": issue})
}
