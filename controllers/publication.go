// controllers/publication.go - Admin publish gate and public article reads
package controllers

import (
	"net/http"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

// PublishSubmission moves an accepted, paid submission to PUBLISHED,
// assigning the DOI if absent and creating the public article record.
func PublishSubmission(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)

	type PublishRequest struct {
		Volume *int    `json:"volume"`
		Issue  *int    `json:"issue"`
		Pages  *string `json:"pages"`
	}
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	article, err := services.Publish(tx, &submission, services.PublicationInput{
		Volume: req.Volume,
		Issue:  req.Issue,
		Pages:  req.Pages,
	}, settings, userID)
	if err != nil {
		tx.Rollback()
		respondWorkflowError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish"})
		return
	}

	notifyAuthor(&submission, services.EventKeyPublished, map[string]string{
		"submission_number": submission.SubmissionNumber,
		"title":             submission.Title,
		"doi":               article.DOI,
	})

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Submission published",
		"submission": submission,
		"article":    article,
	})
}

// UnpublishSubmission reverts a published submission to ACCEPTED and
// retires the public article. The timeline and DOI are retained.
func UnpublishSubmission(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)

	type UnpublishRequest struct {
		Reason string `json:"reason"`
	}
	var req UnpublishRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := services.Unpublish(tx, &submission, userID, req.Reason); err != nil {
		tx.Rollback()
		respondWorkflowError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unpublish"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Submission unpublished",
		"submission": submission,
	})
}

// GetArticles returns the public article listing, newest first.
func GetArticles(c *gin.Context) {
	volume := c.Query("volume")
	issue := c.Query("issue")

	var articles []models.Article
	query := config.DB.Where("deleted_at IS NULL")
	if volume != "" {
		query = query.Where("volume = ?", volume)
	}
	if issue != "" {
		query = query.Where("issue = ?", issue)
	}

	if err := query.Order("published_at DESC").Find(&articles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch articles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"articles": articles,
		"total":    len(articles),
	})
}

// GetArticle returns one public article by id.
func GetArticle(c *gin.Context) {
	articleID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var article models.Article
	if err := config.DB.Where("article_id = ? AND deleted_at IS NULL", articleID).
		First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"article": article,
	})
}
