// controllers/document.go - Manuscript file management
package controllers

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func uploadBasePath() string {
	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	return uploadPath
}

// UploadSubmissionFile stores a manuscript, figure or supplement file for
// an editable submission.
func UploadSubmissionFile(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := currentUserID(c)

	submission, ok := findSubmission(c, submissionID)
	if !ok {
		return
	}
	if !submission.IsEditable() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot upload files to a submitted manuscript"})
		return
	}

	kind := c.PostForm("kind")
	if kind == "" {
		kind = "manuscript"
	}
	validKinds := map[string]bool{"manuscript": true, "figure": true, "supplement": true}
	if !validKinds[kind] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file kind"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// Validate file size
	maxSize := int64(20 * 1024 * 1024) // 20MB
	if file.Size > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds 20MB limit"})
		return
	}

	mimeType := file.Header.Get("Content-Type")
	if kind == "manuscript" && !models.IsValidDocumentMime(mimeType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Manuscript must be a PDF, Word or TeX document"})
		return
	}

	record, apiErr := storeSubmissionFile(c, submission, nil, kind, file.Filename, mimeType, file.Size,
		func(dst string) error { return c.SaveUploadedFile(file, dst) })
	if apiErr != "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": apiErr})
		return
	}

	if err := services.AppendTimeline(config.DB, submission.SubmissionID, models.EventFileUploaded,
		"File uploaded: "+file.Filename, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record upload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "File uploaded successfully",
		"file":    record,
	})
}

// storeSubmissionFile saves the bytes under a uuid name and creates the
// submission_files row. Returns an error message for the API on failure.
func storeSubmissionFile(c *gin.Context, submission *models.Submission, revisionID *int, kind, originalName, mimeType string, size int64, save func(string) error) (*models.SubmissionFile, string) {
	folder := filepath.Join(uploadBasePath(), submission.SubmissionNumber)
	if err := os.MkdirAll(folder, os.ModePerm); err != nil {
		return nil, "Failed to create upload directory"
	}

	storedName := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	fullPath := filepath.Join(folder, storedName)

	if err := save(fullPath); err != nil {
		return nil, "Failed to save file"
	}

	hash := ""
	if f, err := os.Open(fullPath); err == nil {
		h := sha256.New()
		if _, err := io.Copy(h, f); err == nil {
			hash = hex.EncodeToString(h.Sum(nil))
		}
		f.Close()
	}

	record := models.SubmissionFile{
		SubmissionID: submission.SubmissionID,
		RevisionID:   revisionID,
		Kind:         kind,
		OriginalName: originalName,
		StoredPath:   fullPath,
		FileSize:     size,
		MimeType:     mimeType,
		FileHash:     hash,
		UploadedBy:   currentUserID(c),
		UploadedAt:   time.Now(),
	}
	if err := config.DB.Create(&record).Error; err != nil {
		os.Remove(fullPath)
		return nil, "Failed to save file record"
	}
	return &record, ""
}

// GetSubmissionFiles lists the files of a submission.
func GetSubmissionFiles(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, ok := findSubmission(c, submissionID); !ok {
		return
	}

	var files []models.SubmissionFile
	if err := config.DB.Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		Order("uploaded_at ASC").
		Find(&files).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch files"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"files":   files,
		"total":   len(files),
	})
}

// DownloadSubmissionFile streams a stored file. Reviewers may download
// files of submissions they review; identity checks stay with the
// ownership rule in findSubmission for authors.
func DownloadSubmissionFile(c *gin.Context) {
	fileID, ok := paramID(c, "file_id")
	if !ok {
		return
	}
	userID := currentUserID(c)
	roleID := currentRoleID(c)

	var file models.SubmissionFile
	if err := config.DB.Where("file_id = ? AND deleted_at IS NULL", fileID).First(&file).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if !models.IsEditorialRole(roleID) {
		var submission models.Submission
		if err := config.DB.Where("submission_id = ? AND deleted_at IS NULL", file.SubmissionID).
			First(&submission).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		if submission.UserID != userID {
			// Allow assigned reviewers
			var reviewCount int64
			config.DB.Model(&models.Review{}).
				Where("submission_id = ? AND reviewer_id = ?", file.SubmissionID, userID).
				Count(&reviewCount)
			if reviewCount == 0 {
				c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to download this file"})
				return
			}
		}
	}

	if _, err := os.Stat(file.StoredPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stored file missing"})
		return
	}

	c.FileAttachment(file.StoredPath, file.OriginalName)
}

// DeleteSubmissionFile soft-deletes a file from an editable submission.
// Files attached to revisions are never deleted (audit trail).
func DeleteSubmissionFile(c *gin.Context) {
	fileID, ok := paramID(c, "file_id")
	if !ok {
		return
	}

	var file models.SubmissionFile
	if err := config.DB.Where("file_id = ? AND deleted_at IS NULL", fileID).First(&file).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	submission, ok := findSubmission(c, file.SubmissionID)
	if !ok {
		return
	}
	if !submission.IsEditable() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete files of a submitted manuscript"})
		return
	}
	if file.RevisionID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Revision files cannot be deleted"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.SubmissionFile{}).
		Where("file_id = ?", file.FileID).
		Update("deleted_at", now).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "File deleted"})
}
