// controllers/settings.go - Admin-managed journal configuration and email templates
package controllers

import (
	"net/http"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// GetSystemSettings returns every key-value setting row plus the
// resolved settings the workflow actually runs with.
func GetSystemSettings(c *gin.Context) {
	var rows []models.SystemSetting
	if err := config.DB.Order("setting_key").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}

	effective, err := services.GetJournalSettings(config.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"settings":  rows,
		"effective": effective,
	})
}

// UpdateSystemSettings upserts the posted key-value pairs and drops
// the settings cache so the new values take effect immediately.
func UpdateSystemSettings(c *gin.Context) {
	var req struct {
		Settings map[string]string `json:"settings" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if len(req.Settings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No settings provided"})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for key, value := range req.Settings {
		row := models.SystemSetting{SettingKey: key, SettingValue: value}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "setting_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"setting_value"}),
		}).Create(&row).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	services.ClearSettingsCache()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Settings updated"})
}

// GetEmailTemplates lists all email templates.
func GetEmailTemplates(c *gin.Context) {
	var templates []models.EmailTemplate
	if err := config.DB.Where("deleted_at IS NULL").Order("template_key").Find(&templates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch templates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "templates": templates})
}

// UpdateEmailTemplate edits the subject/body of one template.
func UpdateEmailTemplate(c *gin.Context) {
	templateID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		SubjectTemplate string  `json:"subject_template" binding:"required"`
		BodyTemplate    string  `json:"body_template" binding:"required"`
		Description     *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var tmpl models.EmailTemplate
	if err := config.DB.Where("template_id = ? AND deleted_at IS NULL", templateID).First(&tmpl).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	tmpl.SubjectTemplate = req.SubjectTemplate
	tmpl.BodyTemplate = req.BodyTemplate
	if req.Description != nil {
		tmpl.Description = req.Description
	}
	if err := config.DB.Save(&tmpl).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update template"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "template": tmpl})
}
