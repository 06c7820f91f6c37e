package services

import (
	"fmt"

	"journal-management-api/models"

	"gorm.io/gorm"
)

// NextAuthorOrder returns the display_order for the next co-author on a
// submission: one past the current maximum, starting at 1 when the
// submission has no co-authors yet.
func NextAuthorOrder(db *gorm.DB, submissionID int) (int, error) {
	var maxOrder int
	if err := db.Model(&models.SubmissionAuthor{}).
		Where("submission_id = ?", submissionID).
		Select("COALESCE(MAX(display_order), 0)").
		Scan(&maxOrder).Error; err != nil {
		return 0, fmt.Errorf("failed to determine author order: %w", err)
	}
	return maxOrder + 1, nil
}
