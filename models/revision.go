package models

import "time"

// Revision represents a versioned resubmission bundle. Revision numbers
// are strictly increasing per submission starting at 1; earlier revisions
// and their files are never deleted.
type Revision struct {
	RevisionID     int       `gorm:"primaryKey;column:revision_id" json:"revision_id"`
	SubmissionID   int       `gorm:"column:submission_id" json:"submission_id"`
	RevisionNumber int       `gorm:"column:revision_number" json:"revision_number"`
	ResponseText   string    `gorm:"column:response_text" json:"response_text"`
	SubmittedAt    time.Time `gorm:"column:submitted_at" json:"submitted_at"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`

	Files []SubmissionFile `gorm:"foreignKey:RevisionID" json:"files,omitempty"`
}

// TableName specifies the table for Revision.
func (Revision) TableName() string {
	return "revisions"
}
