package models

import "time"

// Timeline event types.
const (
	EventStatusChange    = "status_change"
	EventReviewerInvited = "reviewer_invited"
	EventReviewerAction  = "reviewer_action"
	EventFileUploaded    = "file_uploaded"
	EventPayment         = "payment"
	EventRevision        = "revision"
)

// SubmissionTimeline is the append-only audit log of events on a
// submission. Rows are immutable once written; no handler or service
// updates or deletes them.
type SubmissionTimeline struct {
	TimelineID   int               `gorm:"primaryKey;column:timeline_id" json:"timeline_id"`
	SubmissionID int               `gorm:"column:submission_id" json:"submission_id"`
	EventType    string            `gorm:"column:event_type" json:"event_type"`
	FromStatus   *SubmissionStatus `gorm:"column:from_status" json:"from_status,omitempty"`
	ToStatus     *SubmissionStatus `gorm:"column:to_status" json:"to_status,omitempty"`
	Description  string            `gorm:"column:description" json:"description"`
	PerformedBy  int               `gorm:"column:performed_by" json:"performed_by"`
	CreatedAt    time.Time         `gorm:"column:created_at" json:"created_at"`

	Performer *User `gorm:"foreignKey:PerformedBy" json:"performer,omitempty"`
}

// TableName specifies the table for SubmissionTimeline.
func (SubmissionTimeline) TableName() string {
	return "submission_timeline"
}
