package models

import "time"

// ReviewStatus is the closed set of stored review states. OVERDUE is a
// derived condition (services.IsOverdue), never a stored value.
type ReviewStatus string

const (
	ReviewPending    ReviewStatus = "PENDING"
	ReviewInProgress ReviewStatus = "IN_PROGRESS"
	ReviewCompleted  ReviewStatus = "COMPLETED"
	ReviewDeclined   ReviewStatus = "DECLINED"
)

// Recommendation values a completed review may carry.
const (
	RecommendAccept        = "ACCEPT"
	RecommendMinorRevision = "MINOR_REVISION"
	RecommendMajorRevision = "MAJOR_REVISION"
	RecommendReject        = "REJECT"
)

// Review represents one reviewer's assignment to one submission.
type Review struct {
	ReviewID             int          `gorm:"primaryKey;column:review_id" json:"review_id"`
	SubmissionID         int          `gorm:"column:submission_id" json:"submission_id"`
	ReviewerID           int          `gorm:"column:reviewer_id" json:"reviewer_id"`
	Status               ReviewStatus `gorm:"column:status" json:"status"`
	Recommendation       *string      `gorm:"column:recommendation" json:"recommendation,omitempty"`
	Rating               *int         `gorm:"column:rating" json:"rating,omitempty"`
	AuthorComments       *string      `gorm:"column:author_comments" json:"author_comments,omitempty"`
	ConfidentialComments *string      `gorm:"column:confidential_comments" json:"confidential_comments,omitempty"`
	DeclineReason        *string      `gorm:"column:decline_reason" json:"decline_reason,omitempty"`
	InvitedAt            time.Time    `gorm:"column:invited_at" json:"invited_at"`
	AcceptedAt           *time.Time   `gorm:"column:accepted_at" json:"accepted_at,omitempty"`
	SubmittedAt          *time.Time   `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	DueDate              time.Time    `gorm:"column:due_date" json:"due_date"`
	ReminderCount        int          `gorm:"column:reminder_count" json:"reminder_count"`
	LastReminderAt       *time.Time   `gorm:"column:last_reminder_at" json:"last_reminder_at,omitempty"`
	CreatedAt            time.Time    `gorm:"column:created_at" json:"created_at"`
	UpdatedAt            time.Time    `gorm:"column:updated_at" json:"updated_at"`

	Reviewer   *User       `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Submission *Submission `gorm:"foreignKey:SubmissionID" json:"submission,omitempty"`
}

// ExcludedReviewer represents reviewers the author asked to exclude from
// this submission.
type ExcludedReviewer struct {
	ID           int       `gorm:"primaryKey;column:id" json:"id"`
	SubmissionID int       `gorm:"column:submission_id" json:"submission_id"`
	UserID       int       `gorm:"column:user_id" json:"user_id"`
	Reason       *string   `gorm:"column:reason" json:"reason,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides
func (Review) TableName() string {
	return "reviews"
}

func (ExcludedReviewer) TableName() string {
	return "excluded_reviewers"
}

// IsOpen reports whether the review still awaits reviewer action.
func (r *Review) IsOpen() bool {
	return r.Status == ReviewPending || r.Status == ReviewInProgress
}

// IsValidRecommendation checks a recommendation value against the closed set.
func IsValidRecommendation(recommendation string) bool {
	switch recommendation {
	case RecommendAccept, RecommendMinorRevision, RecommendMajorRevision, RecommendReject:
		return true
	}
	return false
}
