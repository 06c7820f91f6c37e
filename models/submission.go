package models

import "time"

// SubmissionStatus is the closed set of manuscript lifecycle states.
// Transitions between them are validated by services.CanTransition; the
// column is never written outside an accepted transition.
type SubmissionStatus string

const (
	StatusDraft                 SubmissionStatus = "DRAFT"
	StatusSubmitted             SubmissionStatus = "SUBMITTED"
	StatusReturnedForFormatting SubmissionStatus = "RETURNED_FOR_FORMATTING"
	StatusInitialReview         SubmissionStatus = "INITIAL_REVIEW"
	StatusUnderReview           SubmissionStatus = "UNDER_REVIEW"
	StatusRevisionRequired      SubmissionStatus = "REVISION_REQUIRED"
	StatusRevised               SubmissionStatus = "REVISED"
	StatusAccepted              SubmissionStatus = "ACCEPTED"
	StatusPaymentPending        SubmissionStatus = "PAYMENT_PENDING"
	StatusRejected              SubmissionStatus = "REJECTED"
	StatusPublished             SubmissionStatus = "PUBLISHED"
	StatusWithdrawn             SubmissionStatus = "WITHDRAWN"
)

// Submission represents the submissions table, the central entity of the
// editorial workflow.
type Submission struct {
	SubmissionID     int              `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	SubmissionNumber string           `gorm:"column:submission_number;unique" json:"submission_number"`
	UserID           int              `gorm:"column:user_id" json:"user_id"`
	Title            string           `gorm:"column:title" json:"title"`
	Abstract         string           `gorm:"column:abstract" json:"abstract"`
	Keywords         string           `gorm:"column:keywords" json:"keywords"` // comma separated
	ManuscriptType   string           `gorm:"column:manuscript_type" json:"manuscript_type"`
	Status           SubmissionStatus `gorm:"column:status" json:"status"`
	DoubleBlind      bool             `gorm:"column:double_blind" json:"double_blind"`
	DOI              *string          `gorm:"column:doi" json:"doi,omitempty"`
	Volume           *int             `gorm:"column:volume" json:"volume,omitempty"`
	Issue            *int             `gorm:"column:issue" json:"issue,omitempty"`
	Pages            *string          `gorm:"column:pages" json:"pages,omitempty"`
	SubmittedAt      *time.Time       `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	AcceptedAt       *time.Time       `gorm:"column:accepted_at" json:"accepted_at,omitempty"`
	PublishedAt      *time.Time       `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt        time.Time        `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt        *time.Time       `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	// Relations
	User      *User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Authors   []SubmissionAuthor   `gorm:"foreignKey:SubmissionID" json:"authors,omitempty"`
	Files     []SubmissionFile     `gorm:"foreignKey:SubmissionID" json:"files,omitempty"`
	Reviews   []Review             `gorm:"foreignKey:SubmissionID" json:"reviews,omitempty"`
	Revisions []Revision           `gorm:"foreignKey:SubmissionID" json:"revisions,omitempty"`
	Timeline  []SubmissionTimeline `gorm:"foreignKey:SubmissionID" json:"timeline,omitempty"`
	Payments  []Payment            `gorm:"foreignKey:SubmissionID" json:"payments,omitempty"`
}

// SubmissionAuthor represents the submission_authors table (co-authors in
// citation order; the owning author is not duplicated here).
type SubmissionAuthor struct {
	ID              int       `gorm:"primaryKey;column:id" json:"id"`
	SubmissionID    int       `gorm:"column:submission_id" json:"submission_id"`
	UserID          int       `gorm:"column:user_id" json:"user_id"`
	DisplayOrder    int       `gorm:"column:display_order" json:"display_order"`
	IsCorresponding bool      `gorm:"column:is_corresponding" json:"is_corresponding"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// SubmissionFile represents the submission_files table.
type SubmissionFile struct {
	FileID       int        `gorm:"primaryKey;column:file_id" json:"file_id"`
	SubmissionID int        `gorm:"column:submission_id" json:"submission_id"`
	RevisionID   *int       `gorm:"column:revision_id" json:"revision_id,omitempty"`
	Kind         string     `gorm:"column:kind" json:"kind"` // manuscript|figure|supplement|revision
	OriginalName string     `gorm:"column:original_name" json:"original_name"`
	StoredPath   string     `gorm:"column:stored_path" json:"stored_path"`
	FileSize     int64      `gorm:"column:file_size" json:"file_size"`
	MimeType     string     `gorm:"column:mime_type" json:"mime_type"`
	FileHash     string     `gorm:"column:file_hash" json:"file_hash"`
	UploadedBy   int        `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time  `gorm:"column:uploaded_at" json:"uploaded_at"`
	DeletedAt    *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	Uploader *User `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

// TableName overrides
func (Submission) TableName() string {
	return "submissions"
}

func (SubmissionAuthor) TableName() string {
	return "submission_authors"
}

func (SubmissionFile) TableName() string {
	return "submission_files"
}

// IsEditable reports whether the author may still modify metadata, files
// and co-authors. Only pre-submission drafts and manuscripts returned for
// formatting are editable.
func (s *Submission) IsEditable() bool {
	return s.Status == StatusDraft || s.Status == StatusReturnedForFormatting
}

// IsTerminal reports whether the submission reached an absorbing state.
func (s *Submission) IsTerminal() bool {
	return s.Status == StatusRejected || s.Status == StatusWithdrawn || s.Status == StatusPublished
}

// IsValidDocumentMime reports whether a mime type is accepted for
// manuscript uploads.
func IsValidDocumentMime(mimeType string) bool {
	validTypes := []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/x-tex",
		"text/x-tex",
	}
	for _, validType := range validTypes {
		if mimeType == validType {
			return true
		}
	}
	return false
}
