package models

import "time"

// Article is the denormalized public-facing record created at publication
// time. It decouples the citation-facing read path from the editorial
// submission record.
type Article struct {
	ArticleID    int        `gorm:"primaryKey;column:article_id" json:"article_id"`
	SubmissionID int        `gorm:"column:submission_id;unique" json:"submission_id"`
	Title        string     `gorm:"column:title" json:"title"`
	Abstract     string     `gorm:"column:abstract" json:"abstract"`
	Authors      string     `gorm:"column:authors" json:"authors"` // denormalized citation string
	Keywords     string     `gorm:"column:keywords" json:"keywords"`
	DOI          string     `gorm:"column:doi" json:"doi"`
	Volume       *int       `gorm:"column:volume" json:"volume,omitempty"`
	Issue        *int       `gorm:"column:issue" json:"issue,omitempty"`
	Pages        *string    `gorm:"column:pages" json:"pages,omitempty"`
	PublishedAt  time.Time  `gorm:"column:published_at" json:"published_at"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt    *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
}

// Issue represents a journal issue grouping published articles.
type Issue struct {
	IssueID     int        `gorm:"primaryKey;column:issue_id" json:"issue_id"`
	Volume      int        `gorm:"column:volume" json:"volume"`
	Number      int        `gorm:"column:number" json:"number"`
	Year        int        `gorm:"column:year" json:"year"`
	Title       *string    `gorm:"column:title" json:"title,omitempty"`
	IsPublished bool       `gorm:"column:is_published" json:"is_published"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides
func (Article) TableName() string {
	return "articles"
}

func (Issue) TableName() string {
	return "issues"
}
