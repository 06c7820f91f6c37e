package models

import "time"

// EmailTemplate holds the editable subject/body templates used by
// notification dispatch. Placeholders use {{name}} syntax.
type EmailTemplate struct {
	TemplateID      int        `gorm:"primaryKey;column:template_id" json:"template_id"`
	TemplateKey     string     `gorm:"column:template_key;unique" json:"template_key"`
	SubjectTemplate string     `gorm:"column:subject_template" json:"subject_template"`
	BodyTemplate    string     `gorm:"column:body_template" json:"body_template"`
	Description     *string    `gorm:"column:description" json:"description,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt       *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
}

// TableName specifies the table for EmailTemplate.
func (EmailTemplate) TableName() string {
	return "email_templates"
}
