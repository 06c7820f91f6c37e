package models

// SystemSetting represents key-value journal configuration such as the
// minimum number of completed reviews or the APC fee.
type SystemSetting struct {
	SettingKey   string `gorm:"primaryKey;column:setting_key" json:"setting_key"`
	SettingValue string `gorm:"column:setting_value" json:"setting_value"`
}

// TableName specifies the table name for GORM
func (SystemSetting) TableName() string {
	return "system_settings"
}

// Well-known setting keys.
const (
	SettingMinReviews = "min_completed_reviews"
	SettingAPCFee     = "apc_fee"
	SettingCurrency   = "apc_currency"
	SettingDOIPrefix  = "doi_prefix"
	SettingBaseURL    = "app_base_url"
	SettingReviewDays = "review_due_days"
)
