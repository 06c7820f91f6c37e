package services

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"journal-management-api/models"

	"gorm.io/gorm"
)

// JournalSettings is the explicit configuration object workflow functions
// receive. Handlers load it once per request via GetJournalSettings; tests
// construct it directly.
type JournalSettings struct {
	MinReviews    int
	APCFee        float64
	Currency      string
	DOIPrefix     string
	BaseURL       string
	ReviewDueDays int
}

// DefaultJournalSettings are used for keys missing from system_settings.
func DefaultJournalSettings() JournalSettings {
	return JournalSettings{
		MinReviews:    2,
		APCFee:        0,
		Currency:      "USD",
		DOIPrefix:     "10.5555",
		BaseURL:       "http://localhost:3000",
		ReviewDueDays: 21,
	}
}

var (
	settingsCacheMu sync.RWMutex
	settingsCache   *settingsCacheEntry
	settingsTTL     = 5 * time.Minute
)

type settingsCacheEntry struct {
	settings  JournalSettings
	fetchedAt time.Time
}

func loadSettings(db *gorm.DB, force bool) (*settingsCacheEntry, error) {
	settingsCacheMu.RLock()
	cached := settingsCache
	settingsCacheMu.RUnlock()

	if cached != nil && !force && time.Since(cached.fetchedAt) < settingsTTL {
		return cached, nil
	}

	settingsCacheMu.Lock()
	defer settingsCacheMu.Unlock()

	if settingsCache != nil && !force && time.Since(settingsCache.fetchedAt) < settingsTTL {
		return settingsCache, nil
	}

	var rows []models.SystemSetting
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load system settings: %w", err)
	}

	settings := DefaultJournalSettings()
	for _, row := range rows {
		value := strings.TrimSpace(row.SettingValue)
		if value == "" {
			continue
		}
		switch row.SettingKey {
		case models.SettingMinReviews:
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				settings.MinReviews = n
			}
		case models.SettingAPCFee:
			if fee, err := strconv.ParseFloat(value, 64); err == nil && fee >= 0 {
				settings.APCFee = fee
			}
		case models.SettingCurrency:
			settings.Currency = value
		case models.SettingDOIPrefix:
			settings.DOIPrefix = value
		case models.SettingBaseURL:
			settings.BaseURL = value
		case models.SettingReviewDays:
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				settings.ReviewDueDays = n
			}
		}
	}

	entry := &settingsCacheEntry{
		settings:  settings,
		fetchedAt: time.Now(),
	}
	settingsCache = entry
	return entry, nil
}

// GetJournalSettings returns the current journal configuration with
// caching support.
func GetJournalSettings(db *gorm.DB) (JournalSettings, error) {
	entry, err := loadSettings(db, false)
	if err != nil {
		return JournalSettings{}, err
	}
	return entry.settings, nil
}

// ClearSettingsCache invalidates the in-memory settings cache. Called
// after an admin updates system_settings.
func ClearSettingsCache() {
	settingsCacheMu.Lock()
	defer settingsCacheMu.Unlock()
	settingsCache = nil
}
