package services

import (
	"database/sql/driver"
	"regexp"
	"testing"
)

func TestGetJournalSettingsParsesAndDefaults(t *testing.T) {
	ClearSettingsCache()
	defer ClearSettingsCache()

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `system_settings`"),
			args:    []driver.Value{},
			columns: []string{"setting_key", "setting_value"},
			rows: [][]driver.Value{
				{"min_completed_reviews", "3"},
				{"apc_fee", "250.50"},
				{"apc_currency", "EUR"},
				{"doi_prefix", "10.9999"},
				{"review_due_days", "not-a-number"},
				{"unknown_key", "ignored"},
			},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	settings, err := GetJournalSettings(db)
	if err != nil {
		t.Fatalf("GetJournalSettings failed: %v", err)
	}

	if settings.MinReviews != 3 {
		t.Errorf("MinReviews = %d, want 3", settings.MinReviews)
	}
	if settings.APCFee != 250.50 {
		t.Errorf("APCFee = %v, want 250.50", settings.APCFee)
	}
	if settings.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", settings.Currency)
	}
	if settings.DOIPrefix != "10.9999" {
		t.Errorf("DOIPrefix = %q, want 10.9999", settings.DOIPrefix)
	}
	// Unparseable value falls back to the default.
	if settings.ReviewDueDays != 21 {
		t.Errorf("ReviewDueDays = %d, want default 21", settings.ReviewDueDays)
	}
	// Key absent from the table keeps its default.
	if settings.BaseURL != "http://localhost:3000" {
		t.Errorf("BaseURL = %q, want default", settings.BaseURL)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestGetJournalSettingsCachesUntilCleared(t *testing.T) {
	ClearSettingsCache()
	defer ClearSettingsCache()

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `system_settings`"),
			args:    []driver.Value{},
			columns: []string{"setting_key", "setting_value"},
			rows:    [][]driver.Value{{"min_completed_reviews", "4"}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `system_settings`"),
			args:    []driver.Value{},
			columns: []string{"setting_key", "setting_value"},
			rows:    [][]driver.Value{{"min_completed_reviews", "5"}},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	first, err := GetJournalSettings(db)
	if err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	if first.MinReviews != 4 {
		t.Fatalf("MinReviews = %d, want 4", first.MinReviews)
	}

	// Second read inside the TTL must not touch the database.
	second, err := GetJournalSettings(db)
	if err != nil {
		t.Fatalf("cached load failed: %v", err)
	}
	if second.MinReviews != 4 {
		t.Errorf("cached MinReviews = %d, want 4", second.MinReviews)
	}

	ClearSettingsCache()

	third, err := GetJournalSettings(db)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if third.MinReviews != 5 {
		t.Errorf("reloaded MinReviews = %d, want 5", third.MinReviews)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
