package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"journal-management-api/models"
)

func TestGenerateDOI(t *testing.T) {
	cases := []struct {
		prefix string
		year   int
		number string
		want   string
	}{
		{"10.5555", 2026, "JMS-2026-RA-000123", "10.5555/2026.JMS-2026-RA-000123"},
		{"10.5555/", 2026, "JMS-2026-RA-000123", "10.5555/2026.JMS-2026-RA-000123"},
		{"10.1234", 2025, "JMS-2025-CR-000007", "10.1234/2025.JMS-2025-CR-000007"},
	}
	for _, tc := range cases {
		if got := GenerateDOI(tc.prefix, tc.year, tc.number); got != tc.want {
			t.Errorf("GenerateDOI(%q, %d, %q) = %q, want %q", tc.prefix, tc.year, tc.number, got, tc.want)
		}
	}
}

func TestGenerateDOIIsDeterministic(t *testing.T) {
	first := GenerateDOI("10.5555", 2026, "JMS-2026-RA-000123")
	second := GenerateDOI("10.5555", 2026, "JMS-2026-RA-000123")
	if first != second {
		t.Fatalf("DOI generation not deterministic: %q vs %q", first, second)
	}
}

func TestHasPaidPayment(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM `payments`"),
			args:    []driver.Value{int64(12), "PAID"},
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(1)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM `payments`"),
			args:    []driver.Value{int64(13), "PAID"},
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(0)}},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	paid, err := HasPaidPayment(db, 12)
	if err != nil {
		t.Fatalf("HasPaidPayment failed: %v", err)
	}
	if !paid {
		t.Error("expected submission 12 to have a paid payment")
	}

	paid, err = HasPaidPayment(db, 13)
	if err != nil {
		t.Fatalf("HasPaidPayment failed: %v", err)
	}
	if paid {
		t.Error("expected submission 13 to have no paid payment")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestPublishRejectsWrongStatus(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	settings := DefaultJournalSettings()
	for _, status := range []models.SubmissionStatus{
		models.StatusDraft,
		models.StatusUnderReview,
		models.StatusPublished,
		models.StatusRejected,
	} {
		submission := &models.Submission{SubmissionID: 1, Status: status}
		_, err := Publish(db, submission, PublicationInput{}, settings, 1)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("status %s: expected ErrInvalidTransition, got %v", status, err)
		}
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestUnpublishRequiresPublished(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	submission := &models.Submission{SubmissionID: 1, Status: models.StatusAccepted}
	if err := Unpublish(db, submission, 1, "correction"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
