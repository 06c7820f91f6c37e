package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"journal-management-api/models"
)

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	pastDue := now.Add(-24 * time.Hour)
	futureDue := now.Add(24 * time.Hour)

	cases := []struct {
		name   string
		status models.ReviewStatus
		due    time.Time
		want   bool
	}{
		{"pending past due", models.ReviewPending, pastDue, true},
		{"pending not due", models.ReviewPending, futureDue, false},
		{"in progress past due", models.ReviewInProgress, pastDue, true},
		{"completed past due", models.ReviewCompleted, pastDue, false},
		{"declined past due", models.ReviewDeclined, pastDue, false},
	}
	for _, tc := range cases {
		review := &models.Review{Status: tc.status, DueDate: tc.due}
		if got := IsOverdue(review, now); got != tc.want {
			t.Errorf("%s: IsOverdue = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsOverdueNeverStored(t *testing.T) {
	// The same review flips between overdue and not purely by the clock.
	review := &models.Review{
		Status:  models.ReviewInProgress,
		DueDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	before := review.DueDate.Add(-time.Hour)
	after := review.DueDate.Add(time.Hour)

	if IsOverdue(review, before) {
		t.Error("review overdue before its due date")
	}
	if !IsOverdue(review, after) {
		t.Error("review not overdue after its due date")
	}
}

func TestDecisionReady(t *testing.T) {
	settings := JournalSettings{MinReviews: 2}

	if DecisionReady(0, settings) {
		t.Error("decision ready with no completed reviews")
	}
	if DecisionReady(1, settings) {
		t.Error("decision ready below the minimum")
	}
	if !DecisionReady(2, settings) {
		t.Error("decision not ready at the minimum")
	}
	if !DecisionReady(5, settings) {
		t.Error("decision not ready above the minimum")
	}
}

func TestRespondToInvitationRejectsClosedReview(t *testing.T) {
	for _, status := range []models.ReviewStatus{models.ReviewInProgress, models.ReviewCompleted, models.ReviewDeclined} {
		review := &models.Review{ReviewID: 9, Status: status}
		if err := RespondToInvitation(nil, review, true, ""); !errors.Is(err, ErrReviewNotOpen) {
			t.Errorf("status %s: expected ErrReviewNotOpen, got %v", status, err)
		}
	}
}

func TestCompleteReviewValidation(t *testing.T) {
	valid := ReviewSubmission{
		Recommendation: models.RecommendAccept,
		Rating:         4,
		AuthorComments: "Solid methodology.",
	}

	pending := &models.Review{ReviewID: 1, Status: models.ReviewPending}
	if err := CompleteReview(nil, pending, valid); !errors.Is(err, ErrReviewNotOpen) {
		t.Errorf("pending review: expected ErrReviewNotOpen, got %v", err)
	}

	completed := &models.Review{ReviewID: 2, Status: models.ReviewCompleted}
	if err := CompleteReview(nil, completed, valid); !errors.Is(err, ErrReviewNotOpen) {
		t.Errorf("completed review: expected ErrReviewNotOpen, got %v", err)
	}

	inProgress := &models.Review{ReviewID: 3, Status: models.ReviewInProgress}

	bad := valid
	bad.Recommendation = "PUBLISH_IMMEDIATELY"
	if err := CompleteReview(nil, inProgress, bad); !errors.Is(err, ErrInvalidRecommend) {
		t.Errorf("unknown recommendation: expected ErrInvalidRecommend, got %v", err)
	}

	for _, rating := range []int{0, -1, 6} {
		bad = valid
		bad.Rating = rating
		if err := CompleteReview(nil, inProgress, bad); !errors.Is(err, ErrPreconditionFailed) {
			t.Errorf("rating %d: expected ErrPreconditionFailed, got %v", rating, err)
		}
	}
}

func TestExtendDeadlineValidation(t *testing.T) {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	review := &models.Review{ReviewID: 5, Status: models.ReviewInProgress, DueDate: due}

	if err := ExtendDeadline(nil, review, due, "reviewer asked for time", 1); !errors.Is(err, ErrDeadlineNotExtended) {
		t.Errorf("same date: expected ErrDeadlineNotExtended, got %v", err)
	}
	if err := ExtendDeadline(nil, review, due.Add(-48*time.Hour), "reviewer asked for time", 1); !errors.Is(err, ErrDeadlineNotExtended) {
		t.Errorf("earlier date: expected ErrDeadlineNotExtended, got %v", err)
	}
	if err := ExtendDeadline(nil, review, due.Add(48*time.Hour), "   ", 1); !errors.Is(err, ErrCommentsRequired) {
		t.Errorf("blank reason: expected ErrCommentsRequired, got %v", err)
	}

	closed := &models.Review{ReviewID: 6, Status: models.ReviewCompleted, DueDate: due}
	if err := ExtendDeadline(nil, closed, due.Add(48*time.Hour), "late", 1); !errors.Is(err, ErrReviewNotOpen) {
		t.Errorf("closed review: expected ErrReviewNotOpen, got %v", err)
	}
}

func TestRemoveReviewerValidation(t *testing.T) {
	closed := &models.Review{ReviewID: 7, Status: models.ReviewDeclined}
	if err := RemoveReviewer(nil, closed, "unresponsive", 1); !errors.Is(err, ErrReviewClosed) {
		t.Errorf("closed review: expected ErrReviewClosed, got %v", err)
	}

	open := &models.Review{ReviewID: 8, Status: models.ReviewPending}
	if err := RemoveReviewer(nil, open, "  ", 1); !errors.Is(err, ErrCommentsRequired) {
		t.Errorf("blank reason: expected ErrCommentsRequired, got %v", err)
	}
}

func TestCountCompletedReviews(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM `reviews`"),
			args:    []driver.Value{int64(12), "COMPLETED"},
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(3)}},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	count, err := CountCompletedReviews(db, 12)
	if err != nil {
		t.Fatalf("CountCompletedReviews failed: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestNextRevisionNumber(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT COALESCE\\(MAX\\(revision_number\\), 0\\) FROM `revisions`"),
			args:    []driver.Value{int64(12)},
			columns: []string{"COALESCE(MAX(revision_number), 0)"},
			rows:    [][]driver.Value{{int64(2)}},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	n, err := NextRevisionNumber(db, 12)
	if err != nil {
		t.Fatalf("NextRevisionNumber failed: %v", err)
	}
	if n != 3 {
		t.Errorf("next revision number = %d, want 3", n)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
