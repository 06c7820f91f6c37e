package services

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"journal-management-api/models"

	"gorm.io/gorm"
)

var allStatuses = []models.SubmissionStatus{
	models.StatusDraft,
	models.StatusSubmitted,
	models.StatusReturnedForFormatting,
	models.StatusInitialReview,
	models.StatusUnderReview,
	models.StatusRevisionRequired,
	models.StatusRevised,
	models.StatusAccepted,
	models.StatusPaymentPending,
	models.StatusRejected,
	models.StatusPublished,
	models.StatusWithdrawn,
}

func TestCanTransitionAllowedEdges(t *testing.T) {
	allowed := map[models.SubmissionStatus][]models.SubmissionStatus{
		models.StatusDraft:                 {models.StatusSubmitted},
		models.StatusSubmitted:             {models.StatusInitialReview, models.StatusReturnedForFormatting},
		models.StatusReturnedForFormatting: {models.StatusSubmitted},
		models.StatusInitialReview:         {models.StatusUnderReview, models.StatusReturnedForFormatting, models.StatusRejected},
		models.StatusUnderReview:           {models.StatusRevisionRequired, models.StatusAccepted, models.StatusRejected},
		models.StatusRevisionRequired:      {models.StatusRevised},
		models.StatusRevised:               {models.StatusAccepted, models.StatusUnderReview, models.StatusRejected},
		models.StatusAccepted:              {models.StatusPaymentPending, models.StatusPublished},
		models.StatusPaymentPending:        {models.StatusPublished},
		models.StatusPublished:             {models.StatusAccepted},
	}

	allowedSet := map[[2]models.SubmissionStatus]bool{}
	for from, targets := range allowed {
		for _, to := range targets {
			allowedSet[[2]models.SubmissionStatus{from, to}] = true
		}
	}
	// Withdrawal is permitted from every state that is not already final.
	for _, from := range allStatuses {
		if from == models.StatusPublished || from == models.StatusRejected || from == models.StatusWithdrawn {
			continue
		}
		allowedSet[[2]models.SubmissionStatus{from, models.StatusWithdrawn}] = true
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowedSet[[2]models.SubmissionStatus{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCanTransitionTerminalStatesAreAbsorbing(t *testing.T) {
	for _, from := range []models.SubmissionStatus{models.StatusRejected, models.StatusWithdrawn} {
		for _, to := range allStatuses {
			if CanTransition(from, to) {
				t.Errorf("expected no transition out of %s, but %s -> %s allowed", from, from, to)
			}
		}
	}
}

func TestCanTransitionSkipsPaymentWaypoint(t *testing.T) {
	if !CanTransition(models.StatusAccepted, models.StatusPublished) {
		t.Fatal("expected ACCEPTED -> PUBLISHED to be allowed when no fee is due")
	}
	if !CanTransition(models.StatusAccepted, models.StatusPaymentPending) {
		t.Fatal("expected ACCEPTED -> PAYMENT_PENDING to be allowed")
	}
}

func TestScreeningTarget(t *testing.T) {
	cases := []struct {
		from     models.SubmissionStatus
		decision string
		want     models.SubmissionStatus
	}{
		{models.StatusSubmitted, ScreenOpen, models.StatusInitialReview},
		{models.StatusInitialReview, ScreenProceedToReview, models.StatusUnderReview},
		{models.StatusInitialReview, ScreenReturnFormatting, models.StatusReturnedForFormatting},
		{models.StatusSubmitted, ScreenReject, models.StatusRejected},
	}
	for _, tc := range cases {
		got, err := ScreeningTarget(tc.from, tc.decision)
		if err != nil {
			t.Fatalf("ScreeningTarget(%s, %s) error: %v", tc.from, tc.decision, err)
		}
		if got != tc.want {
			t.Errorf("ScreeningTarget(%s, %s) = %s, want %s", tc.from, tc.decision, got, tc.want)
		}
	}

	if _, err := ScreeningTarget(models.StatusSubmitted, "FAST_TRACK"); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("expected ErrPreconditionFailed for unknown decision, got %v", err)
	}
}

func TestScreeningTargetOutsideScreeningStage(t *testing.T) {
	// Rejecting during review would skip the review workflow entirely, so
	// screening decisions must not apply once the submission leaves
	// initial review.
	for _, from := range []models.SubmissionStatus{
		models.StatusDraft,
		models.StatusUnderReview,
		models.StatusRevisionRequired,
		models.StatusAccepted,
	} {
		if _, err := ScreeningTarget(from, ScreenReject); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("ScreeningTarget(%s, REJECT): expected ErrInvalidTransition, got %v", from, err)
		}
	}
}

func TestDecisionTarget(t *testing.T) {
	cases := []struct {
		decision string
		want     models.SubmissionStatus
	}{
		{DecisionAccept, models.StatusAccepted},
		{DecisionReject, models.StatusRejected},
		{DecisionRevisionNeeded, models.StatusRevisionRequired},
	}
	for _, tc := range cases {
		got, err := DecisionTarget(tc.decision)
		if err != nil {
			t.Fatalf("DecisionTarget(%s) error: %v", tc.decision, err)
		}
		if got != tc.want {
			t.Errorf("DecisionTarget(%s) = %s, want %s", tc.decision, got, tc.want)
		}
	}

	if _, err := DecisionTarget(""); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("expected ErrPreconditionFailed for empty decision, got %v", err)
	}
}

func TestRevisionDecisionTarget(t *testing.T) {
	cases := []struct {
		decision string
		want     models.SubmissionStatus
	}{
		{RevisionDecisionAccept, models.StatusAccepted},
		{RevisionDecisionReview, models.StatusUnderReview},
		{RevisionDecisionReject, models.StatusRejected},
	}
	for _, tc := range cases {
		got, err := RevisionDecisionTarget(models.StatusRevised, tc.decision)
		if err != nil {
			t.Fatalf("RevisionDecisionTarget(%s) error: %v", tc.decision, err)
		}
		if got != tc.want {
			t.Errorf("RevisionDecisionTarget(%s) = %s, want %s", tc.decision, got, tc.want)
		}
	}

	if _, err := RevisionDecisionTarget(models.StatusRevised, DecisionAccept); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("expected ErrPreconditionFailed for decision from the wrong stage, got %v", err)
	}
}

func TestRevisionDecisionTargetRequiresRevisedSubmission(t *testing.T) {
	// ACCEPT_REVISION against an UNDER_REVIEW submission would reach
	// ACCEPTED without the completed-review gate that guards the editorial
	// decision, so anything but REVISED must refuse the decision outright.
	for _, decision := range []string{
		RevisionDecisionAccept,
		RevisionDecisionReview,
		RevisionDecisionReject,
	} {
		if _, err := RevisionDecisionTarget(models.StatusUnderReview, decision); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("RevisionDecisionTarget(UNDER_REVIEW, %s): expected ErrInvalidTransition, got %v", decision, err)
		}
	}
	if _, err := RevisionDecisionTarget(models.StatusRevisionRequired, RevisionDecisionAccept); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition before a revision is received, got %v", err)
	}
}

func TestTransitionRejectsInvalidEdgeWithoutWrites(t *testing.T) {
	// No scripted steps: any SQL issued here would fail the test.
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	submission := &models.Submission{
		SubmissionID: 42,
		Status:       models.StatusDraft,
	}
	err := Transition(db, submission, models.StatusPublished, TransitionEvent{ActorID: 1, Description: "impossible"})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if submission.Status != models.StatusDraft {
		t.Errorf("submission status changed to %s on rejected transition", submission.Status)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestTransitionWritesStatusAndTimeline(t *testing.T) {
	// A legal edge issues exactly two statements: the status update and
	// one timeline row. Argument values carry time.Now() so only the
	// statement shapes are pinned.
	steps := []*queryStep{
		{kind: kindExec, pattern: regexp.MustCompile("UPDATE `submissions` SET")},
		{kind: kindExec, pattern: regexp.MustCompile("INSERT INTO `submission_timeline`")},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()
	session := db.Session(&gorm.Session{SkipDefaultTransaction: true})

	submittedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	submission := &models.Submission{
		SubmissionID: 42,
		Status:       models.StatusUnderReview,
		SubmittedAt:  &submittedAt,
	}
	err := Transition(session, submission, models.StatusRevisionRequired, TransitionEvent{
		ActorID:     7,
		Description: "Editorial decision REVISION_REQUIRED",
	})
	if err != nil {
		t.Fatalf("Transition returned error: %v", err)
	}
	if submission.Status != models.StatusRevisionRequired {
		t.Errorf("submission status = %s, want %s", submission.Status, models.StatusRevisionRequired)
	}
	if submission.UpdatedAt.IsZero() {
		t.Error("expected updated_at to be stamped")
	}
	if submission.SubmittedAt == nil || !submission.SubmittedAt.Equal(submittedAt) {
		t.Error("submitted_at must not change on a review transition")
	}
	if submission.AcceptedAt != nil || submission.PublishedAt != nil {
		t.Error("accepted_at and published_at must stay unset")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestTransitionStampsAcceptedAtOnce(t *testing.T) {
	steps := []*queryStep{
		{kind: kindExec, pattern: regexp.MustCompile("UPDATE `submissions` SET")},
		{kind: kindExec, pattern: regexp.MustCompile("INSERT INTO `submission_timeline`")},
		{kind: kindExec, pattern: regexp.MustCompile("UPDATE `submissions` SET")},
		{kind: kindExec, pattern: regexp.MustCompile("INSERT INTO `submission_timeline`")},
		{kind: kindExec, pattern: regexp.MustCompile("UPDATE `submissions` SET")},
		{kind: kindExec, pattern: regexp.MustCompile("INSERT INTO `submission_timeline`")},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()
	session := db.Session(&gorm.Session{SkipDefaultTransaction: true})

	submission := &models.Submission{
		SubmissionID: 42,
		Status:       models.StatusRevised,
	}
	if err := Transition(session, submission, models.StatusAccepted, TransitionEvent{ActorID: 7, Description: "accepted"}); err != nil {
		t.Fatalf("Transition to ACCEPTED: %v", err)
	}
	if submission.AcceptedAt == nil {
		t.Fatal("expected accepted_at to be stamped on first acceptance")
	}
	firstAccepted := *submission.AcceptedAt

	// Unpublish and re-accept: the original acceptance date survives.
	submission.Status = models.StatusPublished
	if err := Transition(session, submission, models.StatusAccepted, TransitionEvent{ActorID: 7, Description: "unpublished"}); err != nil {
		t.Fatalf("Transition PUBLISHED -> ACCEPTED: %v", err)
	}
	if !submission.AcceptedAt.Equal(firstAccepted) {
		t.Error("accepted_at must not change on re-acceptance")
	}

	if err := Transition(session, submission, models.StatusPublished, TransitionEvent{ActorID: 7, Description: "published"}); err != nil {
		t.Fatalf("Transition to PUBLISHED: %v", err)
	}
	if submission.PublishedAt == nil {
		t.Error("expected published_at to be stamped on publication")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
