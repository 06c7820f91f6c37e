package services

import (
	"fmt"
	"time"

	"journal-management-api/models"

	"gorm.io/gorm"
)

// transitions is the directed edge set of the submission lifecycle. A
// status change is applied only if the (from, to) pair appears here;
// everything else is rejected before any write happens.
var transitions = map[models.SubmissionStatus][]models.SubmissionStatus{
	models.StatusDraft: {
		models.StatusSubmitted,
	},
	models.StatusSubmitted: {
		models.StatusInitialReview,
		models.StatusReturnedForFormatting,
	},
	models.StatusReturnedForFormatting: {
		models.StatusSubmitted,
	},
	models.StatusInitialReview: {
		models.StatusUnderReview,
		models.StatusReturnedForFormatting,
		models.StatusRejected,
	},
	models.StatusUnderReview: {
		models.StatusRevisionRequired,
		models.StatusAccepted,
		models.StatusRejected,
	},
	models.StatusRevisionRequired: {
		models.StatusRevised,
	},
	models.StatusRevised: {
		models.StatusAccepted,
		models.StatusUnderReview,
		models.StatusRejected,
	},
	models.StatusAccepted: {
		models.StatusPaymentPending,
		// PAYMENT_PENDING is an optional waypoint: a webhook-confirmed
		// payment may publish an ACCEPTED submission directly.
		models.StatusPublished,
	},
	models.StatusPaymentPending: {
		models.StatusPublished,
	},
	models.StatusPublished: {
		models.StatusAccepted, // unpublish
	},
	// REJECTED and WITHDRAWN are absorbing.
}

// CanTransition reports whether the lifecycle permits moving from one
// status to another. WITHDRAWN is reachable from every non-terminal state.
func CanTransition(from, to models.SubmissionStatus) bool {
	if to == models.StatusWithdrawn {
		return from != models.StatusPublished &&
			from != models.StatusRejected &&
			from != models.StatusWithdrawn
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionEvent describes who performed a transition and why. The
// description ends up verbatim on the timeline row.
type TransitionEvent struct {
	ActorID     int
	Description string
}

// Transition validates and applies a status change inside the caller's
// transaction: it updates the status column plus status-dependent
// timestamps and appends exactly one timeline row. On a rejected edge
// nothing is written and the submission is left untouched.
func Transition(tx *gorm.DB, submission *models.Submission, to models.SubmissionStatus, event TransitionEvent) error {
	from := submission.Status
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": now,
	}
	switch to {
	case models.StatusSubmitted:
		if submission.SubmittedAt == nil {
			updates["submitted_at"] = now
		}
	case models.StatusAccepted:
		if submission.AcceptedAt == nil {
			updates["accepted_at"] = now
		}
	case models.StatusPublished:
		updates["published_at"] = now
	}

	if err := tx.Model(&models.Submission{}).
		Where("submission_id = ?", submission.SubmissionID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}

	fromStatus := from
	entry := models.SubmissionTimeline{
		SubmissionID: submission.SubmissionID,
		EventType:    models.EventStatusChange,
		FromStatus:   &fromStatus,
		ToStatus:     &to,
		Description:  event.Description,
		PerformedBy:  event.ActorID,
		CreatedAt:    now,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append timeline entry: %w", err)
	}

	submission.Status = to
	submission.UpdatedAt = now
	switch to {
	case models.StatusSubmitted:
		if submission.SubmittedAt == nil {
			submission.SubmittedAt = &now
		}
	case models.StatusAccepted:
		if submission.AcceptedAt == nil {
			submission.AcceptedAt = &now
		}
	case models.StatusPublished:
		submission.PublishedAt = &now
	}
	return nil
}

// AppendTimeline records a non-status event (file upload, reviewer
// action, payment) on the submission's audit log.
func AppendTimeline(tx *gorm.DB, submissionID int, eventType, description string, actorID int) error {
	entry := models.SubmissionTimeline{
		SubmissionID: submissionID,
		EventType:    eventType,
		Description:  description,
		PerformedBy:  actorID,
		CreatedAt:    time.Now(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append timeline entry: %w", err)
	}
	return nil
}

// ScreeningDecision values accepted by the screening endpoint.
const (
	ScreenProceedToReview  = "PROCEED_TO_REVIEW"
	ScreenReturnFormatting = "RETURN_FOR_FORMATTING"
	ScreenReject           = "REJECT"
	ScreenOpen             = "OPEN" // SUBMITTED -> INITIAL_REVIEW
	DecisionAccept         = "ACCEPT"
	DecisionReject         = "REJECT"
	DecisionRevisionNeeded = "REVISION_REQUIRED"
	RevisionDecisionAccept = "ACCEPT_REVISION"
	RevisionDecisionReview = "SEND_FOR_RE_REVIEW"
	RevisionDecisionReject = "REJECT_REVISION"
)

// ScreeningTarget maps a screening decision to the resulting status.
// Screening only applies while the submission awaits or sits in initial
// review; at any other stage the decision is a state violation.
func ScreeningTarget(from models.SubmissionStatus, decision string) (models.SubmissionStatus, error) {
	if from != models.StatusSubmitted && from != models.StatusInitialReview {
		return "", fmt.Errorf("%w: screening does not apply at %s", ErrInvalidTransition, from)
	}
	switch decision {
	case ScreenOpen:
		return models.StatusInitialReview, nil
	case ScreenProceedToReview:
		return models.StatusUnderReview, nil
	case ScreenReturnFormatting:
		return models.StatusReturnedForFormatting, nil
	case ScreenReject:
		return models.StatusRejected, nil
	}
	return "", fmt.Errorf("%w: unknown screening decision %q", ErrPreconditionFailed, decision)
}

// DecisionTarget maps an editorial decision to the resulting status.
func DecisionTarget(decision string) (models.SubmissionStatus, error) {
	switch decision {
	case DecisionAccept:
		return models.StatusAccepted, nil
	case DecisionReject:
		return models.StatusRejected, nil
	case DecisionRevisionNeeded:
		return models.StatusRevisionRequired, nil
	}
	return "", fmt.Errorf("%w: unknown decision %q", ErrPreconditionFailed, decision)
}

// RevisionDecisionTarget maps a revision-handling decision to the
// resulting status. Only a REVISED submission has a revision awaiting a
// decision; applying one of these decisions at any other stage would
// reach ACCEPTED or REJECTED without the completed-review gate.
func RevisionDecisionTarget(from models.SubmissionStatus, decision string) (models.SubmissionStatus, error) {
	if from != models.StatusRevised {
		return "", fmt.Errorf("%w: no revision awaiting a decision at %s", ErrInvalidTransition, from)
	}
	switch decision {
	case RevisionDecisionAccept:
		return models.StatusAccepted, nil
	case RevisionDecisionReview:
		return models.StatusUnderReview, nil
	case RevisionDecisionReject:
		return models.StatusRejected, nil
	}
	return "", fmt.Errorf("%w: unknown revision decision %q", ErrPreconditionFailed, decision)
}
