package services

import "errors"

// Workflow errors. Controllers map these to HTTP statuses: state
// violations become 409, precondition and validation failures 400,
// missing rows 404.
var (
	ErrInvalidTransition   = errors.New("status transition not permitted")
	ErrPreconditionFailed  = errors.New("precondition not met")
	ErrNotFound            = errors.New("record not found")
	ErrAlreadyReviewing    = errors.New("reviewer already has an open review for this submission")
	ErrReviewerExcluded    = errors.New("reviewer is excluded from this submission")
	ErrReviewNotOpen       = errors.New("review is not awaiting reviewer action")
	ErrReviewClosed        = errors.New("review already reached a terminal state")
	ErrNotEnoughReviews    = errors.New("not enough completed reviews for a decision")
	ErrPaymentRequired     = errors.New("no paid APC payment on record")
	ErrCommentsRequired    = errors.New("comments are required")
	ErrInvalidRecommend    = errors.New("invalid recommendation")
	ErrDeadlineNotExtended = errors.New("new due date must be after the current one")
)
