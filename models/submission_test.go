package models

import "testing"

func TestIsEditable(t *testing.T) {
	editable := map[SubmissionStatus]bool{
		StatusDraft:                 true,
		StatusReturnedForFormatting: true,
		StatusSubmitted:             false,
		StatusInitialReview:         false,
		StatusUnderReview:           false,
		StatusRevisionRequired:      false,
		StatusRevised:               false,
		StatusAccepted:              false,
		StatusPaymentPending:        false,
		StatusRejected:              false,
		StatusPublished:             false,
		StatusWithdrawn:             false,
	}
	for status, want := range editable {
		s := Submission{Status: status}
		if got := s.IsEditable(); got != want {
			t.Errorf("IsEditable(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, status := range []SubmissionStatus{StatusRejected, StatusWithdrawn, StatusPublished} {
		s := Submission{Status: status}
		if !s.IsTerminal() {
			t.Errorf("IsTerminal(%s) = false, want true", status)
		}
	}
	for _, status := range []SubmissionStatus{StatusDraft, StatusSubmitted, StatusAccepted, StatusPaymentPending} {
		s := Submission{Status: status}
		if s.IsTerminal() {
			t.Errorf("IsTerminal(%s) = true, want false", status)
		}
	}
}

func TestIsValidDocumentMime(t *testing.T) {
	valid := []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/x-tex",
		"text/x-tex",
	}
	for _, mime := range valid {
		if !IsValidDocumentMime(mime) {
			t.Errorf("IsValidDocumentMime(%q) = false, want true", mime)
		}
	}

	invalid := []string{"image/png", "text/html", "application/zip", ""}
	for _, mime := range invalid {
		if IsValidDocumentMime(mime) {
			t.Errorf("IsValidDocumentMime(%q) = true, want false", mime)
		}
	}
}

func TestIsValidRecommendation(t *testing.T) {
	for _, rec := range []string{RecommendAccept, RecommendMinorRevision, RecommendMajorRevision, RecommendReject} {
		if !IsValidRecommendation(rec) {
			t.Errorf("IsValidRecommendation(%q) = false, want true", rec)
		}
	}
	for _, rec := range []string{"", "accept", "PUBLISH"} {
		if IsValidRecommendation(rec) {
			t.Errorf("IsValidRecommendation(%q) = true, want false", rec)
		}
	}
}
