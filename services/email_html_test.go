package services

import (
	"strings"
	"testing"
)

func TestBuildEmailHTMLEscapesContent(t *testing.T) {
	html := BuildEmailHTML(
		"Decision on <Manuscript>",
		`Dr. O'Brien <admin>`,
		"Your submission \"Deep & Wide\" was accepted.\nCongratulations <b>!</b>",
	)

	if strings.Contains(html, "<Manuscript>") || strings.Contains(html, "<admin>") || strings.Contains(html, "<b>") {
		t.Fatal("unescaped input leaked into the email body")
	}
	if !strings.Contains(html, "&lt;Manuscript&gt;") {
		t.Error("subject not escaped")
	}
	if !strings.Contains(html, "Dear Dr. O&#39;Brien &lt;admin&gt;,") {
		t.Error("greeting not escaped")
	}
	if !strings.Contains(html, "&#34;Deep &amp; Wide&#34;") {
		t.Error("message not escaped")
	}
	if !strings.Contains(html, "<br />") {
		t.Error("line break not converted")
	}
}

func TestBuildEmailHTMLDefaultsRecipientName(t *testing.T) {
	html := BuildEmailHTML("Subject", "   ", "Body text")
	if !strings.Contains(html, "Dear Author,") {
		t.Error("expected fallback greeting for blank recipient name")
	}
}
