package models

import "testing"

func TestIsEditorialRole(t *testing.T) {
	if IsEditorialRole(RoleAuthor) {
		t.Error("author should not have editorial access")
	}
	if IsEditorialRole(RoleReviewer) {
		t.Error("reviewer should not have editorial access")
	}
	if !IsEditorialRole(RoleEditor) {
		t.Error("editor should have editorial access")
	}
	if !IsEditorialRole(RoleAdmin) {
		t.Error("admin should have editorial access")
	}
}

func TestFullName(t *testing.T) {
	u := User{FirstName: "Ada", LastName: "Lovelace"}
	if got := u.FullName(); got != "Ada Lovelace" {
		t.Errorf("FullName() = %q, want %q", got, "Ada Lovelace")
	}
}
