package models

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestCleanEmployees(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"drops empty and whitespace entries", []string{"", "  ", "Dana"}, []string{"Dana"}},
		{"all blank becomes empty", []string{"", "   "}, []string{}},
		{"keeps duplicates", []string{"Omar", "Omar"}, []string{"Omar", "Omar"}},
		{"preserves order and content", []string{"Noa", "\t", "Avi"}, []string{"Noa", "Avi"}},
		{"nil input", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanEmployees(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CleanEmployees(%v) = %v, expected %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseLogStatus(t *testing.T) {
	for _, valid := range []string{"draft", "submitted", "approved"} {
		if _, err := ParseLogStatus(valid); err != nil {
			t.Errorf("ParseLogStatus(%q) unexpected error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "Draft", "deleted", "pending"} {
		if _, err := ParseLogStatus(invalid); err == nil {
			t.Errorf("ParseLogStatus(%q) expected error", invalid)
		}
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from LogStatus
		to   LogStatus
		ok   bool
	}{
		{StatusDraft, StatusSubmitted, true},
		{StatusSubmitted, StatusApproved, true},
		{StatusDraft, StatusApproved, false},
		{StatusSubmitted, StatusDraft, false},
		{StatusApproved, StatusSubmitted, false},
		{StatusApproved, StatusDraft, false},
		{StatusApproved, StatusApproved, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.ok {
			t.Errorf("%s -> %s = %v, expected %v", tt.from, tt.to, got, tt.ok)
		}
	}
}

func TestOwnershipChecks(t *testing.T) {
	owner := ActorContext{ID: uuid.New(), Role: RoleTeamLeader}
	otherLead := ActorContext{ID: uuid.New(), Role: RoleTeamLeader}
	manager := ActorContext{ID: uuid.New(), Role: RoleManager}

	entry := &DailyLog{ID: uuid.New(), TeamLeaderID: owner.ID, Status: StatusDraft}

	if !entry.VisibleTo(owner) {
		t.Error("owner should see their own log")
	}
	if entry.VisibleTo(otherLead) {
		t.Error("another team leader should not see this log")
	}
	if !entry.VisibleTo(manager) {
		t.Error("a manager should see any log")
	}

	if err := entry.MutableBy(owner); err != nil {
		t.Errorf("owner should be able to mutate a draft: %v", err)
	}
	if err := entry.MutableBy(otherLead); err == nil {
		t.Error("another team leader must not mutate this log")
	} else if _, ok := err.(*ForbiddenError); !ok {
		t.Errorf("expected ForbiddenError, got %T", err)
	}
	// Managers do not own the log either; mutation is owner-only.
	if err := entry.MutableBy(manager); err == nil {
		t.Error("a manager must not mutate a log through the owner path")
	}

	entry.Status = StatusApproved
	if err := entry.MutableBy(owner); err == nil {
		t.Error("an approved log must be immutable for its owner")
	} else if _, ok := err.(*InvalidStateError); !ok {
		t.Errorf("expected InvalidStateError, got %T", err)
	}
}

func TestDeletableBy(t *testing.T) {
	owner := ActorContext{ID: uuid.New(), Role: RoleTeamLeader}
	otherLead := ActorContext{ID: uuid.New(), Role: RoleTeamLeader}
	manager := ActorContext{ID: uuid.New(), Role: RoleManager}

	tests := []struct {
		name    string
		status  LogStatus
		actor   ActorContext
		wantErr bool
	}{
		{"owner deletes draft", StatusDraft, owner, false},
		{"owner deletes submitted", StatusSubmitted, owner, false},
		{"owner cannot delete approved", StatusApproved, owner, true},
		{"other lead cannot delete", StatusDraft, otherLead, true},
		{"manager deletes draft", StatusDraft, manager, false},
		{"manager deletes approved", StatusApproved, manager, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &DailyLog{TeamLeaderID: owner.ID, Status: tt.status}
			err := entry.DeletableBy(tt.actor)
			if (err != nil) != tt.wantErr {
				t.Errorf("DeletableBy = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAttachmentNormalization(t *testing.T) {
	cert := "uploads/documents/20240110-093000-note.pdf"
	photoID := uuid.New()
	docID := uuid.New()

	entry := &DailyLog{
		WorkPhotos:          []string{"uploads/photos/old-site.jpg"},
		DeliveryCertificate: &cert,
		Photos: AttachmentList{
			{ID: photoID, Path: "https://storage.googleapis.com/bucket/photos/new.jpg", OriginalName: "new.jpg"},
		},
		Documents: AttachmentList{
			{ID: docID, Path: "uploads/documents/manifest.pdf", OriginalName: "manifest.pdf", Type: "manifest"},
		},
	}

	photos := entry.DisplayPhotos()
	if len(photos) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(photos))
	}
	if photos[0].ID != nil {
		t.Error("legacy photo should have no stable id")
	}
	if photos[0].OriginalName != "old-site.jpg" {
		t.Errorf("legacy photo name = %q", photos[0].OriginalName)
	}
	if photos[1].ID == nil || *photos[1].ID != photoID {
		t.Error("structured photo should keep its id")
	}

	docs := entry.DisplayDocuments()
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Type != DocumentTypeDeliveryNote {
		t.Errorf("legacy certificate type = %q, expected %q", docs[0].Type, DocumentTypeDeliveryNote)
	}
	if docs[0].OriginalName != "20240110-093000-note.pdf" {
		t.Errorf("legacy certificate name = %q", docs[0].OriginalName)
	}
	if docs[1].Type != "manifest" {
		t.Errorf("structured document type = %q", docs[1].Type)
	}
}

func TestAttachmentNormalizationEmpty(t *testing.T) {
	entry := &DailyLog{}
	if got := entry.DisplayPhotos(); len(got) != 0 {
		t.Errorf("expected no photos, got %v", got)
	}
	if got := entry.DisplayDocuments(); len(got) != 0 {
		t.Errorf("expected no documents, got %v", got)
	}
}

func TestAttachmentListRoundTrip(t *testing.T) {
	list := AttachmentList{{ID: uuid.New(), Path: "uploads/photos/a.jpg", OriginalName: "a.jpg"}}
	value, err := list.Value()
	if err != nil {
		t.Fatal(err)
	}
	var back AttachmentList
	if err := back.Scan(value); err != nil {
		t.Fatal(err)
	}
	if len(back) != 1 || back[0].ID != list[0].ID || back[0].Path != list[0].Path {
		t.Errorf("round trip mismatch: %+v", back)
	}

	var fromNil AttachmentList
	if err := fromNil.Scan(nil); err != nil {
		t.Fatal(err)
	}
	if fromNil == nil || len(fromNil) != 0 {
		t.Errorf("nil column should scan to empty list, got %v", fromNil)
	}
}
