package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// LogStatus is the closed lifecycle status set for a daily log.
// Unknown values are rejected at the boundary; deletion removes the
// record and is not a status.
type LogStatus string

const (
	StatusDraft     LogStatus = "draft"
	StatusSubmitted LogStatus = "submitted"
	StatusApproved  LogStatus = "approved"
)

// ParseLogStatus validates a caller-supplied status string.
func ParseLogStatus(s string) (LogStatus, error) {
	switch LogStatus(s) {
	case StatusDraft, StatusSubmitted, StatusApproved:
		return LogStatus(s), nil
	}
	return "", &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", s)}
}

// CanTransitionTo reports whether the status machine allows moving
// from s to next. The only legal edges are draft→submitted and
// submitted→approved.
func (s LogStatus) CanTransitionTo(next LogStatus) bool {
	switch s {
	case StatusDraft:
		return next == StatusSubmitted
	case StatusSubmitted:
		return next == StatusApproved
	}
	return false
}

// DocumentTypeDeliveryNote is the default type tag for uploaded
// documents and the implied tag of legacy delivery certificates.
const DocumentTypeDeliveryNote = "delivery_note"

// Attachment is one stored photo or document reference embedded on a
// log. The id is stable and used for targeted deletion.
type Attachment struct {
	ID           uuid.UUID `json:"id"`
	Path         string    `json:"path"`
	OriginalName string    `json:"originalName"`
	Type         string    `json:"type,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// AttachmentList stores attachments as a jsonb array column.
type AttachmentList []Attachment

// Value implements driver.Valuer so GORM can write the list as jsonb.
func (l AttachmentList) Value() (driver.Value, error) {
	if l == nil {
		l = AttachmentList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for reading the jsonb column back.
func (l *AttachmentList) Scan(src interface{}) error {
	if src == nil {
		*l = AttachmentList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("AttachmentList.Scan: unsupported type %T", src)
	}
}

// DailyLog is one day's work report for a project, owned by the team
// leader who created it.
type DailyLog struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Date            time.Time      `gorm:"not null;index" json:"date"`
	Project         string         `gorm:"size:255;not null" json:"project"`
	Employees       pq.StringArray `gorm:"type:text[];not null" json:"employees"`
	StartTime       time.Time      `gorm:"not null" json:"startTime"`
	EndTime         time.Time      `gorm:"not null" json:"endTime"`
	EndsNextDay     bool           `gorm:"default:false" json:"endsNextDay"`
	WorkHours       float64        `gorm:"not null" json:"workHours"`
	WorkDescription string         `gorm:"type:text" json:"workDescription"`
	Status          LogStatus      `gorm:"size:20;not null;default:draft;index" json:"status"`

	TeamLeaderID uuid.UUID `gorm:"type:uuid;not null;index" json:"teamLeaderId"`
	TeamLeader   *User     `gorm:"foreignKey:TeamLeaderID" json:"teamLeader,omitempty"`

	// Structured attachment lists. Each entry carries its own id so a
	// single file can be detached without touching the rest.
	Photos    AttachmentList `gorm:"type:jsonb;not null;default:'[]'" json:"photos"`
	Documents AttachmentList `gorm:"type:jsonb;not null;default:'[]'" json:"documents"`

	// Legacy flat columns from the first schema revision. Read-only:
	// normalized into the display shape alongside the structured lists,
	// never rewritten.
	WorkPhotos          pq.StringArray `gorm:"type:text[]" json:"workPhotos,omitempty"`
	DeliveryCertificate *string        `gorm:"size:512" json:"deliveryCertificate,omitempty"`

	ApprovedByID *uuid.UUID `gorm:"type:uuid" json:"approvedBy,omitempty"`
	ApprovedAt   *time.Time `json:"approvedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (l *DailyLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// CleanEmployees strips blank and whitespace-only entries. Duplicates
// are kept; order is preserved.
func CleanEmployees(in []string) []string {
	out := make([]string, 0, len(in))
	for _, name := range in {
		if strings.TrimSpace(name) == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// VisibleTo reports whether the actor may read this log. Managers see
// everything; team leaders see only their own.
func (l *DailyLog) VisibleTo(actor ActorContext) bool {
	return actor.IsManager() || l.TeamLeaderID == actor.ID
}

// MutableBy reports whether the actor may change this log's fields or
// attachments. Only the owning team leader may, and never once the log
// is approved.
func (l *DailyLog) MutableBy(actor ActorContext) error {
	if l.TeamLeaderID != actor.ID {
		return &ForbiddenError{Reason: "not authorized to modify this log"}
	}
	if l.Status == StatusApproved {
		return &InvalidStateError{Current: l.Status, Operation: "update"}
	}
	return nil
}

// DeletableBy reports whether the actor may delete this log. A manager
// may delete any log; a team leader only their own, and only while it
// is not approved.
func (l *DailyLog) DeletableBy(actor ActorContext) error {
	if actor.IsManager() {
		return nil
	}
	if l.TeamLeaderID != actor.ID {
		return &ForbiddenError{Reason: "not authorized to delete this log"}
	}
	if l.Status == StatusApproved {
		return &InvalidStateError{Current: l.Status, Operation: "delete"}
	}
	return nil
}

// DisplayAttachment is the read-time shape both the legacy flat
// columns and the structured lists normalize into.
type DisplayAttachment struct {
	ID           *uuid.UUID `json:"id,omitempty"`
	Reference    string     `json:"reference"`
	OriginalName string     `json:"originalName"`
	Type         string     `json:"type,omitempty"`
}

// DisplayPhotos merges legacy work_photos paths and structured photo
// entries into one presentation list. Legacy entries have no stable id
// and take their display name from the path's last element.
func (l *DailyLog) DisplayPhotos() []DisplayAttachment {
	out := make([]DisplayAttachment, 0, len(l.WorkPhotos)+len(l.Photos))
	for _, p := range l.WorkPhotos {
		out = append(out, DisplayAttachment{Reference: p, OriginalName: path.Base(p)})
	}
	for i := range l.Photos {
		a := l.Photos[i]
		id := a.ID
		out = append(out, DisplayAttachment{ID: &id, Reference: a.Path, OriginalName: a.OriginalName})
	}
	return out
}

// DisplayDocuments merges the legacy delivery certificate and the
// structured document entries into one presentation list.
func (l *DailyLog) DisplayDocuments() []DisplayAttachment {
	out := make([]DisplayAttachment, 0, len(l.Documents)+1)
	if l.DeliveryCertificate != nil && *l.DeliveryCertificate != "" {
		out = append(out, DisplayAttachment{
			Reference:    *l.DeliveryCertificate,
			OriginalName: path.Base(*l.DeliveryCertificate),
			Type:         DocumentTypeDeliveryNote,
		})
	}
	for i := range l.Documents {
		a := l.Documents[i]
		id := a.ID
		typ := a.Type
		if typ == "" {
			typ = DocumentTypeDeliveryNote
		}
		out = append(out, DisplayAttachment{ID: &id, Reference: a.Path, OriginalName: a.OriginalName, Type: typ})
	}
	return out
}
