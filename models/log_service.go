package models

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"amana.dev/worklog/pkg/storage"
	"amana.dev/worklog/utils"
)

// ApprovalNotifier is told when a log reaches approved. Delivery is
// best-effort: implementations log their own failures and never
// surface them to the approver.
type ApprovalNotifier interface {
	LogApproved(entry *DailyLog, approver ActorContext)
}

// FileUpload is one incoming file to attach to a log.
type FileUpload struct {
	OriginalName string
	Type         string
	Content      io.Reader
}

// Attachment kinds accepted by the upload endpoints.
const (
	AttachmentKindPhotos    = "photos"
	AttachmentKindDocuments = "documents"
)

// LogService enforces the daily-log lifecycle: who may create, mutate,
// transition and delete a log, and how its derived fields are kept
// consistent. All durable writes go through the gorm handle it holds.
type LogService struct {
	db       *gorm.DB
	files    storage.Store
	notifier ApprovalNotifier
}

func NewLogService(db *gorm.DB, files storage.Store, notifier ApprovalNotifier) *LogService {
	return &LogService{db: db, files: files, notifier: notifier}
}

// CreateLogInput carries the fields and files for a new log.
type CreateLogInput struct {
	Date            time.Time
	Project         string
	Employees       []string
	StartTime       time.Time
	EndTime         time.Time
	EndsNextDay     *bool
	WorkDescription string
	Status          string
	Photos          []FileUpload
	Documents       []FileUpload
}

// Create persists a new log and its attachments as one atomic unit.
// Any failure, including a rejected file, rolls the record back so no
// partial log is ever visible.
func (s *LogService) Create(ctx context.Context, actor ActorContext, in CreateLogInput) (*DailyLog, error) {
	if !actor.IsTeamLeader() {
		return nil, &ForbiddenError{Reason: "only team leaders can create logs"}
	}
	if in.Date.IsZero() {
		return nil, &ValidationError{Field: "date", Message: "required"}
	}
	project := strings.TrimSpace(in.Project)
	if project == "" {
		return nil, &ValidationError{Field: "project", Message: "required"}
	}
	if in.StartTime.IsZero() {
		return nil, &ValidationError{Field: "startTime", Message: "required"}
	}
	if in.EndTime.IsZero() {
		return nil, &ValidationError{Field: "endTime", Message: "required"}
	}
	employees := CleanEmployees(in.Employees)
	if len(employees) == 0 {
		return nil, &ValidationError{Field: "employees", Message: "must contain at least one name"}
	}

	status := StatusDraft
	if in.Status != "" {
		parsed, err := ParseLogStatus(in.Status)
		if err != nil {
			return nil, err
		}
		if parsed != StatusDraft && parsed != StatusSubmitted {
			return nil, &ValidationError{Field: "status", Message: "a new log can only be draft or submitted"}
		}
		status = parsed
	}

	rng, err := utils.ComputeWorkRange(in.StartTime, in.EndTime, in.EndsNextDay)
	if err != nil {
		return nil, &InvalidTimeRangeError{}
	}

	entry := &DailyLog{
		Date:            in.Date,
		Project:         project,
		Employees:       employees,
		StartTime:       rng.Start,
		EndTime:         rng.End,
		EndsNextDay:     rng.EndsNextDay,
		WorkHours:       rng.Hours,
		WorkDescription: strings.TrimSpace(in.WorkDescription),
		Status:          status,
		TeamLeaderID:    actor.ID,
		Photos:          AttachmentList{},
		Documents:       AttachmentList{},
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		photos, err := s.saveUploads(ctx, AttachmentKindPhotos, in.Photos)
		if err != nil {
			return err
		}
		documents, err := s.saveUploads(ctx, AttachmentKindDocuments, in.Documents)
		if err != nil {
			return err
		}
		entry.Photos = photos
		entry.Documents = documents
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *LogService) saveUploads(ctx context.Context, kind string, uploads []FileUpload) (AttachmentList, error) {
	list := AttachmentList{}
	for _, up := range uploads {
		path, err := s.files.Save(ctx, kind, up.OriginalName, up.Content)
		if err != nil {
			return nil, err
		}
		typ := up.Type
		if kind == AttachmentKindDocuments && typ == "" {
			typ = DocumentTypeDeliveryNote
		}
		list = append(list, Attachment{
			ID:           uuid.New(),
			Path:         path,
			OriginalName: up.OriginalName,
			Type:         typ,
			UploadedAt:   time.Now(),
		})
	}
	return list, nil
}

// UpdateLogInput is a partial patch; nil fields are left untouched.
type UpdateLogInput struct {
	Date            *time.Time
	Project         *string
	Employees       []string
	StartTime       *time.Time
	EndTime         *time.Time
	EndsNextDay     *bool
	WorkDescription *string
	Status          *string
}

// Update mutates the whitelisted fields of a log owned by the actor.
// Any patch touching a boundary time re-derives the work hours and
// re-validates the ordering; the next-day flag is re-inferred unless
// the patch pins it.
func (s *LogService) Update(ctx context.Context, actor ActorContext, id uuid.UUID, in UpdateLogInput) (*DailyLog, error) {
	entry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.MutableBy(actor); err != nil {
		return nil, err
	}
	if err := applyLogPatch(entry, in); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// applyLogPatch mutates the whitelisted fields of a log in place. Any
// patch touching a boundary time re-derives the work hours and
// re-validates the ordering; the next-day flag is re-inferred unless
// the patch pins it.
func applyLogPatch(entry *DailyLog, in UpdateLogInput) error {
	if in.Date != nil {
		if in.Date.IsZero() {
			return &ValidationError{Field: "date", Message: "required"}
		}
		entry.Date = *in.Date
	}
	if in.Project != nil {
		project := strings.TrimSpace(*in.Project)
		if project == "" {
			return &ValidationError{Field: "project", Message: "required"}
		}
		entry.Project = project
	}
	if in.Employees != nil {
		employees := CleanEmployees(in.Employees)
		if len(employees) == 0 {
			return &ValidationError{Field: "employees", Message: "must contain at least one name"}
		}
		entry.Employees = employees
	}
	if in.WorkDescription != nil {
		entry.WorkDescription = strings.TrimSpace(*in.WorkDescription)
	}
	if in.Status != nil {
		parsed, err := ParseLogStatus(*in.Status)
		if err != nil {
			return err
		}
		// The only status change tolerated through a field patch is
		// draft→submitted; everything else goes through the dedicated
		// transition endpoints.
		if parsed != entry.Status {
			if !(entry.Status == StatusDraft && parsed == StatusSubmitted) {
				return &InvalidStateError{Current: entry.Status, Operation: "set status " + string(parsed) + " on"}
			}
			entry.Status = parsed
		}
	}

	if in.StartTime != nil || in.EndTime != nil || in.EndsNextDay != nil {
		start := entry.StartTime
		end := entry.EndTime
		if in.StartTime != nil {
			start = *in.StartTime
		}
		if in.EndTime != nil {
			end = *in.EndTime
		}
		rng, err := utils.ComputeWorkRange(start, end, in.EndsNextDay)
		if err != nil {
			return &InvalidTimeRangeError{}
		}
		entry.StartTime = rng.Start
		entry.EndTime = rng.End
		entry.EndsNextDay = rng.EndsNextDay
		entry.WorkHours = rng.Hours
	}
	return nil
}

// Submit moves a draft log to submitted. The transition is a
// compare-and-set: a concurrent change since the caller's read fails
// with InvalidState instead of overwriting.
func (s *LogService) Submit(ctx context.Context, actor ActorContext, id uuid.UUID) (*DailyLog, error) {
	entry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.TeamLeaderID != actor.ID {
		return nil, &ForbiddenError{Reason: "not authorized to submit this log"}
	}
	if entry.Status != StatusDraft {
		return nil, &InvalidStateError{Current: entry.Status, Operation: "submit"}
	}

	res := s.db.WithContext(ctx).Model(&DailyLog{}).
		Where("id = ? AND status = ?", id, StatusDraft).
		Update("status", StatusSubmitted)
	if res.Error != nil {
		return nil, res.Error
	}
	return resolveTransition(res.RowsAffected, "submit", func() (*DailyLog, error) {
		return s.load(ctx, id)
	})
}

// Approve moves a submitted log to approved, stamping the approver and
// time, then notifies managers best-effort.
func (s *LogService) Approve(ctx context.Context, actor ActorContext, id uuid.UUID) (*DailyLog, error) {
	if !actor.IsManager() {
		return nil, &ForbiddenError{Reason: "only managers can approve logs"}
	}
	entry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.Status != StatusSubmitted {
		return nil, &InvalidStateError{Current: entry.Status, Operation: "approve"}
	}

	now := time.Now()
	res := s.db.WithContext(ctx).Model(&DailyLog{}).
		Where("id = ? AND status = ?", id, StatusSubmitted).
		Updates(map[string]interface{}{
			"status":         StatusApproved,
			"approved_by_id": actor.ID,
			"approved_at":    now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	entry, err = resolveTransition(res.RowsAffected, "approve", func() (*DailyLog, error) {
		return s.load(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.LogApproved(entry, actor)
	}
	return entry, nil
}

// resolveTransition interprets a compare-and-set row count. Zero rows
// means another writer won the race since the caller's read, so the
// row is re-read and the error names the state actually stored now; a
// vanished row surfaces as NotFound.
func resolveTransition(rows int64, op string, reread func() (*DailyLog, error)) (*DailyLog, error) {
	entry, err := reread()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, &InvalidStateError{Current: entry.Status, Operation: op}
	}
	return entry, nil
}

// Delete removes a log. Managers may delete anything; the owning team
// leader only while the log is not approved, enforced with the same
// status compare-and-set as the transitions so an approval that lands
// between the read and the delete wins.
func (s *LogService) Delete(ctx context.Context, actor ActorContext, id uuid.UUID) error {
	entry, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := entry.DeletableBy(actor); err != nil {
		return err
	}
	if actor.IsManager() {
		return s.db.WithContext(ctx).Delete(&DailyLog{}, "id = ?", id).Error
	}

	res := s.db.WithContext(ctx).
		Where("id = ? AND status <> ?", id, StatusApproved).
		Delete(&DailyLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		_, err := resolveTransition(0, "delete", func() (*DailyLog, error) {
			return s.load(ctx, id)
		})
		return err
	}
	return nil
}

// Get fetches one log the actor is allowed to see.
func (s *LogService) Get(ctx context.Context, actor ActorContext, id uuid.UUID) (*DailyLog, error) {
	entry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entry.VisibleTo(actor) {
		return nil, &ForbiddenError{Reason: "not authorized to view this log"}
	}
	return entry, nil
}

// List returns logs matching the filter, newest first. A team leader
// is always restricted to their own logs regardless of the requested
// team-leader filter.
func (s *LogService) List(ctx context.Context, actor ActorContext, filter LogFilter) ([]DailyLog, error) {
	filter = filter.scopeTo(actor)
	var logs []DailyLog
	err := filter.Apply(s.db.WithContext(ctx).Model(&DailyLog{})).
		Preload("TeamLeader").
		Order("date DESC").
		Find(&logs).Error
	return logs, err
}

// Recent returns the caller's five most recent logs.
func (s *LogService) Recent(ctx context.Context, actor ActorContext) ([]DailyLog, error) {
	var logs []DailyLog
	err := s.db.WithContext(ctx).
		Where("team_leader_id = ?", actor.ID).
		Order("date DESC").
		Limit(5).
		Find(&logs).Error
	return logs, err
}

// AddAttachments stores the uploads and appends them to the log's
// photo or document list. Same ownership and approved-immutability
// rules as Update.
func (s *LogService) AddAttachments(ctx context.Context, actor ActorContext, id uuid.UUID, kind string, uploads []FileUpload) (*DailyLog, error) {
	if kind != AttachmentKindPhotos && kind != AttachmentKindDocuments {
		return nil, &ValidationError{Field: "kind", Message: "must be photos or documents"}
	}
	if len(uploads) == 0 {
		return nil, &ValidationError{Field: "files", Message: "no files supplied"}
	}
	entry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.MutableBy(actor); err != nil {
		return nil, err
	}

	added, err := s.saveUploads(ctx, kind, uploads)
	if err != nil {
		return nil, err
	}
	column := "photos"
	value := append(entry.Photos, added...)
	if kind == AttachmentKindDocuments {
		column = "documents"
		value = append(entry.Documents, added...)
	}
	if err := s.db.WithContext(ctx).Model(entry).Update(column, value).Error; err != nil {
		return nil, err
	}
	if kind == AttachmentKindDocuments {
		entry.Documents = value
	} else {
		entry.Photos = value
	}
	return entry, nil
}

// RemoveAttachment detaches one photo or document by its stable id.
// The stored bytes are left in place; only the reference goes away.
func (s *LogService) RemoveAttachment(ctx context.Context, actor ActorContext, id uuid.UUID, kind string, fileID uuid.UUID) (*DailyLog, error) {
	if kind != AttachmentKindPhotos && kind != AttachmentKindDocuments {
		return nil, &ValidationError{Field: "kind", Message: "must be photos or documents"}
	}
	entry, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.MutableBy(actor); err != nil {
		return nil, err
	}

	list := entry.Photos
	column := "photos"
	if kind == AttachmentKindDocuments {
		list = entry.Documents
		column = "documents"
	}
	kept := make(AttachmentList, 0, len(list))
	found := false
	for _, a := range list {
		if a.ID == fileID {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return nil, &NotFoundError{Resource: "attachment"}
	}
	if kind == AttachmentKindDocuments {
		entry.Documents = kept
	} else {
		entry.Photos = kept
	}
	if err := s.db.WithContext(ctx).Model(entry).Update(column, kept).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// ListTeamLeaders returns id and name of every team-leader account,
// for the manager-side filter dropdown.
func (s *LogService) ListTeamLeaders(ctx context.Context) ([]User, error) {
	var leaders []User
	err := s.db.WithContext(ctx).
		Select("id", "name").
		Where("role = ?", RoleTeamLeader).
		Order("name").
		Find(&leaders).Error
	return leaders, err
}

func (s *LogService) load(ctx context.Context, id uuid.UUID) (*DailyLog, error) {
	var entry DailyLog
	err := s.db.WithContext(ctx).Preload("TeamLeader").First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "log"}
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
