package models

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LogFilter carries the query filters for listing daily logs.
type LogFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Project    string
	Status     *LogStatus
	TeamLeader *uuid.UUID
	SearchTerm string
}

// ParseLogFilter reads the supported query parameters. Dates accept
// either a bare calendar day or a full RFC 3339 timestamp.
func ParseLogFilter(r *http.Request) (LogFilter, error) {
	q := r.URL.Query()
	var f LogFilter

	if v := q.Get("startDate"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			return f, &ValidationError{Field: "startDate", Message: "invalid date"}
		}
		f.StartDate = &t
	}
	if v := q.Get("endDate"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			return f, &ValidationError{Field: "endDate", Message: "invalid date"}
		}
		// An end date filters inclusively through the whole day.
		end := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
		f.EndDate = &end
	}
	if v := q.Get("project"); v != "" {
		f.Project = v
	}
	if v := q.Get("status"); v != "" {
		status, err := ParseLogStatus(v)
		if err != nil {
			return f, err
		}
		f.Status = &status
	}
	if v := q.Get("teamLeader"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, &ValidationError{Field: "teamLeader", Message: "invalid id"}
		}
		f.TeamLeader = &id
	}
	f.SearchTerm = q.Get("searchTerm")
	return f, nil
}

func parseDateParam(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

// scopeTo pins the team-leader filter to the actor's own id when the
// actor is a team leader, whatever the request asked for. Managers
// keep the filter as given.
func (f LogFilter) scopeTo(actor ActorContext) LogFilter {
	if actor.IsTeamLeader() {
		self := actor.ID
		f.TeamLeader = &self
	}
	return f
}

// Apply narrows a daily_logs query to the filter.
func (f LogFilter) Apply(db *gorm.DB) *gorm.DB {
	if f.StartDate != nil {
		db = db.Where("date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		db = db.Where("date <= ?", *f.EndDate)
	}
	if f.Project != "" {
		db = db.Where("project = ?", f.Project)
	}
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	if f.TeamLeader != nil {
		db = db.Where("team_leader_id = ?", *f.TeamLeader)
	}
	if f.SearchTerm != "" {
		db = db.Where("work_description ILIKE ?", "%"+f.SearchTerm+"%")
	}
	return db
}
