package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"amana.dev/worklog/config"
	"amana.dev/worklog/middleware"
	"amana.dev/worklog/models"
	"amana.dev/worklog/pkg/storage"
)

// fileStore is the attachment backend picked at startup. Set once from
// main before the routes are registered.
var fileStore storage.Store

// InitFileStore wires the attachment backend into the handlers.
func InitFileStore(s storage.Store) {
	fileStore = s
}

func logService() *models.LogService {
	return models.NewLogService(config.DB, fileStore, NewNotificationService())
}

// writeLogError maps the lifecycle error taxonomy onto HTTP statuses
// with enough structure for a field-specific client message.
func writeLogError(w http.ResponseWriter, err error) {
	var (
		validation *models.ValidationError
		timeRange  *models.InvalidTimeRangeError
		forbidden  *models.ForbiddenError
		state      *models.InvalidStateError
		notFound   *models.NotFoundError
	)
	w.Header().Set("Content-Type", "application/json")
	switch {
	case errors.As(err, &validation):
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": validation.Message, "field": validation.Field})
	case errors.As(err, &timeRange):
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": timeRange.Error(), "field": "endTime"})
	case errors.As(err, &forbidden):
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": forbidden.Error()})
	case errors.As(err, &state):
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": state.Error()})
	case errors.As(err, &notFound):
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": notFound.Error()})
	default:
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": err.Error()})
	}
}

// logResponse decorates a log with its normalized attachment lists,
// references resolved to browsable URLs. Legacy flat paths and
// structured entries come out in the same shape.
type logResponse struct {
	*models.DailyLog
	DisplayPhotos    []models.DisplayAttachment `json:"displayPhotos"`
	DisplayDocuments []models.DisplayAttachment `json:"displayDocuments"`
}

func newLogResponse(entry *models.DailyLog) logResponse {
	photos := entry.DisplayPhotos()
	documents := entry.DisplayDocuments()
	for i := range photos {
		photos[i].Reference = fileStore.ResolveURL(photos[i].Reference)
	}
	for i := range documents {
		documents[i].Reference = fileStore.ResolveURL(documents[i].Reference)
	}
	return logResponse{DailyLog: entry, DisplayPhotos: photos, DisplayDocuments: documents}
}

func writeLog(w http.ResponseWriter, status int, entry *models.DailyLog) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(newLogResponse(entry))
}

func writeLogList(w http.ResponseWriter, entries []models.DailyLog) {
	out := make([]logResponse, len(entries))
	for i := range entries {
		out[i] = newLogResponse(&entries[i])
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func requireActor(w http.ResponseWriter, r *http.Request) (models.ActorContext, bool) {
	actor, ok := middleware.GetActor(r)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
	}
	return actor, ok
}

func logIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid log id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// CreateLog handles POST /logs. Accepts a multipart form (fields plus
// optional workPhotos / documents file parts) or a plain JSON body.
func CreateLog(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var in models.CreateLogInput
	var closers []multipart.File
	defer func() {
		for _, f := range closers {
			f.Close()
		}
	}()

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(50 << 20); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		parsed, files, err := createInputFromForm(r)
		closers = files
		if err != nil {
			writeLogError(w, err)
			return
		}
		in = parsed
	} else {
		var req createLogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		parsed, err := req.toInput()
		if err != nil {
			writeLogError(w, err)
			return
		}
		in = parsed
	}

	entry, err := logService().Create(r.Context(), actor, in)
	if err != nil {
		writeLogError(w, err)
		return
	}
	writeLog(w, http.StatusCreated, entry)
}

type createLogRequest struct {
	Date            string   `json:"date"`
	Project         string   `json:"project"`
	Employees       []string `json:"employees"`
	StartTime       string   `json:"startTime"`
	EndTime         string   `json:"endTime"`
	EndsNextDay     *bool    `json:"endsNextDay"`
	WorkDescription string   `json:"workDescription"`
	Status          string   `json:"status"`
}

// toInput converts the JSON body. Absent time fields stay zero so the
// required-field validation names them; present but malformed ones are
// rejected here as invalid.
func (req createLogRequest) toInput() (models.CreateLogInput, error) {
	in := models.CreateLogInput{
		Project:         req.Project,
		Employees:       req.Employees,
		EndsNextDay:     req.EndsNextDay,
		WorkDescription: req.WorkDescription,
		Status:          req.Status,
	}
	if req.Date != "" {
		t, err := parseDate(req.Date)
		if err != nil {
			return in, &models.ValidationError{Field: "date", Message: "invalid date"}
		}
		in.Date = t
	}
	if req.StartTime != "" {
		t, err := parseInstant(req.StartTime)
		if err != nil {
			return in, &models.ValidationError{Field: "startTime", Message: "invalid time"}
		}
		in.StartTime = t
	}
	if req.EndTime != "" {
		t, err := parseInstant(req.EndTime)
		if err != nil {
			return in, &models.ValidationError{Field: "endTime", Message: "invalid time"}
		}
		in.EndTime = t
	}
	return in, nil
}

func createInputFromForm(r *http.Request) (models.CreateLogInput, []multipart.File, error) {
	var in models.CreateLogInput
	var open []multipart.File

	if v := r.FormValue("date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return in, open, &models.ValidationError{Field: "date", Message: "invalid date"}
		}
		in.Date = t
	}
	in.Project = r.FormValue("project")
	in.WorkDescription = r.FormValue("workDescription")
	in.Status = r.FormValue("status")

	if v := r.FormValue("employees"); v != "" {
		// FormData sends the list as a JSON-encoded string.
		if err := json.Unmarshal([]byte(v), &in.Employees); err != nil {
			return in, open, &models.ValidationError{Field: "employees", Message: "must be a JSON array"}
		}
	}
	if v := r.FormValue("startTime"); v != "" {
		t, err := parseInstant(v)
		if err != nil {
			return in, open, &models.ValidationError{Field: "startTime", Message: "invalid time"}
		}
		in.StartTime = t
	}
	if v := r.FormValue("endTime"); v != "" {
		t, err := parseInstant(v)
		if err != nil {
			return in, open, &models.ValidationError{Field: "endTime", Message: "invalid time"}
		}
		in.EndTime = t
	}
	if v := r.FormValue("endsNextDay"); v != "" {
		pinned := v == "true" || v == "1"
		in.EndsNextDay = &pinned
	}

	docType := r.FormValue("documentType")
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["workPhotos"] {
			f, err := header.Open()
			if err != nil {
				return in, open, &models.ValidationError{Field: "workPhotos", Message: "unreadable file part"}
			}
			open = append(open, f)
			in.Photos = append(in.Photos, models.FileUpload{OriginalName: header.Filename, Content: f})
		}
		for _, header := range r.MultipartForm.File["documents"] {
			f, err := header.Open()
			if err != nil {
				return in, open, &models.ValidationError{Field: "documents", Message: "unreadable file part"}
			}
			open = append(open, f)
			in.Documents = append(in.Documents, models.FileUpload{OriginalName: header.Filename, Type: docType, Content: f})
		}
	}
	return in, open, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

func parseInstant(v string) (time.Time, error) {
	return time.Parse(time.RFC3339, v)
}

// GetAllLogs handles GET /logs with query filters. Team leaders are
// always restricted to their own logs.
func GetAllLogs(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	filter, err := models.ParseLogFilter(r)
	if err != nil {
		writeLogError(w, err)
		return
	}
	logs, err := logService().List(r.Context(), actor, filter)
	if err != nil {
		writeLogError(w, err)
		return
	}
	writeLogList(w, logs)
}

// GetMyLogs handles GET /logs/mine: the caller's five most recent.
func GetMyLogs(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	logs, err := logService().Recent(r.Context(), actor)
	if err != nil {
		writeLogError(w, err)
		return
	}
	writeLogList(w, logs)
}

// GetTeamLeaders handles GET /logs/leaders for the manager filter UI.
func GetTeamLeaders(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	leaders, err := logService().ListTeamLeaders(r.Context())
	if err != nil {
		writeLogError(w, err)
		return
	}
	type leaderOut struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
	}
	out := make([]leaderOut, len(leaders))
	for i, u := range leaders {
		out[i] = leaderOut{ID: u.ID, Name: u.Name}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// GetLog handles GET /logs/{id}.
func GetLog(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := logIDFromPath(w, r)
	if !ok {
		return
	}
	entry, err := logService().Get(r.Context(), actor, id)
	if err != nil {
		writeLogError(w, err)
		return
	}
	writeLog(w, http.StatusOK, entry)
}

type updateLogRequest struct {
	Date            *string  `json:"date"`
	Project         *string  `json:"project"`
	Employees       []string `json:"employees"`
	StartTime       *string  `json:"startTime"`
	EndTime         *string  `json:"endTime"`
	EndsNextDay     *bool    `json:"endsNextDay"`
	WorkDescription *string  `json:"workDescription"`
	Status          *string  `json:"status"`
}

// UpdateLog handles PATCH /logs/{id} for the whitelisted fields.
func UpdateLog(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := logIDFromPath(w, r)
	if !ok {
		return
	}
	var req updateLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	in := models.UpdateLogInput{
		Project:         req.Project,
		Employees:       req.Employees,
		EndsNextDay:     req.EndsNextDay,
		WorkDescription: req.WorkDescription,
		Status:          req.Status,
	}
	if req.Date != nil {
		t, err := parseDate(*req.Date)
		if err != nil {
			writeLogError(w, &models.ValidationError{Field: "date", Message: "invalid date"})
			return
		}
		in.Date = &t
	}
	if req.StartTime != nil {
		t, err := parseInstant(*req.StartTime)
		if err != nil {
			writeLogError(w, &models.ValidationError{Field: "startTime", Message: "invalid time"})
			return
		}
		in.StartTime = &t
	}
	if req.EndTime != nil {
		t, err := parseInstant(*req.EndTime)
		if err != nil {
			writeLogError(w, &models.ValidationError{Field: "endTime", Message: "invalid time"})
			return
		}
		in.EndTime = &t
	}

	entry, err := logService().Update(r.Context(), actor, id, in)
	if err != nil {
		writeLogError(w, err)
		return
	}
	writeLog(w, http.StatusOK, entry)
}

// SubmitLog handles POST /logs/{id}/submit.
func SubmitLog(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := logIDFromPath(w, r)
	if !ok {
		return
	}
	entry, err := logService().Submit(r.Context(), actor, id)
	if err != nil {
		writeLogError(w, err)
		return
	}
	writeLog(w, http.StatusOK, entry)
}

// ApproveLog handles POST /logs/{id}/approve.
func ApproveLog(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := logIDFromPath(w, r)
	if !ok {
		return
	}
	entry, err := logService().Approve(r.Context(), actor, id)
	if err != nil {
		writeLogError(w, err)
		return
	}
	writeLog(w, http.StatusOK, entry)
}

// DeleteLog handles DELETE /logs/{id}.
func DeleteLog(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := logIDFromPath(w, r)
	if !ok {
		return
	}
	if err := logService().Delete(r.Context(), actor, id); err != nil {
		writeLogError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "log deleted"})
}
