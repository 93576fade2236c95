package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"amana.dev/worklog/models"
)

// UploadLogPhotos handles POST /uploads/{id}/photos.
func UploadLogPhotos(w http.ResponseWriter, r *http.Request) {
	attachFiles(w, r, models.AttachmentKindPhotos)
}

// UploadLogDocuments handles POST /uploads/{id}/documents. The
// optional documentType form value tags every file in the request;
// it defaults to delivery_note.
func UploadLogDocuments(w http.ResponseWriter, r *http.Request) {
	attachFiles(w, r, models.AttachmentKindDocuments)
}

func attachFiles(w http.ResponseWriter, r *http.Request, kind string) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := logIDFromPath(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	docType := r.FormValue("documentType")
	var uploads []models.FileUpload
	if r.MultipartForm != nil {
		// The field name matches the kind; a bare "file" field is
		// accepted too for older clients.
		headers := r.MultipartForm.File[kind]
		if len(headers) == 0 {
			headers = r.MultipartForm.File["file"]
		}
		for _, header := range headers {
			f, err := header.Open()
			if err != nil {
				http.Error(w, "unreadable file part: "+err.Error(), http.StatusBadRequest)
				return
			}
			defer f.Close()
			up := models.FileUpload{OriginalName: header.Filename, Content: f}
			if kind == models.AttachmentKindDocuments {
				up.Type = docType
			}
			uploads = append(uploads, up)
		}
	}

	entry, err := logService().AddAttachments(r.Context(), actor, id, kind, uploads)
	if err != nil {
		writeLogError(w, err)
		return
	}
	writeLog(w, http.StatusOK, entry)
}

// DeleteLogFile handles DELETE /uploads/{id}/{kind}/{fileId}: detaches
// one photo or document reference by its stable id.
func DeleteLogFile(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := logIDFromPath(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	fileID, err := uuid.Parse(vars["fileId"])
	if err != nil {
		http.Error(w, "invalid file id", http.StatusBadRequest)
		return
	}

	entry, err := logService().RemoveAttachment(r.Context(), actor, id, vars["kind"], fileID)
	if err != nil {
		writeLogError(w, err)
		return
	}
	writeLog(w, http.StatusOK, entry)
}
