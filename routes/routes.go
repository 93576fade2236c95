package routes

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"amana.dev/worklog/handlers"
	"amana.dev/worklog/middleware"
	"amana.dev/worklog/models"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/register", handlers.Register).Methods("POST")
	r.HandleFunc("/login", handlers.Login).Methods("POST")
	r.HandleFunc("/token", handlers.GetCurrentUser).Methods("GET")

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))),
	)

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	registerLogRoutes(api)
	registerUploadRoutes(api)
	registerNotificationRoutes(api)

	return r
}

func registerLogRoutes(api *mux.Router) {
	// Fixed paths before the {id} wildcard
	api.HandleFunc("/logs/mine", handlers.GetMyLogs).Methods("GET")
	api.HandleFunc("/logs/leaders", handlers.GetTeamLeaders).Methods("GET")

	api.HandleFunc("/logs", handlers.CreateLog).Methods("POST")
	api.HandleFunc("/logs", handlers.GetAllLogs).Methods("GET")
	api.HandleFunc("/logs/{id}", handlers.GetLog).Methods("GET")
	api.HandleFunc("/logs/{id}", handlers.UpdateLog).Methods("PATCH")
	api.HandleFunc("/logs/{id}", handlers.DeleteLog).Methods("DELETE")
	api.HandleFunc("/logs/{id}/submit", handlers.SubmitLog).Methods("POST")
	api.HandleFunc("/logs/{id}/export", handlers.ExportLog).Methods("GET")

	// Approval is manager-only at the routing layer as well; the
	// lifecycle engine checks again.
	api.Handle("/logs/{id}/approve",
		middleware.RequireRole([]string{models.RoleManager}, http.HandlerFunc(handlers.ApproveLog)),
	).Methods("POST")
}

func registerUploadRoutes(api *mux.Router) {
	api.HandleFunc("/uploads/{id}/photos", handlers.UploadLogPhotos).Methods("POST")
	api.HandleFunc("/uploads/{id}/documents", handlers.UploadLogDocuments).Methods("POST")
	api.HandleFunc("/uploads/{id}/{kind}/{fileId}", handlers.DeleteLogFile).Methods("DELETE")
}

func registerNotificationRoutes(api *mux.Router) {
	api.HandleFunc("/notifications", handlers.GetNotifications).Methods("GET")
	api.HandleFunc("/notifications/read-all", handlers.MarkAllNotificationsRead).Methods("PUT")
	api.HandleFunc("/notifications/{id}/read", handlers.MarkNotificationRead).Methods("PUT")
}
