package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"amana.dev/worklog/middleware"
)

// GetNotifications retrieves notifications for the current user
// GET /api/v1/notifications
func GetNotifications(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	ns := NewNotificationService()

	notifications, err := ns.ForUser(claims.UserID, unreadOnly)
	if err != nil {
		log.Printf("failed to fetch notifications: %v", err)
		http.Error(w, "failed to fetch notifications", http.StatusInternalServerError)
		return
	}
	unreadCount, _ := ns.UnreadCount(claims.UserID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"notifications": notifications,
		"count":         len(notifications),
		"unreadCount":   unreadCount,
	})
}

// MarkNotificationRead marks one notification as read
// PUT /api/v1/notifications/{id}/read
func MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if err := NewNotificationService().MarkRead(claims.UserID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "notification not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to mark notification read", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "notification marked read"})
}

// MarkAllNotificationsRead marks all of the caller's notifications read
// PUT /api/v1/notifications/read-all
func MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := NewNotificationService().MarkAllRead(claims.UserID); err != nil {
		http.Error(w, "failed to mark notifications read", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "all notifications marked read"})
}
