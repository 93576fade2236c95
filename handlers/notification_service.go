package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"amana.dev/worklog/config"
	"amana.dev/worklog/models"
)

// NotificationService creates in-app notifications. Delivery is
// best-effort everywhere the lifecycle calls it: failures are logged
// and swallowed, never surfaced to the caller.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService() *NotificationService {
	return &NotificationService{db: config.DB}
}

// LogApproved implements models.ApprovalNotifier: every manager gets
// an in-app notification when a log is approved.
func (ns *NotificationService) LogApproved(entry *models.DailyLog, approver models.ActorContext) {
	var managers []models.User
	if err := ns.db.Select("id").Where("role = ?", models.RoleManager).Find(&managers).Error; err != nil {
		log.Printf("notification: failed to resolve managers for log %s: %v", entry.ID, err)
		return
	}

	leaderName := ""
	if entry.TeamLeader != nil {
		leaderName = entry.TeamLeader.Name
	}
	data, _ := json.Marshal(map[string]string{
		"logId":      entry.ID.String(),
		"approverId": approver.ID.String(),
	})

	for _, m := range managers {
		n := models.Notification{
			UserID: m.ID,
			Type:   models.NotificationTypeLogApproved,
			Title:  "Daily log approved",
			Message: fmt.Sprintf("Log for %s on %s (%s) was approved by %s",
				entry.Project, entry.Date.Format("02/01/2006"), leaderName, approver.Name),
			Data: data,
		}
		if err := ns.db.Create(&n).Error; err != nil {
			log.Printf("notification: failed to create for user %s: %v", m.ID, err)
		}
	}
}

// ForUser returns a user's notifications, newest first.
func (ns *NotificationService) ForUser(userID string, unreadOnly bool) ([]models.Notification, error) {
	q := ns.db.Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var notifications []models.Notification
	err := q.Order("created_at DESC").Limit(100).Find(&notifications).Error
	return notifications, err
}

// UnreadCount returns how many notifications the user has not read.
func (ns *NotificationService) UnreadCount(userID string) (int64, error) {
	var count int64
	err := ns.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flags one of the user's notifications as read.
func (ns *NotificationService) MarkRead(userID, notificationID string) error {
	now := time.Now()
	res := ns.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllRead flags all of the user's notifications as read.
func (ns *NotificationService) MarkAllRead(userID string) error {
	now := time.Now()
	return ns.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}
