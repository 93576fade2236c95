package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationType defines the type of notification
type NotificationType string

const (
	NotificationTypeLogApproved NotificationType = "log_approved"
)

// Notification is one in-app notification for a user.
type Notification struct {
	ID      uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"userId"`
	Type    NotificationType `gorm:"size:50;not null" json:"type"`
	Title   string           `gorm:"size:255;not null" json:"title"`
	Message string           `gorm:"type:text" json:"message"`
	// Data carries type-specific payload; log_approved stores the log
	// and approver ids so the client can deep-link.
	Data      datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"data,omitempty"`
	IsRead    bool           `gorm:"default:false;index" json:"isRead"`
	ReadAt    *time.Time     `json:"readAt,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
