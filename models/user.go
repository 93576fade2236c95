// models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The two roles the system knows. Anything else is rejected at the
// registration boundary.
const (
	RoleTeamLeader = "Team Leader"
	RoleManager    = "Manager"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"size:15;uniqueIndex;not null" json:"phone"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:30;not null" json:"role"`
	IsActive     bool      `gorm:"default:true" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// ValidRole reports whether role is one of the closed role set.
func ValidRole(role string) bool {
	return role == RoleTeamLeader || role == RoleManager
}

// ActorContext identifies the caller of a lifecycle operation. It is
// built once from the verified token and passed into every service
// call; nothing below the HTTP layer re-derives identity.
type ActorContext struct {
	ID   uuid.UUID
	Name string
	Role string
}

// IsManager reports whether the actor holds the manager role.
func (a ActorContext) IsManager() bool {
	return a.Role == RoleManager
}

// IsTeamLeader reports whether the actor holds the team-leader role.
func (a ActorContext) IsTeamLeader() bool {
	return a.Role == RoleTeamLeader
}
