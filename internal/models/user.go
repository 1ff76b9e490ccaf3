package models

import "time"

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// User mirrors the identity provider's subject. The service never issues
// credentials; it verifies bearer tokens and keeps a local row for rosters.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:255"`
	Name      string    `json:"name" gorm:"not null;size:200"`
	Email     string    `json:"email" gorm:"size:255;index"`
	Role      UserRole  `json:"role" gorm:"not null;size:20;default:student"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (r UserRole) CanViewAnswerKeys() bool {
	return r == RoleTeacher || r == RoleAdmin
}
