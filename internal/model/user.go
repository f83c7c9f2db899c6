package model

import "time"

// Roles, from least to most privileged.
const (
	RoleViewer   = "viewer"
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

// User stores system users with role-based access.
// Role: "viewer" | "operator" | "admin"
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time
}
