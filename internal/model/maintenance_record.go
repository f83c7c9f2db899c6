package model

import "time"

// Maintenance statuses.
const (
	MaintenanceScheduled  = "scheduled"
	MaintenanceInProgress = "in_progress"
	MaintenanceCompleted  = "completed"
)

// Maintenance priorities.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// ValidMaintenanceStatus reports whether s is a known status.
func ValidMaintenanceStatus(s string) bool {
	switch s {
	case MaintenanceScheduled, MaintenanceInProgress, MaintenanceCompleted:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// MaintenanceRecord is a maintenance entry owned by exactly one machine.
type MaintenanceRecord struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	MachineID     uint       `gorm:"index;not null" json:"machine_id"`
	Title         string     `gorm:"not null" json:"title"`
	Description   string     `json:"description"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	CompletedDate *time.Time `json:"completed_date"`
	Status        string     `gorm:"not null;default:'scheduled'" json:"status"`
	Priority      string     `gorm:"not null;default:'medium'" json:"priority"`
	CreatedAt     time.Time  `json:"created_at"`
}
