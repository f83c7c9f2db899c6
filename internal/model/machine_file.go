package model

import "time"

// MachineFile is a document attached to a machine. StoredPath is the
// server-relative URL under /uploads; the row and the on-disk bytes are
// deleted together and must never drift.
type MachineFile struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MachineID  uint      `gorm:"index;not null" json:"machine_id"`
	Filename   string    `gorm:"not null" json:"filename"`
	StoredPath string    `gorm:"not null" json:"stored_path"`
	FileType   string    `json:"file_type"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}
