package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Machine is a piece of industrial equipment. It is the aggregate root for
// MachineFile and MaintenanceRecord rows (exclusive ownership, cascade delete)
// and owns at most one current 3D preview asset.
type Machine struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"index;not null" json:"name"`
	Reference      string `gorm:"not null" json:"reference"`
	Quantity       int    `gorm:"not null;default:0" json:"quantity"`
	Location       string `json:"location"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	AlertThreshold int     `gorm:"not null;default:5" json:"alert_threshold"`
	Dimensions     string  `json:"dimensions"`
	Weight         float64 `gorm:"not null;default:0" json:"weight"`
	// CADLinkPath is an opaque path on the operator's workstation, meaningful
	// only to the desktop agent. Never validated or resolved server-side.
	CADLinkPath string `json:"cad_link_path"`
	// ModelAssetPath is the server-relative URL of the uploaded 3D asset
	// (e.g. /uploads/machines/3/1700000000-….glb), empty when none.
	ModelAssetPath string    `json:"model_asset_path"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Files        []MachineFile       `gorm:"constraint:OnDelete:CASCADE" json:"files,omitempty"`
	Maintenances []MaintenanceRecord `gorm:"constraint:OnDelete:CASCADE" json:"maintenances,omitempty"`
}
