package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock categories. They partition the inventory views: fasteners (visserie),
// personal protective equipment (EPI), raw materials (base) and everything else.
const (
	CategoryVisserie = "visserie"
	CategoryEPI      = "epi"
	CategoryBase     = "base"
	CategoryGeneral  = "general"
)

// ValidCategory reports whether c belongs to the closed category set.
func ValidCategory(c string) bool {
	switch c {
	case CategoryVisserie, CategoryEPI, CategoryBase, CategoryGeneral:
		return true
	}
	return false
}

// StockItem is a consumable/material inventory record.
type StockItem struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"index;not null" json:"name"`
	Reference      string `json:"reference"`
	Quantity       int    `gorm:"not null;default:0" json:"quantity"`
	Unit           string `gorm:"not null;default:'pièce'" json:"unit"`
	Location       string `json:"location"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	AlertThreshold int    `gorm:"not null;default:10" json:"alert_threshold"`
	Category       string `gorm:"index;not null" json:"category"`
	Notes          string `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// LowStock reports whether the item sits at or below its alert threshold.
func (s *StockItem) LowStock() bool { return s.Quantity <= s.AlertThreshold }
