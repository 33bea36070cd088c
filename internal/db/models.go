package db

import (
	"time"

	"gorm.io/gorm"
)

// AssetStatus is the lifecycle status of an asset.
type AssetStatus string

const (
	StatusInStock  AssetStatus = "IN_STOCK"
	StatusInUse    AssetStatus = "IN_USE"
	StatusInRepair AssetStatus = "IN_REPAIR"
	StatusRetired  AssetStatus = "RETIRED"
)

// Valid reports whether s is one of the known statuses.
func (s AssetStatus) Valid() bool {
	switch s {
	case StatusInStock, StatusInUse, StatusInRepair, StatusRetired:
		return true
	}
	return false
}

// AssetType is the equipment category of an asset.
type AssetType string

const (
	TypeNotebook AssetType = "NOTEBOOK"
	TypeMonitor  AssetType = "MONITOR"
	TypeKeyboard AssetType = "KEYBOARD"
	TypeMouse    AssetType = "MOUSE"
	TypeHeadset  AssetType = "HEADSET"
	TypeOther    AssetType = "OTHER"
)

// Valid reports whether t is one of the known types.
func (t AssetType) Valid() bool {
	switch t {
	case TypeNotebook, TypeMonitor, TypeKeyboard, TypeMouse, TypeHeadset, TypeOther:
		return true
	}
	return false
}

// Asset represents a trackable piece of IT equipment.
//
// Assignee is set only by checkout event processing; HTTP-driven updates
// cannot touch it. UpdatedAt stays NULL until the first mutation after
// creation, so timestamp bookkeeping is done explicitly in the repository
// rather than by gorm's auto-tracking.
type Asset struct {
	ID           int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string      `gorm:"type:varchar(255);not null;index:idx_assets_name" json:"name"`
	AssetType    AssetType   `gorm:"type:varchar(20);not null" json:"asset_type"`
	Model        string      `gorm:"type:varchar(255);not null" json:"model"`
	SerialNumber string      `gorm:"type:varchar(100);not null;uniqueIndex:idx_assets_serial_number" json:"serial_number"`
	Status       AssetStatus `gorm:"type:varchar(20);not null;default:'IN_STOCK'" json:"status"`
	Assignee     *string     `gorm:"type:varchar(100)" json:"assignee"`
	CreatedAt    time.Time   `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt    *time.Time  `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// TableName specifies the table name for the Asset model.
func (Asset) TableName() string {
	return "assets"
}

// BeforeCreate sets the creation timestamp. UpdatedAt is intentionally left
// NULL until the first subsequent update.
func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return nil
}
