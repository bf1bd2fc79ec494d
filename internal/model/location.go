package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocationHistory is one placement interval of one asset. An empty DateTo
// marks the open interval — the asset's current placement. At most one
// entry per asset is open at any time; relocations close the previous
// entry and insert the new one in the same database transaction.
type LocationHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID   string    `gorm:"type:varchar(50);not null;index" json:"asset_id"`
	DateFrom  string    `gorm:"type:varchar(10)" json:"date_from"`
	DateTo    string    `gorm:"type:varchar(10)" json:"date_to"` // empty = current placement
	Location  string    `gorm:"type:varchar(100)" json:"location"`
	Country   string    `gorm:"type:varchar(100)" json:"country"`
	Customer  string    `gorm:"type:varchar(255)" json:"customer"`
	Purpose   string    `gorm:"type:varchar(255)" json:"purpose"`
	ShippedBy string    `gorm:"type:varchar(100)" json:"shipped_by"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedBy string    `gorm:"type:varchar(100)" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *LocationHistory) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// PurposeInitialReceipt is the purpose recorded on the location entry
// created when an asset is first approved into the register.
const PurposeInitialReceipt = "Initial receipt"
