package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocType enum constants
const (
	DocTypeDemoContract    = "Demo Contract"
	DocTypePurchaseInvoice = "Purchase Invoice"
	DocTypePhoto           = "Photo"
	DocTypeMaintenance     = "Maintenance Record"
	DocTypeWarranty        = "Warranty"
	DocTypeOther           = "Other"
)

// Document is the metadata record of a file attached to an asset. The
// file bytes themselves live in external object storage; StoragePath is
// an opaque reference resolved by that collaborator.
type Document struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID     string    `gorm:"type:varchar(50);not null;index" json:"asset_id"`
	DocType     string    `gorm:"type:varchar(50);default:'Other'" json:"doc_type"`
	DocTitle    string    `gorm:"type:varchar(255)" json:"doc_title"`
	DocDate     string    `gorm:"type:varchar(10)" json:"doc_date"`
	StoragePath string    `gorm:"type:varchar(500)" json:"storage_path"`
	Description string    `gorm:"type:text" json:"description"`
	UploadedBy  string    `gorm:"type:varchar(100)" json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
