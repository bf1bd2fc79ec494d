package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AssetType enum constants
const (
	AssetTypeDemoUnit = "Demo Unit"
	AssetTypeADDevice = "AD Device"
	AssetTypeLaptop   = "Laptop"
	AssetTypeDisplay  = "Display / Exhibit"
	AssetTypeOther    = "Other"
)

// DepMethod enum constants
const (
	DepMethodDecliningBalance = "Declining Balance"
	DepMethodStraightLine     = "Straight-Line"
	DepMethodNone             = "None"
)

// AssetStatus constants. Sold and Disposed are terminal and reachable
// only through an approved sales/disposal transaction.
const (
	AssetStatusActive          = "Active"
	AssetStatusWithCustomer    = "With Customer"
	AssetStatusInStorage       = "In Storage"
	AssetStatusInTransit       = "In Transit"
	AssetStatusUnderRepair     = "Under Repair"
	AssetStatusSold            = "Sold"
	AssetStatusDisposed        = "Disposed"
	AssetStatusPendingApproval = "Pending Approval"
)

// ApprovalStatus constants shared by assets and transactions
const (
	ApprovalDraft    = "draft"
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Asset represents a physical unit under management (demo unit, device, ...).
// An asset with approval_status=pending must not appear in any register,
// export, or depreciation total until an approver signs it off.
type Asset struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID          string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"asset_id"` // human-assigned business key, e.g. DU-001
	SerialNumber     string          `gorm:"type:varchar(100);not null" json:"serial_number"`
	AssetName        string          `gorm:"type:varchar(255);not null" json:"asset_name"`
	AssetType        string          `gorm:"type:varchar(50)" json:"asset_type"`
	Model            string          `gorm:"type:varchar(100)" json:"model"`
	PurchaseDate     string          `gorm:"type:varchar(10)" json:"purchase_date"` // ISO date; empty means no depreciation data
	PurchaseValue    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"purchase_value"`
	Currency         string          `gorm:"type:varchar(3);default:'EUR'" json:"currency"`
	DepMethod        string          `gorm:"type:varchar(30);default:'Declining Balance'" json:"dep_method"`
	UsefulLifeMonths int             `gorm:"type:int;default:60" json:"useful_life_months"`
	CurrentLocation  string          `gorm:"type:varchar(100)" json:"current_location"`
	Status           string          `gorm:"type:varchar(30);default:'Active';index" json:"status"`
	Responsible      string          `gorm:"type:varchar(100)" json:"responsible"`
	Notes            string          `gorm:"type:text" json:"notes"`
	ApprovalStatus   string          `gorm:"type:varchar(20);not null;default:'approved';index" json:"approval_status"`

	LocationHistory []LocationHistory  `gorm:"foreignKey:AssetID;references:AssetID" json:"location_history,omitempty"`
	Transactions    []SalesTransaction `gorm:"foreignKey:AssetID;references:AssetID" json:"transactions,omitempty"`
	Documents       []Document         `gorm:"foreignKey:AssetID;references:AssetID" json:"documents,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsTerminalStatus reports whether a status may only be reached through
// transaction approval, never by direct edit.
func IsTerminalStatus(status string) bool {
	return status == AssetStatusSold || status == AssetStatusDisposed
}
