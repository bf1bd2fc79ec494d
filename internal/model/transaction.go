package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TxType enum constants
const (
	TxTypeSale     = "Sale"
	TxTypeDisposal = "Disposal"
	TxTypeWriteOff = "Write-Off"
)

// SalesTransaction is a proposed or finalized sale/disposal/write-off of
// an asset. BookValueAtTx is frozen from the depreciation snapshot at
// creation time and never recomputed, even if the asset's depreciation
// parameters change afterwards.
//
// Lifecycle: draft → pending → approved | rejected. Approved and rejected
// are terminal. Approving cascades the owning asset's status to Sold or
// Disposed — the only path to those statuses.
type SalesTransaction struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID        string          `gorm:"type:varchar(50);not null;index" json:"asset_id"`
	TxType         string          `gorm:"type:varchar(20);not null" json:"tx_type"` // Sale, Disposal, Write-Off
	TxDate         string          `gorm:"type:varchar(10)" json:"tx_date"`
	BookValueAtTx  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"book_value_at_tx"`
	SalePrice      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"sale_price"` // meaningful for Sale only
	Buyer          string          `gorm:"type:varchar(255)" json:"buyer"`
	BuyerContact   string          `gorm:"type:varchar(255)" json:"buyer_contact"`
	InvoiceRef     string          `gorm:"type:varchar(100)" json:"invoice_ref"`
	Notes          string          `gorm:"type:text" json:"notes"`
	ApprovalStatus string          `gorm:"type:varchar(20);not null;default:'draft';index" json:"approval_status"`
	ApprovedBy     *uuid.UUID      `gorm:"type:uuid" json:"approved_by"`
	Approver       *User           `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	ApprovedAt     *time.Time      `json:"approved_at"`
	RejectReason   string          `gorm:"type:text" json:"reject_reason"`
	CreatedBy      string          `gorm:"type:varchar(100)" json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (t *SalesTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
