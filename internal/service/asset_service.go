package service

import (
	"context"
	"fmt"

	"backend/internal/depreciation"
	"backend/internal/model"
	"backend/internal/notify"
	"backend/internal/repository"
	ws "backend/internal/websocket"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateAssetRequest struct {
	AssetID          string          `json:"asset_id" binding:"required"`
	SerialNumber     string          `json:"serial_number" binding:"required"`
	AssetName        string          `json:"asset_name" binding:"required"`
	AssetType        string          `json:"asset_type"`
	Model            string          `json:"model"`
	PurchaseDate     string          `json:"purchase_date"`
	PurchaseValue    decimal.Decimal `json:"purchase_value"`
	Currency         string          `json:"currency"`
	DepMethod        string          `json:"dep_method"`
	UsefulLifeMonths int             `json:"useful_life_months"`
	CurrentLocation  string          `json:"current_location"`
	Status           string          `json:"status"`
	Responsible      string          `json:"responsible"`
	Notes            string          `json:"notes"`
	SendApproval     bool            `json:"send_approval"`
}

type UpdateAssetRequest struct {
	SerialNumber     string          `json:"serial_number" binding:"required"`
	AssetName        string          `json:"asset_name" binding:"required"`
	AssetType        string          `json:"asset_type"`
	Model            string          `json:"model"`
	PurchaseDate     string          `json:"purchase_date"`
	PurchaseValue    decimal.Decimal `json:"purchase_value"`
	Currency         string          `json:"currency"`
	DepMethod        string          `json:"dep_method"`
	UsefulLifeMonths int             `json:"useful_life_months"`
	CurrentLocation  string          `json:"current_location"`
	Status           string          `json:"status"`
	Responsible      string          `json:"responsible"`
	Notes            string          `json:"notes"`
}

// AssetWithDepreciation decorates an asset with its depreciation
// snapshot at the service clock's current date.
type AssetWithDepreciation struct {
	model.Asset
	Depreciation depreciation.Snapshot `json:"depreciation"`
}

// AssetDetail is the full view of one asset: financial snapshot,
// placement history, transactions (with derived gain/loss) and
// document records.
type AssetDetail struct {
	Asset           AssetWithDepreciation   `json:"asset"`
	LocationHistory []model.LocationHistory `json:"location_history"`
	Transactions    []TransactionView       `json:"transactions"`
	Documents       []model.Document        `json:"documents"`
}

// DepreciationRegister lists depreciating assets with aggregate totals.
type DepreciationRegister struct {
	Assets        []AssetWithDepreciation `json:"assets"`
	TotalMonthly  decimal.Decimal         `json:"total_monthly"`
	TotalBook     decimal.Decimal         `json:"total_book"`
	TotalPurchase decimal.Decimal         `json:"total_purchase"`
}

// --- Interface ---

type AssetService interface {
	// CreateAsset persists a new asset. With SendApproval the asset
	// enters the approval queue (pending, status "Pending Approval")
	// and approvers are notified; otherwise it is approved immediately
	// and its initial location entry is written in the same transaction.
	CreateAsset(ctx context.Context, actorID string, req CreateAssetRequest) (*model.Asset, error)
	// ApproveAsset moves a pending asset to approved/Active and writes
	// the initial receipt location entry. Approver-only.
	ApproveAsset(ctx context.Context, actorID string, assetID string) (*model.Asset, error)
	// RejectAsset terminally rejects a pending asset, prefixing the
	// reason onto its notes. Approver-only.
	RejectAsset(ctx context.Context, actorID string, assetID string, reason string) (*model.Asset, error)
	GetAsset(ctx context.Context, assetID string) (*AssetDetail, error)
	ListAssets(ctx context.Context, filter repository.AssetFilter) ([]AssetWithDepreciation, error)
	UpdateAsset(ctx context.Context, actorID string, assetID string, req UpdateAssetRequest) (*model.Asset, error)
	UpdateUsefulLife(ctx context.Context, actorID string, assetID string, months int) error
	ListDepreciation(ctx context.Context, assetType string) (*DepreciationRegister, error)
	NextAssetID(ctx context.Context) (string, error)
}

type assetService struct {
	assets       repository.AssetRepository
	locations    repository.LocationRepository
	transactions repository.TransactionRepository
	documents    repository.DocumentRepository
	users        repository.UserRepository
	audits       repository.AuditRepository
	txManager    repository.TransactionManager
	notifier     notify.Notifier
	hub          *ws.Hub
	clock        Clock
	appURL       string
}

func NewAssetService(
	assets repository.AssetRepository,
	locations repository.LocationRepository,
	transactions repository.TransactionRepository,
	documents repository.DocumentRepository,
	users repository.UserRepository,
	audits repository.AuditRepository,
	txManager repository.TransactionManager,
	notifier notify.Notifier,
	hub *ws.Hub,
	clock Clock,
	appURL string,
) AssetService {
	return &assetService{
		assets:       assets,
		locations:    locations,
		transactions: transactions,
		documents:    documents,
		users:        users,
		audits:       audits,
		txManager:    txManager,
		notifier:     notifier,
		hub:          hub,
		clock:        clock,
		appURL:       appURL,
	}
}

// --- Implementation ---

func (s *assetService) CreateAsset(ctx context.Context, actorID string, req CreateAssetRequest) (*model.Asset, error) {
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if model.IsTerminalStatus(req.Status) {
		return nil, ErrTerminalStatus
	}

	asset := &model.Asset{
		AssetID:          req.AssetID,
		SerialNumber:     req.SerialNumber,
		AssetName:        req.AssetName,
		AssetType:        req.AssetType,
		Model:            req.Model,
		PurchaseDate:     req.PurchaseDate,
		PurchaseValue:    req.PurchaseValue,
		Currency:         req.Currency,
		DepMethod:        req.DepMethod,
		UsefulLifeMonths: req.UsefulLifeMonths,
		CurrentLocation:  req.CurrentLocation,
		Status:           req.Status,
		Responsible:      req.Responsible,
		Notes:            req.Notes,
	}
	if asset.Currency == "" {
		asset.Currency = "EUR"
	}
	if asset.DepMethod == "" {
		asset.DepMethod = model.DepMethodDecliningBalance
	}
	if asset.UsefulLifeMonths <= 0 {
		asset.UsefulLifeMonths = 60
	}
	if asset.Status == "" {
		asset.Status = model.AssetStatusActive
	}
	if asset.Responsible == "" {
		asset.Responsible = actor.Username
	}

	if req.SendApproval {
		asset.ApprovalStatus = model.ApprovalPending
		asset.Status = model.AssetStatusPendingApproval
	} else {
		asset.ApprovalStatus = model.ApprovalApproved
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.assets.Create(txCtx, asset); createErr != nil {
			return fmt.Errorf("failed to create asset: %w", createErr)
		}
		// Directly-approved assets get their initial receipt entry
		// atomically with the asset itself.
		if asset.ApprovalStatus == model.ApprovalApproved {
			if locErr := s.locations.Create(txCtx, initialReceiptEntry(asset, actor.Username)); locErr != nil {
				return fmt.Errorf("failed to create initial location entry: %w", locErr)
			}
		}
		return writeAudit(txCtx, s.audits, &actor.ID, model.ActionCreateAsset, asset.AssetID, asset.AssetName, map[string]interface{}{
			"approval_status": asset.ApprovalStatus,
			"send_approval":   req.SendApproval,
		})
	})
	if err != nil {
		return nil, err
	}

	if asset.ApprovalStatus == model.ApprovalPending {
		sendNotification(s.notifier,
			fmt.Sprintf("[Asset Management] Approval Request - New Asset %s", asset.AssetID),
			fmt.Sprintf(`<h3>New Asset Approval Request</h3>
<p><b>Submitted by:</b> %s</p>
<p><b>Asset ID:</b> %s | <b>Serial:</b> %s</p>
<p><b>Name:</b> %s | <b>Type:</b> %s</p>
<p><b>Value:</b> %s %s</p>
<p><b>Location:</b> %s</p>
<p><a href="%s/dashboard">Review on Dashboard</a></p>`,
				actor.Username, asset.AssetID, asset.SerialNumber,
				asset.AssetName, asset.AssetType,
				asset.Currency, asset.PurchaseValue.StringFixed(2),
				asset.CurrentLocation, s.appURL))
		broadcast(s.hub, EventAssetSubmitted, map[string]interface{}{
			"asset_id":     asset.AssetID,
			"asset_name":   asset.AssetName,
			"submitted_by": actor.Username,
		})
	}

	return asset, nil
}

func (s *assetService) ApproveAsset(ctx context.Context, actorID string, assetID string) (*model.Asset, error) {
	actor, err := requireApprover(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}

	var asset *model.Asset
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		asset, findErr = s.assets.GetByAssetID(txCtx, assetID)
		if findErr != nil {
			return fmt.Errorf("asset not found: %w", findErr)
		}
		if asset.ApprovalStatus != model.ApprovalPending {
			return fmt.Errorf("asset is already %s", asset.ApprovalStatus)
		}

		asset.ApprovalStatus = model.ApprovalApproved
		asset.Status = model.AssetStatusActive
		if saveErr := s.assets.Update(txCtx, asset); saveErr != nil {
			return fmt.Errorf("failed to update asset: %w", saveErr)
		}
		if locErr := s.locations.Create(txCtx, initialReceiptEntry(asset, actor.Username)); locErr != nil {
			return fmt.Errorf("failed to create initial location entry: %w", locErr)
		}
		return writeAudit(txCtx, s.audits, &actor.ID, model.ActionApproveAsset, asset.AssetID, asset.AssetName, nil)
	})
	if err != nil {
		return nil, err
	}

	broadcast(s.hub, EventAssetApproved, map[string]interface{}{
		"asset_id":    asset.AssetID,
		"approved_by": actor.Username,
	})
	return asset, nil
}

func (s *assetService) RejectAsset(ctx context.Context, actorID string, assetID string, reason string) (*model.Asset, error) {
	actor, err := requireApprover(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}

	var asset *model.Asset
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		asset, findErr = s.assets.GetByAssetID(txCtx, assetID)
		if findErr != nil {
			return fmt.Errorf("asset not found: %w", findErr)
		}
		if asset.ApprovalStatus != model.ApprovalPending {
			return fmt.Errorf("asset is already %s", asset.ApprovalStatus)
		}

		asset.ApprovalStatus = model.ApprovalRejected
		// Rejection reason is kept on the record for audit visibility,
		// ahead of whatever notes were already there.
		asset.Notes = "[REJECTED: " + reason + "] " + asset.Notes
		if saveErr := s.assets.Update(txCtx, asset); saveErr != nil {
			return fmt.Errorf("failed to update asset: %w", saveErr)
		}
		return writeAudit(txCtx, s.audits, &actor.ID, model.ActionRejectAsset, asset.AssetID, asset.AssetName, map[string]interface{}{
			"reason": reason,
		})
	})
	if err != nil {
		return nil, err
	}

	broadcast(s.hub, EventAssetRejected, map[string]interface{}{
		"asset_id":    asset.AssetID,
		"rejected_by": actor.Username,
		"reason":      reason,
	})
	return asset, nil
}

func (s *assetService) GetAsset(ctx context.Context, assetID string) (*AssetDetail, error) {
	asset, err := s.assets.GetByAssetID(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("asset not found: %w", err)
	}

	history, err := s.locations.ListByAsset(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load location history: %w", err)
	}
	txs, err := s.transactions.ListByAsset(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	docs, err := s.documents.ListByAsset(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	views := make([]TransactionView, 0, len(txs))
	for _, tx := range txs {
		views = append(views, toTransactionView(tx))
	}

	return &AssetDetail{
		Asset:           AssetWithDepreciation{Asset: *asset, Depreciation: s.snapshot(asset)},
		LocationHistory: history,
		Transactions:    views,
		Documents:       docs,
	}, nil
}

func (s *assetService) ListAssets(ctx context.Context, filter repository.AssetFilter) ([]AssetWithDepreciation, error) {
	assets, err := s.assets.ListRegister(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.withSnapshots(assets), nil
}

func (s *assetService) UpdateAsset(ctx context.Context, actorID string, assetID string, req UpdateAssetRequest) (*model.Asset, error) {
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}

	asset, err := s.assets.GetByAssetID(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("asset not found: %w", err)
	}
	if model.IsTerminalStatus(req.Status) && req.Status != asset.Status {
		return nil, ErrTerminalStatus
	}

	asset.SerialNumber = req.SerialNumber
	asset.AssetName = req.AssetName
	asset.AssetType = req.AssetType
	asset.Model = req.Model
	asset.PurchaseDate = req.PurchaseDate
	asset.PurchaseValue = req.PurchaseValue
	asset.Currency = req.Currency
	asset.DepMethod = req.DepMethod
	asset.UsefulLifeMonths = req.UsefulLifeMonths
	asset.CurrentLocation = req.CurrentLocation
	if req.Status != "" {
		asset.Status = req.Status
	}
	asset.Responsible = req.Responsible
	asset.Notes = req.Notes

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if saveErr := s.assets.Update(txCtx, asset); saveErr != nil {
			return fmt.Errorf("failed to update asset: %w", saveErr)
		}
		return writeAudit(txCtx, s.audits, &actor.ID, model.ActionUpdateAsset, asset.AssetID, asset.AssetName, nil)
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *assetService) UpdateUsefulLife(ctx context.Context, actorID string, assetID string, months int) error {
	if _, err := loadActor(ctx, s.users, actorID); err != nil {
		return err
	}
	if months < 1 {
		months = 1
	}
	if _, err := s.assets.GetByAssetID(ctx, assetID); err != nil {
		return fmt.Errorf("asset not found: %w", err)
	}
	return s.assets.UpdateFields(ctx, assetID, map[string]interface{}{"useful_life_months": months})
}

func (s *assetService) ListDepreciation(ctx context.Context, assetType string) (*DepreciationRegister, error) {
	assets, err := s.assets.ListDepreciating(ctx, assetType)
	if err != nil {
		return nil, err
	}

	register := &DepreciationRegister{
		Assets:        s.withSnapshots(assets),
		TotalMonthly:  decimal.Zero,
		TotalBook:     decimal.Zero,
		TotalPurchase: decimal.Zero,
	}
	for _, a := range register.Assets {
		register.TotalMonthly = register.TotalMonthly.Add(a.Depreciation.Monthly)
		register.TotalBook = register.TotalBook.Add(a.Depreciation.BookValue)
		register.TotalPurchase = register.TotalPurchase.Add(a.PurchaseValue)
	}
	return register, nil
}

func (s *assetService) NextAssetID(ctx context.Context) (string, error) {
	count, err := s.assets.Count(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("DU-%03d", count+1), nil
}

// --- Helpers ---

func (s *assetService) snapshot(a *model.Asset) depreciation.Snapshot {
	return depreciation.Compute(a.PurchaseDate, a.PurchaseValue, a.DepMethod, a.UsefulLifeMonths, s.clock.Now())
}

func (s *assetService) withSnapshots(assets []model.Asset) []AssetWithDepreciation {
	result := make([]AssetWithDepreciation, 0, len(assets))
	for i := range assets {
		result = append(result, AssetWithDepreciation{
			Asset:        assets[i],
			Depreciation: s.snapshot(&assets[i]),
		})
	}
	return result
}

// initialReceiptEntry is the open location interval created when an
// asset enters the register, anchored at its purchase date.
func initialReceiptEntry(asset *model.Asset, createdBy string) *model.LocationHistory {
	return &model.LocationHistory{
		AssetID:   asset.AssetID,
		DateFrom:  asset.PurchaseDate,
		Location:  asset.CurrentLocation,
		Purpose:   model.PurposeInitialReceipt,
		CreatedBy: createdBy,
	}
}
