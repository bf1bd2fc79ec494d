package service

import (
	"context"
	"fmt"

	"backend/internal/depreciation"
	"backend/internal/model"
	"backend/internal/notify"
	"backend/internal/repository"
	ws "backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateTransactionRequest struct {
	TxType       string          `json:"tx_type" binding:"required,oneof=Sale Disposal Write-Off"`
	TxDate       string          `json:"tx_date"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	Buyer        string          `json:"buyer"`
	BuyerContact string          `json:"buyer_contact"`
	InvoiceRef   string          `json:"invoice_ref"`
	Notes        string          `json:"notes"`
	SendApproval bool            `json:"send_approval"`
}

// TransactionView decorates a transaction with its derived gain/loss:
// sale price minus the frozen book value for Sales, nil otherwise.
// Derived on read, never stored.
type TransactionView struct {
	model.SalesTransaction
	GainLoss *decimal.Decimal `json:"gain_loss"`
}

// --- Interface ---

type TransactionService interface {
	// CreateTransaction freezes the asset's current book value into the
	// record. With SendApproval it enters the approval queue directly
	// (pending, approvers notified), otherwise it is saved as a draft.
	CreateTransaction(ctx context.Context, actorID string, assetID string, req CreateTransactionRequest) (*model.SalesTransaction, error)
	// SubmitTransaction moves a draft to pending and notifies approvers.
	// Submitting anything but a draft is an error, so a transaction can
	// never double-notify. The frozen book value is not recomputed.
	SubmitTransaction(ctx context.Context, actorID string, txID string) (*model.SalesTransaction, error)
	// ApproveTransaction finalizes a pending transaction and cascades
	// the owning asset's status to Sold (Sale) or Disposed (otherwise),
	// in the same database transaction. Approver-only.
	ApproveTransaction(ctx context.Context, actorID string, txID string) (*model.SalesTransaction, error)
	// RejectTransaction records the reason and decision; the owning
	// asset is left untouched. Approver-only.
	RejectTransaction(ctx context.Context, actorID string, txID string, reason string) (*model.SalesTransaction, error)
	ListTransactions(ctx context.Context) ([]TransactionView, error)
	ListByAsset(ctx context.Context, assetID string) ([]TransactionView, error)
}

type transactionService struct {
	transactions repository.TransactionRepository
	assets       repository.AssetRepository
	users        repository.UserRepository
	audits       repository.AuditRepository
	txManager    repository.TransactionManager
	notifier     notify.Notifier
	hub          *ws.Hub
	clock        Clock
	appURL       string
}

func NewTransactionService(
	transactions repository.TransactionRepository,
	assets repository.AssetRepository,
	users repository.UserRepository,
	audits repository.AuditRepository,
	txManager repository.TransactionManager,
	notifier notify.Notifier,
	hub *ws.Hub,
	clock Clock,
	appURL string,
) TransactionService {
	return &transactionService{
		transactions: transactions,
		assets:       assets,
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

func (s *transactionService) CreateTransaction(ctx context.Context, actorID string, assetID string, req CreateTransactionRequest) (*model.SalesTransaction, error) {
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}

	asset, err := s.assets.GetByAssetID(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("asset not found: %w", err)
	}
	if model.IsTerminalStatus(asset.Status) {
		return nil, fmt.Errorf("asset is already %s", asset.Status)
	}

	// The book value is frozen here, from the asset's facts as they
	// stand right now. Later edits to the asset's depreciation
	// parameters must not move it.
	snap := depreciation.Compute(asset.PurchaseDate, asset.PurchaseValue, asset.DepMethod, asset.UsefulLifeMonths, s.clock.Now())

	tx := &model.SalesTransaction{
		AssetID:        asset.AssetID,
		TxType:         req.TxType,
		TxDate:         req.TxDate,
		BookValueAtTx:  snap.BookValue,
		SalePrice:      req.SalePrice,
		Buyer:          req.Buyer,
		BuyerContact:   req.BuyerContact,
		InvoiceRef:     req.InvoiceRef,
		Notes:          req.Notes,
		ApprovalStatus: model.ApprovalDraft,
		CreatedBy:      actor.Username,
	}
	if req.SendApproval {
		tx.ApprovalStatus = model.ApprovalPending
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.transactions.Create(txCtx, tx); createErr != nil {
			return fmt.Errorf("failed to create transaction: %w", createErr)
		}
		return writeAudit(txCtx, s.audits, &actor.ID, model.ActionCreateTransaction, tx.ID.String(), tx.TxType+" "+asset.AssetID, map[string]interface{}{
			"asset_id":         asset.AssetID,
			"tx_type":          tx.TxType,
			"book_value_at_tx": tx.BookValueAtTx.StringFixed(2),
			"approval_status":  tx.ApprovalStatus,
		})
	})
	if err != nil {
		return nil, err
	}

	if tx.ApprovalStatus == model.ApprovalPending {
		s.notifyApprovers(actor.Username, asset, tx)
	}
	return tx, nil
}

func (s *transactionService) SubmitTransaction(ctx context.Context, actorID string, txID string) (*model.SalesTransaction, error) {
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(txID)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction id: %w", err)
	}

	var tx *model.SalesTransaction
	var asset *model.Asset
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		tx, findErr = s.transactions.GetByID(txCtx, id)
		if findErr != nil {
			return fmt.Errorf("transaction not found: %w", findErr)
		}
		if tx.ApprovalStatus != model.ApprovalDraft {
			return fmt.Errorf("transaction is already %s, only drafts can be submitted", tx.ApprovalStatus)
		}

		asset, findErr = s.assets.GetByAssetID(txCtx, tx.AssetID)
		if findErr != nil {
			return fmt.Errorf("asset not found: %w", findErr)
		}

		tx.ApprovalStatus = model.ApprovalPending
		if saveErr := s.transactions.Update(txCtx, tx); saveErr != nil {
			return fmt.Errorf("failed to update transaction: %w", saveErr)
		}
		return writeAudit(txCtx, s.audits, &actor.ID, model.ActionSubmitTransaction, tx.ID.String(), tx.TxType+" "+tx.AssetID, nil)
	})
	if err != nil {
		return nil, err
	}

	s.notifyApprovers(actor.Username, asset, tx)
	return tx, nil
}

func (s *transactionService) ApproveTransaction(ctx context.Context, actorID string, txID string) (*model.SalesTransaction, error) {
	actor, err := requireApprover(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(txID)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction id: %w", err)
	}

	var tx *model.SalesTransaction
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		tx, findErr = s.transactions.GetByID(txCtx, id)
		if findErr != nil {
			return fmt.Errorf("transaction not found: %w", findErr)
		}
		if tx.ApprovalStatus != model.ApprovalPending {
			return fmt.Errorf("transaction is already %s", tx.ApprovalStatus)
		}

		now := s.clock.Now()
		tx.ApprovalStatus = model.ApprovalApproved
		tx.ApprovedBy = &actor.ID
		tx.ApprovedAt = &now
		if saveErr := s.transactions.Update(txCtx, tx); saveErr != nil {
			return fmt.Errorf("failed to update transaction: %w", saveErr)
		}

		// Cascade to the owning asset. This is the only path by which
		// an asset becomes Sold or Disposed.
		newStatus := model.AssetStatusDisposed
		if tx.TxType == model.TxTypeSale {
			newStatus = model.AssetStatusSold
		}
		if updErr := s.assets.UpdateFields(txCtx, tx.AssetID, map[string]interface{}{"status": newStatus}); updErr != nil {
			return fmt.Errorf("failed to cascade asset status: %w", updErr)
		}

		return writeAudit(txCtx, s.audits, &actor.ID, model.ActionApproveTransaction, tx.ID.String(), tx.TxType+" "+tx.AssetID, map[string]interface{}{
			"asset_status": newStatus,
		})
	})
	if err != nil {
		return nil, err
	}

	broadcast(s.hub, EventTransactionApproved, map[string]interface{}{
		"asset_id":    tx.AssetID,
		"tx_type":     tx.TxType,
		"approved_by": actor.Username,
	})
	return tx, nil
}

func (s *transactionService) RejectTransaction(ctx context.Context, actorID string, txID string, reason string) (*model.SalesTransaction, error) {
	actor, err := requireApprover(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(txID)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction id: %w", err)
	}

	var tx *model.SalesTransaction
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		tx, findErr = s.transactions.GetByID(txCtx, id)
		if findErr != nil {
			return fmt.Errorf("transaction not found: %w", findErr)
		}
		if tx.ApprovalStatus != model.ApprovalPending {
			return fmt.Errorf("transaction is already %s", tx.ApprovalStatus)
		}

		now := s.clock.Now()
		tx.ApprovalStatus = model.ApprovalRejected
		tx.RejectReason = reason
		tx.ApprovedBy = &actor.ID
		tx.ApprovedAt = &now
		if saveErr := s.transactions.Update(txCtx, tx); saveErr != nil {
			return fmt.Errorf("failed to update transaction: %w", saveErr)
		}
		return writeAudit(txCtx, s.audits, &actor.ID, model.ActionRejectTransaction, tx.ID.String(), tx.TxType+" "+tx.AssetID, map[string]interface{}{
			"reason": reason,
		})
	})
	if err != nil {
		return nil, err
	}

	broadcast(s.hub, EventTransactionRejected, map[string]interface{}{
		"asset_id":    tx.AssetID,
		"tx_type":     tx.TxType,
		"rejected_by": actor.Username,
		"reason":      reason,
	})
	return tx, nil
}

func (s *transactionService) ListTransactions(ctx context.Context) ([]TransactionView, error) {
	txs, err := s.transactions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]TransactionView, 0, len(txs))
	for _, tx := range txs {
		views = append(views, toTransactionView(tx))
	}
	return views, nil
}

func (s *transactionService) ListByAsset(ctx context.Context, assetID string) ([]TransactionView, error) {
	txs, err := s.transactions.ListByAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	views := make([]TransactionView, 0, len(txs))
	for _, tx := range txs {
		views = append(views, toTransactionView(tx))
	}
	return views, nil
}

// --- Helpers ---

func (s *transactionService) notifyApprovers(submittedBy string, asset *model.Asset, tx *model.SalesTransaction) {
	sendNotification(s.notifier,
		fmt.Sprintf("[Asset Management] Approval Request - %s for %s", tx.TxType, tx.AssetID),
		fmt.Sprintf(`<h3>%s Approval Request</h3>
<p><b>Submitted by:</b> %s</p>
<p><b>Asset:</b> %s - %s</p>
<p><b>Book Value:</b> %s %s | <b>Sale Price:</b> %s %s</p>
<p><a href="%s/dashboard">Review on Dashboard</a></p>`,
			tx.TxType, submittedBy,
			tx.AssetID, asset.AssetName,
			asset.Currency, tx.BookValueAtTx.StringFixed(2),
			asset.Currency, tx.SalePrice.StringFixed(2),
			s.appURL))
	broadcast(s.hub, EventTransactionSubmitted, map[string]interface{}{
		"asset_id":     tx.AssetID,
		"tx_type":      tx.TxType,
		"submitted_by": submittedBy,
	})
}

func toTransactionView(tx model.SalesTransaction) TransactionView {
	view := TransactionView{SalesTransaction: tx}
	if tx.TxType == model.TxTypeSale {
		gain := tx.SalePrice.Sub(tx.BookValueAtTx).Round(2)
		view.GainLoss = &gain
	}
	return view
}
