package service

import (
	"context"

	"backend/internal/depreciation"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardSummary aggregates the approved asset population. Sold and
// Disposed assets keep their purchase value in the historical counts but
// contribute nothing to the live book and monthly totals.
type DashboardSummary struct {
	TotalAssets          int64                      `json:"total_assets"`
	TotalPurchaseValue   decimal.Decimal            `json:"total_purchase_value"`
	TotalBookValue       decimal.Decimal            `json:"total_book_value"`
	TotalMonthlyDep      decimal.Decimal            `json:"total_monthly_dep"`
	ByType               map[string]int             `json:"by_type"`
	ByStatus             map[string]int             `json:"by_status"`
	ByLocation           map[string]int             `json:"by_location"`
	PendingAssets        []model.Asset              `json:"pending_assets"`
	PendingTransactions  []PendingTransactionView   `json:"pending_transactions"`
}

// PendingTransactionView pairs a queued transaction with the asset's book
// value as of now, so an approver sees both the frozen figure and the
// current one.
type PendingTransactionView struct {
	model.SalesTransaction
	AssetName    string          `json:"asset_name"`
	BookValueNow decimal.Decimal `json:"book_value_now"`
}

type DashboardService interface {
	GetSummary(ctx context.Context) (*DashboardSummary, error)
}

type dashboardService struct {
	assets       repository.AssetRepository
	transactions repository.TransactionRepository
	clock        Clock
}

func NewDashboardService(assets repository.AssetRepository, transactions repository.TransactionRepository, clock Clock) DashboardService {
	return &dashboardService{assets: assets, transactions: transactions, clock: clock}
}

func (s *dashboardService) GetSummary(ctx context.Context) (*DashboardSummary, error) {
	approved, err := s.assets.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	summary := &DashboardSummary{
		TotalAssets: int64(len(approved)),
		ByType:      make(map[string]int),
		ByStatus:    make(map[string]int),
		ByLocation:  make(map[string]int),
	}

	for _, asset := range approved {
		summary.ByType[asset.AssetType]++
		summary.ByStatus[asset.Status]++
		summary.ByLocation[asset.CurrentLocation]++
		summary.TotalPurchaseValue = summary.TotalPurchaseValue.Add(asset.PurchaseValue)

		if model.IsTerminalStatus(asset.Status) {
			continue
		}
		snap := depreciation.Compute(asset.PurchaseDate, asset.PurchaseValue, asset.DepMethod, asset.UsefulLifeMonths, now)
		summary.TotalBookValue = summary.TotalBookValue.Add(snap.BookValue)
		summary.TotalMonthlyDep = summary.TotalMonthlyDep.Add(snap.Monthly)
	}
	summary.TotalPurchaseValue = summary.TotalPurchaseValue.Round(2)
	summary.TotalBookValue = summary.TotalBookValue.Round(2)
	summary.TotalMonthlyDep = summary.TotalMonthlyDep.Round(2)

	pendingAssets, err := s.assets.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	summary.PendingAssets = pendingAssets

	pendingTxs, err := s.transactions.ListByStatus(ctx, model.ApprovalPending)
	if err != nil {
		return nil, err
	}
	summary.PendingTransactions = make([]PendingTransactionView, 0, len(pendingTxs))
	for _, tx := range pendingTxs {
		view := PendingTransactionView{SalesTransaction: tx}
		if asset, findErr := s.assets.GetByAssetID(ctx, tx.AssetID); findErr == nil {
			view.AssetName = asset.AssetName
			snap := depreciation.Compute(asset.PurchaseDate, asset.PurchaseValue, asset.DepMethod, asset.UsefulLifeMonths, now)
			view.BookValueNow = snap.BookValue
		}
		summary.PendingTransactions = append(summary.PendingTransactions, view)
	}

	return summary, nil
}
