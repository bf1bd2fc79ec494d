package service_test

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/service"

	"github.com/shopspring/decimal"
)

func TestDashboardSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedAsset(t, "DU-300")
	env.seedAsset(t, "DU-301")

	// One pending submission, invisible to the totals
	if _, err := env.assets.CreateAsset(ctx, env.staff.ID.String(), service.CreateAssetRequest{
		AssetID:       "DU-302",
		SerialNumber:  "SN-302",
		AssetName:     "Pending Unit",
		PurchaseValue: decimal.NewFromInt(50000),
		SendApproval:  true,
	}); err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}

	// One pending sale awaiting decision
	if _, err := env.transactions.CreateTransaction(ctx, env.staff.ID.String(), "DU-301", service.CreateTransactionRequest{
		TxType:       model.TxTypeSale,
		SalePrice:    decimal.NewFromInt(1500),
		SendApproval: true,
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	summary, err := env.dashboard.GetSummary(ctx)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	if summary.TotalAssets != 2 {
		t.Fatalf("total assets = %d, want 2 (pending excluded)", summary.TotalAssets)
	}
	if !summary.TotalPurchaseValue.Equal(decimal.NewFromInt(4800)) {
		t.Errorf("total purchase = %s, want 4800", summary.TotalPurchaseValue)
	}
	if !summary.TotalBookValue.Equal(decimal.NewFromInt(2400)) {
		t.Errorf("total book = %s, want 2400", summary.TotalBookValue)
	}
	if !summary.TotalMonthlyDep.Equal(decimal.NewFromInt(200)) {
		t.Errorf("total monthly = %s, want 200", summary.TotalMonthlyDep)
	}

	if summary.ByType[model.AssetTypeDemoUnit] != 2 {
		t.Errorf("by type = %v", summary.ByType)
	}
	if summary.ByLocation["Warehouse NL"] != 2 {
		t.Errorf("by location = %v", summary.ByLocation)
	}

	if len(summary.PendingAssets) != 1 || summary.PendingAssets[0].AssetID != "DU-302" {
		t.Fatalf("pending assets = %v", summary.PendingAssets)
	}
	if len(summary.PendingTransactions) != 1 {
		t.Fatalf("pending transactions = %d, want 1", len(summary.PendingTransactions))
	}
	ptx := summary.PendingTransactions[0]
	if ptx.AssetName != "Demo Wheelchair DU-301" {
		t.Errorf("pending tx asset name = %q", ptx.AssetName)
	}
	if !ptx.BookValueNow.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("book value now = %s, want 1200", ptx.BookValueNow)
	}
}

func TestDashboardExcludesSoldFromLiveTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAsset(t, "DU-310")
	env.seedAsset(t, "DU-311")

	tx, _ := env.transactions.CreateTransaction(ctx, env.staff.ID.String(), "DU-310", service.CreateTransactionRequest{
		TxType:       model.TxTypeSale,
		SalePrice:    decimal.NewFromInt(1000),
		SendApproval: true,
	})
	if _, err := env.transactions.ApproveTransaction(ctx, env.admin.ID.String(), tx.ID.String()); err != nil {
		t.Fatalf("ApproveTransaction: %v", err)
	}

	summary, err := env.dashboard.GetSummary(ctx)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	// Sold asset still counts historically but not in live figures
	if summary.TotalAssets != 2 {
		t.Fatalf("total assets = %d, want 2", summary.TotalAssets)
	}
	if !summary.TotalPurchaseValue.Equal(decimal.NewFromInt(4800)) {
		t.Errorf("total purchase = %s, want 4800", summary.TotalPurchaseValue)
	}
	if !summary.TotalBookValue.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("total book = %s, want 1200 (sold excluded)", summary.TotalBookValue)
	}
	if !summary.TotalMonthlyDep.Equal(decimal.NewFromInt(100)) {
		t.Errorf("total monthly = %s, want 100 (sold excluded)", summary.TotalMonthlyDep)
	}
	if summary.ByStatus[model.AssetStatusSold] != 1 {
		t.Errorf("by status = %v", summary.ByStatus)
	}
}
