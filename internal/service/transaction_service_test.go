package service_test

import (
	"context"
	"errors"
	"testing"

	"backend/internal/model"
	"backend/internal/service"

	"github.com/shopspring/decimal"
)

func TestCreateTransactionFreezesBookValue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAsset(t, "DU-100")

	tx, err := env.transactions.CreateTransaction(ctx, env.staff.ID.String(), "DU-100", service.CreateTransactionRequest{
		TxType:    model.TxTypeSale,
		TxDate:    "2025-07-15",
		SalePrice: decimal.NewFromInt(1500),
		Buyer:     "Rehab Clinic GmbH",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	// 12 of 24 months elapsed on 2400 straight-line: book value 1200
	if !tx.BookValueAtTx.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("frozen book value = %s, want 1200", tx.BookValueAtTx)
	}
	if tx.ApprovalStatus != model.ApprovalDraft {
		t.Fatalf("approval status = %s, want draft", tx.ApprovalStatus)
	}

	// Later parameter edits must not move the frozen figure
	if err := env.assets.UpdateUsefulLife(ctx, env.admin.ID.String(), "DU-100", 48); err != nil {
		t.Fatalf("UpdateUsefulLife: %v", err)
	}

	views, err := env.transactions.ListByAsset(ctx, "DU-100")
	if err != nil {
		t.Fatalf("ListByAsset: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("transactions = %d, want 1", len(views))
	}
	if !views[0].BookValueAtTx.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("book value moved after edit: %s", views[0].BookValueAtTx)
	}
	if views[0].GainLoss == nil || !views[0].GainLoss.Equal(decimal.NewFromInt(300)) {
		t.Errorf("gain/loss = %v, want 300", views[0].GainLoss)
	}
}

func TestGainLossOnlyForSales(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAsset(t, "DU-110")

	if _, err := env.transactions.CreateTransaction(ctx, env.staff.ID.String(), "DU-110", service.CreateTransactionRequest{
		TxType: model.TxTypeDisposal,
		TxDate: "2025-07-15",
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	views, _ := env.transactions.ListByAsset(ctx, "DU-110")
	if views[0].GainLoss != nil {
		t.Fatalf("disposal has gain/loss %s, want none", views[0].GainLoss)
	}
}

func TestSubmitTransactionOnlyDrafts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAsset(t, "DU-120")

	tx, err := env.transactions.CreateTransaction(ctx, env.staff.ID.String(), "DU-120", service.CreateTransactionRequest{
		TxType:    model.TxTypeSale,
		SalePrice: decimal.NewFromInt(900),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if len(env.notifier.subjects) != 0 {
		t.Fatalf("draft creation must not notify, got %v", env.notifier.subjects)
	}

	submitted, err := env.transactions.SubmitTransaction(ctx, env.staff.ID.String(), tx.ID.String())
	if err != nil {
		t.Fatalf("SubmitTransaction: %v", err)
	}
	if submitted.ApprovalStatus != model.ApprovalPending {
		t.Fatalf("approval status = %s, want pending", submitted.ApprovalStatus)
	}
	if len(env.notifier.subjects) != 1 {
		t.Fatalf("notifications = %d, want 1", len(env.notifier.subjects))
	}

	// A pending transaction cannot be re-submitted, so it cannot
	// double-notify either
	if _, err := env.transactions.SubmitTransaction(ctx, env.staff.ID.String(), tx.ID.String()); err == nil {
		t.Fatal("second submit should fail")
	}
	if len(env.notifier.subjects) != 1 {
		t.Fatalf("notifications = %d after failed resubmit, want 1", len(env.notifier.subjects))
	}
}

func TestCreateTransactionWithSendApproval(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAsset(t, "DU-130")

	tx, err := env.transactions.CreateTransaction(ctx, env.staff.ID.String(), "DU-130", service.CreateTransactionRequest{
		TxType:       model.TxTypeSale,
		SalePrice:    decimal.NewFromInt(800),
		SendApproval: true,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if tx.ApprovalStatus != model.ApprovalPending {
		t.Fatalf("approval status = %s, want pending", tx.ApprovalStatus)
	}
	if len(env.notifier.subjects) != 1 {
		t.Fatalf("notifications = %d, want 1", len(env.notifier.subjects))
	}
}

func TestApproveSaleCascadesSold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAsset(t, "DU-140")

	tx, _ := env.transactions.CreateTransaction(ctx, env.staff.ID.String(), "DU-140", service.CreateTransactionRequest{
		TxType:       model.TxTypeSale,
		SalePrice:    decimal.NewFromInt(1500),
		SendApproval: true,
	})

	approved, err := env.transactions.ApproveTransaction(ctx, env.admin.ID.String(), tx.ID.String())
	if err != nil {
		t.Fatalf("ApproveTransaction: %v", err)
	}
	if approved.ApprovalStatus != model.ApprovalApproved {
		t.Fatalf("approval status = %s, want approved", approved.ApprovalStatus)
	}
	if approved.ApprovedBy == nil || *approved.ApprovedBy != env.admin.ID {
		t.Fatalf("approved_by = %v, want admin", approved.ApprovedBy)
	}
	if approved.ApprovedAt == nil {
		t.Fatal("approved_at not set")
	}

	var asset model.Asset
	env.db.First(&asset, "asset_id = ?", "DU-140")
	if asset.Status != model.AssetStatusSold {
		t.Fatalf("asset status = %s, want Sold", asset.Status)
	}

	// Sold assets drop out of the depreciation register
	register, _ := env.assets.ListDepreciation(ctx, "")
	if len(register.Assets) != 0 {
		t.Fatalf("sold asset still in depreciation register")
	}

	// Approval is terminal
	if _, err := env.transactions.ApproveTransaction(ctx, env.admin.ID.String(), tx.ID.String()); err == nil {
		t.Fatal("second approval should fail")
	}
}

func TestApproveDisposalCascadesDisposed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAsset(t, "DU-150")

	tx, _ := env.transactions.CreateTransaction(ctx, env.staff.ID.String(), "DU-150", service.CreateTransactionRequest{
		TxType:       model.TxTypeDisposal,
		SendApproval: true,
	})
	if _, err := env.transactions.ApproveTransaction(ctx, env.admin.ID.String(), tx.ID.String()); err != nil {
		t.Fatalf("ApproveTransaction: %v", err)
	}

	var asset model.Asset
	env.db.First(&asset, "asset_id = ?", "DU-150")
	if asset.Status != model.AssetStatusDisposed {
		t.Fatalf("asset status = %s, want Disposed", asset.Status)
	}
}

func TestRejectTransactionLeavesAssetUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAsset(t, "DU-160")

	tx, _ := env.transactions.CreateTransaction(ctx, env.staff.ID.String(), "DU-160", service.CreateTransactionRequest{
		TxType:       model.TxTypeSale,
		SalePrice:    decimal.NewFromInt(500),
		SendApproval: true,
	})

	rejected, err := env.transactions.RejectTransaction(ctx, env.admin.ID.String(), tx.ID.String(), "price too low")
	if err != nil {
		t.Fatalf("RejectTransaction: %v", err)
	}
	if rejected.ApprovalStatus != model.ApprovalRejected {
		t.Fatalf("approval status = %s, want rejected", rejected.ApprovalStatus)
	}
	if rejected.RejectReason != "price too low" {
		t.Fatalf("reject reason = %q", rejected.RejectReason)
	}

	var asset model.Asset
	env.db.First(&asset, "asset_id = ?", "DU-160")
	if asset.Status != model.AssetStatusActive {
		t.Fatalf("asset status = %s, want Active after rejection", asset.Status)
	}
}

func TestCreateTransactionOnTerminalAssetFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAsset(t, "DU-165")

	tx, _ := env.transactions.CreateTransaction(ctx, env.staff.ID.String(), "DU-165", service.CreateTransactionRequest{
		TxType:       model.TxTypeSale,
		SalePrice:    decimal.NewFromInt(1000),
		SendApproval: true,
	})
	if _, err := env.transactions.ApproveTransaction(ctx, env.admin.ID.String(), tx.ID.String()); err != nil {
		t.Fatalf("ApproveTransaction: %v", err)
	}

	if _, err := env.transactions.CreateTransaction(ctx, env.staff.ID.String(), "DU-165", service.CreateTransactionRequest{
		TxType: model.TxTypeDisposal,
	}); err == nil {
		t.Fatal("creating a transaction for a sold asset should fail")
	}
}

func TestApproveTransactionRequiresApprover(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAsset(t, "DU-170")

	tx, _ := env.transactions.CreateTransaction(ctx, env.staff.ID.String(), "DU-170", service.CreateTransactionRequest{
		TxType:       model.TxTypeSale,
		SalePrice:    decimal.NewFromInt(100),
		SendApproval: true,
	})

	_, err := env.transactions.ApproveTransaction(ctx, env.staff.ID.String(), tx.ID.String())
	if !errors.Is(err, service.ErrNotApprover) {
		t.Fatalf("err = %v, want ErrNotApprover", err)
	}

	var stored model.SalesTransaction
	env.db.First(&stored, "id = ?", tx.ID)
	if stored.ApprovalStatus != model.ApprovalPending {
		t.Fatalf("approval status = %s, want pending after failed approve", stored.ApprovalStatus)
	}
}
