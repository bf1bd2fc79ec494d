package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/shopspring/decimal"
)

func TestCreateAssetDirectWritesInitialLocation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asset := env.seedAsset(t, "DU-001")

	if asset.ApprovalStatus != model.ApprovalApproved {
		t.Fatalf("approval status = %s, want approved", asset.ApprovalStatus)
	}
	if asset.Status != model.AssetStatusActive {
		t.Fatalf("status = %s, want Active", asset.Status)
	}

	var entries []model.LocationHistory
	if err := env.db.Where("asset_id = ?", "DU-001").Find(&entries).Error; err != nil {
		t.Fatalf("load locations: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("location entries = %d, want 1", len(entries))
	}
	if entries[0].Purpose != model.PurposeInitialReceipt {
		t.Errorf("purpose = %q, want %q", entries[0].Purpose, model.PurposeInitialReceipt)
	}
	if entries[0].DateTo != "" {
		t.Errorf("initial entry should be open, got date_to=%q", entries[0].DateTo)
	}
	if entries[0].DateFrom != "2024-07-01" {
		t.Errorf("date_from = %q, want purchase date", entries[0].DateFrom)
	}

	if len(env.notifier.subjects) != 0 {
		t.Errorf("direct creation must not notify approvers, got %v", env.notifier.subjects)
	}

	detail, err := env.assets.GetAsset(ctx, "DU-001")
	if err != nil {
		t.Fatalf("GetAsset: %v", err)
	}
	snap := detail.Asset.Depreciation
	if !snap.Monthly.Equal(decimal.NewFromInt(100)) {
		t.Errorf("monthly = %s, want 100", snap.Monthly)
	}
	if !snap.BookValue.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("book value = %s, want 1200", snap.BookValue)
	}
	if snap.MonthsElapsed != 12 {
		t.Errorf("months elapsed = %d, want 12", snap.MonthsElapsed)
	}
}

func TestSubmitAndApproveAsset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	asset, err := env.assets.CreateAsset(ctx, env.staff.ID.String(), service.CreateAssetRequest{
		AssetID:         "DU-010",
		SerialNumber:    "SN-010",
		AssetName:       "Demo Unit 10",
		AssetType:       model.AssetTypeDemoUnit,
		PurchaseDate:    "2025-01-01",
		PurchaseValue:   decimal.NewFromInt(9000),
		CurrentLocation: "Warehouse NL",
		SendApproval:    true,
	})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}

	if asset.ApprovalStatus != model.ApprovalPending {
		t.Fatalf("approval status = %s, want pending", asset.ApprovalStatus)
	}
	if asset.Status != model.AssetStatusPendingApproval {
		t.Fatalf("status = %s, want Pending Approval", asset.Status)
	}
	if len(env.notifier.subjects) != 1 {
		t.Fatalf("notifications = %d, want 1", len(env.notifier.subjects))
	}

	// Pending assets never show on the register
	register, err := env.assets.ListAssets(ctx, repository.AssetFilter{})
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(register) != 0 {
		t.Fatalf("pending asset visible on register: %d entries", len(register))
	}

	// No location history before approval
	var count int64
	env.db.Model(&model.LocationHistory{}).Where("asset_id = ?", "DU-010").Count(&count)
	if count != 0 {
		t.Fatalf("pending asset has %d location entries, want 0", count)
	}

	approved, err := env.assets.ApproveAsset(ctx, env.admin.ID.String(), "DU-010")
	if err != nil {
		t.Fatalf("ApproveAsset: %v", err)
	}
	if approved.ApprovalStatus != model.ApprovalApproved || approved.Status != model.AssetStatusActive {
		t.Fatalf("after approval: %s/%s, want approved/Active", approved.ApprovalStatus, approved.Status)
	}

	env.db.Model(&model.LocationHistory{}).Where("asset_id = ?", "DU-010").Count(&count)
	if count != 1 {
		t.Fatalf("approved asset has %d location entries, want 1", count)
	}

	register, _ = env.assets.ListAssets(ctx, repository.AssetFilter{})
	if len(register) != 1 {
		t.Fatalf("approved asset missing from register")
	}

	// Approving twice is an error
	if _, err := env.assets.ApproveAsset(ctx, env.admin.ID.String(), "DU-010"); err == nil {
		t.Fatal("second approval should fail")
	}
}

func TestRejectAssetPrefixesNotes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.assets.CreateAsset(ctx, env.staff.ID.String(), service.CreateAssetRequest{
		AssetID:      "DU-020",
		SerialNumber: "SN-020",
		AssetName:    "Demo Unit 20",
		Notes:        "arrived scratched",
		SendApproval: true,
	}); err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}

	rejected, err := env.assets.RejectAsset(ctx, env.admin.ID.String(), "DU-020", "duplicate entry")
	if err != nil {
		t.Fatalf("RejectAsset: %v", err)
	}
	if rejected.ApprovalStatus != model.ApprovalRejected {
		t.Fatalf("approval status = %s, want rejected", rejected.ApprovalStatus)
	}
	if !strings.HasPrefix(rejected.Notes, "[REJECTED: duplicate entry] ") {
		t.Errorf("notes = %q, want rejection prefix", rejected.Notes)
	}
	if !strings.Contains(rejected.Notes, "arrived scratched") {
		t.Errorf("original notes lost: %q", rejected.Notes)
	}

	// Rejected assets never show on the register
	register, _ := env.assets.ListAssets(ctx, repository.AssetFilter{})
	if len(register) != 0 {
		t.Fatalf("rejected asset visible on register")
	}

	// Rejection is terminal
	if _, err := env.assets.ApproveAsset(ctx, env.admin.ID.String(), "DU-020"); err == nil {
		t.Fatal("approving a rejected asset should fail")
	}
}

func TestApproveAssetRequiresApprover(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.assets.CreateAsset(ctx, env.staff.ID.String(), service.CreateAssetRequest{
		AssetID:      "DU-030",
		SerialNumber: "SN-030",
		AssetName:    "Demo Unit 30",
		SendApproval: true,
	}); err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}

	_, err := env.assets.ApproveAsset(ctx, env.staff.ID.String(), "DU-030")
	if !errors.Is(err, service.ErrNotApprover) {
		t.Fatalf("err = %v, want ErrNotApprover", err)
	}

	// The failed decision must not mutate anything
	var asset model.Asset
	env.db.First(&asset, "asset_id = ?", "DU-030")
	if asset.ApprovalStatus != model.ApprovalPending {
		t.Fatalf("approval status = %s, want pending after failed approve", asset.ApprovalStatus)
	}
}

func TestUpdateAssetTerminalStatusGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAsset(t, "DU-040")

	_, err := env.assets.UpdateAsset(ctx, env.admin.ID.String(), "DU-040", service.UpdateAssetRequest{
		SerialNumber: "SN-DU-040",
		AssetName:    "Demo Wheelchair DU-040",
		Status:       model.AssetStatusSold,
	})
	if !errors.Is(err, service.ErrTerminalStatus) {
		t.Fatalf("err = %v, want ErrTerminalStatus", err)
	}

	// Ordinary status edits still pass
	updated, err := env.assets.UpdateAsset(ctx, env.admin.ID.String(), "DU-040", service.UpdateAssetRequest{
		SerialNumber:     "SN-DU-040",
		AssetName:        "Demo Wheelchair DU-040",
		AssetType:        model.AssetTypeDemoUnit,
		PurchaseDate:     "2024-07-01",
		PurchaseValue:    decimal.NewFromInt(2400),
		DepMethod:        model.DepMethodStraightLine,
		UsefulLifeMonths: 24,
		Status:           model.AssetStatusUnderRepair,
	})
	if err != nil {
		t.Fatalf("UpdateAsset: %v", err)
	}
	if updated.Status != model.AssetStatusUnderRepair {
		t.Fatalf("status = %s, want Under Repair", updated.Status)
	}
}

func TestUpdateUsefulLifeClampsToOne(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAsset(t, "DU-050")

	if err := env.assets.UpdateUsefulLife(ctx, env.admin.ID.String(), "DU-050", -5); err != nil {
		t.Fatalf("UpdateUsefulLife: %v", err)
	}

	var asset model.Asset
	env.db.First(&asset, "asset_id = ?", "DU-050")
	if asset.UsefulLifeMonths != 1 {
		t.Fatalf("useful life = %d, want clamp to 1", asset.UsefulLifeMonths)
	}
}

func TestNextAssetID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	next, err := env.assets.NextAssetID(ctx)
	if err != nil {
		t.Fatalf("NextAssetID: %v", err)
	}
	if next != "DU-001" {
		t.Fatalf("next id = %s, want DU-001", next)
	}

	env.seedAsset(t, "DU-001")
	next, _ = env.assets.NextAssetID(ctx)
	if next != "DU-002" {
		t.Fatalf("next id = %s, want DU-002", next)
	}
}

func TestListDepreciationTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAsset(t, "DU-060")
	env.seedAsset(t, "DU-061")

	register, err := env.assets.ListDepreciation(ctx, "")
	if err != nil {
		t.Fatalf("ListDepreciation: %v", err)
	}
	if len(register.Assets) != 2 {
		t.Fatalf("assets = %d, want 2", len(register.Assets))
	}
	if !register.TotalMonthly.Equal(decimal.NewFromInt(200)) {
		t.Errorf("total monthly = %s, want 200", register.TotalMonthly)
	}
	if !register.TotalBook.Equal(decimal.NewFromInt(2400)) {
		t.Errorf("total book = %s, want 2400", register.TotalBook)
	}
	if !register.TotalPurchase.Equal(decimal.NewFromInt(4800)) {
		t.Errorf("total purchase = %s, want 4800", register.TotalPurchase)
	}
}
