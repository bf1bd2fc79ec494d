package service_test

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/service"

	"github.com/shopspring/decimal"
)

func TestRelocateClosesOpenInterval(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAsset(t, "DU-200")

	entry, err := env.locations.AddEntry(ctx, env.staff.ID.String(), "DU-200", service.AddLocationRequest{
		DateFrom: "2025-03-10",
		Location: "Customer Site Berlin",
		Country:  "Germany",
		Customer: "Charité",
		Purpose:  "Demo loan",
	})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if entry.DateTo != "" {
		t.Fatalf("new entry should be open, got date_to=%q", entry.DateTo)
	}

	// Exactly one open interval after the move
	var open []model.LocationHistory
	env.db.Where("asset_id = ? AND (date_to IS NULL OR date_to = '')", "DU-200").Find(&open)
	if len(open) != 1 {
		t.Fatalf("open intervals = %d, want 1", len(open))
	}
	if open[0].Location != "Customer Site Berlin" {
		t.Fatalf("open location = %q", open[0].Location)
	}

	// The initial receipt entry was closed at the new start date
	var closed model.LocationHistory
	env.db.First(&closed, "asset_id = ? AND purpose = ?", "DU-200", model.PurposeInitialReceipt)
	if closed.DateTo != "2025-03-10" {
		t.Fatalf("previous entry date_to = %q, want 2025-03-10", closed.DateTo)
	}

	// Asset's denormalized location follows the move
	var asset model.Asset
	env.db.First(&asset, "asset_id = ?", "DU-200")
	if asset.CurrentLocation != "Customer Site Berlin" {
		t.Fatalf("current location = %q", asset.CurrentLocation)
	}
	if asset.Status != model.AssetStatusWithCustomer {
		t.Fatalf("status = %q, want %q", asset.Status, model.AssetStatusWithCustomer)
	}
}

func TestRelocateRepeatedlyKeepsSingleOpenInterval(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAsset(t, "DU-210")

	stops := []string{"Customer A", "Warehouse NL", "Customer B"}
	dates := []string{"2025-02-01", "2025-04-01", "2025-06-01"}
	for i := range stops {
		if _, err := env.locations.AddEntry(ctx, env.staff.ID.String(), "DU-210", service.AddLocationRequest{
			DateFrom: dates[i],
			Location: stops[i],
		}); err != nil {
			t.Fatalf("AddEntry %s: %v", stops[i], err)
		}
	}

	var total, open int64
	env.db.Model(&model.LocationHistory{}).Where("asset_id = ?", "DU-210").Count(&total)
	env.db.Model(&model.LocationHistory{}).
		Where("asset_id = ? AND (date_to IS NULL OR date_to = '')", "DU-210").Count(&open)
	if total != 4 {
		t.Fatalf("entries = %d, want 4 (initial + 3 moves)", total)
	}
	if open != 1 {
		t.Fatalf("open intervals = %d, want exactly 1", open)
	}
}

func TestRelocateTerminalAssetFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAsset(t, "DU-220")

	tx, _ := env.transactions.CreateTransaction(ctx, env.staff.ID.String(), "DU-220", service.CreateTransactionRequest{
		TxType:       model.TxTypeSale,
		SalePrice:    decimal.NewFromInt(700),
		SendApproval: true,
	})
	if _, err := env.transactions.ApproveTransaction(ctx, env.admin.ID.String(), tx.ID.String()); err != nil {
		t.Fatalf("ApproveTransaction: %v", err)
	}

	_, err := env.locations.AddEntry(ctx, env.staff.ID.String(), "DU-220", service.AddLocationRequest{
		DateFrom: "2025-08-01",
		Location: "Anywhere",
	})
	if err == nil {
		t.Fatal("relocating a sold asset should fail")
	}

	// Failed move leaves history untouched
	var count int64
	env.db.Model(&model.LocationHistory{}).Where("asset_id = ?", "DU-220").Count(&count)
	if count != 1 {
		t.Fatalf("entries = %d, want 1", count)
	}
}

func TestLocationSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedAsset(t, "DU-230")

	if _, err := env.locations.AddEntry(ctx, env.staff.ID.String(), "DU-230", service.AddLocationRequest{
		DateFrom: "2025-05-01",
		Location: "Customer Site Oslo",
		Customer: "Sunnaas Hospital",
	}); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	hits, err := env.locations.Search(ctx, "sunnaas")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}

	hits, _ = env.locations.Search(ctx, "du-230")
	if len(hits) != 2 {
		t.Fatalf("hits by asset id = %d, want 2", len(hits))
	}
}
