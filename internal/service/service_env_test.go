package service_test

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type recordingNotifier struct{ subjects []string }

func (n *recordingNotifier) Notify(subject, body string) error {
	n.subjects = append(n.subjects, subject)
	return nil
}

type testEnv struct {
	db           *gorm.DB
	assets       service.AssetService
	transactions service.TransactionService
	locations    service.LocationService
	dashboard    service.DashboardService
	exports      service.ExportService
	notifier     *recordingNotifier
	admin        *model.User
	staff        *model.User
	now          time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Asset{},
		&model.LocationHistory{},
		&model.SalesTransaction{},
		&model.Document{},
		&model.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	clock := fixedClock{now: time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)}
	notifier := &recordingNotifier{}

	env := &testEnv{
		db:           db,
		notifier:     notifier,
		now:          clock.now,
		assets:       service.NewAssetService(assetRepo, locationRepo, transactionRepo, documentRepo, userRepo, auditRepo, txManager, notifier, nil, clock, "http://app.test"),
		transactions: service.NewTransactionService(transactionRepo, assetRepo, userRepo, auditRepo, txManager, notifier, nil, clock, "http://app.test"),
		locations:    service.NewLocationService(locationRepo, assetRepo, userRepo, auditRepo, txManager, nil),
		dashboard:    service.NewDashboardService(assetRepo, transactionRepo, clock),
		exports:      service.NewExportService(assetRepo, clock),
	}

	env.admin = env.seedUser(t, "alice", "alice@example.com", model.RoleAdmin)
	env.staff = env.seedUser(t, "bob", "bob@example.com", model.RoleStaff)
	return env
}

func (e *testEnv) seedUser(t *testing.T, username, email, role string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: email, Password: "x", Role: role}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

// seedAsset creates a directly-approved asset with straight-line
// depreciation: 2400 over 24 months from 2024-07-01, so 12 months have
// elapsed at the fixture clock and the book value is 1200.
func (e *testEnv) seedAsset(t *testing.T, assetID string) *model.Asset {
	t.Helper()
	asset, err := e.assets.CreateAsset(context.Background(), e.admin.ID.String(), service.CreateAssetRequest{
		AssetID:          assetID,
		SerialNumber:     "SN-" + assetID,
		AssetName:        "Demo Wheelchair " + assetID,
		AssetType:        model.AssetTypeDemoUnit,
		PurchaseDate:     "2024-07-01",
		PurchaseValue:    decimal.NewFromInt(2400),
		DepMethod:        model.DepMethodStraightLine,
		UsefulLifeMonths: 24,
		CurrentLocation:  "Warehouse NL",
	})
	if err != nil {
		t.Fatalf("seed asset %s: %v", assetID, err)
	}
	return asset
}
