package repository

import (
	"context"
	"strings"

	"backend/internal/model"

	"gorm.io/gorm"
)

// AssetFilter narrows asset register queries. Q matches asset_id, serial
// number, name and model case-insensitively.
type AssetFilter struct {
	Q        string
	Type     string
	Status   string
	Location string
}

type AssetRepository interface {
	Create(ctx context.Context, asset *model.Asset) error
	GetByAssetID(ctx context.Context, assetID string) (*model.Asset, error)
	GetByID(ctx context.Context, id string) (*model.Asset, error)
	// ListRegister returns assets visible on the register: everything
	// except pending and rejected submissions.
	ListRegister(ctx context.Context, filter AssetFilter) ([]model.Asset, error)
	// ListApproved returns approved assets only — the population for
	// every financial aggregate and export.
	ListApproved(ctx context.Context) ([]model.Asset, error)
	// ListDepreciating returns approved assets that are not Sold or
	// Disposed, the population of the depreciation register.
	ListDepreciating(ctx context.Context, assetType string) ([]model.Asset, error)
	ListPending(ctx context.Context) ([]model.Asset, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, asset *model.Asset) error
	UpdateFields(ctx context.Context, assetID string, fields map[string]interface{}) error
}

type assetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, asset *model.Asset) error {
	return GetDB(ctx, r.db).Create(asset).Error
}

func (r *assetRepository) GetByAssetID(ctx context.Context, assetID string) (*model.Asset, error) {
	var asset model.Asset
	if err := GetDB(ctx, r.db).First(&asset, "asset_id = ?", assetID).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) GetByID(ctx context.Context, id string) (*model.Asset, error) {
	var asset model.Asset
	if err := GetDB(ctx, r.db).First(&asset, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) ListRegister(ctx context.Context, filter AssetFilter) ([]model.Asset, error) {
	query := GetDB(ctx, r.db).
		Where("approval_status NOT IN ?", []string{model.ApprovalPending, model.ApprovalRejected})

	if filter.Q != "" {
		pattern := "%" + strings.ToLower(filter.Q) + "%"
		query = query.Where(
			"lower(asset_id) LIKE ? OR lower(serial_number) LIKE ? OR lower(asset_name) LIKE ? OR lower(model) LIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if filter.Type != "" {
		query = query.Where("asset_type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Location != "" {
		query = query.Where("current_location = ?", filter.Location)
	}

	var assets []model.Asset
	if err := query.Order("asset_id").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *assetRepository) ListApproved(ctx context.Context) ([]model.Asset, error) {
	var assets []model.Asset
	if err := GetDB(ctx, r.db).
		Where("approval_status = ?", model.ApprovalApproved).
		Order("asset_id").
		Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *assetRepository) ListDepreciating(ctx context.Context, assetType string) ([]model.Asset, error) {
	query := GetDB(ctx, r.db).
		Where("approval_status = ?", model.ApprovalApproved).
		Where("status NOT IN ?", []string{model.AssetStatusSold, model.AssetStatusDisposed})
	if assetType != "" {
		query = query.Where("asset_type = ?", assetType)
	}

	var assets []model.Asset
	if err := query.Order("asset_type, asset_id").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *assetRepository) ListPending(ctx context.Context) ([]model.Asset, error) {
	var assets []model.Asset
	if err := GetDB(ctx, r.db).
		Where("approval_status = ?", model.ApprovalPending).
		Order("created_at DESC").
		Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *assetRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Asset{}).Count(&total).Error
	return total, err
}

func (r *assetRepository) Update(ctx context.Context, asset *model.Asset) error {
	return GetDB(ctx, r.db).Save(asset).Error
}

func (r *assetRepository) UpdateFields(ctx context.Context, assetID string, fields map[string]interface{}) error {
	return GetDB(ctx, r.db).Model(&model.Asset{}).Where("asset_id = ?", assetID).Updates(fields).Error
}
