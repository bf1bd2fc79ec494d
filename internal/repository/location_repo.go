package repository

import (
	"context"
	"strings"

	"backend/internal/model"

	"gorm.io/gorm"
)

type LocationRepository interface {
	Create(ctx context.Context, entry *model.LocationHistory) error
	// CloseOpen sets date_to on the asset's open interval, if any.
	// Returns the number of rows closed.
	CloseOpen(ctx context.Context, assetID, dateTo string) (int64, error)
	GetOpen(ctx context.Context, assetID string) (*model.LocationHistory, error)
	CountOpen(ctx context.Context, assetID string) (int64, error)
	ListByAsset(ctx context.Context, assetID string) ([]model.LocationHistory, error)
	Search(ctx context.Context, q string) ([]model.LocationHistory, error)
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(ctx context.Context, entry *model.LocationHistory) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *locationRepository) CloseOpen(ctx context.Context, assetID, dateTo string) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.LocationHistory{}).
		Where("asset_id = ? AND (date_to IS NULL OR date_to = '')", assetID).
		Update("date_to", dateTo)
	return res.RowsAffected, res.Error
}

func (r *locationRepository) GetOpen(ctx context.Context, assetID string) (*model.LocationHistory, error) {
	var entry model.LocationHistory
	if err := GetDB(ctx, r.db).
		First(&entry, "asset_id = ? AND (date_to IS NULL OR date_to = '')", assetID).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *locationRepository) CountOpen(ctx context.Context, assetID string) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.LocationHistory{}).
		Where("asset_id = ? AND (date_to IS NULL OR date_to = '')", assetID).
		Count(&total).Error
	return total, err
}

func (r *locationRepository) ListByAsset(ctx context.Context, assetID string) ([]model.LocationHistory, error) {
	var entries []model.LocationHistory
	if err := GetDB(ctx, r.db).
		Where("asset_id = ?", assetID).
		Order("date_from DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *locationRepository) Search(ctx context.Context, q string) ([]model.LocationHistory, error) {
	query := GetDB(ctx, r.db)
	if q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"lower(asset_id) LIKE ? OR lower(location) LIKE ? OR lower(customer) LIKE ?",
			pattern, pattern, pattern)
	}

	var entries []model.LocationHistory
	if err := query.Order("date_from DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
