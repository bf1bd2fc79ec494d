package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *model.SalesTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.SalesTransaction, error)
	Update(ctx context.Context, tx *model.SalesTransaction) error
	ListByAsset(ctx context.Context, assetID string) ([]model.SalesTransaction, error)
	ListAll(ctx context.Context) ([]model.SalesTransaction, error)
	ListByStatus(ctx context.Context, status string) ([]model.SalesTransaction, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *model.SalesTransaction) error {
	return GetDB(ctx, r.db).Create(tx).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SalesTransaction, error) {
	var tx model.SalesTransaction
	if err := GetDB(ctx, r.db).Preload("Approver").First(&tx, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) Update(ctx context.Context, tx *model.SalesTransaction) error {
	return GetDB(ctx, r.db).Save(tx).Error
}

func (r *transactionRepository) ListByAsset(ctx context.Context, assetID string) ([]model.SalesTransaction, error) {
	var txs []model.SalesTransaction
	if err := GetDB(ctx, r.db).
		Where("asset_id = ?", assetID).
		Order("tx_date DESC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *transactionRepository) ListAll(ctx context.Context) ([]model.SalesTransaction, error) {
	var txs []model.SalesTransaction
	if err := GetDB(ctx, r.db).
		Preload("Approver").
		Order("tx_date DESC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *transactionRepository) ListByStatus(ctx context.Context, status string) ([]model.SalesTransaction, error) {
	var txs []model.SalesTransaction
	if err := GetDB(ctx, r.db).
		Where("approval_status = ?", status).
		Order("created_at DESC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}
