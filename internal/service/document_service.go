package service

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"
)

type AddDocumentRequest struct {
	DocType     string `json:"doc_type"`
	DocTitle    string `json:"doc_title" binding:"required"`
	DocDate     string `json:"doc_date"`
	StoragePath string `json:"storage_path" binding:"required"`
	Description string `json:"description"`
}

// DocumentService attaches file metadata to assets. Storage of the file
// bytes is the caller's concern; only the reference is recorded here.
type DocumentService interface {
	AddDocument(ctx context.Context, actorID string, assetID string, req AddDocumentRequest) (*model.Document, error)
	ListByAsset(ctx context.Context, assetID string) ([]model.Document, error)
}

type documentService struct {
	documents repository.DocumentRepository
	assets    repository.AssetRepository
	users     repository.UserRepository
	audits    repository.AuditRepository
	txManager repository.TransactionManager
}

func NewDocumentService(
	documents repository.DocumentRepository,
	assets repository.AssetRepository,
	users repository.UserRepository,
	audits repository.AuditRepository,
	txManager repository.TransactionManager,
) DocumentService {
	return &documentService{
		documents: documents,
		assets:    assets,
		users:     users,
		audits:    audits,
		txManager: txManager,
	}
}

func (s *documentService) AddDocument(ctx context.Context, actorID string, assetID string, req AddDocumentRequest) (*model.Document, error) {
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	asset, err := s.assets.GetByAssetID(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("asset not found: %w", err)
	}

	docType := req.DocType
	if docType == "" {
		docType = model.DocTypeOther
	}

	doc := &model.Document{
		AssetID:     asset.AssetID,
		DocType:     docType,
		DocTitle:    req.DocTitle,
		DocDate:     req.DocDate,
		StoragePath: req.StoragePath,
		Description: req.Description,
		UploadedBy:  actor.Username,
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.documents.Create(txCtx, doc); createErr != nil {
			return fmt.Errorf("failed to create document: %w", createErr)
		}
		return writeAudit(txCtx, s.audits, &actor.ID, model.ActionAddDocument, asset.AssetID, req.DocTitle, nil)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) ListByAsset(ctx context.Context, assetID string) ([]model.Document, error) {
	return s.documents.ListByAsset(ctx, assetID)
}
