package service

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"
)

type AddLocationRequest struct {
	DateFrom  string `json:"date_from" binding:"required"`
	Location  string `json:"location" binding:"required"`
	Country   string `json:"country"`
	Customer  string `json:"customer"`
	Purpose   string `json:"purpose"`
	ShippedBy string `json:"shipped_by"`
	Notes     string `json:"notes"`
	// Status the asset takes after the move, "With Customer" if empty.
	Status string `json:"status"`
}

type LocationService interface {
	// AddEntry relocates an asset: the current open interval is closed
	// at the new entry's start date, a new open interval is appended,
	// and the asset's current location and status are updated,
	// atomically. An asset has at most one open interval at any time.
	AddEntry(ctx context.Context, actorID string, assetID string, req AddLocationRequest) (*model.LocationHistory, error)
	ListByAsset(ctx context.Context, assetID string) ([]model.LocationHistory, error)
	Search(ctx context.Context, q string) ([]model.LocationHistory, error)
}

type locationService struct {
	locations repository.LocationRepository
	assets    repository.AssetRepository
	users     repository.UserRepository
	audits    repository.AuditRepository
	txManager repository.TransactionManager
	hub       *ws.Hub
}

func NewLocationService(
	locations repository.LocationRepository,
	assets repository.AssetRepository,
	users repository.UserRepository,
	audits repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) LocationService {
	return &locationService{
		locations: locations,
		assets:    assets,
		users:     users,
		audits:    audits,
		txManager: txManager,
		hub:       hub,
	}
}

func (s *locationService) AddEntry(ctx context.Context, actorID string, assetID string, req AddLocationRequest) (*model.LocationHistory, error) {
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}

	var entry *model.LocationHistory
	var asset *model.Asset
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		asset, findErr = s.assets.GetByAssetID(txCtx, assetID)
		if findErr != nil {
			return fmt.Errorf("asset not found: %w", findErr)
		}
		if model.IsTerminalStatus(asset.Status) {
			return fmt.Errorf("asset is already %s and can no longer move", asset.Status)
		}

		newStatus := req.Status
		if newStatus == "" {
			newStatus = model.AssetStatusWithCustomer
		}
		if model.IsTerminalStatus(newStatus) {
			return ErrTerminalStatus
		}

		if _, closeErr := s.locations.CloseOpen(txCtx, asset.AssetID, req.DateFrom); closeErr != nil {
			return fmt.Errorf("failed to close open location interval: %w", closeErr)
		}

		entry = &model.LocationHistory{
			AssetID:   asset.AssetID,
			DateFrom:  req.DateFrom,
			Location:  req.Location,
			Country:   req.Country,
			Customer:  req.Customer,
			Purpose:   req.Purpose,
			ShippedBy: req.ShippedBy,
			Notes:     req.Notes,
			CreatedBy: actor.Username,
		}
		if createErr := s.locations.Create(txCtx, entry); createErr != nil {
			return fmt.Errorf("failed to create location entry: %w", createErr)
		}

		if updErr := s.assets.UpdateFields(txCtx, asset.AssetID, map[string]interface{}{
			"current_location": req.Location,
			"status":           newStatus,
		}); updErr != nil {
			return fmt.Errorf("failed to update asset location: %w", updErr)
		}

		return writeAudit(txCtx, s.audits, &actor.ID, model.ActionAddLocation, asset.AssetID, asset.AssetName, map[string]interface{}{
			"location":  req.Location,
			"country":   req.Country,
			"date_from": req.DateFrom,
		})
	})
	if err != nil {
		return nil, err
	}

	broadcast(s.hub, EventAssetRelocated, map[string]interface{}{
		"asset_id": asset.AssetID,
		"location": req.Location,
		"moved_by": actor.Username,
	})
	return entry, nil
}

func (s *locationService) ListByAsset(ctx context.Context, assetID string) ([]model.LocationHistory, error) {
	return s.locations.ListByAsset(ctx, assetID)
}

func (s *locationService) Search(ctx context.Context, q string) ([]model.LocationHistory, error) {
	return s.locations.Search(ctx, q)
}
