package service

import (
	"context"
	"encoding/json"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// loadActor resolves the acting principal for a lifecycle operation.
// Every state-machine operation takes the actor explicitly instead of
// reading ambient session state.
func loadActor(ctx context.Context, users repository.UserRepository, actorID string) (*model.User, error) {
	if actorID == "" {
		return nil, fmt.Errorf("acting user is required")
	}
	actor, err := users.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("acting user not found: %w", err)
	}
	return actor, nil
}

// requireApprover resolves the actor and verifies membership in the
// approver set. A failed check mutates nothing.
func requireApprover(ctx context.Context, users repository.UserRepository, actorID string) (*model.User, error) {
	actor, err := loadActor(ctx, users, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanApprove() {
		return nil, ErrNotApprover
	}
	return actor, nil
}

// writeAudit records who did what inside the caller's transaction.
func writeAudit(ctx context.Context, audits repository.AuditRepository, userID *uuid.UUID, action, entityID, entityName string, details map[string]interface{}) error {
	var payload string
	if details != nil {
		raw, _ := json.Marshal(details)
		payload = string(raw)
	}
	entry := &model.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    payload,
	}
	if err := audits.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
