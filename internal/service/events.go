package service

import (
	"encoding/json"
	"log"

	"backend/internal/notify"
	ws "backend/internal/websocket"
)

// WorkflowEvent is the payload pushed to connected dashboards when the
// lifecycle state machine transitions.
type WorkflowEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

const (
	EventAssetSubmitted       = "asset_submitted"
	EventAssetApproved        = "asset_approved"
	EventAssetRejected        = "asset_rejected"
	EventAssetRelocated       = "asset_relocated"
	EventTransactionSubmitted = "transaction_submitted"
	EventTransactionApproved  = "transaction_approved"
	EventTransactionRejected  = "transaction_rejected"
)

// broadcast pushes an event to the hub. Safe with a nil hub (tests).
func broadcast(hub *ws.Hub, event string, data map[string]interface{}) {
	if hub == nil {
		return
	}
	payload, err := json.Marshal(WorkflowEvent{Event: event, Data: data})
	if err != nil {
		return
	}
	hub.Broadcast <- payload
}

// sendNotification delivers an approval notification outside any DB
// transaction. Failures are logged and swallowed: the state transition
// is the durable fact, notification is best-effort.
func sendNotification(n notify.Notifier, subject, body string) {
	if n == nil {
		return
	}
	if err := n.Notify(subject, body); err != nil {
		log.Printf("notification failed (%s): %v", subject, err)
	}
}
