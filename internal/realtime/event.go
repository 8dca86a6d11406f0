package realtime

import (
	"catalog-sync/internal/domain"
)

// Action identifies which mutation an event describes
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionPatched Action = "patched"
	ActionDeleted Action = "deleted"
)

// Event is a transient mutation notification on the products topic.
// Created, updated and patched events carry the persisted document;
// deleted events carry only the external id.
type Event struct {
	Action    Action          `json:"action"`
	Product   *domain.Product `json:"product,omitempty"`
	ProductID string          `json:"productId,omitempty"`
}
