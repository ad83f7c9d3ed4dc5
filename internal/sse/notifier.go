package sse

import (
	"time"

	"github.com/yashvavaliya/DBC-new-section/internal/models"
)

// HubNotifier bridges the catalog service to the SSE hub. It satisfies the
// service layer's CatalogListener interface.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

// CatalogChanged broadcasts the refreshed catalog to connected clients.
func (n *HubNotifier) CatalogChanged(cardID string, catalog []models.Product) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&CatalogEvent{
		Event:     EventCatalogUpdated,
		CardID:    cardID,
		Catalog:   catalog,
		Timestamp: time.Now(),
	})
}
