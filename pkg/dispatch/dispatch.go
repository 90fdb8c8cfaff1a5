package dispatch

import (
	"context"

	"github.com/yezz123/rain-go/pkg/models"
)

// Dispatcher defines the interface for a component that hands a computed
// shipment batch off for fulfillment once its cutoff has passed.
type Dispatcher interface {
	// DispatchBatch enqueues a shipment batch for asynchronous fulfillment.
	DispatchBatch(ctx context.Context, batch *models.ShipmentBatch) error
}
