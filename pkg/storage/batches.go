package storage

import (
	"context"

	"github.com/yezz123/rain-go/pkg/models"
)

// BatchStore defines the interface for recording dispatched shipment
// batches. Batch membership itself is a derived computation; this record
// exists only so the dispatch pipeline can re-query idempotently.
type BatchStore interface {
	// PutShipmentBatch records a batch as dispatched. A second put of the
	// same batch ID returns ErrBatchAlreadyDispatched.
	PutShipmentBatch(ctx context.Context, batch *models.ShipmentBatch) error
}
