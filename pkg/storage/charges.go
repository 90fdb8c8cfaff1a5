package storage

import (
	"context"
	"time"

	"github.com/yezz123/rain-go/pkg/models"
)

// ChargeReader defines the interface for reading charge events.
type ChargeReader interface {
	// ListChargesInWindow retrieves every charge event for a card with a
	// timestamp in (since, until]. Events are never deleted, so the store
	// filters by time on every read.
	ListChargesInWindow(ctx context.Context, cardID string, since, until time.Time) ([]models.ChargeEvent, error)
}

// ChargeWriter defines the interface for recording charge events.
type ChargeWriter interface {
	// RecordCharge persists an immutable charge event. The write commits
	// only if the card still accepts charges (it exists and is active) and
	// its version still equals expectedVersion, the version the caller read
	// when it checked the limit. The commit bumps the version, so two
	// writers racing on the same read cannot both land: the loser gets
	// ErrVersionConflict and must re-check against the fresh state. A card
	// that stopped accepting charges surfaces as ErrCardNotCharging.
	RecordCharge(ctx context.Context, event *models.ChargeEvent, expectedVersion int64) (*models.ChargeEvent, error)
}

// ChargeStore combines the reader and writer interfaces.
type ChargeStore interface {
	ChargeReader
	ChargeWriter
}
