package storage

import (
	"context"

	"github.com/yezz123/rain-go/pkg/models"
)

// CardReader defines the interface for reading card data.
type CardReader interface {
	// GetCard retrieves a card by its ID.
	GetCard(ctx context.Context, cardID string) (*models.Card, error)

	// ListCardsByUserID retrieves all cards owned by a user.
	ListCardsByUserID(ctx context.Context, userID string) ([]models.Card, error)

	// ListCardsByShippingGroup retrieves all cards referencing a bulk
	// shipping group.
	ListCardsByShippingGroup(ctx context.Context, groupID string) ([]models.Card, error)
}

// CardWriter defines the interface for creating and mutating cards.
type CardWriter interface {
	// CreateCard persists a new card record.
	CreateCard(ctx context.Context, card *models.Card) (*models.Card, error)

	// UpdateCard persists a mutated card. The write is conditional on the
	// card's version matching the version the caller read, so concurrent
	// mutations cannot silently overwrite each other. The card's
	// BulkShippingGroupID is never written by updates.
	UpdateCard(ctx context.Context, card *models.Card) (*models.Card, error)
}

// CardStore combines the reader and writer interfaces.
type CardStore interface {
	CardReader
	CardWriter
}
