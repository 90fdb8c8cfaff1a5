package storage

import (
	"context"

	"github.com/yezz123/rain-go/pkg/models"
)

// ShippingGroupStore defines the interface for managing bulk shipping groups.
type ShippingGroupStore interface {
	// CreateShippingGroup persists a new shipping group.
	CreateShippingGroup(ctx context.Context, group *models.ShippingGroup) (*models.ShippingGroup, error)

	// GetShippingGroup retrieves a shipping group by its ID.
	GetShippingGroup(ctx context.Context, groupID string) (*models.ShippingGroup, error)
}
