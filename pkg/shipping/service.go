package shipping

import (
	"context"
	"fmt"

	"github.com/yezz123/rain-go/pkg/clock"
	"github.com/yezz123/rain-go/pkg/dispatch"
	"github.com/yezz123/rain-go/pkg/models"
	"github.com/yezz123/rain-go/pkg/storage"
)

// Service hands computed batches to the dispatch pipeline once their cutoff
// passes.
type Service struct {
	batcher    *Batcher
	cards      storage.CardReader
	dispatcher dispatch.Dispatcher
	clock      clock.Clock
}

// NewService creates a shipping Service.
func NewService(batcher *Batcher, cards storage.CardReader, dispatcher dispatch.Dispatcher, clk clock.Clock) *Service {
	return &Service{
		batcher:    batcher,
		cards:      cards,
		dispatcher: dispatcher,
		clock:      clk,
	}
}

// DispatchGroup recomputes the batches for a bulk shipping group and
// dispatches every batch whose cutoff has passed. Batches still inside their
// cutoff window are left alone; a later run picks them up. Returns the
// batches dispatched on this run.
func (s *Service) DispatchGroup(ctx context.Context, groupID string) ([]models.ShipmentBatch, error) {
	cards, err := s.cards.ListCardsByShippingGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards for group %s: %w", groupID, err)
	}
	return s.dispatchDue(ctx, cards)
}

// DispatchForUser recomputes the batches over a user's cards and dispatches
// the due ones. Ungrouped physical cards ship as singleton batches.
func (s *Service) DispatchForUser(ctx context.Context, userID string) ([]models.ShipmentBatch, error) {
	cards, err := s.cards.ListCardsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards for user %s: %w", userID, err)
	}
	return s.dispatchDue(ctx, cards)
}

func (s *Service) dispatchDue(ctx context.Context, cards []models.Card) ([]models.ShipmentBatch, error) {
	now := s.clock.Now()

	var dispatched []models.ShipmentBatch
	for _, batch := range s.batcher.ComputeBatches(cards) {
		if batch.Cutoff.After(now) {
			continue
		}
		if err := s.dispatcher.DispatchBatch(ctx, &batch); err != nil {
			return dispatched, fmt.Errorf("failed to dispatch batch %s: %w", batch.ID, err)
		}
		dispatched = append(dispatched, batch)
	}
	return dispatched, nil
}
