package shipping

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yezz123/rain-go/pkg/clock"
	"github.com/yezz123/rain-go/pkg/models"
	"github.com/yezz123/rain-go/pkg/storage/memory"
)

// recordingDispatcher captures dispatched batches in order.
type recordingDispatcher struct {
	batches []models.ShipmentBatch
}

func (d *recordingDispatcher) DispatchBatch(_ context.Context, batch *models.ShipmentBatch) error {
	d.batches = append(d.batches, *batch)
	return nil
}

func TestDispatchGroup(t *testing.T) {
	ctx := context.Background()
	batcher, err := NewBatcher()
	require.NoError(t, err)

	// Tuesday in America/New_York; cards created in the morning hit the
	// same-day 12:00 cutoff.
	loc, err := time.LoadLocation(clock.BusinessTimeZone)
	require.NoError(t, err)
	morning := time.Date(2025, 3, 4, 9, 0, 0, 0, loc)
	afternoon := time.Date(2025, 3, 4, 14, 0, 0, 0, loc)

	seed := func(t *testing.T) *memory.Store {
		t.Helper()
		store := memory.New()
		_, err := store.CreateShippingGroup(ctx, &models.ShippingGroup{ID: "group-1", RecipientFirstName: "Ada"})
		require.NoError(t, err)
		for _, card := range []models.Card{
			{ID: "card-a", UserID: "user-1", Type: models.CardTypePhysical, Status: models.CardNotActivated, BulkShippingGroupID: "group-1", Version: 1, CreatedAt: morning},
			{ID: "card-b", UserID: "user-1", Type: models.CardTypePhysical, Status: models.CardNotActivated, BulkShippingGroupID: "group-1", Version: 1, CreatedAt: morning.Add(time.Hour)},
			{ID: "card-c", UserID: "user-1", Type: models.CardTypePhysical, Status: models.CardNotActivated, BulkShippingGroupID: "group-1", Version: 1, CreatedAt: afternoon},
		} {
			card := card
			_, err := store.CreateCard(ctx, &card)
			require.NoError(t, err)
		}
		return store
	}

	t.Run("Dispatches Only Past Cutoff", func(t *testing.T) {
		store := seed(t)
		dispatcher := &recordingDispatcher{}
		// Just after the Tuesday cutoff: the morning batch is due, the
		// afternoon card rolled to Wednesday.
		clk := clock.NewFixed(time.Date(2025, 3, 4, 12, 30, 0, 0, loc))
		svc := NewService(batcher, store, dispatcher, clk)

		dispatched, err := svc.DispatchGroup(ctx, "group-1")
		require.NoError(t, err)
		require.Len(t, dispatched, 1)
		assert.ElementsMatch(t, []string{"card-a", "card-b"}, dispatched[0].CardIDs)
		assert.True(t, dispatched[0].Bulk)
		assert.Equal(t, dispatched, dispatcher.batches)
	})

	t.Run("Nothing Due Before Cutoff", func(t *testing.T) {
		store := seed(t)
		dispatcher := &recordingDispatcher{}
		clk := clock.NewFixed(time.Date(2025, 3, 4, 11, 0, 0, 0, loc))
		svc := NewService(batcher, store, dispatcher, clk)

		dispatched, err := svc.DispatchGroup(ctx, "group-1")
		require.NoError(t, err)
		assert.Empty(t, dispatched)
		assert.Empty(t, dispatcher.batches)
	})

	t.Run("Later Run Picks Up Rolled Batch", func(t *testing.T) {
		store := seed(t)
		dispatcher := &recordingDispatcher{}
		// After Wednesday's cutoff both batches are due.
		clk := clock.NewFixed(time.Date(2025, 3, 5, 12, 30, 0, 0, loc))
		svc := NewService(batcher, store, dispatcher, clk)

		dispatched, err := svc.DispatchGroup(ctx, "group-1")
		require.NoError(t, err)
		require.Len(t, dispatched, 2)
		assert.ElementsMatch(t, []string{"card-a", "card-b"}, dispatched[0].CardIDs)
		assert.Equal(t, []string{"card-c"}, dispatched[1].CardIDs)
		assert.False(t, dispatched[1].Bulk)
	})
}

func TestDispatchForUser(t *testing.T) {
	ctx := context.Background()
	batcher, err := NewBatcher()
	require.NoError(t, err)
	loc, err := time.LoadLocation(clock.BusinessTimeZone)
	require.NoError(t, err)
	morning := time.Date(2025, 3, 4, 9, 0, 0, 0, loc)

	store := memory.New()
	for _, card := range []models.Card{
		{ID: "card-a", UserID: "user-1", Type: models.CardTypePhysical, Status: models.CardNotActivated, Version: 1, CreatedAt: morning},
		{ID: "card-b", UserID: "user-1", Type: models.CardTypePhysical, Status: models.CardNotActivated, Version: 1, CreatedAt: morning},
		{ID: "card-v", UserID: "user-1", Type: models.CardTypeVirtual, Status: models.CardActive, Version: 1, CreatedAt: morning},
	} {
		card := card
		_, err := store.CreateCard(ctx, &card)
		require.NoError(t, err)
	}

	dispatcher := &recordingDispatcher{}
	clk := clock.NewFixed(time.Date(2025, 3, 4, 12, 30, 0, 0, loc))
	svc := NewService(batcher, store, dispatcher, clk)

	dispatched, err := svc.DispatchForUser(ctx, "user-1")
	require.NoError(t, err)

	// Ungrouped physical cards ship as singletons; the virtual card never
	// enters a batch.
	require.Len(t, dispatched, 2)
	for _, batch := range dispatched {
		assert.Len(t, batch.CardIDs, 1)
		assert.False(t, batch.Bulk)
		assert.NotContains(t, batch.CardIDs, "card-v")
	}
}
