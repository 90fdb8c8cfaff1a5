package shipping_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yezz123/rain-go/pkg/models"
	"github.com/yezz123/rain-go/pkg/shipping"
)

func mustLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func physicalCard(id, groupID string, createdAt time.Time) models.Card {
	return models.Card{
		ID:                  id,
		Type:                models.CardTypePhysical,
		Status:              models.CardActive,
		BulkShippingGroupID: groupID,
		CreatedAt:           createdAt,
	}
}

func TestCutoffFor(t *testing.T) {
	loc := mustLoc(t)
	b, err := shipping.NewBatcher()
	require.NoError(t, err)

	// 2025-03-04 is a Tuesday.
	tuesday := func(hour, min int) time.Time {
		return time.Date(2025, 3, 4, hour, min, 0, 0, loc)
	}

	t.Run("Before Cutoff Ships Same Day", func(t *testing.T) {
		cutoff := b.CutoffFor(tuesday(11, 30))
		assert.Equal(t, tuesday(12, 0), cutoff)
	})

	t.Run("After Cutoff Rolls To Next Day", func(t *testing.T) {
		cutoff := b.CutoffFor(tuesday(12, 15))
		assert.Equal(t, time.Date(2025, 3, 5, 12, 0, 0, 0, loc), cutoff)
	})

	t.Run("At Cutoff Exactly Rolls Over", func(t *testing.T) {
		cutoff := b.CutoffFor(tuesday(12, 0))
		assert.Equal(t, time.Date(2025, 3, 5, 12, 0, 0, 0, loc), cutoff)
	})

	t.Run("Friday Afternoon Rolls To Monday", func(t *testing.T) {
		friday := time.Date(2025, 3, 7, 14, 0, 0, 0, loc)
		cutoff := b.CutoffFor(friday)
		assert.Equal(t, time.Date(2025, 3, 10, 12, 0, 0, 0, loc), cutoff)
	})

	t.Run("Weekend Rolls To Monday", func(t *testing.T) {
		saturday := time.Date(2025, 3, 8, 9, 0, 0, 0, loc)
		cutoff := b.CutoffFor(saturday)
		assert.Equal(t, time.Date(2025, 3, 10, 12, 0, 0, 0, loc), cutoff)
	})

	t.Run("Timezone Respected", func(t *testing.T) {
		// 15:30 UTC is 11:30 in New York during DST: still before cutoff.
		utc := time.Date(2025, 6, 3, 15, 30, 0, 0, time.UTC)
		cutoff := b.CutoffFor(utc)
		assert.Equal(t, time.Date(2025, 6, 3, 12, 0, 0, 0, loc), cutoff)
	})
}

func TestComputeBatches(t *testing.T) {
	loc := mustLoc(t)
	b, err := shipping.NewBatcher()
	require.NoError(t, err)

	// Tuesday creations around the 12:00 cutoff.
	at := func(hour, min int) time.Time {
		return time.Date(2025, 3, 4, hour, min, 0, 0, loc)
	}

	t.Run("Shared Group Same Window Batch Together", func(t *testing.T) {
		cardSet := []models.Card{
			physicalCard("card-a", "G", at(11, 30)),
			physicalCard("card-b", "G", at(11, 55)),
			physicalCard("card-c", "G", at(12, 15)),
			physicalCard("card-d", "H", at(11, 45)),
		}

		batches := b.ComputeBatches(cardSet)
		require.Len(t, batches, 3)

		byCard := make(map[string]models.ShipmentBatch)
		for _, batch := range batches {
			for _, id := range batch.CardIDs {
				byCard[id] = batch
			}
		}

		assert.Equal(t, byCard["card-a"].ID, byCard["card-b"].ID)
		assert.True(t, byCard["card-a"].Bulk)
		assert.NotEqual(t, byCard["card-a"].ID, byCard["card-c"].ID, "after-cutoff card batches separately")
		assert.NotEqual(t, byCard["card-a"].ID, byCard["card-d"].ID, "different group never batches together")
		assert.NotEqual(t, byCard["card-c"].ID, byCard["card-d"].ID)
	})

	t.Run("Singleton Group Ships Individually", func(t *testing.T) {
		batches := b.ComputeBatches([]models.Card{
			physicalCard("card-a", "G", at(11, 30)),
		})
		require.Len(t, batches, 1)
		assert.False(t, batches[0].Bulk)
		assert.Equal(t, "G", batches[0].GroupID)
	})

	t.Run("Ungrouped Cards Never Consolidate", func(t *testing.T) {
		batches := b.ComputeBatches([]models.Card{
			physicalCard("card-a", "", at(11, 30)),
			physicalCard("card-b", "", at(11, 31)),
		})
		require.Len(t, batches, 2)
		for _, batch := range batches {
			assert.False(t, batch.Bulk)
			assert.Len(t, batch.CardIDs, 1)
		}
	})

	t.Run("Virtual Cards Ignored", func(t *testing.T) {
		virtual := models.Card{ID: "card-v", Type: models.CardTypeVirtual, CreatedAt: at(11, 0)}
		batches := b.ComputeBatches([]models.Card{virtual})
		assert.Empty(t, batches)
	})

	t.Run("Deterministic Recomputation", func(t *testing.T) {
		cardSet := []models.Card{
			physicalCard("card-a", "G", at(11, 30)),
			physicalCard("card-b", "G", at(11, 55)),
			physicalCard("card-c", "", at(10, 0)),
		}
		first := b.ComputeBatches(cardSet)
		second := b.ComputeBatches([]models.Card{cardSet[2], cardSet[0], cardSet[1]})
		assert.Equal(t, first, second)
	})
}

func TestBatchFor(t *testing.T) {
	loc := mustLoc(t)
	b, err := shipping.NewBatcher()
	require.NoError(t, err)

	created := time.Date(2025, 3, 4, 11, 30, 0, 0, loc)
	cardSet := []models.Card{
		physicalCard("card-a", "G", created),
		physicalCard("card-b", "G", created.Add(5*time.Minute)),
	}

	batch := b.BatchFor("card-b", cardSet)
	require.NotNil(t, batch)
	assert.True(t, batch.Bulk)
	assert.ElementsMatch(t, []string{"card-a", "card-b"}, batch.CardIDs)

	assert.Nil(t, b.BatchFor("card-z", cardSet))
}
