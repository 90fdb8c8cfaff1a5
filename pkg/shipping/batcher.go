// Package shipping assigns physical cards to shipment batches. Batch
// membership is a pure function of the cards' group ids and creation times
// against the daily cutoff calendar, so it is recomputed on demand rather
// than stored.
package shipping

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/yezz123/rain-go/pkg/clock"
	"github.com/yezz123/rain-go/pkg/models"
)

// CutoffHour is the local hour of the daily shipment cutoff.
const CutoffHour = 12

// BulkMinimum is the smallest batch that ships as a bulk group. Smaller
// batches ship individually, with the same personalization rules.
const BulkMinimum = 2

// batchNamespace is the UUID namespace for deriving deterministic batch ids.
var batchNamespace = uuid.MustParse("8a4ff8f7-1f44-4d56-9e5f-2c6b9a7d3e01")

// Batcher computes shipment batches against the business-timezone cutoff
// calendar.
type Batcher struct {
	loc *time.Location
}

// NewBatcher creates a Batcher in the fixed business timezone.
func NewBatcher() (*Batcher, error) {
	loc, err := time.LoadLocation(clock.BusinessTimeZone)
	if err != nil {
		return nil, err
	}
	return &Batcher{loc: loc}, nil
}

// CutoffFor returns the cutoff a card created at createdAt ships under:
// the next 12:00 local time on a business day (Monday through Friday) at or
// after the creation instant. A card created after the cutoff, or on a
// weekend, rolls to the next business day's cutoff.
func (b *Batcher) CutoffFor(createdAt time.Time) time.Time {
	t := createdAt.In(b.loc)
	cutoff := time.Date(t.Year(), t.Month(), t.Day(), CutoffHour, 0, 0, 0, b.loc)
	if !t.Before(cutoff) {
		cutoff = cutoff.AddDate(0, 0, 1)
	}
	for cutoff.Weekday() == time.Saturday || cutoff.Weekday() == time.Sunday {
		cutoff = cutoff.AddDate(0, 0, 1)
	}
	return cutoff
}

// ComputeBatches derives the shipment batches for a set of cards. Physical
// cards sharing a bulk shipping group and the same cutoff window batch
// together; everything else forms a batch of one. Given the same cards and
// calendar the result is identical, including batch ids.
func (b *Batcher) ComputeBatches(cards []models.Card) []models.ShipmentBatch {
	type key struct {
		groupID string
		cutoff  time.Time
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)

	for _, card := range cards {
		if card.Type != models.CardTypePhysical {
			continue
		}
		cutoff := b.CutoffFor(card.CreatedAt)
		k := key{groupID: card.BulkShippingGroupID, cutoff: cutoff}
		if card.BulkShippingGroupID == "" {
			// Ungrouped cards never consolidate; key them by card id.
			k.groupID = "card:" + card.ID
		}
		if _, seen := grouped[k]; !seen {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], card.ID)
	}

	batches := make([]models.ShipmentBatch, 0, len(order))
	for _, k := range order {
		cardIDs := grouped[k]
		sort.Strings(cardIDs)

		groupID := k.groupID
		if len(groupID) > 5 && groupID[:5] == "card:" {
			groupID = ""
		}
		batches = append(batches, models.ShipmentBatch{
			ID:      batchID(k.groupID, k.cutoff),
			GroupID: groupID,
			Cutoff:  k.cutoff,
			CardIDs: cardIDs,
			Bulk:    groupID != "" && len(cardIDs) >= BulkMinimum,
		})
	}

	sort.Slice(batches, func(i, j int) bool {
		if !batches[i].Cutoff.Equal(batches[j].Cutoff) {
			return batches[i].Cutoff.Before(batches[j].Cutoff)
		}
		return batches[i].ID < batches[j].ID
	})
	return batches
}

// BatchFor returns the batch a single card belongs to within the given card
// set, or nil if the card is not a physical card in the set.
func (b *Batcher) BatchFor(cardID string, cards []models.Card) *models.ShipmentBatch {
	for _, batch := range b.ComputeBatches(cards) {
		for _, id := range batch.CardIDs {
			if id == cardID {
				out := batch
				return &out
			}
		}
	}
	return nil
}

// batchID derives a stable id from the grouping key so recomputation and
// idempotent dispatch agree on identity.
func batchID(groupKey string, cutoff time.Time) string {
	name := groupKey + "|" + cutoff.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(batchNamespace, []byte(name)).String()
}
