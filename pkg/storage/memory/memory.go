// Package memory implements the storage interfaces with in-process maps.
// It backs tests and local wiring; production deployments use the DynamoDB
// store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/yezz123/rain-go/pkg/models"
	"github.com/yezz123/rain-go/pkg/storage"
)

// Store is a mutex-guarded in-memory implementation of storage.Storage.
type Store struct {
	mu      sync.RWMutex
	cards   map[string]*models.Card
	charges map[string][]models.ChargeEvent
	groups  map[string]*models.ShippingGroup
	users   map[string]string
	batches map[string]*models.ShipmentBatch
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		cards:   make(map[string]*models.Card),
		charges: make(map[string][]models.ChargeEvent),
		groups:  make(map[string]*models.ShippingGroup),
		users:   make(map[string]string),
		batches: make(map[string]*models.ShipmentBatch),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// CreateCard persists a new card record.
func (s *Store) CreateCard(_ context.Context, card *models.Card) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *card
	s.cards[c.ID] = &c
	out := c
	return &out, nil
}

// GetCard retrieves a card by its ID.
func (s *Store) GetCard(_ context.Context, cardID string) (*models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	card, ok := s.cards[cardID]
	if !ok {
		return nil, storage.ErrCardNotFound
	}
	out := *card
	return &out, nil
}

// ListCardsByUserID retrieves all cards owned by a user.
func (s *Store) ListCardsByUserID(_ context.Context, userID string) ([]models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var cards []models.Card
	for _, card := range s.cards {
		if card.UserID == userID {
			cards = append(cards, *card)
		}
	}
	return cards, nil
}

// ListCardsByShippingGroup retrieves all cards referencing a bulk shipping group.
func (s *Store) ListCardsByShippingGroup(_ context.Context, groupID string) ([]models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var cards []models.Card
	for _, card := range s.cards {
		if card.BulkShippingGroupID == groupID {
			cards = append(cards, *card)
		}
	}
	return cards, nil
}

// UpdateCard persists a mutated card, conditional on the version the caller
// read. The stored BulkShippingGroupID is preserved; updates never touch it.
func (s *Store) UpdateCard(_ context.Context, card *models.Card) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.cards[card.ID]
	if !ok {
		return nil, storage.ErrCardNotFound
	}
	if current.Version != card.Version {
		return nil, storage.ErrVersionConflict
	}
	updated := *card
	updated.BulkShippingGroupID = current.BulkShippingGroupID
	updated.Version = current.Version + 1
	s.cards[card.ID] = &updated
	out := updated
	return &out, nil
}

// RecordCharge persists an immutable charge event, refusing cards that no
// longer accept charges or whose version moved past the caller's read.
func (s *Store) RecordCharge(_ context.Context, event *models.ChargeEvent, expectedVersion int64) (*models.ChargeEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[event.CardID]
	if !ok {
		return nil, storage.ErrCardNotFound
	}
	if card.Status != models.CardActive {
		return nil, storage.ErrCardNotCharging
	}
	if card.Version != expectedVersion {
		return nil, storage.ErrVersionConflict
	}
	card.Version++
	s.charges[event.CardID] = append(s.charges[event.CardID], *event)
	out := *event
	return &out, nil
}

// ListChargesInWindow retrieves every charge for a card in (since, until].
func (s *Store) ListChargesInWindow(_ context.Context, cardID string, since, until time.Time) ([]models.ChargeEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var events []models.ChargeEvent
	for _, ev := range s.charges[cardID] {
		if ev.Timestamp.After(since) && !ev.Timestamp.After(until) {
			events = append(events, ev)
		}
	}
	return events, nil
}

// CreateShippingGroup persists a new shipping group.
func (s *Store) CreateShippingGroup(_ context.Context, group *models.ShippingGroup) (*models.ShippingGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := *group
	s.groups[g.ID] = &g
	out := g
	return &out, nil
}

// GetShippingGroup retrieves a shipping group by its ID.
func (s *Store) GetShippingGroup(_ context.Context, groupID string) (*models.ShippingGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	group, ok := s.groups[groupID]
	if !ok {
		return nil, storage.ErrGroupNotFound
	}
	out := *group
	return &out, nil
}

// GetApplicationStatus retrieves a user's compliance application status.
func (s *Store) GetApplicationStatus(_ context.Context, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.users[userID]
	if !ok {
		return "", storage.ErrUserNotFound
	}
	return status, nil
}

// SetApplicationStatus records a user's compliance application status.
func (s *Store) SetApplicationStatus(_ context.Context, userID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = status
	return nil
}

// PutShipmentBatch records a batch as dispatched, exactly once.
func (s *Store) PutShipmentBatch(_ context.Context, batch *models.ShipmentBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.batches[batch.ID]; ok {
		return storage.ErrBatchAlreadyDispatched
	}
	b := *batch
	b.CardIDs = append([]string(nil), batch.CardIDs...)
	s.batches[batch.ID] = &b
	return nil
}
