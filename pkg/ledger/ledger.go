// Package ledger maintains the trailing 30-day spend exposure per card and
// decides whether a prospective charge fits under the card's limit.
//
// Eviction is lazy: charge events are never deleted, every aggregation call
// re-filters by the current time window. Correctness is tied directly to the
// clock reading at query time, with no background sweep to drift out of sync.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yezz123/rain-go/pkg/clock"
	"github.com/yezz123/rain-go/pkg/errs"
	"github.com/yezz123/rain-go/pkg/models"
	"github.com/yezz123/rain-go/pkg/storage"
)

// Window is the trailing interval charges count against. A charge exactly
// Window old has just fallen off: the window is open at the old edge and
// closed at the new one.
const Window = 30 * 24 * time.Hour

// Ledger answers authorization questions for cards using their recorded
// charge history.
type Ledger struct {
	cards   storage.CardReader
	charges storage.ChargeStore
	clock   clock.Clock

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Ledger over the given stores and clock.
func New(cards storage.CardReader, charges storage.ChargeStore, clk clock.Clock) *Ledger {
	return &Ledger{
		cards:   cards,
		charges: charges,
		clock:   clk,
		locks:   make(map[string]*sync.Mutex),
	}
}

// cardLock returns the mutex serializing operations on a single card.
// Cross-card operations need no coordination, so locks are per card ID.
func (l *Ledger) cardLock(cardID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[cardID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[cardID] = lock
	}
	return lock
}

// Exposure returns the sum of charge amounts for the card with timestamps in
// (asOf - Window, asOf], at second precision.
func (l *Ledger) Exposure(ctx context.Context, cardID string, asOf time.Time) (int64, error) {
	asOf = asOf.Truncate(time.Second)
	since := asOf.Add(-Window)

	events, err := l.charges.ListChargesInWindow(ctx, cardID, since, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to list charges for card %s: %w", cardID, err)
	}

	var total int64
	for _, ev := range events {
		// Re-check the boundary here; a store is allowed to over-fetch.
		ts := ev.Timestamp.Truncate(time.Second)
		if ts.After(since) && !ts.After(asOf) {
			total += ev.Amount
		}
	}
	return total, nil
}

// maxAuthorizeAttempts bounds the re-check loop when another writer commits a
// charge between our limit check and our record write.
const maxAuthorizeAttempts = 3

// Authorize checks that a charge of amount fits under the card's limit given
// its current exposure, and records it. The check-then-record sequence is
// atomic per card: concurrent attempts within one Ledger serialize on a
// per-card lock, and the record write is conditioned on the card version read
// during the check, so attempts from other processes over the same store
// cannot interleave either. On a version conflict the check re-runs against
// the fresh state, up to maxAuthorizeAttempts times.
//
// An abandoned call leaves no partial state; the event exists only if the
// store write committed.
func (l *Ledger) Authorize(ctx context.Context, cardID string, amount int64) (*models.ChargeEvent, error) {
	if amount <= 0 {
		return nil, errs.New(errs.KindValidation, "charge amount must be positive")
	}

	lock := l.cardLock(cardID)
	lock.Lock()
	defer lock.Unlock()

	for attempt := 0; attempt < maxAuthorizeAttempts; attempt++ {
		card, err := l.cards.GetCard(ctx, cardID)
		if err != nil {
			if errors.Is(err, storage.ErrCardNotFound) {
				return nil, errs.Wrap(errs.KindNotFound, fmt.Sprintf("card %s not found", cardID), err)
			}
			return nil, errs.Wrap(errs.KindExternal, "failed to load card", err)
		}
		if card.Status == models.CardCanceled {
			return nil, errs.New(errs.KindConflict, "card is canceled and accepts no further charges")
		}
		if card.Status != models.CardActive {
			return nil, errs.New(errs.KindConflict, fmt.Sprintf("card is %s, not active", card.Status))
		}

		asOf := l.clock.Now().Truncate(time.Second)
		exposure, err := l.Exposure(ctx, cardID, asOf)
		if err != nil {
			return nil, err
		}
		if exposure+amount > card.Limit {
			return nil, errs.New(errs.KindLimitExceeded,
				fmt.Sprintf("charge of %d would exceed limit %d with current exposure %d", amount, card.Limit, exposure))
		}

		event := &models.ChargeEvent{
			ID:        uuid.New().String(),
			CardID:    cardID,
			Amount:    amount,
			Timestamp: asOf,
		}
		recorded, err := l.charges.RecordCharge(ctx, event, card.Version)
		if err != nil {
			if errors.Is(err, storage.ErrVersionConflict) {
				// Someone else committed against the version we read;
				// the exposure we checked may be stale. Start over.
				continue
			}
			if errors.Is(err, storage.ErrCardNotCharging) {
				return nil, errs.Wrap(errs.KindConflict, "card stopped accepting charges", err)
			}
			return nil, errs.Wrap(errs.KindExternal, "failed to record charge", err)
		}
		return recorded, nil
	}
	return nil, errs.New(errs.KindConflict,
		fmt.Sprintf("card %s is under contention, authorization retries exhausted", cardID))
}
