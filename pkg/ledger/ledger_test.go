package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yezz123/rain-go/pkg/clock"
	"github.com/yezz123/rain-go/pkg/errs"
	"github.com/yezz123/rain-go/pkg/ledger"
	"github.com/yezz123/rain-go/pkg/models"
	"github.com/yezz123/rain-go/pkg/storage/memory"
)

func newActiveCard(t *testing.T, store *memory.Store, limit int64) *models.Card {
	t.Helper()
	card, err := store.CreateCard(context.Background(), &models.Card{
		ID:     uuid.New().String(),
		UserID: uuid.New().String(),
		Type:   models.CardTypeVirtual,
		Status: models.CardActive,
		Limit:  limit,
	})
	require.NoError(t, err)
	return card
}

func TestAuthorize(t *testing.T) {
	start := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

	t.Run("Within Limit", func(t *testing.T) {
		store := memory.New()
		clk := clock.NewFixed(start)
		l := ledger.New(store, store, clk)
		card := newActiveCard(t, store, 10000)

		ev, err := l.Authorize(context.Background(), card.ID, 9500)
		require.NoError(t, err)
		assert.Equal(t, int64(9500), ev.Amount)

		_, err = l.Authorize(context.Background(), card.ID, 500)
		assert.NoError(t, err)
	})

	t.Run("Exceeds Limit", func(t *testing.T) {
		store := memory.New()
		clk := clock.NewFixed(start)
		l := ledger.New(store, store, clk)
		card := newActiveCard(t, store, 10000)

		_, err := l.Authorize(context.Background(), card.ID, 9500)
		require.NoError(t, err)

		_, err = l.Authorize(context.Background(), card.ID, 501)
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindLimitExceeded))

		// No event was recorded for the denied charge.
		exposure, err := l.Exposure(context.Background(), card.ID, clk.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(9500), exposure)
	})

	t.Run("Exactly At Limit", func(t *testing.T) {
		store := memory.New()
		clk := clock.NewFixed(start)
		l := ledger.New(store, store, clk)
		card := newActiveCard(t, store, 10000)

		_, err := l.Authorize(context.Background(), card.ID, 10000)
		assert.NoError(t, err)
	})

	t.Run("Card Not Active", func(t *testing.T) {
		store := memory.New()
		clk := clock.NewFixed(start)
		l := ledger.New(store, store, clk)
		card := newActiveCard(t, store, 10000)

		card.Status = models.CardLocked
		_, err := store.UpdateCard(context.Background(), card)
		require.NoError(t, err)

		_, err = l.Authorize(context.Background(), card.ID, 100)
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindConflict))
	})

	t.Run("Canceled Card Is Inert", func(t *testing.T) {
		store := memory.New()
		clk := clock.NewFixed(start)
		l := ledger.New(store, store, clk)
		card := newActiveCard(t, store, 10000)

		card.Status = models.CardCanceled
		_, err := store.UpdateCard(context.Background(), card)
		require.NoError(t, err)

		_, err = l.Authorize(context.Background(), card.ID, 100)
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindConflict))
	})

	t.Run("Unknown Card", func(t *testing.T) {
		store := memory.New()
		l := ledger.New(store, store, clock.NewFixed(start))

		_, err := l.Authorize(context.Background(), uuid.New().String(), 100)
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindNotFound))
	})

	t.Run("Non-Positive Amount", func(t *testing.T) {
		store := memory.New()
		l := ledger.New(store, store, clock.NewFixed(start))
		card := newActiveCard(t, store, 10000)

		_, err := l.Authorize(context.Background(), card.ID, 0)
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindValidation))
	})
}

func TestExposureWindowBoundary(t *testing.T) {
	start := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	store := memory.New()
	clk := clock.NewFixed(start)
	l := ledger.New(store, store, clk)
	card := newActiveCard(t, store, 10000)

	_, err := l.Authorize(context.Background(), card.ID, 2500)
	require.NoError(t, err)

	t.Run("One Second Inside Window", func(t *testing.T) {
		asOf := start.Add(ledger.Window - time.Second)
		exposure, err := l.Exposure(context.Background(), card.ID, asOf)
		require.NoError(t, err)
		assert.Equal(t, int64(2500), exposure)
	})

	t.Run("Exactly Thirty Days Old Is Excluded", func(t *testing.T) {
		asOf := start.Add(ledger.Window)
		exposure, err := l.Exposure(context.Background(), card.ID, asOf)
		require.NoError(t, err)
		assert.Equal(t, int64(0), exposure)
	})

	t.Run("Aged-Out Exposure Frees The Limit", func(t *testing.T) {
		clk.Set(start.Add(ledger.Window))
		_, err := l.Authorize(context.Background(), card.ID, 10000)
		assert.NoError(t, err)
	})
}

func TestExposureSecondPrecision(t *testing.T) {
	start := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	store := memory.New()
	clk := clock.NewFixed(start)
	l := ledger.New(store, store, clk)
	card := newActiveCard(t, store, 100000)

	amounts := []int64{100, 250, 400}
	for i, amount := range amounts {
		clk.Set(start.Add(time.Duration(i) * time.Second))
		_, err := l.Authorize(context.Background(), card.ID, amount)
		require.NoError(t, err)
	}

	// A query window ending before the last event excludes it.
	exposure, err := l.Exposure(context.Background(), card.ID, start.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(350), exposure)

	exposure, err = l.Exposure(context.Background(), card.ID, start.Add(2*time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(750), exposure)
}

func TestAuthorizeConcurrentBoundary(t *testing.T) {
	// With exposure 9500 against a limit of 10000, two simultaneous charges
	// of 500 must not both succeed.
	start := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	store := memory.New()
	clk := clock.NewFixed(start)
	l := ledger.New(store, store, clk)
	card := newActiveCard(t, store, 10000)

	_, err := l.Authorize(context.Background(), card.ID, 9500)
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = l.Authorize(context.Background(), card.ID, 500)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, errs.IsKind(err, errs.KindLimitExceeded))
		}
	}
	assert.Equal(t, 1, succeeded)

	exposure, err := l.Exposure(context.Background(), card.ID, clk.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(10000), exposure)
}

func TestAuthorizeAcrossInstances(t *testing.T) {
	// Two ledgers over the same store, as when two processes share a table.
	// The in-process lock cannot serialize them; the version condition on the
	// record write must. With exposure 9500 against a limit of 10000, only
	// one of the racing 500 charges may land.
	start := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	store := memory.New()
	clk := clock.NewFixed(start)
	first := ledger.New(store, store, clk)
	second := ledger.New(store, store, clk)
	card := newActiveCard(t, store, 10000)

	_, err := first.Authorize(context.Background(), card.ID, 9500)
	require.NoError(t, err)

	ledgers := []*ledger.Ledger{first, second, first, second, first, second}
	var wg sync.WaitGroup
	results := make([]error, len(ledgers))
	for i, l := range ledgers {
		wg.Add(1)
		go func(i int, l *ledger.Ledger) {
			defer wg.Done()
			_, results[i] = l.Authorize(context.Background(), card.ID, 500)
		}(i, l)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			// A loser that hit the version race re-reads the fresh exposure
			// and is denied on the limit.
			assert.True(t, errs.IsKind(err, errs.KindLimitExceeded))
		}
	}
	assert.Equal(t, 1, succeeded)

	exposure, err := first.Exposure(context.Background(), card.ID, clk.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(10000), exposure)
}
