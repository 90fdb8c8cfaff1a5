// Package cards governs the card lifecycle: issuance, status transitions,
// and spend-limit updates.
package cards

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yezz123/rain-go/pkg/clock"
	"github.com/yezz123/rain-go/pkg/errs"
	"github.com/yezz123/rain-go/pkg/models"
	"github.com/yezz123/rain-go/pkg/storage"
)

// cardValidityYears is how long newly issued cards are valid.
const cardValidityYears = 3

// Service holds the dependencies for card lifecycle operations.
type Service struct {
	cards  storage.CardStore
	users  storage.UserStore
	groups storage.ShippingGroupStore
	clock  clock.Clock
}

// NewService creates a card lifecycle Service.
func NewService(cards storage.CardStore, users storage.UserStore, groups storage.ShippingGroupStore, clk clock.Clock) *Service {
	return &Service{cards: cards, users: users, groups: groups, clock: clk}
}

// IssueCardRequest carries everything needed to issue a new card.
type IssueCardRequest struct {
	UserID string
	Type   models.CardType
	// Limit is the rolling 30-day spend limit in minor currency units.
	Limit int64
	// DisplayName is optional; when empty it is derived from UserFullName.
	DisplayName  string
	UserFullName string
	// RequireActivation issues the card as notActivated; the caller must
	// confirm last-4/expiration out of band before activating it.
	RequireActivation bool
	// Shipping is required iff the card is physical.
	Shipping *models.ShippingDetails
	// BulkShippingGroupID optionally assigns the card to a bulk shipping
	// group. It is fixed for the card's lifetime.
	BulkShippingGroupID string
}

// IssueCard validates the request, gates on the owner's compliance approval,
// and creates the card record.
func (s *Service) IssueCard(ctx context.Context, req IssueCardRequest) (*models.Card, error) {
	if req.UserID == "" {
		return nil, errs.New(errs.KindValidation, "userId is required")
	}
	if req.Type != models.CardTypeVirtual && req.Type != models.CardTypePhysical {
		return nil, errs.New(errs.KindValidation, fmt.Sprintf("unknown card type %q", string(req.Type)))
	}
	if req.Limit < 0 {
		return nil, errs.New(errs.KindValidation, "limit must not be negative")
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = models.DeriveDisplayName(req.UserFullName)
	}
	if displayName != "" {
		if err := models.ValidateDisplayName(displayName); err != nil {
			return nil, err
		}
	}

	if req.Type == models.CardTypePhysical {
		if err := models.ValidateShipping(req.Shipping); err != nil {
			return nil, err
		}
	} else if req.BulkShippingGroupID != "" {
		return nil, errs.New(errs.KindValidation, "virtual cards cannot join a bulk shipping group")
	}

	if req.BulkShippingGroupID != "" {
		if _, err := s.groups.GetShippingGroup(ctx, req.BulkShippingGroupID); err != nil {
			if errors.Is(err, storage.ErrGroupNotFound) {
				return nil, errs.Wrap(errs.KindValidation,
					fmt.Sprintf("bulk shipping group %s does not exist", req.BulkShippingGroupID), err)
			}
			return nil, errs.Wrap(errs.KindExternal, "failed to load shipping group", err)
		}
	}

	status, err := s.users.GetApplicationStatus(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, errs.Wrap(errs.KindConflict, "user has no compliance application on file", err)
		}
		return nil, errs.Wrap(errs.KindExternal, "failed to read application status", err)
	}
	if status != models.ApplicationApproved {
		return nil, errs.New(errs.KindConflict, fmt.Sprintf("user application is %s, not approved", status))
	}

	initial := models.CardActive
	if req.RequireActivation {
		initial = models.CardNotActivated
	}

	last4, err := randomLast4()
	if err != nil {
		return nil, errs.Wrap(errs.KindExternal, "failed to generate card digits", err)
	}

	now := s.clock.Now()
	card := &models.Card{
		ID:                  uuid.New().String(),
		UserID:              req.UserID,
		Type:                req.Type,
		Status:              initial,
		Limit:               req.Limit,
		DisplayName:         displayName,
		Last4:               last4,
		ExpirationMonth:     fmt.Sprintf("%02d", int(now.Month())),
		ExpirationYear:      fmt.Sprintf("%d", now.Year()+cardValidityYears),
		BulkShippingGroupID: req.BulkShippingGroupID,
		Version:             1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	created, err := s.cards.CreateCard(ctx, card)
	if err != nil {
		return nil, errs.Wrap(errs.KindExternal, "failed to create card", err)
	}
	return created, nil
}

// UpdateStatus transitions a card to a new status. The component does not
// validate the holder's identity for activation; the caller confirms last-4
// or expiration out of band and then requests the transition, which is
// accepted only from notActivated.
func (s *Service) UpdateStatus(ctx context.Context, cardID string, to models.CardStatus) (*models.Card, error) {
	card, err := s.getCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(card.Status, to); err != nil {
		return nil, err
	}

	card.Status = to
	card.UpdatedAt = s.clock.Now()
	updated, err := s.cards.UpdateCard(ctx, card)
	if err != nil {
		if errors.Is(err, storage.ErrVersionConflict) {
			return nil, errs.Wrap(errs.KindConflict, "card was modified concurrently", err)
		}
		return nil, errs.Wrap(errs.KindExternal, "failed to update card", err)
	}
	return updated, nil
}

// Cancel moves a card to its terminal state. Once canceled the card's ledger
// accepts no further events and secret and PIN operations are rejected.
func (s *Service) Cancel(ctx context.Context, cardID string) (*models.Card, error) {
	return s.UpdateStatus(ctx, cardID, models.CardCanceled)
}

// UpdateLimit changes a card's spend limit. Permitted in any non-canceled
// state; takes effect for subsequent authorization checks only and never
// retroactively invalidates recorded charges.
func (s *Service) UpdateLimit(ctx context.Context, cardID string, limit int64) (*models.Card, error) {
	if limit < 0 {
		return nil, errs.New(errs.KindValidation, "limit must not be negative")
	}
	card, err := s.getCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.Status == models.CardCanceled {
		return nil, errs.New(errs.KindConflict, "card is canceled; no further updates are permitted")
	}

	card.Limit = limit
	card.UpdatedAt = s.clock.Now()
	updated, err := s.cards.UpdateCard(ctx, card)
	if err != nil {
		if errors.Is(err, storage.ErrVersionConflict) {
			return nil, errs.Wrap(errs.KindConflict, "card was modified concurrently", err)
		}
		return nil, errs.Wrap(errs.KindExternal, "failed to update card", err)
	}
	return updated, nil
}

// SecretsPermitted reports whether secret retrieval and PIN operations are
// allowed for the card. Only cancellation revokes them.
func (s *Service) SecretsPermitted(ctx context.Context, cardID string) error {
	card, err := s.getCard(ctx, cardID)
	if err != nil {
		return err
	}
	if card.Status == models.CardCanceled {
		return errs.New(errs.KindConflict, "card is canceled; secret and PIN operations are rejected")
	}
	return nil
}

func (s *Service) getCard(ctx context.Context, cardID string) (*models.Card, error) {
	card, err := s.cards.GetCard(ctx, cardID)
	if err != nil {
		if errors.Is(err, storage.ErrCardNotFound) {
			return nil, errs.Wrap(errs.KindNotFound, fmt.Sprintf("card %s not found", cardID), err)
		}
		return nil, errs.Wrap(errs.KindExternal, "failed to load card", err)
	}
	return card, nil
}

func randomLast4() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d%d%d%d", b[0]%10, b[1]%10, b[2]%10, b[3]%10), nil
}
