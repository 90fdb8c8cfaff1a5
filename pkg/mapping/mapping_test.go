package mapping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yezz123/rain-go/pkg/api"
	"github.com/yezz123/rain-go/pkg/models"
)

func TestCardMapping(t *testing.T) {
	created := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	domain := &models.Card{
		ID:                  "card-1",
		UserID:              "user-1",
		Type:                models.CardTypePhysical,
		Status:              models.CardNotActivated,
		Limit:               10000,
		DisplayName:         "Ada Lovelace",
		Last4:               "4242",
		ExpirationMonth:     "03",
		ExpirationYear:      "2028",
		BulkShippingGroupID: "group-1",
		Version:             3,
		CreatedAt:           created,
		UpdatedAt:           created,
	}

	wire := ToApiCard(domain)
	assert.Equal(t, api.CardTypePhysical, wire.Type)
	assert.Equal(t, api.CardNotActivated, wire.Status)
	assert.Equal(t, "group-1", wire.BulkShippingGroupID)

	// The wire form drops the storage version; everything else survives the
	// round trip.
	back := ToDomainCard(wire)
	domain.Version = 0
	assert.Equal(t, domain, back)
}

func TestShippingMapping(t *testing.T) {
	t.Run("Shipping Address", func(t *testing.T) {
		details := ToDomainShipping(&api.ShippingAddress{
			Line1:       "1 Main St",
			City:        "Springfield",
			PostalCode:  "12345",
			CountryCode: "US",
			PhoneNumber: "+15551234567",
			Method:      api.ShippingInternational,
			FirstName:   "Ada",
		})
		assert.Equal(t, models.ShippingInternational, details.Method)
		assert.Equal(t, "1 Main St", details.Address.Line1)
		assert.Equal(t, "Ada", details.FirstName)
	})

	t.Run("Nil Shipping Address", func(t *testing.T) {
		assert.Nil(t, ToDomainShipping(nil))
	})

	t.Run("Shipping Group Round Trip", func(t *testing.T) {
		req := &api.CreateShippingGroupRequest{
			RecipientFirstName:   "Ada",
			RecipientPhoneNumber: "+15551234567",
			Address:              api.Address{Line1: "1 Main St", City: "Springfield", PostalCode: "12345", CountryCode: "US"},
		}

		group := ToDomainNewShippingGroup(req)
		group.ID = "group-1"

		wire := ToApiShippingGroup(group)
		assert.Equal(t, "group-1", wire.ID)
		assert.Equal(t, req.RecipientFirstName, wire.RecipientFirstName)
		assert.Equal(t, req.RecipientPhoneNumber, wire.RecipientPhoneNumber)
		assert.Equal(t, req.Address, wire.Address)
	})
}
