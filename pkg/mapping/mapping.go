package mapping

import (
	"github.com/yezz123/rain-go/pkg/api"
	"github.com/yezz123/rain-go/pkg/models"
)

// ToApiCard converts a domain Card model to an API Card model.
func ToApiCard(card *models.Card) *api.Card {
	return &api.Card{
		ID:                  card.ID,
		UserID:              card.UserID,
		Type:                api.CardType(card.Type),
		Status:              api.CardStatus(card.Status),
		Limit:               card.Limit,
		DisplayName:         card.DisplayName,
		Last4:               card.Last4,
		ExpirationMonth:     card.ExpirationMonth,
		ExpirationYear:      card.ExpirationYear,
		BulkShippingGroupID: card.BulkShippingGroupID,
		CreatedAt:           card.CreatedAt,
		UpdatedAt:           card.UpdatedAt,
	}
}

// ToDomainCard converts an API Card model to a domain Card model.
func ToDomainCard(card *api.Card) *models.Card {
	return &models.Card{
		ID:                  card.ID,
		UserID:              card.UserID,
		Type:                models.CardType(card.Type),
		Status:              models.CardStatus(card.Status),
		Limit:               card.Limit,
		DisplayName:         card.DisplayName,
		Last4:               card.Last4,
		ExpirationMonth:     card.ExpirationMonth,
		ExpirationYear:      card.ExpirationYear,
		BulkShippingGroupID: card.BulkShippingGroupID,
		CreatedAt:           card.CreatedAt,
		UpdatedAt:           card.UpdatedAt,
	}
}

// ToDomainShipping converts an API ShippingAddress to domain ShippingDetails.
func ToDomainShipping(addr *api.ShippingAddress) *models.ShippingDetails {
	if addr == nil {
		return nil
	}
	return &models.ShippingDetails{
		Address: models.Address{
			Line1:       addr.Line1,
			Line2:       addr.Line2,
			City:        addr.City,
			Region:      addr.Region,
			PostalCode:  addr.PostalCode,
			CountryCode: addr.CountryCode,
		},
		PhoneNumber: addr.PhoneNumber,
		Method:      models.ShippingMethod(addr.Method),
		FirstName:   addr.FirstName,
		LastName:    addr.LastName,
	}
}

// ToApiShippingGroup converts a domain ShippingGroup model to an API model.
func ToApiShippingGroup(group *models.ShippingGroup) *api.ShippingGroup {
	return &api.ShippingGroup{
		ID:                        group.ID,
		RecipientFirstName:        group.RecipientFirstName,
		RecipientLastName:         group.RecipientLastName,
		RecipientPhoneCountryCode: group.PhoneCountryCode,
		RecipientPhoneNumber:      group.PhoneNumber,
		Address:                   api.Address(group.Address),
	}
}

// ToDomainNewShippingGroup converts a group creation request to a domain
// ShippingGroup model. The caller assigns the ID and creation time.
func ToDomainNewShippingGroup(req *api.CreateShippingGroupRequest) *models.ShippingGroup {
	return &models.ShippingGroup{
		RecipientFirstName: req.RecipientFirstName,
		RecipientLastName:  req.RecipientLastName,
		PhoneCountryCode:   req.RecipientPhoneCountryCode,
		PhoneNumber:        req.RecipientPhoneNumber,
		Address:            models.Address(req.Address),
	}
}

// ToDomainEncryptedField converts an API EncryptedData pair to the domain
// EncryptedField model.
func ToDomainEncryptedField(data api.EncryptedData) models.EncryptedField {
	return models.EncryptedField{IV: data.IV, Data: data.Data}
}

// ToApiEncryptedData converts a domain EncryptedField to its wire form.
func ToApiEncryptedData(field models.EncryptedField) api.EncryptedData {
	return api.EncryptedData{IV: field.IV, Data: field.Data}
}
