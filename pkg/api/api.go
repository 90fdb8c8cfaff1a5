// Package api defines the wire types exchanged with the card issuing API.
// Field names follow the camelCase JSON convention of the issuing endpoints.
package api

import "time"

// CardStatus defines the lifecycle states a card reports over the wire.
type CardStatus string

const (
	CardNotActivated CardStatus = "notActivated"
	CardActive       CardStatus = "active"
	CardLocked       CardStatus = "locked"
	CardCanceled     CardStatus = "canceled"
)

// CardType distinguishes virtual cards from physical ones.
type CardType string

const (
	CardTypeVirtual  CardType = "virtual"
	CardTypePhysical CardType = "physical"
)

// ShippingMethod defines how a physical card is delivered.
type ShippingMethod string

const (
	ShippingStandard          ShippingMethod = "standard"
	ShippingExpress           ShippingMethod = "express"
	ShippingInternational     ShippingMethod = "international"
	ShippingAPC               ShippingMethod = "apc"
	ShippingUSPSInternational ShippingMethod = "uspsInternational"
)

// Address is a postal address.
type Address struct {
	Line1       string `json:"line1"`
	Line2       string `json:"line2,omitempty"`
	City        string `json:"city"`
	Region      string `json:"region,omitempty"`
	PostalCode  string `json:"postalCode"`
	CountryCode string `json:"countryCode"`
}

// ShippingAddress carries the delivery details for a physical card.
type ShippingAddress struct {
	Line1       string         `json:"line1"`
	Line2       string         `json:"line2,omitempty"`
	City        string         `json:"city"`
	Region      string         `json:"region,omitempty"`
	PostalCode  string         `json:"postalCode"`
	CountryCode string         `json:"countryCode"`
	PhoneNumber string         `json:"phoneNumber"`
	Method      ShippingMethod `json:"method,omitempty"`
	FirstName   string         `json:"firstName,omitempty"`
	LastName    string         `json:"lastName,omitempty"`
}

// CardConfiguration holds optional presentation settings for a new card.
type CardConfiguration struct {
	DisplayName string `json:"displayName,omitempty"`
}

// CreateCardRequest is the body for issuing a card to a user.
type CreateCardRequest struct {
	Type                CardType           `json:"type"`
	Status              CardStatus         `json:"status,omitempty"`
	Limit               int64              `json:"limit,omitempty"`
	Configuration       *CardConfiguration `json:"configuration,omitempty"`
	Shipping            *ShippingAddress   `json:"shipping,omitempty"`
	BulkShippingGroupID string             `json:"bulkShippingGroupId,omitempty"`
}

// UpdateCardRequest is the body for mutating an existing card. Zero-valued
// fields are left unchanged. The bulk shipping group is absent on purpose:
// group membership is fixed at creation.
type UpdateCardRequest struct {
	Status CardStatus `json:"status,omitempty"`
	Limit  *int64     `json:"limit,omitempty"`
}

// Card is the wire representation of an issued card.
type Card struct {
	ID                  string     `json:"id"`
	UserID              string     `json:"userId"`
	Type                CardType   `json:"type"`
	Status              CardStatus `json:"status"`
	Limit               int64      `json:"limit"`
	DisplayName         string     `json:"displayName,omitempty"`
	Last4               string     `json:"last4"`
	ExpirationMonth     string     `json:"expirationMonth"`
	ExpirationYear      string     `json:"expirationYear"`
	BulkShippingGroupID string     `json:"bulkShippingGroupId,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// EncryptedData is an (initialization vector, ciphertext) pair. Both halves
// are base64 encoded.
type EncryptedData struct {
	IV   string `json:"iv"`
	Data string `json:"data"`
}

// CardSecrets carries the encrypted PAN and CVC for a card. Fields are
// encrypted under the session key negotiated via the SessionId header.
type CardSecrets struct {
	EncryptedPAN EncryptedData `json:"encryptedPan"`
	EncryptedCVC EncryptedData `json:"encryptedCvc"`
}

// CardPIN carries a card's encrypted PIN.
type CardPIN struct {
	EncryptedPIN EncryptedData `json:"encryptedPin"`
}

// UpdateCardPINRequest is the body for setting a card's PIN. The PIN is
// encrypted client-side under the session key before transmission.
type UpdateCardPINRequest struct {
	EncryptedPIN EncryptedData `json:"encryptedPin"`
}

// ShippingGroup is the wire representation of a bulk shipping group.
type ShippingGroup struct {
	ID                        string  `json:"id"`
	RecipientFirstName        string  `json:"recipientFirstName"`
	RecipientLastName         string  `json:"recipientLastName,omitempty"`
	RecipientPhoneCountryCode string  `json:"recipientPhoneCountryCode,omitempty"`
	RecipientPhoneNumber      string  `json:"recipientPhoneNumber,omitempty"`
	Address                   Address `json:"address"`
}

// CreateShippingGroupRequest is the body for registering a shipping group.
type CreateShippingGroupRequest struct {
	RecipientFirstName        string  `json:"recipientFirstName"`
	RecipientLastName         string  `json:"recipientLastName,omitempty"`
	RecipientPhoneCountryCode string  `json:"recipientPhoneCountryCode,omitempty"`
	RecipientPhoneNumber      string  `json:"recipientPhoneNumber,omitempty"`
	Address                   Address `json:"address"`
}

// ListCardsParams are the query parameters accepted when listing cards.
// Zero-valued fields are omitted from the query string.
type ListCardsParams struct {
	UserID string
	Status CardStatus
	Cursor string
	Limit  int
}

// ListShippingGroupsParams are the query parameters accepted when listing
// shipping groups.
type ListShippingGroupsParams struct {
	Cursor string
	Limit  int
}

// Error is the error envelope returned by the issuing API.
type Error struct {
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
