package models

import (
	"time"
)

// CardStatus defines the possible states of a card.
// Values match the wire representation used by the issuing API.
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
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
	// ShippingInternational is the DHL-class international method. Addresses
	// shipped this way are restricted to Latin characters, numbers, and basic
	// punctuation.
	ShippingInternational     ShippingMethod = "international"
	ShippingAPC               ShippingMethod = "apc"
	ShippingUSPSInternational ShippingMethod = "uspsInternational"
)

// Card represents the internal domain model for an issued card.
// It includes dynamodbav tags for marshalling.
type Card struct {
	ID              string     `json:"id" dynamodbav:"id"`
	UserID          string     `json:"userId" dynamodbav:"user_id"`
	Type            CardType   `json:"type" dynamodbav:"card_type"`
	Status          CardStatus `json:"status" dynamodbav:"status"`
	Limit           int64      `json:"limit" dynamodbav:"spend_limit"`
	DisplayName     string     `json:"displayName,omitempty" dynamodbav:"display_name,omitempty"`
	Last4           string     `json:"last4" dynamodbav:"last4"`
	ExpirationMonth string     `json:"expirationMonth" dynamodbav:"expiration_month"`
	ExpirationYear  string     `json:"expirationYear" dynamodbav:"expiration_year"`
	// BulkShippingGroupID is set at creation time only. There is no update
	// path for it anywhere in the module.
	BulkShippingGroupID string    `json:"bulkShippingGroupId,omitempty" dynamodbav:"bulk_shipping_group_id,omitempty"`
	Version             int64     `json:"version" dynamodbav:"version"`
	CreatedAt           time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt           time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

// ChargeEvent represents a single charge recorded against a card.
// Events are immutable once recorded and are never deleted; they age out of
// the rolling limit window by time alone.
type ChargeEvent struct {
	ID        string    `json:"id" dynamodbav:"id"`
	CardID    string    `json:"cardId" dynamodbav:"card_id"`
	Amount    int64     `json:"amount" dynamodbav:"amount"`
	Timestamp time.Time `json:"timestamp" dynamodbav:"timestamp"`
}

// Address is a postal address.
type Address struct {
	Line1       string `json:"line1" dynamodbav:"line1"`
	Line2       string `json:"line2,omitempty" dynamodbav:"line2,omitempty"`
	City        string `json:"city" dynamodbav:"city"`
	Region      string `json:"region,omitempty" dynamodbav:"region,omitempty"`
	PostalCode  string `json:"postalCode" dynamodbav:"postal_code"`
	CountryCode string `json:"countryCode" dynamodbav:"country_code"`
}

// ShippingDetails carries the delivery information required when issuing a
// physical card.
type ShippingDetails struct {
	Address     Address        `json:"address" dynamodbav:"address"`
	PhoneNumber string         `json:"phoneNumber" dynamodbav:"phone_number"`
	Method      ShippingMethod `json:"method,omitempty" dynamodbav:"method,omitempty"`
	FirstName   string         `json:"firstName,omitempty" dynamodbav:"first_name,omitempty"`
	LastName    string         `json:"lastName,omitempty" dynamodbav:"last_name,omitempty"`
}

// ShippingGroup is a caller-defined label that consolidates physical cards
// into one shipment. Cards reference the group by ID; the group does not own
// its cards.
type ShippingGroup struct {
	ID                 string    `json:"id" dynamodbav:"id"`
	RecipientFirstName string    `json:"recipientFirstName" dynamodbav:"recipient_first_name"`
	RecipientLastName  string    `json:"recipientLastName,omitempty" dynamodbav:"recipient_last_name,omitempty"`
	PhoneCountryCode   string    `json:"recipientPhoneCountryCode,omitempty" dynamodbav:"phone_country_code,omitempty"`
	PhoneNumber        string    `json:"recipientPhoneNumber,omitempty" dynamodbav:"phone_number,omitempty"`
	Address            Address   `json:"address" dynamodbav:"address"`
	CreatedAt          time.Time `json:"createdAt" dynamodbav:"created_at"`
}

// ShipmentBatch is a derived grouping of physical cards that ship together:
// the cards share a bulk shipping group and fall inside the same cutoff
// window. It is recomputable from the cards themselves and is only persisted
// for idempotent re-querying by the dispatch pipeline.
type ShipmentBatch struct {
	ID      string    `json:"id" dynamodbav:"id"`
	GroupID string    `json:"groupId,omitempty" dynamodbav:"group_id,omitempty"`
	Cutoff  time.Time `json:"cutoff" dynamodbav:"cutoff"`
	CardIDs []string  `json:"cardIds" dynamodbav:"card_ids"`
	// Bulk reports whether the batch qualifies as a bulk shipment (two or
	// more cards sharing a group). Singleton batches ship individually.
	Bulk bool `json:"bulk" dynamodbav:"bulk"`
}

// EncryptedField is an (initialization vector, ciphertext) pair as returned
// by the card secrets endpoints. Both halves are base64 encoded.
type EncryptedField struct {
	IV   string `json:"iv"`
	Data string `json:"data"`
}

// ApplicationStatus values reported by the compliance subsystem for a user.
const (
	ApplicationApproved = "approved"
	ApplicationPending  = "pending"
	ApplicationDenied   = "denied"
)
