package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yezz123/rain-go/pkg/errs"
)

// MaxDisplayNameLen is the longest display name the card personalization
// pipeline accepts.
const MaxDisplayNameLen = 26

var (
	displayNameRe = regexp.MustCompile(`^[A-Za-z0-9 .-]+$`)
	// latinAddressRe covers the character set DHL-class international
	// shipping accepts: Latin letters, digits, and basic punctuation.
	latinAddressRe = regexp.MustCompile(`^[A-Za-z0-9 .,'#/&()-]*$`)
)

// ValidateDisplayName checks the personalization constraints for a card's
// display name: at most 26 characters, alphanumerics, spaces, periods, and
// hyphens only.
func ValidateDisplayName(name string) error {
	if name == "" {
		return errs.New(errs.KindValidation, "display name must not be empty")
	}
	if len(name) > MaxDisplayNameLen {
		return errs.New(errs.KindValidation,
			fmt.Sprintf("display name must be at most %d characters, got %d", MaxDisplayNameLen, len(name)))
	}
	if !displayNameRe.MatchString(name) {
		return errs.New(errs.KindValidation,
			"display name may only contain letters, numbers, spaces, periods, and hyphens")
	}
	return nil
}

// DeriveDisplayName builds a display name from a user's full name by
// stripping disallowed characters and truncating to the maximum length.
func DeriveDisplayName(fullName string) string {
	var b strings.Builder
	for _, r := range fullName {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	name := strings.Join(strings.Fields(b.String()), " ")
	if len(name) > MaxDisplayNameLen {
		name = strings.TrimRight(name[:MaxDisplayNameLen], " ")
	}
	return name
}

// ValidateShipping checks the delivery details for a physical card. The
// international method restricts the address to the Latin character set;
// every other method accepts any characters.
func ValidateShipping(s *ShippingDetails) error {
	if s == nil {
		return errs.New(errs.KindValidation, "shipping details are required for a physical card")
	}
	if s.Address.Line1 == "" || s.Address.City == "" || s.Address.PostalCode == "" || s.Address.CountryCode == "" {
		return errs.New(errs.KindValidation, "shipping address must include line1, city, postal code, and country code")
	}
	if s.PhoneNumber == "" {
		return errs.New(errs.KindValidation, "shipping phone number is required")
	}
	if s.Method == ShippingInternational {
		for _, field := range []string{s.Address.Line1, s.Address.Line2, s.Address.City, s.Address.Region, s.FirstName, s.LastName} {
			if !latinAddressRe.MatchString(field) {
				return errs.New(errs.KindValidation,
					"international shipping addresses may only contain Latin characters, numbers, and basic punctuation")
			}
		}
	}
	return nil
}
