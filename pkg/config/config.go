// Package config holds process-wide read-only configuration for the issuing
// API: per-environment base URLs and the published key material used by the
// secure session protocol. The environment is always an explicit parameter,
// never inferred, so development keys cannot leak into production requests.
package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/yezz123/rain-go/pkg/errs"
)

// Environment selects which deployment of the issuing API the module talks
// to. Development and production publish different key material and the two
// must never be cross-used.
type Environment string

const (
	Dev        Environment = "dev"
	Production Environment = "production"
)

const (
	devBaseURL        = "https://api-dev.raincards.xyz/v1/issuing"
	productionBaseURL = "https://api.raincards.xyz/v1/issuing"
)

// devPublicKeyPEM is the published development encryption key.
const devPublicKeyPEM = `-----BEGIN PUBLIC KEY-----
MIIBIjANBgkqhkiG9w0BAQEFAAOCAQ8AMIIBCgKCAQEAqIKhHXIq3HfjoMVvoY/g
S3j/v/c+gli+3PWcjsxlkQ6HbjDzSlz69ZHLzkOOOJGC0tPYZnhOsXftrrmp28ja
Uv3kdZ5c92YqCdSOTmDt1rf5AmjjJL34XAHHYBiSFgCzHENvEwcQEYgng1fDabL7
MMyM4hn8HtTMycMfk/pQF+lX+bXj23Nz7bkz7VrkZhPmkjR8UjKZkhQiAVwhfG5h
igoA7yq32HAzCcTCgcX/WR61slZ96Wb0M/HYC3+bSWZCRRtcnSHcHNUsIUobqsR0
lpp2BtBMoq7g7TPdZFS5XQiL44gbwypNO2lvA+kSAs5TsKfS43P9zoxXvOzRYHPZ
PQIDAQAB
-----END PUBLIC KEY-----`

// productionPublicKeyPEM is the published production encryption key.
const productionPublicKeyPEM = `-----BEGIN PUBLIC KEY-----
MIIBIjANBgkqhkiG9w0BAQEFAAOCAQ8AMIIBCgKCAQEAjgWyw3JLaS0mpOM9CAs0
3XWIR3n12K28kTPWrc3+dZtyMSLFINtyG6MeaOQLHyBjokbbGkD5DQ/j5LDzLwCO
qSvzY8cello2ZbEM+M+UyB7ddYe4Ph7CmARQqn8CPgB9dIg0UTS4JqfYzOJ/v6q8
QkrCVsG+IlYcxgwJVpYBKOjTJWb1q8A2lzTaU/z8e4ZdzyT6XVwHEyhmQq1hGnqG
yK1Mj20Dlb0ILs5UfQcijypgC9htFMwt270pcZh1Et/2me4V1hV6mCD8A4WdElFk
P6b5tB1kOiK/EzrxHakAX2R9uIiLM2RmcMM9IDDAb9Ffz9EhP/xwhIbvpYUe7icM
HQIDAQAB
-----END PUBLIC KEY-----`

// Valid reports whether e names a known environment.
func (e Environment) Valid() bool {
	return e == Dev || e == Production
}

// BaseURL returns the API base URL for the environment.
func (e Environment) BaseURL() (string, error) {
	switch e {
	case Dev:
		return devBaseURL, nil
	case Production:
		return productionBaseURL, nil
	default:
		return "", errs.New(errs.KindValidation, fmt.Sprintf("unknown environment %q", string(e)))
	}
}

// PublicKey returns the published encryption key for the environment.
func (e Environment) PublicKey() (*rsa.PublicKey, error) {
	var pemText string
	switch e {
	case Dev:
		pemText = devPublicKeyPEM
	case Production:
		pemText = productionPublicKeyPEM
	default:
		return nil, errs.New(errs.KindCrypto, fmt.Sprintf("no published key for environment %q", string(e)))
	}
	return parsePublicKey(pemText)
}

func parsePublicKey(pemText string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, errs.New(errs.KindCrypto, "published key is not valid PEM")
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, errs.Wrap(errs.KindCrypto, "failed to parse published key", err)
	}
	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, errs.New(errs.KindCrypto, "published key is not an RSA key")
	}
	return rsaKey, nil
}
