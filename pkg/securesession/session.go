// Package securesession implements the handshake used to fetch a card's
// full number, CVC, and PIN without the service ever seeing the caller's
// secret and without the card data crossing the wire in clear.
//
// The caller picks a secret, encrypts it with the service's published
// per-environment public key to form an opaque SessionId, and sends that as
// a request header. The service responds with each field as an (iv, data)
// pair, which the session decrypts locally under a key derived from the
// secret. Only the caller ever holds the decryption capability: a
// server-side compromise yields ciphertext only.
package securesession

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"time"

	"golang.org/x/crypto/hkdf"

	"github.com/yezz123/rain-go/pkg/clock"
	"github.com/yezz123/rain-go/pkg/config"
	"github.com/yezz123/rain-go/pkg/errs"
	"github.com/yezz123/rain-go/pkg/models"
)

// MinSecretLen is the shortest secret a session accepts.
const MinSecretLen = 16

// SessionKeyLen is the length of the derived symmetric key, in bytes.
const SessionKeyLen = 32

// hkdfInfo binds derived keys to this protocol.
var hkdfInfo = []byte("rain card secrets v1")

// Session holds a caller secret, the SessionId proving possession of it,
// and the derived symmetric key. Sessions are never persisted; the secret
// lives only in the caller's memory for the life of the session.
type Session struct {
	env       config.Environment
	id        string
	key       []byte
	cipher    FieldCipher
	clock     clock.Clock
	expiresAt time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithCipher swaps the symmetric cipher used for field encryption. The
// default is AES-256-CBC with PKCS#7 padding; confirm against the live
// service before changing it.
func WithCipher(c FieldCipher) Option {
	return func(s *Session) { s.cipher = c }
}

// WithExpiry bounds the session's useful lifetime. The protocol itself is a
// single round trip; expiry is purely caller-side bookkeeping.
func WithExpiry(clk clock.Clock, ttl time.Duration) Option {
	return func(s *Session) {
		s.clock = clk
		s.expiresAt = clk.Now().Add(ttl)
	}
}

// New creates a session for the given environment: it selects that
// environment's published public key — explicitly, never inferred — and
// encrypts the secret with RSA-OAEP to produce the SessionId.
func New(env config.Environment, secret []byte, opts ...Option) (*Session, error) {
	pub, err := env.PublicKey()
	if err != nil {
		return nil, err
	}
	s, err := newWithKey(pub, secret, opts...)
	if err != nil {
		return nil, err
	}
	s.env = env
	return s, nil
}

// NewWithKey creates a session against an explicitly supplied public key,
// for self-hosted or test deployments. The session carries no environment
// and cannot be cross-checked against a client environment.
func NewWithKey(pub *rsa.PublicKey, secret []byte, opts ...Option) (*Session, error) {
	return newWithKey(pub, secret, opts...)
}

func newWithKey(pub *rsa.PublicKey, secret []byte, opts ...Option) (*Session, error) {
	if len(secret) < MinSecretLen {
		return nil, errs.New(errs.KindValidation, "session secret must be at least 16 bytes")
	}

	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, secret, nil)
	if err != nil {
		return nil, errs.Wrap(errs.KindCrypto, "failed to encrypt session secret", err)
	}

	key, err := deriveKey(secret)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:     base64.StdEncoding.EncodeToString(ciphertext),
		key:    key,
		cipher: CBCCipher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GenerateSecret returns a fresh random session secret.
func GenerateSecret() ([]byte, error) {
	secret := make([]byte, SessionKeyLen)
	if _, err := rand.Read(secret); err != nil {
		return nil, errs.Wrap(errs.KindCrypto, "failed to generate session secret", err)
	}
	return secret, nil
}

// ID returns the opaque SessionId sent as a request header.
func (s *Session) ID() string { return s.id }

// Environment returns the environment the session was created for, or the
// empty string for key-supplied sessions.
func (s *Session) Environment() config.Environment { return s.env }

// Expired reports whether a WithExpiry session has outlived its TTL.
// Sessions without expiry never expire.
func (s *Session) Expired() bool {
	if s.clock == nil || s.expiresAt.IsZero() {
		return false
	}
	return s.clock.Now().After(s.expiresAt)
}

// DecryptField decrypts one encrypted field from a secrets response. Any
// failure — malformed base64, bad IV, tampered ciphertext, mismatched
// secret — is fatal to the retrieval; no partial plaintext is returned.
func (s *Session) DecryptField(field models.EncryptedField) ([]byte, error) {
	if s.Expired() {
		return nil, errs.New(errs.KindCrypto, "session has expired")
	}
	iv, err := base64.StdEncoding.DecodeString(field.IV)
	if err != nil {
		return nil, errs.Wrap(errs.KindCrypto, "malformed field IV", err)
	}
	data, err := base64.StdEncoding.DecodeString(field.Data)
	if err != nil {
		return nil, errs.Wrap(errs.KindCrypto, "malformed field ciphertext", err)
	}
	return s.cipher.Decrypt(s.key, iv, data)
}

// EncryptField encrypts a value under the session key, producing the
// (iv, data) pair the PIN update endpoint expects.
func (s *Session) EncryptField(plaintext []byte) (models.EncryptedField, error) {
	if s.Expired() {
		return models.EncryptedField{}, errs.New(errs.KindCrypto, "session has expired")
	}
	iv, ciphertext, err := s.cipher.Encrypt(s.key, plaintext)
	if err != nil {
		return models.EncryptedField{}, err
	}
	return models.EncryptedField{
		IV:   base64.StdEncoding.EncodeToString(iv),
		Data: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

// deriveKey stretches the caller secret into the symmetric session key.
func deriveKey(secret []byte) ([]byte, error) {
	key := make([]byte, SessionKeyLen)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, hkdfInfo), key); err != nil {
		return nil, errs.Wrap(errs.KindCrypto, "failed to derive session key", err)
	}
	return key, nil
}
