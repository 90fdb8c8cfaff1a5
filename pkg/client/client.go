// Package client provides an HTTP client for the card issuing API. All
// requests carry the caller's API key; card secret operations additionally
// carry an encrypted session identifier so sensitive fields never cross the
// wire in the clear.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/yezz123/rain-go/pkg/api"
	"github.com/yezz123/rain-go/pkg/config"
	"github.com/yezz123/rain-go/pkg/errs"
	"github.com/yezz123/rain-go/pkg/mapping"
	"github.com/yezz123/rain-go/pkg/securesession"
)

const (
	apiKeyHeader    = "Api-Key"
	sessionIDHeader = "SessionId"

	defaultTimeout = 30 * time.Second
)

// Client is an HTTP client for the issuing API.
type Client struct {
	env        config.Environment
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the environment-derived base URL. Intended for
// pointing the client at a local or mock server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// New creates a Client for the given environment, authenticated by apiKey.
func New(env config.Environment, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errs.New(errs.KindValidation, "api key is required")
	}
	baseURL, err := env.BaseURL()
	if err != nil {
		return nil, err
	}

	c := &Client{
		env:        env,
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Environment reports the environment the client targets.
func (c *Client) Environment() config.Environment { return c.env }

// APIError is a non-2xx response from the issuing API.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
	}
	if e.Code != "" {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("api error (status %d)", e.StatusCode)
}

// CreateUserCard issues a new card to the given user.
func (c *Client) CreateUserCard(ctx context.Context, userID string, req *api.CreateCardRequest) (*api.Card, error) {
	var card api.Card
	path := fmt.Sprintf("/users/%s/cards", url.PathEscape(userID))
	if err := c.do(ctx, http.MethodPost, path, nil, req, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// GetCard retrieves a card by its ID.
func (c *Client) GetCard(ctx context.Context, cardID string) (*api.Card, error) {
	var card api.Card
	path := fmt.Sprintf("/cards/%s", url.PathEscape(cardID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// ListCards retrieves cards matching the given filter parameters.
func (c *Client) ListCards(ctx context.Context, params *api.ListCardsParams) ([]api.Card, error) {
	path := "/cards"
	if params != nil {
		query := url.Values{}
		if params.UserID != "" {
			query.Set("userId", params.UserID)
		}
		if params.Status != "" {
			query.Set("status", string(params.Status))
		}
		if params.Cursor != "" {
			query.Set("cursor", params.Cursor)
		}
		if params.Limit > 0 {
			query.Set("limit", strconv.Itoa(params.Limit))
		}
		if encoded := query.Encode(); encoded != "" {
			path += "?" + encoded
		}
	}

	var cards []api.Card
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// UpdateCard applies a partial update to a card.
func (c *Client) UpdateCard(ctx context.Context, cardID string, req *api.UpdateCardRequest) (*api.Card, error) {
	var card api.Card
	path := fmt.Sprintf("/cards/%s", url.PathEscape(cardID))
	if err := c.do(ctx, http.MethodPatch, path, nil, req, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// GetCardSecrets retrieves a card's encrypted PAN and CVC. The fields remain
// encrypted under the session key; use RevealCardSecrets to decrypt them.
func (c *Client) GetCardSecrets(ctx context.Context, cardID string, session *securesession.Session) (*api.CardSecrets, error) {
	if err := c.checkSecretAccess(ctx, cardID, session); err != nil {
		return nil, err
	}

	var secrets api.CardSecrets
	path := fmt.Sprintf("/cards/%s/secrets", url.PathEscape(cardID))
	headers := map[string]string{sessionIDHeader: session.ID()}
	if err := c.do(ctx, http.MethodGet, path, headers, nil, &secrets); err != nil {
		return nil, err
	}
	return &secrets, nil
}

// RevealCardSecrets retrieves and decrypts a card's PAN and CVC.
func (c *Client) RevealCardSecrets(ctx context.Context, cardID string, session *securesession.Session) (pan, cvc string, err error) {
	secrets, err := c.GetCardSecrets(ctx, cardID, session)
	if err != nil {
		return "", "", err
	}

	panBytes, err := session.DecryptField(mapping.ToDomainEncryptedField(secrets.EncryptedPAN))
	if err != nil {
		return "", "", fmt.Errorf("failed to decrypt pan: %w", err)
	}
	cvcBytes, err := session.DecryptField(mapping.ToDomainEncryptedField(secrets.EncryptedCVC))
	if err != nil {
		return "", "", fmt.Errorf("failed to decrypt cvc: %w", err)
	}
	return string(panBytes), string(cvcBytes), nil
}

// GetCardPIN retrieves a card's encrypted PIN.
func (c *Client) GetCardPIN(ctx context.Context, cardID string, session *securesession.Session) (*api.CardPIN, error) {
	if err := c.checkSecretAccess(ctx, cardID, session); err != nil {
		return nil, err
	}

	var pin api.CardPIN
	path := fmt.Sprintf("/cards/%s/pin", url.PathEscape(cardID))
	headers := map[string]string{sessionIDHeader: session.ID()}
	if err := c.do(ctx, http.MethodGet, path, headers, nil, &pin); err != nil {
		return nil, err
	}
	return &pin, nil
}

// RevealCardPIN retrieves and decrypts a card's PIN.
func (c *Client) RevealCardPIN(ctx context.Context, cardID string, session *securesession.Session) (string, error) {
	pin, err := c.GetCardPIN(ctx, cardID, session)
	if err != nil {
		return "", err
	}

	pinBytes, err := session.DecryptField(mapping.ToDomainEncryptedField(pin.EncryptedPIN))
	if err != nil {
		return "", fmt.Errorf("failed to decrypt pin: %w", err)
	}
	return string(pinBytes), nil
}

// UpdateCardPIN encrypts the given PIN under the session key and submits it.
// The plaintext PIN never leaves the process.
func (c *Client) UpdateCardPIN(ctx context.Context, cardID string, session *securesession.Session, pin string) error {
	if err := c.checkSecretAccess(ctx, cardID, session); err != nil {
		return err
	}

	encrypted, err := session.EncryptField([]byte(pin))
	if err != nil {
		return fmt.Errorf("failed to encrypt pin: %w", err)
	}

	req := &api.UpdateCardPINRequest{EncryptedPIN: mapping.ToApiEncryptedData(encrypted)}
	path := fmt.Sprintf("/cards/%s/pin", url.PathEscape(cardID))
	headers := map[string]string{sessionIDHeader: session.ID()}
	return c.do(ctx, http.MethodPut, path, headers, req, nil)
}

// CreateShippingGroup registers a bulk shipping group.
func (c *Client) CreateShippingGroup(ctx context.Context, req *api.CreateShippingGroupRequest) (*api.ShippingGroup, error) {
	var group api.ShippingGroup
	if err := c.do(ctx, http.MethodPost, "/shipping-groups", nil, req, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// GetShippingGroup retrieves a shipping group by its ID.
func (c *Client) GetShippingGroup(ctx context.Context, groupID string) (*api.ShippingGroup, error) {
	var group api.ShippingGroup
	path := fmt.Sprintf("/shipping-groups/%s", url.PathEscape(groupID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// ListShippingGroups retrieves shipping groups, paginated by cursor.
func (c *Client) ListShippingGroups(ctx context.Context, params *api.ListShippingGroupsParams) ([]api.ShippingGroup, error) {
	path := "/shipping-groups"
	if params != nil {
		query := url.Values{}
		if params.Cursor != "" {
			query.Set("cursor", params.Cursor)
		}
		if params.Limit > 0 {
			query.Set("limit", strconv.Itoa(params.Limit))
		}
		if encoded := query.Encode(); encoded != "" {
			path += "?" + encoded
		}
	}

	var groups []api.ShippingGroup
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// checkSecretAccess gates the secret and PIN endpoints: the session must be
// usable and the card must not be canceled. A canceled card's secrets are
// gone for good, so the lookup saves the caller a doomed SessionId exchange.
func (c *Client) checkSecretAccess(ctx context.Context, cardID string, session *securesession.Session) error {
	if err := c.checkSession(session); err != nil {
		return err
	}

	card, err := c.GetCard(ctx, cardID)
	if err != nil {
		return err
	}
	if card.Status == api.CardCanceled {
		return errs.New(errs.KindConflict, fmt.Sprintf("card %s is canceled", cardID))
	}
	return nil
}

// checkSession rejects unusable sessions before any bytes hit the wire. A
// session bound to a different environment's public key can never be opened
// by this environment's servers, so sending it would only leak the attempt.
func (c *Client) checkSession(session *securesession.Session) error {
	if session == nil {
		return errs.New(errs.KindValidation, "session is required")
	}
	if session.Expired() {
		return errs.New(errs.KindCrypto, "session has expired")
	}
	if env := session.Environment(); env != "" && env != c.env {
		return errs.New(errs.KindCrypto,
			fmt.Sprintf("session was created for environment %q, client targets %q", env, c.env))
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.Wrap(errs.KindExternal, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Wrap(errs.KindExternal, "failed to decode response body", err)
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && len(raw) > 0 {
		var envelope api.Error
		if json.Unmarshal(raw, &envelope) == nil {
			apiErr.Message = envelope.Message
			apiErr.Code = envelope.Code
		}
	}
	return errs.Wrap(errs.KindExternal, "issuing api request failed", apiErr)
}
