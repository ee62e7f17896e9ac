// Package identity is a client for the hosted identity provider's admin REST
// API: account creation, recovery-link issuance and password-reset emails.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrEmptyLink is returned when the provider answers without an action link.
var ErrEmptyLink = errors.New("identity provider returned an empty action link")

// Client talks to the identity provider with the service-role key.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewClient creates a new identity provider client.
func NewClient(baseURL, serviceKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		serviceKey: strings.TrimSpace(serviceKey),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx answer from the identity provider.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("identity provider returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("identity provider returned status %d: %s", e.StatusCode, e.Message)
}

type createUserRequest struct {
	Email        string                 `json:"email"`
	EmailConfirm bool                   `json:"email_confirm"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// CreateUser registers an account with a confirmed email and returns its id.
func (c *Client) CreateUser(ctx context.Context, email string, metadata map[string]interface{}) (string, error) {
	var out userResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/admin/users", nil, createUserRequest{
		Email:        email,
		EmailConfirm: true,
		UserMetadata: metadata,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	if out.ID == "" {
		return "", errors.New("create user: identity provider returned no user id")
	}
	return out.ID, nil
}

type generateLinkRequest struct {
	Type       string `json:"type"`
	Email      string `json:"email"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

type generateLinkResponse struct {
	ActionLink string `json:"action_link"`
	Properties struct {
		ActionLink string `json:"action_link"`
	} `json:"properties"`
}

// IssueRecoveryLink asks the provider for a one-time recovery link that lands
// on redirectTo. The provider does not send any email for this call.
func (c *Client) IssueRecoveryLink(ctx context.Context, email, redirectTo string) (string, error) {
	var out generateLinkResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/admin/generate_link", nil, generateLinkRequest{
		Type:       "recovery",
		Email:      email,
		RedirectTo: redirectTo,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("generate recovery link: %w", err)
	}

	link := out.ActionLink
	if link == "" {
		link = out.Properties.ActionLink
	}
	if link == "" {
		return "", ErrEmptyLink
	}
	return link, nil
}

// IssuePasswordResetEmail makes the provider email a password-reset link to
// the address.
func (c *Client) IssuePasswordResetEmail(ctx context.Context, email, redirectTo string) error {
	query := url.Values{}
	if redirectTo != "" {
		query.Set("redirect_to", redirectTo)
	}
	err := c.do(ctx, http.MethodPost, "/auth/v1/recover", query, map[string]string{"email": email}, nil)
	if err != nil {
		return fmt.Errorf("send password reset: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out interface{}) error {
	if c.baseURL == "" {
		return errors.New("identity base url is empty")
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	_ = json.Unmarshal(raw, &body)

	msg := body.Msg
	for _, candidate := range []string{body.ErrorDescription, body.Message, body.Error} {
		if msg == "" {
			msg = candidate
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
