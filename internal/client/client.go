// Package client talks to the writerhub HTTP API. A Client satisfies
// session.Authenticator, so a session.Manager can run against a remote server.
package client

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

	"github.com/writerhub/marketplace/internal/core/domain"
	"github.com/writerhub/marketplace/internal/core/ports"
	"github.com/writerhub/marketplace/internal/session"
)

const defaultTimeout = 15 * time.Second

// ErrUnauthorized is returned when the server rejects the bearer token.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response. It unwraps to the matching domain error
// when the server message identifies one.
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.kind }

var knownErrors = []error{
	domain.ErrDuplicateEmail,
	domain.ErrInvalidCredentials,
	domain.ErrUserNotFound,
	domain.ErrInvalidInput,
	domain.ErrForbidden,
	domain.ErrFAQNotFound,
	domain.ErrSettingNotFound,
	domain.ErrInvalidSetting,
}

func classify(status int, msg string) error {
	for _, known := range knownErrors {
		if strings.HasPrefix(msg, known.Error()) {
			return known
		}
	}
	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusConflict:
		return domain.ErrDuplicateEmail
	case http.StatusBadRequest:
		return domain.ErrInvalidInput
	}
	return nil
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New parses baseURL. A nil httpClient gets a client with a 15s timeout.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse server url: %q is not absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(u.String(), "/"), http: httpClient}, nil
}

var _ session.Authenticator = (*Client)(nil)

type userEnvelope struct {
	User *domain.User `json:"user"`
}

func (c *Client) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.User, error) {
	body := map[string]string{
		"email":     in.Email,
		"password":  in.Password,
		"full_name": in.FullName,
	}
	if in.UserType != "" {
		body["user_type"] = string(in.UserType)
	}
	var out userEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/signup", "", body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*session.Identity, error) {
	var out struct {
		Token string       `json:"token"`
		User  *domain.User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/signin", "", body, &out); err != nil {
		return nil, err
	}
	if out.User == nil || out.Token == "" {
		return nil, errors.New("sign-in response is missing the user or token")
	}
	return &session.Identity{User: *out.User, Token: out.Token}, nil
}

// Me returns the user the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// UpdateProfile edits the caller's own profile.
func (c *Client) UpdateProfile(ctx context.Context, token string, update domain.ProfileUpdate) (*domain.User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodPatch, "/users/me", token, update, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]*domain.User, error) {
	var out struct {
		Users []*domain.User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/users", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *Client) ResetPassword(ctx context.Context, token, userID, newPassword string) error {
	path := "/admin/users/" + url.PathEscape(userID) + "/reset-password"
	return c.do(ctx, http.MethodPost, path, token, map[string]string{"new_password": newPassword}, nil)
}

// UpdateUser is the admin edit of any account.
func (c *Client) UpdateUser(ctx context.Context, token, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodPatch, "/admin/users/"+url.PathEscape(userID), token, update, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) FAQs(ctx context.Context) ([]*domain.FAQ, error) {
	var out struct {
		FAQs []*domain.FAQ `json:"faqs"`
	}
	if err := c.do(ctx, http.MethodGet, "/faqs", "", nil, &out); err != nil {
		return nil, err
	}
	return out.FAQs, nil
}

func (c *Client) JobPostingFee(ctx context.Context) (int, error) {
	var out struct {
		Fee int `json:"fee"`
	}
	if err := c.do(ctx, http.MethodGet, "/settings/job-posting-fee", "", nil, &out); err != nil {
		return 0, err
	}
	return out.Fee, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		var b bytes.Buffer
		if err := json.NewEncoder(&b).Encode(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = &b
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return &APIError{
			Status:  resp.StatusCode,
			Message: envelope.Error,
			kind:    classify(resp.StatusCode, envelope.Error),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
