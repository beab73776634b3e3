// Package upstream talks to the external credential-verification service.
// The service is opaque: it either returns a profile or fails.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"lectern/internal/domain/identity"
	"lectern/internal/shared/logger"
)

const (
	// Maximum response body size for the credential API (256KB)
	maxResponseSize = 256 << 10
)

// ErrUnavailable marks upstream failure classes that must trigger degraded
// mode rather than a hard failure: network errors, 5xx and 404 are all
// treated as "temporarily unavailable".
var ErrUnavailable = errors.New("credential service unavailable")

// ErrInvalidCredentials marks an explicit upstream rejection of the
// credential pair. Never recovered from locally.
var ErrInvalidCredentials = errors.New("invalid credentials")

// profileFields is the field set requested from the credential API.
var profileFields = []string{"name", "srn", "email", "program", "branch", "semester"}

type authRequest struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Profile  bool     `json:"profile"`
	Fields   []string `json:"fields"`
}

type authResponse struct {
	Profile struct {
		Name     string `json:"name"`
		SRN      string `json:"srn"`
		Email    string `json:"email"`
		Program  string `json:"program"`
		Branch   string `json:"branch"`
		Semester string `json:"semester"`
	} `json:"profile"`
}

// Client is the HTTP client for the credential-verification endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     logger.Interface
}

func NewClient(endpoint string, timeout time.Duration, log logger.Interface) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// Authenticate verifies the credential pair against the upstream authority
// and returns the upstream profile on success. Failure classes map to the
// two sentinel errors; callers branch on errors.Is.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*identity.Profile, error) {
	body, err := json.Marshal(authRequest{
		Username: username,
		Password: password,
		Profile:  true,
		Fields:   profileFields,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnw("credential service unreachable", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= http.StatusInternalServerError {
		c.logger.Warnw("credential service returned server-side failure", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, ErrInvalidCredentials
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	var parsed authResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}

	return &identity.Profile{
		Source:   identity.SourceUpstream,
		Name:     parsed.Profile.Name,
		SRN:      parsed.Profile.SRN,
		Email:    parsed.Profile.Email,
		Program:  parsed.Profile.Program,
		Branch:   parsed.Profile.Branch,
		Semester: parsed.Profile.Semester,
	}, nil
}
