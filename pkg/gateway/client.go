// Package gateway provides the HTTP client for the external AI agent
// platform. Each call performs one remote invocation against a single agent,
// identified by an opaque agent ID, and returns the normalized envelope the
// workflow consumes. Transport, auth, and serialization live here and
// nowhere else.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/creditops/disputeflow/pkg/models"
)

// AgentRole names one of the six logical agents the workflow addresses.
// Roles are resolved to concrete agent IDs via configuration.
type AgentRole string

const (
	RoleIntake       AgentRole = "intake"
	RoleLookup       AgentRole = "lookup"
	RoleCompliance   AgentRole = "compliance"
	RoleSynthesis    AgentRole = "synthesis"
	RoleResolution   AgentRole = "resolution"
	RoleOrchestrator AgentRole = "orchestrator"
)

// Client invokes agents on the remote platform over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a platform client. apiKey may be empty when the platform
// endpoint does not require authentication.
func NewClient(baseURL, apiKey string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// invokeRequest is the wire request body for a single agent invocation.
type invokeRequest struct {
	AgentID string `json:"agent_id"`
	Message string `json:"message"`
}

// Invoke sends payload (free text or a serialized JSON document) to the
// agent identified by agentID and decodes the normalized response envelope.
// A non-nil error means the invocation never produced an envelope; callers
// treat it the same as an envelope with Success=false.
func (c *Client) Invoke(ctx context.Context, payload, agentID string) (*models.AgentEnvelope, error) {
	body, err := json.Marshal(invokeRequest{AgentID: agentID, Message: payload})
	if err != nil {
		return nil, fmt.Errorf("marshal invoke request: %w", err)
	}

	url := c.baseURL + "/v1/agents/invoke"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invoke agent %s: %w", agentID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("agent platform returned HTTP %d for agent %s", resp.StatusCode, agentID)
	}

	var envelope models.AgentEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode agent response: %w", err)
	}

	c.logger.Debug("Agent invocation completed",
		"agent_id", agentID,
		"success", envelope.Success,
		"duration_ms", time.Since(start).Milliseconds())

	return &envelope, nil
}
