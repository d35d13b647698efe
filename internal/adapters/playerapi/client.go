// Package playerapi is the HTTP client for the external player API.
package playerapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/internal/domain/sessionstats"
	"github.com/okian/portal/pkg/logger"
	"github.com/okian/portal/pkg/metrics"
)

// Operation names used in logs and metric labels.
const (
	OpPlayerByEmail = "player_by_email"
	OpSessions      = "sessions"
	OpAppointments  = "appointments"
	OpSession       = "session"
)

const (
	defaultTimeout = 5 * time.Second
	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 8 << 20
)

// Client talks to the player API rooted at a base URL such as http://localhost:3000/api.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	log     logger.Logger
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: base url %q", ErrInvalidArgument, baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.log == nil {
		c.log = logger.Named("playerapi")
	}
	return c, nil
}

// BaseURL returns the root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PlayerByEmail looks a player up by the email used to sign in.
func (c *Client) PlayerByEmail(ctx context.Context, email string) (model.Player, error) {
	var p model.Player
	if strings.TrimSpace(email) == "" {
		return p, fmt.Errorf("%w: empty email", ErrInvalidArgument)
	}
	found, err := c.get(ctx, OpPlayerByEmail, &p, "players", "email", email)
	if err != nil {
		return model.Player{}, err
	}
	if !found {
		return model.Player{}, ErrNotFound
	}
	return p, nil
}

// Sessions returns the player's training history, most recent first.
func (c *Client) Sessions(ctx context.Context, playerID string) ([]model.TrainingSession, error) {
	if playerID == "" {
		return nil, fmt.Errorf("%w: empty player id", ErrInvalidArgument)
	}
	var sessions []model.TrainingSession
	if _, err := c.get(ctx, OpSessions, &sessions, "players", playerID, "sessions"); err != nil {
		return nil, err
	}
	if sessionstats.IsMostRecentFirst(sessions) {
		return sessions, nil
	}
	c.log.Debug(ctx, "reordering sessions from player api", logger.String("playerId", playerID))
	return sessionstats.SortMostRecentFirst(sessions), nil
}

// Appointments returns the player's upcoming appointments, soonest first.
func (c *Client) Appointments(ctx context.Context, playerID string) ([]model.Appointment, error) {
	if playerID == "" {
		return nil, fmt.Errorf("%w: empty player id", ErrInvalidArgument)
	}
	var appts []model.Appointment
	if _, err := c.get(ctx, OpAppointments, &appts, "players", playerID, "appointments"); err != nil {
		return nil, err
	}
	slices.SortStableFunc(appts, func(a, b model.Appointment) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return appts, nil
}

// Session returns a single training session.
func (c *Client) Session(ctx context.Context, sessionID string) (model.TrainingSession, error) {
	var s model.TrainingSession
	if sessionID == "" {
		return s, fmt.Errorf("%w: empty session id", ErrInvalidArgument)
	}
	found, err := c.get(ctx, OpSession, &s, "sessions", sessionID)
	if err != nil {
		return model.TrainingSession{}, err
	}
	if !found {
		return model.TrainingSession{}, ErrNotFound
	}
	return s, nil
}

// get decodes the JSON body of GET base/segments... into out. It reports
// found=false for a 404 or a literal null body.
func (c *Client) get(ctx context.Context, op string, out any, segments ...string) (found bool, err error) {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	target := c.baseURL + "/" + strings.Join(escaped, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false, fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamError(op, "transport")
		c.log.Warn(ctx, "player api request failed", logger.String("operation", op), logger.Error(err))
		return false, fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
	}
	defer resp.Body.Close()

	latency := time.Since(start)
	metrics.RecordUpstreamRequest(op, strconv.Itoa(resp.StatusCode), float64(latency.Milliseconds()))
	c.log.Debug(ctx, "player api request",
		logger.String("operation", op),
		logger.String("url", target),
		logger.Int("status", resp.StatusCode),
		logger.Duration("latency", latency))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		metrics.RecordUpstreamError(op, "status")
		return false, fmt.Errorf("%w: %s: unexpected status %d", ErrUpstream, op, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordUpstreamError(op, "read")
		return false, fmt.Errorf("%w: %s: read body: %w", ErrUpstream, op, err)
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed == "" || trimmed == "null" {
		return false, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		metrics.RecordUpstreamError(op, "decode")
		return false, fmt.Errorf("%w: %s: decode: %w", ErrUpstream, op, err)
	}
	return true, nil
}
