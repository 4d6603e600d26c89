package scheduler

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

	"github.com/aaweaver-actuary/chess-training-sub000/internal/domain"
)

// maxErrorBodyBytes bounds how much of a failed response body is kept for
// diagnostics.
const maxErrorBodyBytes = 4 << 10

// Verify interface compliance at compile time
var _ Client = (*HTTPClient)(nil)

// HTTPClient talks to the scheduling engine over its HTTP/JSON contract:
// POST /queue keyed by user id, POST /grade keyed by session, card, grade
// and latency.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPClient creates a scheduler client for the engine at baseURL.
// The timeout applies per request; the controller layer imposes none of
// its own.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With(slog.String("component", "scheduler_http_client")),
	}
}

type queueRequest struct {
	UserID string `json:"user_id"`
}

type queueResponse struct {
	Queue []domain.Card `json:"queue"`
}

type gradeResponse struct {
	NextCard *domain.Card `json:"next_card"`
}

// FetchQueue implements Client.FetchQueue.
func (c *HTTPClient) FetchQueue(ctx context.Context, userID string) ([]domain.Card, error) {
	var resp queueResponse
	if err := c.post(ctx, "fetch_queue", "/queue", queueRequest{UserID: userID}, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched review queue",
		slog.String("user_id", userID),
		slog.Int("queue_size", len(resp.Queue)))
	return resp.Queue, nil
}

// GradeCard implements Client.GradeCard.
func (c *HTTPClient) GradeCard(ctx context.Context, req GradeRequest) (*domain.Card, error) {
	var resp gradeResponse
	if err := c.post(ctx, "grade_card", "/grade", req, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("submitted grade",
		slog.String("session_id", req.SessionID),
		slog.String("card_id", req.CardID),
		slog.String("grade", string(req.Grade)),
		slog.Bool("queue_exhausted", resp.NextCard == nil))
	return resp.NextCard, nil
}

// post sends one JSON request and decodes the JSON response. Transport
// failures wrap ErrSchedulerUnavailable; non-2xx responses become a
// StatusError carrying status and truncated body.
func (c *HTTPClient) post(ctx context.Context, operation, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: failed to encode request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("scheduler request failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w: %v", operation, ErrSchedulerUnavailable, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close scheduler response body",
				slog.String("error", closeErr.Error()))
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		statusErr := &StatusError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		}
		c.logger.Error("scheduler returned non-success response",
			slog.String("operation", operation),
			slog.Int("status_code", resp.StatusCode))
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", operation, err)
	}
	return nil
}
