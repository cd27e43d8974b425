package highscore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
	"github.com/sony/gobreaker"
)

// ErrUnavailable is returned while the client has stopped calling a failing
// server.
var ErrUnavailable = errors.New("highscore: server unavailable")

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("highscore: server returned %d", e.Code)
	}
	return fmt.Sprintf("highscore: server returned %d: %s", e.Code, e.Message)
}

// Unwrap makes a 400 answer match ErrInvalidEntry.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusBadRequest {
		return ErrInvalidEntry
	}
	return nil
}

// ClientOptions tunes the circuit breaker around the server.
type ClientOptions struct {
	// Timeout bounds each request.
	Timeout time.Duration
	// MaxFailures is the number of consecutive failures that opens the
	// breaker.
	MaxFailures uint32
	// Cooldown is how long the breaker stays open before probing again.
	Cooldown time.Duration
	Logger   *log.Logger
}

func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Timeout:     5 * time.Second,
		MaxFailures: 3,
		Cooldown:    30 * time.Second,
	}
}

// Client submits scores to a high-score server. Transport errors and 5xx
// answers count against the breaker; rejected submissions do not.
type Client struct {
	base    string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewClient returns a client for the server at baseURL, for example
// "http://127.0.0.1:3030".
func NewClient(baseURL string, opts ClientOptions) *Client {
	logger := opts.Logger
	settings := gobreaker.Settings{
		Name:    "highscore",
		Timeout: opts.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= max(opts.MaxFailures, 1)
		},
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return se.Code < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("circuit breaker state changed", "name", name, "from", from, "to", to)
			}
		},
	}
	return &Client{
		base:    strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: opts.Timeout},
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// State returns the breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

func (c *Client) do(req *http.Request, out any) error {
	_, err := c.breaker.Execute(func() (any, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode/100 != 2 {
			var body errorResponse
			json.NewDecoder(resp.Body).Decode(&body)
			return nil, &StatusError{Code: resp.StatusCode, Message: body.Error}
		}
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return nil, fmt.Errorf("highscore: decode response: %w", err)
			}
		}
		return nil, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrUnavailable
	}
	return err
}

// Submit sends e and returns the ID the server gave it.
func (c *Client) Submit(ctx context.Context, e Entry) (uuid.UUID, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return uuid.Nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/submit-score", bytes.NewReader(body))
	if err != nil {
		return uuid.Nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp submitResponse
	if err := c.do(req, &resp); err != nil {
		return uuid.Nil, err
	}
	return resp.ID, nil
}

// Top fetches up to limit best scores for game.
func (c *Client) Top(ctx context.Context, game string, limit int) ([]Score, error) {
	u := c.base + "/scores/" + url.PathEscape(game)
	if limit > 0 {
		u += "?limit=" + strconv.Itoa(limit)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var scores []Score
	if err := c.do(req, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}
