// Package api talks to the progress backend over its JSON REST
// contract and defines the wire types shared with it.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"
)

//go:generate mockgen -source=client.go -destination=../mocks/api/mock_client.go -package=mock_api Client

// ErrUnauthorized marks a 401 response: the caller has no valid
// identity and should keep operating on local state only.
var ErrUnauthorized = errors.New("not authenticated")

// ErrNotFound marks a 404 response, tolerated for destructive calls
// against a backend where the endpoint is not deployed yet.
var ErrNotFound = errors.New("endpoint not found")

// LessonProgressDTO mirrors the in-memory lesson record on the wire.
// Score carries either a plain number (quiz percentage) or a
// JSON-stringified section-state array; the overload is historical and
// is resolved by the progress package.
type LessonProgressDTO struct {
	Progress     int             `json:"progress"`
	Status       string          `json:"status"`
	Score        json.RawMessage `json:"score,omitempty"`
	TimeSpent    int             `json:"timeSpent"`
	LastAccessed string          `json:"lastAccessed"` // ISO-8601
}

// Client is the abstract backend contract consumed by the progress
// stores. Implementations never surface 401s as errors to UI flows;
// they return ErrUnauthorized for the caller to dispatch on.
type Client interface {
	FetchLessonProgress(ctx context.Context) (map[string]LessonProgressDTO, error)
	SyncLessonProgress(ctx context.Context, records map[string]LessonProgressDTO) (map[string]LessonProgressDTO, error)
	ClearLessonProgress(ctx context.Context) error

	FetchGameProgress(ctx context.Context) (map[string]json.RawMessage, error)
	SyncGameProgress(ctx context.Context, data map[string]json.RawMessage) (map[string]json.RawMessage, error)
	ClearGameProgress(ctx context.Context) error
}

// RESTClient implements Client against the backend's REST endpoints.
type RESTClient struct {
	httpClient       *resty.Client
	maxRetryAttempts uint
}

// NewRESTClient creates a client for the given base URL. The token is
// attached as a bearer credential when non-empty. retryAttempts bounds
// the transient-failure retries on fetches.
func NewRESTClient(baseURL, token string, retryAttempts uint) *RESTClient {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Content-Type", "application/json")
	if token != "" {
		client.SetHeader("Authorization", "Bearer "+token)
	}

	return &RESTClient{
		httpClient:       client,
		maxRetryAttempts: retryAttempts,
	}
}

// Close releases the underlying HTTP client.
func (c *RESTClient) Close() error {
	return c.httpClient.Close()
}

type lessonProgressEnvelope struct {
	Progress map[string]LessonProgressDTO `json:"progress"`
}

type gameProgressEnvelope struct {
	Data map[string]json.RawMessage `json:"data"`
}

// FetchLessonProgress loads the remote lesson collection, retrying
// transient failures. A 401 maps to ErrUnauthorized without retries.
func (c *RESTClient) FetchLessonProgress(ctx context.Context) (map[string]LessonProgressDTO, error) {
	var result map[string]LessonProgressDTO
	err := c.withRetry(ctx, func() error {
		envelope, err := c.getLessons(ctx, "/progress/user")
		if err != nil {
			return err
		}
		result = envelope
		return nil
	})
	return result, err
}

// SyncLessonProgress pushes the local collection and returns the
// server's merged result. No retry: a failed push is naturally retried
// by the next mutation's debounce.
func (c *RESTClient) SyncLessonProgress(ctx context.Context, records map[string]LessonProgressDTO) (map[string]LessonProgressDTO, error) {
	var envelope lessonProgressEnvelope
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(lessonProgressEnvelope{Progress: records}).
		SetResult(&envelope).
		Post("/progress/user/sync")
	if err != nil {
		return nil, fmt.Errorf("httpClient.Post > %w", err)
	}
	if err := statusError(response); err != nil {
		return nil, err
	}
	return envelope.Progress, nil
}

// ClearLessonProgress deletes the remote collection. A missing endpoint
// surfaces as ErrNotFound for the caller to tolerate.
func (c *RESTClient) ClearLessonProgress(ctx context.Context) error {
	response, err := c.httpClient.R().
		SetContext(ctx).
		Delete("/progress/user")
	if err != nil {
		return fmt.Errorf("httpClient.Delete > %w", err)
	}
	return statusError(response)
}

// FetchGameProgress loads the remote games collection.
func (c *RESTClient) FetchGameProgress(ctx context.Context) (map[string]json.RawMessage, error) {
	var result map[string]json.RawMessage
	err := c.withRetry(ctx, func() error {
		var envelope gameProgressEnvelope
		response, err := c.httpClient.R().
			SetContext(ctx).
			SetResult(&envelope).
			Get("/progress/games")
		if err != nil {
			return fmt.Errorf("httpClient.Get > %w", err)
		}
		if err := statusError(response); err != nil {
			return err
		}
		result = envelope.Data
		return nil
	})
	return result, err
}

// SyncGameProgress pushes the local games collection and returns the
// server's merged result.
func (c *RESTClient) SyncGameProgress(ctx context.Context, data map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	var envelope gameProgressEnvelope
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(gameProgressEnvelope{Data: data}).
		SetResult(&envelope).
		Post("/progress/games/sync")
	if err != nil {
		return nil, fmt.Errorf("httpClient.Post > %w", err)
	}
	if err := statusError(response); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// ClearGameProgress deletes the remote games collection.
func (c *RESTClient) ClearGameProgress(ctx context.Context) error {
	response, err := c.httpClient.R().
		SetContext(ctx).
		Delete("/progress/games")
	if err != nil {
		return fmt.Errorf("httpClient.Delete > %w", err)
	}
	return statusError(response)
}

func (c *RESTClient) getLessons(ctx context.Context, path string) (map[string]LessonProgressDTO, error) {
	var envelope lessonProgressEnvelope
	response, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&envelope).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get > %w", err)
	}
	if err := statusError(response); err != nil {
		return nil, err
	}
	return envelope.Progress, nil
}

func (c *RESTClient) withRetry(ctx context.Context, fn func() error) error {
	return retry.Do(
		func() error {
			if err := fn(); err != nil {
				if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.maxRetryAttempts+1),
		// Callers dispatch on the sentinel errors, so surface the last
		// error itself rather than the aggregate.
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

func statusError(response *resty.Response) error {
	switch {
	case response.StatusCode() == 401:
		return ErrUnauthorized
	case response.StatusCode() == 404:
		return ErrNotFound
	case response.IsError():
		return fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	default:
		return nil
	}
}
