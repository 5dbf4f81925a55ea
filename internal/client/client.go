// Package client implements the API client component.
// The API client sends a single GET request for a request variant and keeps the response
// only when the API answered 200 OK.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/apicommand/apicommand/internal/constants"
	"github.com/apicommand/apicommand/internal/request"
	"golang.org/x/net/http/httpguts"
)

var (
	// ErrInvalidHeaderValue is returned when the API key can't be used as an HTTP header value.
	ErrInvalidHeaderValue = errors.New("invalid header value")
	// ErrSendFailure is returned when the request could not be sent or its response could not be read.
	ErrSendFailure = errors.New("request send failed")
)

// StatusError is returned when the API answered with anything but 200 OK.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("expected 200 OK status from API, but received `%d`", e.StatusCode)
}

// Response is a successful API response. It is only built for 200 OK answers.
type Response struct {
	// FetchedAt is the wall clock time the response was received at.
	FetchedAt time.Time
	// Variant is the request the response answers.
	Variant request.Variant
	// StatusCode is always http.StatusOK.
	StatusCode int
	// URL is the final URL, after any redirect the HTTP client followed.
	URL string
	// Body is the raw response body.
	Body string
}

type timeProvider interface {
	Now() time.Time
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}

// Client sends requests to the configured API root.
type Client struct {
	apiRoot string
	apiKey  string

	httpClient   *http.Client
	timeProvider timeProvider
}

type options struct {
	// Private members exported for tests.
	httpClient   *http.Client
	timeProvider timeProvider
}

// Options represents an optional function to override Client default values.
type Options func(*options)

// WithHTTPClient sets the HTTP client requests are sent with.
func WithHTTPClient(c *http.Client) Options {
	return func(o *options) {
		o.httpClient = c
	}
}

// New returns a Client sending requests under apiRoot.
// An empty apiKey means no API key header is sent.
func New(apiRoot, apiKey string, args ...Options) Client {
	opts := options{
		httpClient:   &http.Client{},
		timeProvider: realTimeProvider{},
	}
	for _, opt := range args {
		opt(&opts)
	}

	return Client{
		apiRoot:      strings.TrimSuffix(apiRoot, "/"),
		apiKey:       apiKey,
		httpClient:   opts.httpClient,
		timeProvider: opts.timeProvider,
	}
}

// URL returns the URL the request v is sent to.
func (c Client) URL(v request.Variant) string {
	return c.apiRoot + "/" + request.Path(v)
}

// Fetch sends one GET request for v and returns the response if the API answered 200 OK.
// It never retries.
func (c Client) Fetch(ctx context.Context, v request.Variant) (Response, error) {
	url := c.URL(v)
	slog.Debug("Sending API request", "url", url, "request_type", request.TagOf(v))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, errors.Join(ErrSendFailure, fmt.Errorf("failed to create request: %v", err))
	}

	if c.apiKey != "" {
		if !httpguts.ValidHeaderFieldValue(c.apiKey) {
			return Response{}, fmt.Errorf("%w: %s contains characters not allowed in a header", ErrInvalidHeaderValue, constants.APIKeyHeader)
		}
		req.Header.Set(constants.APIKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, errors.Join(ErrSendFailure, fmt.Errorf("failed to send HTTP request: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("API answered with an unexpected status", "url", url, "status", resp.Status)
		return Response{}, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, errors.Join(ErrSendFailure, fmt.Errorf("failed to read response body: %v", err))
	}
	fetchedAt := c.timeProvider.Now()

	slog.Info("Received API response", "url", resp.Request.URL.String(), "bytes", len(body))
	return Response{
		FetchedAt:  fetchedAt,
		Variant:    v,
		StatusCode: resp.StatusCode,
		URL:        resp.Request.URL.String(),
		Body:       string(body),
	}, nil
}
