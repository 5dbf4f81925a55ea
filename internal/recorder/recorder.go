// Package recorder implements the four operations of the tool.
// Each operation validates its raw inputs, fetches the matching request from the API and records
// the response before returning it. The first failing step ends the operation: invalid input never
// reaches the network and a failed fetch is never recorded.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/apicommand/apicommand/internal/client"
	"github.com/apicommand/apicommand/internal/config"
	"github.com/apicommand/apicommand/internal/params"
	"github.com/apicommand/apicommand/internal/request"
	"github.com/apicommand/apicommand/internal/store"
	"github.com/google/uuid"
)

var (
	// ErrValidation is the kind of errors caused by invalid user input.
	ErrValidation = errors.New("validation failed")
	// ErrNetwork is the kind of errors raised while fetching from the API.
	ErrNetwork = errors.New("network request failed")
	// ErrStorage is the kind of errors raised while recording a fetched response.
	ErrStorage = errors.New("storage failed")
)

type fetcher interface {
	Fetch(ctx context.Context, v request.Variant) (client.Response, error)
}

type persister interface {
	Persist(ctx context.Context, r client.Response) (int64, error)
}

// Recorder runs the operations against one API and one database.
type Recorder struct {
	fetcher fetcher
	store   persister
}

type options struct {
	// Private members exported for tests.
	fetcher fetcher
	store   persister
}

// Options represents an optional function to override Recorder default values.
type Options func(*options)

// New returns a Recorder using the API and database of cfg.
func New(cfg config.Config, args ...Options) (Recorder, error) {
	slog.Debug("Creating new recorder", "config", cfg)

	opts := options{}
	for _, opt := range args {
		opt(&opts)
	}

	if opts.fetcher == nil {
		opts.fetcher = client.New(cfg.APIRoot(), cfg.APIKey())
	}
	if opts.store == nil {
		s, err := store.New(cfg.DBPath())
		if err != nil {
			return Recorder{}, err
		}
		opts.store = s
	}

	return Recorder{
		fetcher: opts.fetcher,
		store:   opts.store,
	}, nil
}

// Get fetches and records the data of a brand.
func (r Recorder) Get(ctx context.Context, rawBrandID string) (client.Response, error) {
	brand, err := params.NewBrandID(rawBrandID)
	if err != nil {
		return client.Response{}, validationError(err)
	}
	return r.record(ctx, request.NewGet(brand))
}

// LastRun fetches and records the last run of a brand at a location.
func (r Recorder) LastRun(ctx context.Context, rawBrandID, rawLocationID string) (client.Response, error) {
	brand, location, err := brandAndLocation(rawBrandID, rawLocationID)
	if err != nil {
		return client.Response{}, err
	}
	return r.record(ctx, request.NewLastRun(brand, location))
}

// Run fetches and records the runs of a brand at a location.
func (r Recorder) Run(ctx context.Context, rawBrandID, rawLocationID string) (client.Response, error) {
	brand, location, err := brandAndLocation(rawBrandID, rawLocationID)
	if err != nil {
		return client.Response{}, err
	}
	return r.record(ctx, request.NewRun(brand, location))
}

// Specific fetches and records the runs of a brand at a location between two epoch millisecond timestamps.
func (r Recorder) Specific(ctx context.Context, rawBrandID, rawLocationID, rawFromDate, rawToDate string) (client.Response, error) {
	brand, location, err := brandAndLocation(rawBrandID, rawLocationID)
	if err != nil {
		return client.Response{}, err
	}
	span, err := params.NewDateTimeSpan(rawFromDate, rawToDate)
	if err != nil {
		return client.Response{}, validationError(err)
	}
	return r.record(ctx, request.NewSpecific(brand, location, span))
}

func brandAndLocation(rawBrandID, rawLocationID string) (params.BrandID, params.LocationID, error) {
	brand, err := params.NewBrandID(rawBrandID)
	if err != nil {
		return params.BrandID{}, params.LocationID{}, validationError(err)
	}
	location, err := params.NewLocationID(rawLocationID)
	if err != nil {
		return params.BrandID{}, params.LocationID{}, validationError(err)
	}
	return brand, location, nil
}

// record fetches v and persists the response.
func (r Recorder) record(ctx context.Context, v request.Variant) (client.Response, error) {
	log := slog.With("request_id", uuid.NewString(), "request_type", request.TagOf(v))

	log.Info("Fetching", "path", request.Path(v))
	resp, err := r.fetcher.Fetch(ctx, v)
	if err != nil {
		log.Debug("Fetch failed", "error", err)
		return client.Response{}, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	id, err := r.store.Persist(ctx, resp)
	if err != nil {
		log.Debug("Persist failed, the fetched response is dropped", "url", resp.URL, "error", err)
		return client.Response{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	log.Info("Recorded response", "url", resp.URL, "row", id)
	return resp, nil
}

func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
