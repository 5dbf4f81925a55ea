package recorder_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/apicommand/apicommand/internal/client"
	"github.com/apicommand/apicommand/internal/config"
	"github.com/apicommand/apicommand/internal/params"
	"github.com/apicommand/apicommand/internal/recorder"
	"github.com/apicommand/apicommand/internal/request"
	"github.com/apicommand/apicommand/internal/store"
	"github.com/apicommand/apicommand/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type operation func(r recorder.Recorder, args []string) (client.Response, error)

var (
	opGet = func(r recorder.Recorder, args []string) (client.Response, error) {
		return r.Get(context.Background(), args[0])
	}
	opLastRun = func(r recorder.Recorder, args []string) (client.Response, error) {
		return r.LastRun(context.Background(), args[0], args[1])
	}
	opRun = func(r recorder.Recorder, args []string) (client.Response, error) {
		return r.Run(context.Background(), args[0], args[1])
	}
	opSpecific = func(r recorder.Recorder, args []string) (client.Response, error) {
		return r.Specific(context.Background(), args[0], args[1], args[2], args[3])
	}
)

func TestOperations(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 65)

	tests := map[string]struct {
		op   operation
		args []string

		fetchErr   error
		persistErr error

		wantTag       request.Tag
		wantPath      string
		wantErr       error
		wantCauseErr  error
		wantFetches   int
		wantPersisted int
	}{
		"Get":      {op: opGet, args: []string{"b1"}, wantTag: request.TagGet, wantPath: "get/b1", wantFetches: 1, wantPersisted: 1},
		"LastRun":  {op: opLastRun, args: []string{"b1", "l1"}, wantTag: request.TagLastRun, wantPath: "last_run/b1/l1", wantFetches: 1, wantPersisted: 1},
		"Run":      {op: opRun, args: []string{"b1", "l1"}, wantTag: request.TagRun, wantPath: "run/b1/l1", wantFetches: 1, wantPersisted: 1},
		"Specific": {op: opSpecific, args: []string{"b1", "l1", "100", "200"}, wantTag: request.TagSpecific, wantPath: "specific/b1/l1/100/200", wantFetches: 1, wantPersisted: 1},

		"Get invalid brand":            {op: opGet, args: []string{long}, wantErr: recorder.ErrValidation, wantCauseErr: params.ErrInvalidBrandID},
		"LastRun invalid brand":        {op: opLastRun, args: []string{long, "l1"}, wantErr: recorder.ErrValidation, wantCauseErr: params.ErrInvalidBrandID},
		"LastRun invalid location":     {op: opLastRun, args: []string{"b1", long}, wantErr: recorder.ErrValidation, wantCauseErr: params.ErrInvalidLocationID},
		"Run invalid location":         {op: opRun, args: []string{"b1", ""}, wantErr: recorder.ErrValidation, wantCauseErr: params.ErrInvalidLocationID},
		"Specific invalid brand":       {op: opSpecific, args: []string{"", "l1", "1", "2"}, wantErr: recorder.ErrValidation, wantCauseErr: params.ErrInvalidBrandID},
		"Specific inverted span":       {op: opSpecific, args: []string{"b1", "l1", "200", "100"}, wantErr: recorder.ErrValidation, wantCauseErr: params.ErrInvalidSpan},
		"Specific unparsable from":     {op: opSpecific, args: []string{"b1", "l1", "now", "100"}, wantErr: recorder.ErrValidation, wantCauseErr: params.ErrInvalidTimestamp},
		"Specific brand checked first": {op: opSpecific, args: []string{long, "l1", "now", "100"}, wantErr: recorder.ErrValidation, wantCauseErr: params.ErrInvalidBrandID},

		"Fetch error is not persisted": {op: opGet, args: []string{"b1"}, fetchErr: &client.StatusError{StatusCode: http.StatusNotFound},
			wantErr: recorder.ErrNetwork, wantFetches: 1},
		"Send failure is not persisted": {op: opRun, args: []string{"b1", "l1"}, fetchErr: client.ErrSendFailure,
			wantErr: recorder.ErrNetwork, wantCauseErr: client.ErrSendFailure, wantFetches: 1},
		"Persist error fails the operation": {op: opLastRun, args: []string{"b1", "l1"}, persistErr: errors.New("disk full"),
			wantErr: recorder.ErrStorage, wantFetches: 1, wantPersisted: 1},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := &fakeFetcher{err: tc.fetchErr}
			p := &fakePersister{err: tc.persistErr}
			r, err := recorder.New(testConfig(t, filepath.Join(t.TempDir(), "unused.sqlite3")),
				recorder.WithFetcher(f), recorder.WithStore(p))
			require.NoError(t, err, "Setup: could not create recorder")

			got, err := tc.op(r, tc.args)

			assert.Equal(t, tc.wantFetches, f.calls, "Unexpected number of fetches")
			assert.Equal(t, tc.wantPersisted, p.calls, "Unexpected number of persist calls")

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				if tc.wantCauseErr != nil {
					require.ErrorIs(t, err, tc.wantCauseErr)
				}
				assert.Equal(t, client.Response{}, got, "No response should be returned on failure")
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tc.wantTag, request.TagOf(f.got), "Fetched variant should match the operation")
			assert.Equal(t, tc.wantPath, request.Path(f.got), "Fetched path should be rendered from the inputs")
			assert.Equal(t, got, p.got, "The returned response should be the persisted one")
		})
	}
}

func TestRecordEndToEnd(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		op     operation
		args   []string
		apiKey string
		status int

		wantPath string
		wantTag  string
		wantErr  error
	}{
		"Get":      {op: opGet, args: []string{"test_brand_id"}, status: http.StatusOK, wantPath: "/anything/get/test_brand_id", wantTag: "Get"},
		"LastRun":  {op: opLastRun, args: []string{"test_brand_id", "test_location_id"}, apiKey: "API-TEST-KEY", status: http.StatusOK, wantPath: "/anything/last_run/test_brand_id/test_location_id", wantTag: "LastRun"},
		"Run":      {op: opRun, args: []string{"test_brand_id", "test_location_id"}, apiKey: "API-TEST-KEY", status: http.StatusOK, wantPath: "/anything/run/test_brand_id/test_location_id", wantTag: "Run"},
		"Specific": {op: opSpecific, args: []string{"test_brand_id", "test_location_id", "100010001000", "100010001001"}, status: http.StatusOK, wantPath: "/anything/specific/test_brand_id/test_location_id/100010001000/100010001001", wantTag: "Specific"},

		"Not found":      {op: opGet, args: []string{"test_brand_id"}, status: http.StatusNotFound, wantErr: recorder.ErrNetwork},
		"Invalid header": {op: opGet, args: []string{"test_brand_id"}, apiKey: "bad\r\nkey", status: http.StatusOK, wantErr: client.ErrInvalidHeaderValue},
		"Invalid input":  {op: opSpecific, args: []string{"test_brand_id", "test_location_id", "2", "1"}, status: http.StatusOK, wantErr: recorder.ErrValidation},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := testutils.NewEchoServer(t, tc.status)
			dbPath := filepath.Join(t.TempDir(), "test.sqlite3")
			cfg, err := config.New(s.URL+"/anything", tc.apiKey, dbPath)
			require.NoError(t, err, "Setup: could not create config")

			r, err := recorder.New(cfg)
			require.NoError(t, err, "Setup: could not create recorder")

			got, err := tc.op(r, tc.args)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, 0, countRows(t, dbPath), "Failed operations should not record anything")
				return
			}
			require.NoError(t, err)

			assert.Equal(t, s.URL+tc.wantPath, got.URL, "Resolved URL should be the api root followed by the rendered path")
			assert.Equal(t, 1, s.Calls(), "Exactly one request should be sent")

			st, err := store.New(dbPath)
			require.NoError(t, err, "Setup: could not open store")
			rows, err := st.List(context.Background(), 0)
			require.NoError(t, err)
			require.Len(t, rows, 1, "Exactly one row should be recorded")
			assert.Equal(t, tc.wantTag, rows[0].RequestType, "request_type should be the variant tag")
			assert.Equal(t, got.URL, rows[0].URL, "url should be the resolved URL")
			assert.Equal(t, got.Body, rows[0].Data, "data should be the response body")
			if tc.apiKey != "" {
				assert.Contains(t, rows[0].Data, tc.apiKey, "API key should have been sent to the server")
			}
		})
	}
}

func TestRecordResolvedURL(t *testing.T) {
	t.Parallel()

	// Answers like httpbin's /anything would, without leaving the test process.
	hc := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Status:     "200 OK",
			Body:       io.NopCloser(strings.NewReader(`{"url": "` + req.URL.String() + `"}`)),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})}

	cfg := testConfig(t, filepath.Join(t.TempDir(), "test.sqlite3"))
	r, err := recorder.New(cfg, recorder.WithFetcher(client.New(cfg.APIRoot(), cfg.APIKey(), client.WithHTTPClient(hc))))
	require.NoError(t, err, "Setup: could not create recorder")

	got, err := r.Get(context.Background(), "b1")
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/anything/get/b1", got.URL)
	assert.Equal(t, 1, countRows(t, cfg.DBPath()), "Response should be recorded")
}

func TestStorageErrorAfterFetch(t *testing.T) {
	t.Parallel()

	s := testutils.NewEchoServer(t, http.StatusOK)
	cfg, err := config.New(s.URL, "", filepath.Join(t.TempDir(), "missing", "test.sqlite3"))
	require.NoError(t, err, "Setup: could not create config")

	r, err := recorder.New(cfg)
	require.NoError(t, err, "Setup: could not create recorder")

	_, err = r.Get(context.Background(), "b1")
	require.ErrorIs(t, err, recorder.ErrStorage)
	assert.Equal(t, 1, s.Calls(), "The fetch should have happened before persisting failed")
}

type fakeFetcher struct {
	calls int
	got   request.Variant
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, v request.Variant) (client.Response, error) {
	f.calls++
	f.got = v
	if f.err != nil {
		return client.Response{}, f.err
	}
	return client.Response{
		FetchedAt:  time.Date(2026, time.October, 17, 8, 30, 0, 0, time.UTC),
		Variant:    v,
		StatusCode: http.StatusOK,
		URL:        "https://example.test/anything/" + request.Path(v),
		Body:       "{}",
	}, nil
}

type fakePersister struct {
	calls int
	got   client.Response
	err   error
}

func (p *fakePersister) Persist(_ context.Context, r client.Response) (int64, error) {
	p.calls++
	p.got = r
	if p.err != nil {
		return 0, p.err
	}
	return int64(p.calls), nil
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func testConfig(t *testing.T, dbPath string) config.Config {
	t.Helper()

	cfg, err := config.New("https://example.test/anything", "", dbPath)
	require.NoError(t, err, "Setup: could not create config")
	return cfg
}

func countRows(t *testing.T, path string) int {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err, "Setup: could not open database")
	defer db.Close()

	var n int
	err = db.QueryRow(`SELECT count(*) FROM responses`).Scan(&n)
	if err != nil && strings.Contains(err.Error(), "no such table") {
		return 0
	}
	require.NoError(t, err, "Could not count rows")
	return n
}
