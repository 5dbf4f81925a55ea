// Package config holds the settings an invocation of the tool needs to send and record requests.
package config

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrInvalidAPIRoot is returned when the API root is not an absolute http or https URL.
	ErrInvalidAPIRoot = errors.New("invalid api root")
	// ErrEmptyDBPath is returned when no database path is given.
	ErrEmptyDBPath = errors.New("database path cannot be an empty string")
)

// Config is assembled once per process.
type Config struct {
	apiRoot string
	apiKey  string
	dbPath  string
}

// New validates its arguments and returns a Config. An empty apiKey means no key is sent.
func New(apiRoot, apiKey, dbPath string) (Config, error) {
	u, err := url.Parse(apiRoot)
	if err != nil {
		return Config{}, fmt.Errorf("%w %q: %v", ErrInvalidAPIRoot, apiRoot, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Config{}, fmt.Errorf("%w %q: expected an absolute http or https URL", ErrInvalidAPIRoot, apiRoot)
	}
	if dbPath == "" {
		return Config{}, ErrEmptyDBPath
	}

	return Config{apiRoot: apiRoot, apiKey: apiKey, dbPath: dbPath}, nil
}

// APIRoot is the base URL request paths are appended to.
func (c Config) APIRoot() string { return c.apiRoot }

// APIKey is the value of the API key header, or "" when none is sent.
func (c Config) APIKey() string { return c.apiKey }

// DBPath is the path of the database file responses are recorded into.
func (c Config) DBPath() string { return c.dbPath }

// String does not show the API key.
func (c Config) String() string {
	key := "<none>"
	if c.apiKey != "" {
		key = "<redacted>"
	}
	return fmt.Sprintf("api_root=%s api_key=%s database_path=%s", c.apiRoot, key, c.dbPath)
}
