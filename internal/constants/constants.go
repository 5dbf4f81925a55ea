// Package constants is responsible for defining the constants used in the application.
package constants

import "log/slog"

const (
	// CmdName is the name of the command line tool.
	CmdName = "apicommand"

	// DefaultAPIRoot is the base URL requests are sent to when no api root is configured.
	DefaultAPIRoot = "https://httpbin.org/anything"

	// DefaultDatabasePath is the local database file responses are recorded into.
	DefaultDatabasePath = "apicommand.sqlite3"

	// DefaultLogLevel is the default log level selected without any verbosity flags.
	DefaultLogLevel = slog.LevelWarn

	// APIKeyHeader is the header the optional API key is attached under.
	APIKeyHeader = "X-API-Key"

	// MinIDLength and MaxIDLength bound the number of characters of a brand or location id.
	// The bounds are an arbitrary example rule, not something the remote API mandates.
	// An empty id would render a request path with a trailing slash.
	MinIDLength = 1
	// MaxIDLength is the upper bound, inclusive.
	MaxIDLength = 64

	// TimestampLayout is the format fetch times are stored with: ISO-8601, millisecond precision, with offset.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

	// ResponsesTable is the name of the table every successful response is appended to.
	ResponsesTable = "responses"

	// DefaultHistoryLimit is how many rows the history command prints by default.
	DefaultHistoryLimit = 10
)

// Version is the version of the executable. It is overridden at build time with -ldflags.
var Version = "dev"
