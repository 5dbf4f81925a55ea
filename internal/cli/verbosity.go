package cli

import (
	"log/slog"
	"os"

	"github.com/apicommand/apicommand/internal/constants"
)

// SetVerbosity sets the logging level for the default logger based on the verbose flag count.
// quiet wins over any verbosity and only lets errors through.
//
// This function has the same behaviors as slog.SetLogLoggerLevel.
func SetVerbosity(level int, quiet bool) {
	slog.SetLogLoggerLevel(getLevel(level, quiet))
}

// SetSlog sets the logging level and format for the default logger.
func SetSlog(level int, quiet, jsonLogs bool) {
	if jsonLogs {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: getLevel(level, quiet)})))
		return
	}

	SetVerbosity(level, quiet)
}

func getLevel(level int, quiet bool) slog.Level {
	if quiet {
		return slog.LevelError
	}

	switch level {
	case 0:
		return constants.DefaultLogLevel
	case 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
