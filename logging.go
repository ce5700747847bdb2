package linux_installer

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	logDirName  = "thonny-installer"
	logFilename = "installer.log"
)

// startLogging sets up the global logger. Every run is logged to installer.log in the
// state directory (if there is one); with verbosity > 0 log messages are shown on
// stderr as well. The returned closer closes the log file.
func startLogging(verbosity int, stateHome string, stderr io.Writer) io.Closer {
	switch verbosity {
	case 0, 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case 2:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	var writers []io.Writer
	if verbosity > 0 {
		writers = append(writers, zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen})
	}
	var logfile *os.File
	var logfileErr error
	logPath := ""
	if stateHome != "" {
		logPath = filepath.Join(stateHome, logDirName, logFilename)
		logfile, logfileErr = openLogFile(logPath)
		if logfileErr == nil {
			writers = append(writers, logfile)
		}
	}
	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
	if logfileErr != nil {
		log.Warn().Err(logfileErr).Str("path", logPath).Msg("Failed to open log file")
	}
	log.Debug().Int("verbosity", verbosity).Str("logFile", logPath).Msg("Logger initialized")
	if logfile == nil {
		return io.NopCloser(nil)
	}
	return logfile
}

func openLogFile(logPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
}
