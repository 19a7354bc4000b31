package logger

import (
	"os"

	"github.com/rs/zerolog"
)

func New() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()
}

// SetLevel applies the configured level once LOG_LEVEL is known. Unknown
// values leave the current level in place.
func SetLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}
