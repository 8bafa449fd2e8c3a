package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. Development gets a human readable
// console writer, everything else gets JSON lines with caller information.
func Init(service, env string) {
	InitWithWriter(service, env, os.Stdout)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(service, env string, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339

	if env == "development" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}).With().
			Timestamp().
			Str("service", service).
			Logger()
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}

	log.Logger = zerolog.New(out).
		With().
		Timestamp().
		Caller().
		Str("service", service).
		Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
