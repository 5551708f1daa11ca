package log

import (
    "io"
    "os"
    "time"

    "github.com/rs/zerolog"
)

// New returns the process logger.  Production output is uncolored and
// starts at info level; every other environment logs debug.
func New(environment string) zerolog.Logger {
    return newWithWriter(environment, os.Stdout)
}

func newWithWriter(environment string, out io.Writer) zerolog.Logger {
    production := environment == "production" || environment == "prod"
    output := zerolog.ConsoleWriter{
        Out:        out,
        TimeFormat: time.RFC3339,
        NoColor:    production,
    }

    logger := zerolog.New(output).With().
        Timestamp().
        Str("env", environment).
        Logger()

    if production {
        zerolog.SetGlobalLevel(zerolog.InfoLevel)
    } else {
        zerolog.SetGlobalLevel(zerolog.DebugLevel)
    }
    return logger
}
