// Package logging provides component scoped loggers on top of the global zerolog logger.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component returns a child of the global logger tagged with "cmp".
// Call it after the global logger is configured; the child does not follow later changes.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
