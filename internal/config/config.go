// Package config holds the small amount of process-wide, environment-
// driven configuration the rplace2023 binary needs before its
// subcommands run.
package config

import (
	"io"
	"log"
	"os"
)

// InitLogging points the standard logger at stdout, or discards it
// entirely unless the RPLACE_LOG environment variable is set, mirroring
// noisetorch's doLog/-v gate.
func InitLogging() {
	if os.Getenv("RPLACE_LOG") != "" {
		log.SetOutput(os.Stdout)
	} else {
		log.SetOutput(io.Discard)
	}
}
