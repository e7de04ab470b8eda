package cli

import (
	"io"
	"log"
	"os"
	"strconv"

	"github.com/google/uuid"
)

// EnvDebug enables diagnostic logging to stderr.
const EnvDebug = "GIT_POLICE_DEBUG"

func debugEnabled() bool {
	on, err := strconv.ParseBool(os.Getenv(EnvDebug))
	return err == nil && on
}

// newRunLogger returns a logger tagged with a fresh run ID. It discards
// everything unless GIT_POLICE_DEBUG is set.
func newRunLogger(w io.Writer) (*log.Logger, string) {
	runID := uuid.New().String()
	if !debugEnabled() {
		return log.New(io.Discard, "", 0), runID
	}
	return log.New(w, "[git-police "+runID[:8]+"] ", log.Ltime|log.Lmicroseconds), runID
}
