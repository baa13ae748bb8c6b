package repl

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionIDPrefix marks console session ids in logs.
const SessionIDPrefix = "kvps-"

// NewSessionID generates a console session id: the prefix followed by a
// lowercase ULID.
func NewSessionID(now time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return SessionIDPrefix + strings.ToLower(id.String()), nil
}
