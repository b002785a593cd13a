package ws

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// newConnID mints the opaque identifier keying a connection in the hub and
// the session registry. Never shown to clients.
func newConnID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "conn-" + uuid.NewString()
	}
	return "conn-" + hex.EncodeToString(buf)
}
