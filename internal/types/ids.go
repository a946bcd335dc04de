package types

import (
	"time"

	"github.com/google/uuid"
)

// NewChanceID generates a UUIDv7 chance identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewChanceID() ChanceID {
	return ChanceID(uuid.Must(uuid.NewV7()).String())
}

// ChanceIDTime extracts the creation timestamp embedded in a UUIDv7 ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func ChanceIDTime(id ChanceID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
