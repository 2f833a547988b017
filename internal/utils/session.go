package utils

import (
	"time"

	"github.com/google/uuid"
)

// SessionData is the minimal view of a session shared with middleware,
// so packages don't need to import auth to validate a cookie.
type SessionData struct {
	UserID    string
	ExpiresAt time.Time
}

func GenerateUUID() string {
	return uuid.NewString()
}
