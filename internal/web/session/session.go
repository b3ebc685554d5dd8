// Package session keeps the signed-in admin between requests.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
)

// CookieName is the browser cookie holding the session id.
const CookieName = "session"

// Store is the global session store instance.
var Store *session.Store

// ErrNotFound is returned by Read for an unknown or expired session.
var ErrNotFound = errors.New("session not found")

// Data represents the session data structure.
type Data struct {
	User authapi.User `json:"user"`
	// Cookie is the upstream auth cookie replayed on every API call.
	Cookie     string    `json:"cookie"`
	SignedInAt time.Time `json:"signedInAt"`
}

// Valid reports whether the session belongs to a signed-in user.
func (s *Data) Valid() bool {
	return s.User.ID != "" && s.Cookie != ""
}

// Write writes the session data for the given session ID with an expiration duration.
func (s *Data) Write(sessionID string, exp time.Duration) error {
	out, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return Store.Storage.Set(sessionID, out, exp)
}

// Read reads the session data for the given session ID.
func (s *Data) Read(sessionID string) error {
	if sessionID == "" {
		return ErrNotFound
	}

	byteData, err := Store.Storage.Get(sessionID)
	if err != nil {
		return err
	}

	if len(byteData) == 0 {
		return ErrNotFound
	}

	return json.Unmarshal(byteData, s)
}

// Delete removes the session data for the given session ID.
func Delete(sessionID string) error {
	if sessionID == "" {
		return nil
	}

	return Store.Storage.Delete(sessionID)
}

// Init initializes the session store. A nil storage selects fiber's
// in-memory storage.
func Init(storage fiber.Storage) {
	Store = session.New(session.Config{
		Storage:        storage,
		KeyLookup:      "cookie:" + CookieName,
		CookieHTTPOnly: true,
	})
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
