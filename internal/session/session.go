// Package session implements the server-side session store behind the cookie
// gate. Sessions live in an in-process cache with an absolute 24h expiry from
// issuance; the cookie carries an opaque token signed with HMAC-SHA256 so a
// tampered cookie never reaches the store lookup.
package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// CookieName is the session cookie issued on login.
const CookieName = "atelier_session"

// TTL is the absolute session lifetime, counted from issuance.
const TTL = 24 * time.Hour

var ErrNoSession = errors.New("no valid session")

// Session is the server-side identity attached to a cookie token.
type Session struct {
	UserID   uint
	Username string
	Role     string
	IssuedAt time.Time
}

// Store keeps sessions in memory. Restarting the server logs everyone out,
// which is acceptable for a single small team.
type Store struct {
	cache  *cache.Cache
	secret []byte
}

func NewStore(secret string) *Store {
	return &Store{
		cache:  cache.New(TTL, 30*time.Minute),
		secret: []byte(secret),
	}
}

// Create issues a new session and returns the signed cookie value.
func (s *Store) Create(userID uint, username, role string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)
	s.cache.Set(token, &Session{
		UserID:   userID,
		Username: username,
		Role:     role,
		IssuedAt: time.Now(),
	}, TTL)
	return token + "." + s.sign(token), nil
}

// Resolve verifies the cookie value and returns the live session.
func (s *Store) Resolve(cookieValue string) (*Session, error) {
	token, sig, ok := strings.Cut(cookieValue, ".")
	if !ok || !hmac.Equal([]byte(s.sign(token)), []byte(sig)) {
		return nil, ErrNoSession
	}
	v, found := s.cache.Get(token)
	if !found {
		return nil, ErrNoSession
	}
	return v.(*Session), nil
}

// Destroy removes the session server-side. Unknown tokens are a no-op.
func (s *Store) Destroy(cookieValue string) {
	if token, _, ok := strings.Cut(cookieValue, "."); ok {
		s.cache.Delete(token)
	}
}

func (s *Store) sign(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
