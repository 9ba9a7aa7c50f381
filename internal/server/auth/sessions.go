// Package auth issues and verifies session tokens shared by the web UI
// and the gRPC API.
package auth

import (
	"time"

	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// revocationCacheSize bounds memory if logouts spike. Entries expire with
// the longest possible token lifetime.
const revocationCacheSize = 100_000

// Sessions mints, verifies and revokes tokens. Revocations are kept in
// process memory only, so a restart forgets them; the token lifetime
// bounds the exposure.
type Sessions struct {
	secret   []byte
	validity time.Duration
	revoked  *expirable.LRU[string, struct{}]
}

func NewSessions(secret []byte, validity time.Duration) *Sessions {
	return &Sessions{
		secret:   secret,
		validity: validity,
		revoked:  expirable.NewLRU[string, struct{}](revocationCacheSize, nil, validity),
	}
}

// Validity is the lifetime of issued tokens.
func (s *Sessions) Validity() time.Duration {
	return s.validity
}

func (s *Sessions) Issue(userID int64, userName string) (string, *Claims, error) {
	return GenerateToken(userID, userName, s.secret, s.validity)
}

// Verify parses the token and rejects revoked ones with common.ErrTokenRevoked.
func (s *Sessions) Verify(token string) (*Claims, error) {
	claims, err := ParseToken(token, s.secret)
	if err != nil {
		return nil, err
	}
	if s.revoked.Contains(claims.ID) {
		return nil, common.ErrTokenRevoked
	}
	return claims, nil
}

// Revoke invalidates the token id until it would have expired anyway.
func (s *Sessions) Revoke(c *Claims) {
	if c == nil || c.ID == "" {
		return
	}
	s.revoked.Add(c.ID, struct{}{})
}
