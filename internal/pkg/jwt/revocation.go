package jwt

import (
	"sync"
	"time"
)

// RevocationSet tracks revoked access token ids until they would have
// expired anyway. It is the only mutable shared state of token
// verification; everything else lives in the signed payload.
type RevocationSet struct {
	mu      sync.RWMutex
	revoked map[string]time.Time // token id -> original expiry
}

// NewRevocationSet creates an empty revocation set
func NewRevocationSet() *RevocationSet {
	return &RevocationSet{revoked: make(map[string]time.Time)}
}

// Revoke marks a token id as revoked. expiresAt bounds how long the entry
// must be retained.
func (s *RevocationSet) Revoke(tokenID string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = expiresAt
}

// IsRevoked reports whether the token id has been revoked
func (s *RevocationSet) IsRevoked(tokenID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[tokenID]
	return ok
}

// PruneExpired drops entries whose tokens have expired on their own and
// returns how many were removed. A revoked id only needs tracking while
// the token could still verify.
func (s *RevocationSet) PruneExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked revocations
func (s *RevocationSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.revoked)
}
