package session

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
)

// RevocationList remembers signed-out tokens until they would have expired anyway.
type RevocationList struct {
	cache *cache.Cache
}

func NewRevocationList(cleanupInterval time.Duration) *RevocationList {
	return &RevocationList{cache: cache.New(cache.NoExpiration, cleanupInterval)}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Revoke records token until expiresAt. Tokens already past expiry are ignored.
func (r *RevocationList) Revoke(token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	r.cache.Set(tokenKey(token), struct{}{}, ttl)
}

func (r *RevocationList) IsRevoked(token string) bool {
	_, found := r.cache.Get(tokenKey(token))
	return found
}
