package service

import (
	"time"
)

// GetExpiresAt converts a Graph API expires_in value into an absolute
// expiry. Zero or missing values fall back to the ~60 day long-lived TTL.
func GetExpiresAt(expiresIn int64) time.Time {
	if expiresIn <= 0 {
		return time.Now().Add(defaultLongLivedTokenTTL)
	}
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}
