package kvstore

import (
	"context"
	"errors"
	"strings"
)

const (
	keyNamespace   = "wh"
	cartPrefix     = "cart"
	wishlistPrefix = "wishlist"
	recentPrefix   = "recent"
	promoPrefix    = "promo"
)

// ErrNotFound is returned when the key holds no value.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is the persistence surface backing cart, wishlist, recently-viewed,
// and promo state. Values are whole JSON documents written on every mutation.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}

// CartKey returns the namespaced key holding a session's cart lines.
func CartKey(sessionID string) string {
	return buildKey(cartPrefix, sessionID)
}

// WishlistKey returns the namespaced key holding a session's wishlist.
func WishlistKey(sessionID string) string {
	return buildKey(wishlistPrefix, sessionID)
}

// RecentKey returns the namespaced key holding a session's recently-viewed list.
func RecentKey(sessionID string) string {
	return buildKey(recentPrefix, sessionID)
}

// PromoKey returns the namespaced key holding a session's applied promo.
func PromoKey(sessionID string) string {
	return buildKey(promoPrefix, sessionID)
}

func buildKey(parts ...string) string {
	if len(parts) == 0 {
		return keyNamespace
	}
	clean := []string{keyNamespace}
	for _, part := range parts {
		if part == "" {
			continue
		}
		clean = append(clean, strings.TrimSpace(part))
	}
	return strings.Join(clean, ":")
}
