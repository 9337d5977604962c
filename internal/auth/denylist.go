package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist records revoked token IDs in Redis until their natural expiry,
// so logout can invalidate a token server-side. A nil Denylist is valid
// and makes logout purely client-side (cookie clearing only), which is
// the documented stateless-token limitation.
type Denylist struct {
	rdb *redis.Client
}

// NewDenylist connects to Redis and pings it.
func NewDenylist(ctx context.Context, addr, password string) (*Denylist, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Denylist{rdb: rdb}, nil
}

func denyKey(jti string) string {
	return "token:denied:" + jti
}

// Revoke marks a token ID as revoked until the token would expire anyway.
func (d *Denylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if d == nil {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, denyKey(jti), "1", ttl).Err()
}

// Revoked reports whether a token ID has been revoked. Redis errors are
// surfaced so the caller can fail closed.
func (d *Denylist) Revoked(ctx context.Context, jti string) (bool, error) {
	if d == nil {
		return false, nil
	}
	n, err := d.rdb.Exists(ctx, denyKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
