package policy

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

type roleCacheKey struct{}

// roleCache memoizes role lookups for the lifetime of one request. It is
// never shared across requests: a role change must be visible on the
// next request at the latest.
type roleCache struct {
	mu    sync.Mutex
	roles map[uuid.UUID]string
}

func newRoleCache() *roleCache {
	return &roleCache{roles: make(map[uuid.UUID]string)}
}

func (c *roleCache) get(id uuid.UUID) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	role, ok := c.roles[id]
	return role, ok
}

func (c *roleCache) put(id uuid.UUID, role string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roles[id] = role
}

func roleCacheFrom(ctx context.Context) *roleCache {
	cache, _ := ctx.Value(roleCacheKey{}).(*roleCache)
	return cache
}

// WithRoleCache installs a fresh per-request role cache. Tests use it
// directly; the router applies RoleCacheMiddleware.
func WithRoleCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, roleCacheKey{}, newRoleCache())
}

func RoleCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithRoleCache(r.Context())))
	})
}
