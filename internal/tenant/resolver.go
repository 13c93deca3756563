// Package tenant turns the raw tenant identifier of a request into a tenant id.
package tenant

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/domain"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/logging"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/observability"
)

var numericID = regexp.MustCompile(`^\d+$`)

// Directory finds tenants by slug.
type Directory interface {
	// FindTenantBySlug returns nil, nil when no tenant has the slug.
	FindTenantBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

// SlugCache remembers slug to id mappings.
type SlugCache interface {
	Get(ctx context.Context, slug string) (int64, bool, error)
	Set(ctx context.Context, slug string, id int64) error
}

// Resolver resolves raw identifiers against a Directory.
type Resolver struct {
	directory Directory
	cache     SlugCache
}

// NewResolver constructs a Resolver. cache may be nil.
func NewResolver(directory Directory, cache SlugCache) *Resolver {
	return &Resolver{directory: directory, cache: cache}
}

// Resolve maps raw to a tenant id. Digit-only values are ids and are never
// looked up; anything else is an exact slug.
func (r *Resolver) Resolve(ctx context.Context, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		observability.RecordTenantResolution("none", "missing")
		return 0, domain.ErrMissingIdentifier
	}

	if numericID.MatchString(raw) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id == 0 {
			observability.RecordTenantResolution("numeric", "unknown")
			return 0, domain.ErrUnknownTenant
		}
		observability.RecordTenantResolution("numeric", "ok")
		return id, nil
	}

	if r.cache != nil {
		id, ok, err := r.cache.Get(ctx, raw)
		switch {
		case err != nil:
			logging.Ctx(ctx).Warn().Err(err).Str("slug", raw).Msg("tenant cache read failed")
		case ok:
			observability.RecordTenantResolution("cache", "ok")
			return id, nil
		}
	}

	t, err := r.directory.FindTenantBySlug(ctx, raw)
	if err != nil {
		observability.RecordTenantResolution("slug", "error")
		return 0, domain.Upstream("find_tenant", err)
	}
	if t == nil || t.ID == 0 {
		observability.RecordTenantResolution("slug", "unknown")
		return 0, domain.ErrUnknownTenant
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, raw, t.ID); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("slug", raw).Msg("tenant cache write failed")
		}
	}
	observability.RecordTenantResolution("slug", "ok")
	return t.ID, nil
}
