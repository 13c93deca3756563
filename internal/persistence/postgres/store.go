// Package postgres reads the dashboard data directly from Postgres.
package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/domain"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/observability"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/persistence"
)

const backend = "postgres"

// Store provides Postgres-backed reads for every dashboard view.
type Store struct {
	pool *pgxpool.Pool
}

var _ domain.Store = (*Store)(nil)

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// withTenant runs fn in a read-only transaction scoped to tenantID through
// the app.tenant_id setting used by row-level security policies.
func (s *Store) withTenant(ctx context.Context, tenantID int64, fn func(pgx.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, "SELECT set_config('app.tenant_id', $1, true)", strconv.FormatInt(tenantID, 10)); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// observe is deferred with the address of the named error result.
func observe(op string, start time.Time, err *error) {
	observability.ObserveUpstream(backend, op, start, *err)
}

// ListTenants returns every tenant ordered by name.
func (s *Store) ListTenants(ctx context.Context) (tenants []domain.Tenant, err error) {
	defer observe("list_tenants", time.Now(), &err)

	const query = `SELECT id::bigint, coalesce(slug, ''), coalesce(name, '')
        FROM ` + persistence.TenantTable + ` ORDER BY name, id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tenants = make([]domain.Tenant, 0)
	for rows.Next() {
		var t domain.Tenant
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// FindTenantBySlug returns the tenant with the lowest id carrying slug.
func (s *Store) FindTenantBySlug(ctx context.Context, slug string) (tenant *domain.Tenant, err error) {
	defer observe("find_tenant", time.Now(), &err)

	const query = `SELECT id::bigint, coalesce(slug, ''), coalesce(name, '')
        FROM ` + persistence.TenantTable + ` WHERE slug = $1 ORDER BY id LIMIT 1`

	var t domain.Tenant
	if err := s.pool.QueryRow(ctx, query, slug).Scan(&t.ID, &t.Slug, &t.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
