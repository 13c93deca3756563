package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/domain"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/persistence"
)

// namedArg is one named argument of a procedure call.
type namedArg struct {
	name  string
	value any
}

// callFunction runs SELECT * FROM fn(name => $n, ...) in a tenant scope.
func (s *Store) callFunction(ctx context.Context, tenantID int64, fn string, args ...namedArg) ([]domain.Row, error) {
	params := make([]string, 0, len(args))
	values := make([]any, 0, len(args))
	for i, arg := range args {
		params = append(params, fmt.Sprintf("%s => $%d", arg.name, i+1))
		values = append(values, arg.value)
	}
	query := "SELECT * FROM " + pgx.Identifier{fn}.Sanitize() + "(" + strings.Join(params, ", ") + ")"

	var out []domain.Row
	err := s.withTenant(ctx, tenantID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, values...)
		if err != nil {
			return err
		}
		maps, err := pgx.CollectRows(rows, pgx.RowToMap)
		if err != nil {
			return err
		}
		out = toRows(maps)
		return nil
	})
	return out, err
}

// TopVendors calls the top vendors procedure.
func (s *Store) TopVendors(ctx context.Context, tenantID int64, limit int) (items []domain.WageRow, err error) {
	defer observe("top_vendors", time.Now(), &err)

	rows, err := s.callFunction(ctx, tenantID, persistence.FnTopVendors,
		namedArg{"p_tenant_id", tenantID}, namedArg{"p_limit", limit})
	if err != nil {
		return nil, err
	}
	return domain.NormalizeWageRows(rows, domain.VendorNameFields), nil
}

// TopVessels calls the top vessels procedure.
func (s *Store) TopVessels(ctx context.Context, tenantID int64, limit int) (items []domain.WageRow, err error) {
	defer observe("top_vessels", time.Now(), &err)

	rows, err := s.callFunction(ctx, tenantID, persistence.FnTopVessels,
		namedArg{"p_tenant_id", tenantID}, namedArg{"p_limit", limit})
	if err != nil {
		return nil, err
	}
	return domain.NormalizeWageRows(rows, domain.VesselNameFields), nil
}

// EconomicSummary calls the summary procedure.
func (s *Store) EconomicSummary(ctx context.Context, tenantID int64, days int) (summary domain.EconomicSummary, err error) {
	defer observe("econ_summary", time.Now(), &err)

	args := []namedArg{{"p_tenant_id", tenantID}}
	if days > 0 {
		args = append(args, namedArg{"p_days", days})
	}
	rows, err := s.callFunction(ctx, tenantID, persistence.FnEconSummary, args...)
	if err != nil {
		return domain.EconomicSummary{}, err
	}
	return domain.NormalizeSummary(rows), nil
}

// EconomicTrend calls the trend procedure.
func (s *Store) EconomicTrend(ctx context.Context, tenantID int64, query domain.TrendQuery) (points []domain.TrendPoint, err error) {
	defer observe("econ_trend", time.Now(), &err)

	rows, err := s.callFunction(ctx, tenantID, persistence.FnEconTrend,
		namedArg{"p_tenant_id", tenantID},
		namedArg{"p_granularity", string(query.Granularity)},
		namedArg{"p_days", query.Days})
	if err != nil {
		return nil, err
	}
	return domain.NormalizeTrend(rows), nil
}

// QuickStats calls the quick stats procedure.
func (s *Store) QuickStats(ctx context.Context, tenantID int64) (stats domain.QuickStats, err error) {
	defer observe("econ_quick_stats", time.Now(), &err)

	rows, err := s.callFunction(ctx, tenantID, persistence.FnQuickStats, namedArg{"p_tenant_id", tenantID})
	if err != nil {
		return domain.QuickStats{}, err
	}
	return domain.NormalizeQuickStats(rows), nil
}

// Diagnose counts and samples every economics source table. A failing table
// is reported in its entry and does not fail the others.
func (s *Store) Diagnose(ctx context.Context, tenantID int64) (report []domain.SourceDiagnostic, err error) {
	defer observe("diagnose", time.Now(), &err)

	report = make([]domain.SourceDiagnostic, 0, len(persistence.DiagnosticSources))
	for _, table := range persistence.DiagnosticSources {
		entry := domain.SourceDiagnostic{Source: table, Rows: -1, Columns: []string{}, Sample: []domain.Row{}}
		ident := pgx.Identifier{table}.Sanitize()

		diagErr := s.withTenant(ctx, tenantID, func(tx pgx.Tx) error {
			if err := tx.QueryRow(ctx, "SELECT count(*) FROM "+ident+" WHERE tenant_id = $1", tenantID).Scan(&entry.Rows); err != nil {
				return err
			}
			rows, err := tx.Query(ctx, fmt.Sprintf("SELECT * FROM %s WHERE tenant_id = $1 LIMIT %d", ident, domain.DiagnosticSampleSize), tenantID)
			if err != nil {
				return err
			}
			maps, err := pgx.CollectRows(rows, pgx.RowToMap)
			if err != nil {
				return err
			}
			entry.Sample = toRows(maps)
			if len(maps) > 0 {
				entry.Columns = persistence.SortedKeys(maps[0])
			}
			return nil
		})
		if diagErr != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			entry.Err = diagErr.Error()
		}
		report = append(report, entry)
	}
	return report, nil
}

func toRows(maps []map[string]any) []domain.Row {
	out := make([]domain.Row, 0, len(maps))
	for _, m := range maps {
		row := make(domain.Row, len(m))
		for k, v := range m {
			row[k] = plainValue(v)
		}
		out = append(out, row)
	}
	return out
}

// plainValue converts driver types without a natural JSON or numeric form.
func plainValue(v any) any {
	switch t := v.(type) {
	case pgtype.Numeric:
		f, err := t.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return uuid.UUID(t).String()
	default:
		return v
	}
}
