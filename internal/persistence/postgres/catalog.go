package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/domain"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/persistence"
)

// ListBoats returns boats ordered by name.
func (s *Store) ListBoats(ctx context.Context, tenantID int64, filter domain.BoatFilter) (boats []domain.Boat, err error) {
	defer observe("list_boats", time.Now(), &err)

	args := []any{tenantID, filter.Archived}
	query := `SELECT coalesce(admiral_boat_id::text, ''), coalesce(boat_name, ''), coalesce(manufacturer, ''),
        coalesce(location, ''), coalesce(owner_name, ''), coalesce(owner_surname, ''),
        coalesce(captain_name, ''), coalesce(captain_surname, ''), coalesce(archived, false)
        FROM ` + persistence.BoatTable + ` WHERE tenant_id = $1 AND coalesce(archived, false) = $2`
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, persistence.ContainsPattern(q))
		query += ` AND ` + anyILike(persistence.BoatSearchColumns, len(args))
	}
	query += ` ORDER BY boat_name`

	err = s.withTenant(ctx, tenantID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		boats = make([]domain.Boat, 0)
		for rows.Next() {
			var b domain.Boat
			if err := rows.Scan(&b.ID, &b.Name, &b.Manufacturer, &b.Location, &b.OwnerName, &b.OwnerSurname,
				&b.CaptainName, &b.CaptainSurname, &b.Archived); err != nil {
				return err
			}
			boats = append(boats, b)
		}
		return rows.Err()
	})
	return boats, err
}

// ListVendors returns vendors ordered by last update.
func (s *Store) ListVendors(ctx context.Context, tenantID int64, filter domain.VendorFilter) (vendors []domain.Vendor, err error) {
	defer observe("list_vendors", time.Now(), &err)

	args := []any{tenantID}
	query := `SELECT coalesce(id::text, ''), coalesce(name, ''), coalesce(email, ''), coalesce(phone, ''),
        coalesce(vendor_type, ''), coalesce(status, ''), created_at, updated_at
        FROM ` + persistence.VendorTable + ` WHERE tenant_id = $1`
	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if vendorType := strings.TrimSpace(filter.Type); vendorType != "" {
		args = append(args, persistence.ContainsPattern(vendorType))
		query += ` AND vendor_type ILIKE $` + strconv.Itoa(len(args))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, persistence.ContainsPattern(q))
		query += ` AND ` + anyILike(persistence.VendorSearchColumns, len(args))
	}
	query += ` ORDER BY updated_at DESC NULLS LAST LIMIT ` + strconv.Itoa(domain.MaxVendorRows)

	err = s.withTenant(ctx, tenantID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		vendors = make([]domain.Vendor, 0)
		for rows.Next() {
			var v domain.Vendor
			if err := rows.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.VendorType, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
				return err
			}
			vendors = append(vendors, v)
		}
		return rows.Err()
	})
	return vendors, err
}

// anyILike matches parameter n against each column with ILIKE.
func anyILike(columns []string, n int) string {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, fmt.Sprintf("%s ILIKE $%d", col, n))
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}
