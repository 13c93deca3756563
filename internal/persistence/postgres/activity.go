package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/domain"
	"github.com/join-admiral/ADVP-Economic-Dashboard/internal/persistence"
)

const activitySelect = `SELECT coalesce(checkin_id::text, ''), tenant_id::bigint,
        coalesce(full_name, ''), coalesce(company_name, ''), coalesce(boat_name, ''),
        check_in, check_out, to_jsonb(flags),
        coalesce(vendor_employee_phone, ''), coalesce(vendor_employee_email, ''), coalesce(face_photo, '')
        FROM ` + persistence.ActivityTable + ` WHERE tenant_id = $1`

// ListActivity returns the latest limit rows by check-in.
func (s *Store) ListActivity(ctx context.Context, tenantID int64, limit int) (records []domain.ActivityRecord, err error) {
	defer observe("list_activity", time.Now(), &err)

	query := activitySelect + ` ORDER BY check_in DESC NULLS LAST LIMIT $2`
	err = s.withTenant(ctx, tenantID, func(tx pgx.Tx) error {
		records, err = queryActivity(ctx, tx, query, tenantID, limit)
		return err
	})
	return records, err
}

// ActivityBetween returns rows with a check-in or a check-out in [start, end).
func (s *Store) ActivityBetween(ctx context.Context, tenantID int64, start, end time.Time) (records []domain.ActivityRecord, err error) {
	defer observe("activity_between", time.Now(), &err)

	query := activitySelect + `
        AND ((check_in >= $2 AND check_in < $3) OR (check_out >= $2 AND check_out < $3))
        ORDER BY check_in LIMIT ` + strconv.Itoa(persistence.MaxWindowRows)
	err = s.withTenant(ctx, tenantID, func(tx pgx.Tx) error {
		records, err = queryActivity(ctx, tx, query, tenantID, start.UTC(), end.UTC())
		return err
	})
	return records, err
}

// LatestActivity returns the row with the latest check-in, or nil.
func (s *Store) LatestActivity(ctx context.Context, tenantID int64) (record *domain.ActivityRecord, err error) {
	defer observe("latest_activity", time.Now(), &err)

	query := activitySelect + ` ORDER BY check_in DESC NULLS LAST LIMIT 1`
	err = s.withTenant(ctx, tenantID, func(tx pgx.Tx) error {
		records, err := queryActivity(ctx, tx, query, tenantID)
		if err != nil {
			return err
		}
		if len(records) > 0 {
			record = &records[0]
		}
		return nil
	})
	return record, err
}

func queryActivity(ctx context.Context, tx pgx.Tx, query string, args ...any) ([]domain.ActivityRecord, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.ActivityRecord, 0)
	for rows.Next() {
		var (
			rec   domain.ActivityRecord
			flags []byte
		)
		if err := rows.Scan(&rec.CheckinID, &rec.TenantID, &rec.PersonName, &rec.CompanyName, &rec.BoatName,
			&rec.CheckIn, &rec.CheckOut, &flags, &rec.ContactPhone, &rec.ContactEmail, &rec.PhotoRef); err != nil {
			return nil, err
		}
		rec.Flags = flags
		results = append(results, rec)
	}
	return results, rows.Err()
}
