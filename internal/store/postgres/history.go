package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kinsu128-art/it-hub/internal/domain"
)

type HistoryRepo struct {
	db DB
}

func NewHistoryRepo(db DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Insert appends one audit row. The store assigns id and changed_at; both
// are written back into rec.
func (r *HistoryRepo) Insert(ctx context.Context, rec *domain.AssetHistoryRecord) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO asset_history
		     (asset_type, asset_id, action, field_name, old_value, new_value, changed_by, ip_address, user_agent)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, changed_at`,
		rec.AssetType, rec.AssetID, rec.Action,
		nilIfEmpty(rec.FieldName),
		nullableValue(rec.Action, rec.OldValue),
		nullableValue(rec.Action, rec.NewValue),
		nilIfZero(rec.ChangedBy),
		nilIfEmpty(rec.IPAddress), nilIfEmpty(rec.UserAgent),
	).Scan(&rec.ID, &rec.ChangedAt)
	if err != nil {
		return fmt.Errorf("historyRepo.Insert: %w", err)
	}

	return nil
}

// nullableValue keeps old/new NULL for single-row actions while letting an
// update legitimately record an empty string (e.g. notes cleared).
func nullableValue(action domain.Action, v string) *string {
	if action != domain.ActionUpdate {
		return nil
	}
	return &v
}

func (r *HistoryRepo) ListByAsset(ctx context.Context, assetType domain.AssetType, assetID int64, limit int) ([]*domain.AssetHistoryRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT h.id, h.asset_type, h.asset_id, h.action, h.field_name, h.old_value, h.new_value,
		        h.changed_by, h.changed_at, h.ip_address, h.user_agent, u.name
		 FROM asset_history h
		 LEFT JOIN users u ON h.changed_by = u.id
		 WHERE h.asset_type = $1 AND h.asset_id = $2
		 ORDER BY h.changed_at DESC, h.id DESC
		 LIMIT $3`,
		assetType, assetID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("historyRepo.ListByAsset: %w", err)
	}
	defer rows.Close()

	return scanHistoryRecords(rows, "historyRepo.ListByAsset")
}

func (r *HistoryRepo) ListByWindow(ctx context.Context, start, end time.Time, limit int) ([]*domain.AssetHistoryRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT h.id, h.asset_type, h.asset_id, h.action, h.field_name, h.old_value, h.new_value,
		        h.changed_by, h.changed_at, h.ip_address, h.user_agent, u.name
		 FROM asset_history h
		 LEFT JOIN users u ON h.changed_by = u.id
		 WHERE h.changed_at >= $1 AND h.changed_at < $2
		 ORDER BY h.changed_at DESC, h.id DESC
		 LIMIT $3`,
		start, end, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("historyRepo.ListByWindow: %w", err)
	}
	defer rows.Close()

	return scanHistoryRecords(rows, "historyRepo.ListByWindow")
}

func (r *HistoryRepo) CountByAction(ctx context.Context, start, end time.Time) ([]*domain.ActionCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT action, COUNT(*)
		 FROM asset_history
		 WHERE changed_at >= $1 AND changed_at < $2
		 GROUP BY action
		 ORDER BY action`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("historyRepo.CountByAction: %w", err)
	}
	defer rows.Close()

	var counts []*domain.ActionCount
	for rows.Next() {
		var c domain.ActionCount
		if err := rows.Scan(&c.Action, &c.Count); err != nil {
			return nil, fmt.Errorf("historyRepo.CountByAction: scan: %w", err)
		}
		counts = append(counts, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("historyRepo.CountByAction: rows: %w", err)
	}

	return counts, nil
}

func (r *HistoryRepo) CountByAssetType(ctx context.Context, start, end time.Time) ([]*domain.AssetTypeCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT asset_type, COUNT(*)
		 FROM asset_history
		 WHERE changed_at >= $1 AND changed_at < $2
		 GROUP BY asset_type
		 ORDER BY asset_type`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("historyRepo.CountByAssetType: %w", err)
	}
	defer rows.Close()

	var counts []*domain.AssetTypeCount
	for rows.Next() {
		var c domain.AssetTypeCount
		if err := rows.Scan(&c.AssetType, &c.Count); err != nil {
			return nil, fmt.Errorf("historyRepo.CountByAssetType: scan: %w", err)
		}
		counts = append(counts, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("historyRepo.CountByAssetType: rows: %w", err)
	}

	return counts, nil
}

func (r *HistoryRepo) CountByDay(ctx context.Context, start, end time.Time) ([]*domain.DayCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT to_char(changed_at, 'YYYY-MM-DD') AS day, COUNT(*)
		 FROM asset_history
		 WHERE changed_at >= $1 AND changed_at < $2
		 GROUP BY day
		 ORDER BY day`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("historyRepo.CountByDay: %w", err)
	}
	defer rows.Close()

	var counts []*domain.DayCount
	for rows.Next() {
		var c domain.DayCount
		if err := rows.Scan(&c.Date, &c.Count); err != nil {
			return nil, fmt.Errorf("historyRepo.CountByDay: scan: %w", err)
		}
		counts = append(counts, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("historyRepo.CountByDay: rows: %w", err)
	}

	return counts, nil
}

func scanHistoryRecords(rows pgx.Rows, caller string) ([]*domain.AssetHistoryRecord, error) {
	var recs []*domain.AssetHistoryRecord
	for rows.Next() {
		var rec domain.AssetHistoryRecord
		var fieldName, oldValue, newValue, ipAddress, userAgent, userName *string
		var changedBy *int64

		err := rows.Scan(
			&rec.ID, &rec.AssetType, &rec.AssetID, &rec.Action,
			&fieldName, &oldValue, &newValue,
			&changedBy, &rec.ChangedAt, &ipAddress, &userAgent, &userName,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}

		rec.FieldName = derefStr(fieldName)
		rec.OldValue = derefStr(oldValue)
		rec.NewValue = derefStr(newValue)
		rec.ChangedBy = derefInt(changedBy)
		rec.IPAddress = derefStr(ipAddress)
		rec.UserAgent = derefStr(userAgent)
		rec.ChangedByName = derefStr(userName)
		recs = append(recs, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return recs, nil
}
