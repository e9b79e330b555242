package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kinsu128-art/it-hub/internal/domain"
)

type SoftwareRepo struct {
	db DB
}

func NewSoftwareRepo(db DB) *SoftwareRepo {
	return &SoftwareRepo{db: db}
}

const softwareColumns = `id, software_name, license_key, purchased_quantity, allocated_quantity,
	expiry_date, version, vendor_name, status, notes, created_by, updated_by, created_at, updated_at`

func (r *SoftwareRepo) Create(ctx context.Context, s *domain.Software) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO software (software_name, license_key, purchased_quantity, allocated_quantity,
		                       expiry_date, version, vendor_name, status, notes, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at`,
		s.SoftwareName, nilIfEmpty(s.LicenseKey), s.PurchasedQuantity, s.AllocatedQuantity,
		nilIfEmpty(s.ExpiryDate), nilIfEmpty(s.Version), nilIfEmpty(s.VendorName),
		s.Status, nilIfEmpty(s.Notes), nilIfZero(s.CreatedBy), nilIfZero(s.UpdatedBy),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("softwareRepo.Create: %w", err)
	}

	return nil
}

func (r *SoftwareRepo) GetByID(ctx context.Context, id int64) (*domain.Software, error) {
	row := r.db.QueryRow(ctx, `SELECT `+softwareColumns+` FROM software WHERE id = $1`, id)

	s, err := scanSoftware(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("softwareRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("softwareRepo.GetByID: %w", err)
	}

	return s, nil
}

func (r *SoftwareRepo) Update(ctx context.Context, s *domain.Software) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE software SET software_name = $1, license_key = $2, purchased_quantity = $3,
		                     allocated_quantity = $4, expiry_date = $5, version = $6, vendor_name = $7,
		                     status = $8, notes = $9, updated_by = $10, updated_at = now()
		 WHERE id = $11`,
		s.SoftwareName, nilIfEmpty(s.LicenseKey), s.PurchasedQuantity, s.AllocatedQuantity,
		nilIfEmpty(s.ExpiryDate), nilIfEmpty(s.Version), nilIfEmpty(s.VendorName),
		s.Status, nilIfEmpty(s.Notes), nilIfZero(s.UpdatedBy), s.ID,
	)
	if err != nil {
		return fmt.Errorf("softwareRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("softwareRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *SoftwareRepo) Dispose(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE software SET status = $1, updated_by = $2, updated_at = now() WHERE id = $3`,
		domain.SoftwareStatusDisposed, nilIfZero(userID), id,
	)
	if err != nil {
		return fmt.Errorf("softwareRepo.Dispose: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("softwareRepo.Dispose: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *SoftwareRepo) List(ctx context.Context, f domain.SoftwareFilter) ([]*domain.Software, int64, error) {
	var conds []string
	var args []any

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(software_name ILIKE $%d OR vendor_name ILIKE $%d OR license_key ILIKE $%d)", n, n, n))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM software`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("softwareRepo.List: count: %w", err)
	}

	limit, offset := pageBounds(f.Page, f.Limit)
	args = append(args, limit, offset)
	rows, err := r.db.Query(ctx,
		`SELECT `+softwareColumns+` FROM software`+where+
			fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("softwareRepo.List: %w", err)
	}
	defer rows.Close()

	var items []*domain.Software
	for rows.Next() {
		s, err := scanSoftware(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("softwareRepo.List: scan: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("softwareRepo.List: rows: %w", err)
	}

	return items, total, nil
}

// ListExpiringWithin relies on expiry_date being stored as YYYY-MM-DD, which
// compares correctly as text.
func (r *SoftwareRepo) ListExpiringWithin(ctx context.Context, days int) ([]*domain.Software, error) {
	cutoff := time.Now().AddDate(0, 0, days).Format("2006-01-02")

	rows, err := r.db.Query(ctx,
		`SELECT `+softwareColumns+`
		 FROM software
		 WHERE status = $1 AND expiry_date IS NOT NULL AND expiry_date <= $2
		 ORDER BY expiry_date, id`,
		domain.SoftwareStatusActive, cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("softwareRepo.ListExpiringWithin: %w", err)
	}
	defer rows.Close()

	var items []*domain.Software
	for rows.Next() {
		s, err := scanSoftware(rows)
		if err != nil {
			return nil, fmt.Errorf("softwareRepo.ListExpiringWithin: scan: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("softwareRepo.ListExpiringWithin: rows: %w", err)
	}

	return items, nil
}

func scanSoftware(row pgx.Row) (*domain.Software, error) {
	var s domain.Software
	var licenseKey, expiryDate, version, vendorName, notes *string
	var createdBy, updatedBy *int64

	err := row.Scan(
		&s.ID, &s.SoftwareName, &licenseKey, &s.PurchasedQuantity, &s.AllocatedQuantity,
		&expiryDate, &version, &vendorName, &s.Status, &notes,
		&createdBy, &updatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.LicenseKey = derefStr(licenseKey)
	s.ExpiryDate = derefStr(expiryDate)
	s.Version = derefStr(version)
	s.VendorName = derefStr(vendorName)
	s.Notes = derefStr(notes)
	s.CreatedBy = derefInt(createdBy)
	s.UpdatedBy = derefInt(updatedBy)

	return &s, nil
}
