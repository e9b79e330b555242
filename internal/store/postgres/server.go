package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kinsu128-art/it-hub/internal/domain"
)

type ServerRepo struct {
	db DB
}

func NewServerRepo(db DB) *ServerRepo {
	return &ServerRepo{db: db}
}

const serverColumns = `id, asset_number, hostname, rack_location, os_version, ip_address,
	purpose, warranty_expiry, cpu, ram, disk, status, notes, created_by, updated_by, created_at, updated_at`

func (r *ServerRepo) Create(ctx context.Context, s *domain.Server) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO servers (asset_number, hostname, rack_location, os_version, ip_address,
		                      purpose, warranty_expiry, cpu, ram, disk, status, notes, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id, created_at, updated_at`,
		s.AssetNumber, s.Hostname, nilIfEmpty(s.RackLocation), nilIfEmpty(s.OSVersion),
		nilIfEmpty(s.IPAddress), nilIfEmpty(s.Purpose), nilIfEmpty(s.WarrantyExpiry),
		nilIfEmpty(s.CPU), nilIfEmpty(s.RAM), nilIfEmpty(s.Disk),
		s.Status, nilIfEmpty(s.Notes), nilIfZero(s.CreatedBy), nilIfZero(s.UpdatedBy),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("serverRepo.Create: %w", err)
	}

	return nil
}

func (r *ServerRepo) GetByID(ctx context.Context, id int64) (*domain.Server, error) {
	return r.getBy(ctx, "serverRepo.GetByID", "id = $1", id)
}

func (r *ServerRepo) GetByAssetNumber(ctx context.Context, assetNumber string) (*domain.Server, error) {
	return r.getBy(ctx, "serverRepo.GetByAssetNumber", "asset_number = $1", assetNumber)
}

func (r *ServerRepo) getBy(ctx context.Context, caller, cond string, arg any) (*domain.Server, error) {
	row := r.db.QueryRow(ctx, `SELECT `+serverColumns+` FROM servers WHERE `+cond, arg)

	s, err := scanServer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", caller, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caller, err)
	}

	return s, nil
}

func (r *ServerRepo) Update(ctx context.Context, s *domain.Server) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE servers SET asset_number = $1, hostname = $2, rack_location = $3, os_version = $4,
		                    ip_address = $5, purpose = $6, warranty_expiry = $7, cpu = $8, ram = $9,
		                    disk = $10, status = $11, notes = $12, updated_by = $13, updated_at = now()
		 WHERE id = $14`,
		s.AssetNumber, s.Hostname, nilIfEmpty(s.RackLocation), nilIfEmpty(s.OSVersion),
		nilIfEmpty(s.IPAddress), nilIfEmpty(s.Purpose), nilIfEmpty(s.WarrantyExpiry),
		nilIfEmpty(s.CPU), nilIfEmpty(s.RAM), nilIfEmpty(s.Disk),
		s.Status, nilIfEmpty(s.Notes), nilIfZero(s.UpdatedBy), s.ID,
	)
	if err != nil {
		return fmt.Errorf("serverRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("serverRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ServerRepo) Dispose(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE servers SET status = $1, updated_by = $2, updated_at = now() WHERE id = $3`,
		domain.ServerStatusDisposed, nilIfZero(userID), id,
	)
	if err != nil {
		return fmt.Errorf("serverRepo.Dispose: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("serverRepo.Dispose: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ServerRepo) List(ctx context.Context, f domain.ServerFilter) ([]*domain.Server, int64, error) {
	var conds []string
	var args []any

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(asset_number ILIKE $%d OR hostname ILIKE $%d OR ip_address ILIKE $%d OR purpose ILIKE $%d)",
			n, n, n, n))
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
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM servers`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("serverRepo.List: count: %w", err)
	}

	limit, offset := pageBounds(f.Page, f.Limit)
	args = append(args, limit, offset)
	rows, err := r.db.Query(ctx,
		`SELECT `+serverColumns+` FROM servers`+where+
			fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("serverRepo.List: %w", err)
	}
	defer rows.Close()

	var servers []*domain.Server
	for rows.Next() {
		s, err := scanServer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("serverRepo.List: scan: %w", err)
		}
		servers = append(servers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("serverRepo.List: rows: %w", err)
	}

	return servers, total, nil
}

func scanServer(row pgx.Row) (*domain.Server, error) {
	var s domain.Server
	var rackLocation, osVersion, ipAddress, purpose, warrantyExpiry, cpu, ram, disk, notes *string
	var createdBy, updatedBy *int64

	err := row.Scan(
		&s.ID, &s.AssetNumber, &s.Hostname, &rackLocation, &osVersion, &ipAddress,
		&purpose, &warrantyExpiry, &cpu, &ram, &disk, &s.Status, &notes,
		&createdBy, &updatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.RackLocation = derefStr(rackLocation)
	s.OSVersion = derefStr(osVersion)
	s.IPAddress = derefStr(ipAddress)
	s.Purpose = derefStr(purpose)
	s.WarrantyExpiry = derefStr(warrantyExpiry)
	s.CPU = derefStr(cpu)
	s.RAM = derefStr(ram)
	s.Disk = derefStr(disk)
	s.Notes = derefStr(notes)
	s.CreatedBy = derefInt(createdBy)
	s.UpdatedBy = derefInt(updatedBy)

	return &s, nil
}
