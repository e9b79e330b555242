package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kinsu128-art/it-hub/internal/domain"
)

type PCRepo struct {
	db DB
}

func NewPCRepo(db DB) *PCRepo {
	return &PCRepo{db: db}
}

const pcColumns = `id, asset_number, user_name, department, model_name, serial_number,
	purchase_date, cpu, ram, disk, status, notes, created_by, updated_by, created_at, updated_at`

func (r *PCRepo) Create(ctx context.Context, p *domain.PC) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO pcs (asset_number, user_name, department, model_name, serial_number,
		                  purchase_date, cpu, ram, disk, status, notes, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at, updated_at`,
		p.AssetNumber, nilIfEmpty(p.UserName), nilIfEmpty(p.Department), p.ModelName,
		nilIfEmpty(p.SerialNumber), nilIfEmpty(p.PurchaseDate),
		nilIfEmpty(p.CPU), nilIfEmpty(p.RAM), nilIfEmpty(p.Disk),
		p.Status, nilIfEmpty(p.Notes), nilIfZero(p.CreatedBy), nilIfZero(p.UpdatedBy),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pcRepo.Create: %w", err)
	}

	return nil
}

func (r *PCRepo) GetByID(ctx context.Context, id int64) (*domain.PC, error) {
	return r.getBy(ctx, "pcRepo.GetByID", "id = $1", id)
}

func (r *PCRepo) GetByAssetNumber(ctx context.Context, assetNumber string) (*domain.PC, error) {
	return r.getBy(ctx, "pcRepo.GetByAssetNumber", "asset_number = $1", assetNumber)
}

func (r *PCRepo) getBy(ctx context.Context, caller, cond string, arg any) (*domain.PC, error) {
	row := r.db.QueryRow(ctx, `SELECT `+pcColumns+` FROM pcs WHERE `+cond, arg)

	p, err := scanPC(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", caller, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caller, err)
	}

	return p, nil
}

func (r *PCRepo) Update(ctx context.Context, p *domain.PC) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE pcs SET asset_number = $1, user_name = $2, department = $3, model_name = $4,
		                serial_number = $5, purchase_date = $6, cpu = $7, ram = $8, disk = $9,
		                status = $10, notes = $11, updated_by = $12, updated_at = now()
		 WHERE id = $13`,
		p.AssetNumber, nilIfEmpty(p.UserName), nilIfEmpty(p.Department), p.ModelName,
		nilIfEmpty(p.SerialNumber), nilIfEmpty(p.PurchaseDate),
		nilIfEmpty(p.CPU), nilIfEmpty(p.RAM), nilIfEmpty(p.Disk),
		p.Status, nilIfEmpty(p.Notes), nilIfZero(p.UpdatedBy), p.ID,
	)
	if err != nil {
		return fmt.Errorf("pcRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pcRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *PCRepo) Dispose(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE pcs SET status = $1, updated_by = $2, updated_at = now() WHERE id = $3`,
		domain.PCStatusDisposed, nilIfZero(userID), id,
	)
	if err != nil {
		return fmt.Errorf("pcRepo.Dispose: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pcRepo.Dispose: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *PCRepo) List(ctx context.Context, f domain.PCFilter) ([]*domain.PC, int64, error) {
	var conds []string
	var args []any

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(asset_number ILIKE $%d OR model_name ILIKE $%d OR user_name ILIKE $%d OR serial_number ILIKE $%d)",
			n, n, n, n))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Department != "" {
		args = append(args, f.Department)
		conds = append(conds, fmt.Sprintf("department = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pcs`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("pcRepo.List: count: %w", err)
	}

	limit, offset := pageBounds(f.Page, f.Limit)
	args = append(args, limit, offset)
	rows, err := r.db.Query(ctx,
		`SELECT `+pcColumns+` FROM pcs`+where+
			fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("pcRepo.List: %w", err)
	}
	defer rows.Close()

	var pcs []*domain.PC
	for rows.Next() {
		p, err := scanPC(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("pcRepo.List: scan: %w", err)
		}
		pcs = append(pcs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pcRepo.List: rows: %w", err)
	}

	return pcs, total, nil
}

func scanPC(row pgx.Row) (*domain.PC, error) {
	var p domain.PC
	var userName, department, serialNumber, purchaseDate, cpu, ram, disk, notes *string
	var createdBy, updatedBy *int64

	err := row.Scan(
		&p.ID, &p.AssetNumber, &userName, &department, &p.ModelName, &serialNumber,
		&purchaseDate, &cpu, &ram, &disk, &p.Status, &notes,
		&createdBy, &updatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.UserName = derefStr(userName)
	p.Department = derefStr(department)
	p.SerialNumber = derefStr(serialNumber)
	p.PurchaseDate = derefStr(purchaseDate)
	p.CPU = derefStr(cpu)
	p.RAM = derefStr(ram)
	p.Disk = derefStr(disk)
	p.Notes = derefStr(notes)
	p.CreatedBy = derefInt(createdBy)
	p.UpdatedBy = derefInt(updatedBy)

	return &p, nil
}

// pageBounds normalizes 1-based paging into LIMIT/OFFSET values.
func pageBounds(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case limit < 1:
		limit = 20
	case limit > 100:
		limit = 100
	}
	return limit, (page - 1) * limit
}
