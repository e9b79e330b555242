package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kinsu128-art/it-hub/internal/domain"
)

type PrinterRepo struct {
	db DB
}

func NewPrinterRepo(db DB) *PrinterRepo {
	return &PrinterRepo{db: db}
}

const printerColumns = `id, asset_number, model_name, ip_address, location, toner_status,
	drum_status, vendor_name, vendor_contact, status, notes, created_by, updated_by, created_at, updated_at`

func (r *PrinterRepo) Create(ctx context.Context, p *domain.Printer) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO printers (asset_number, model_name, ip_address, location, toner_status,
		                       drum_status, vendor_name, vendor_contact, status, notes, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at, updated_at`,
		p.AssetNumber, p.ModelName, nilIfEmpty(p.IPAddress), nilIfEmpty(p.Location),
		nilIfEmpty(p.TonerStatus), nilIfEmpty(p.DrumStatus),
		nilIfEmpty(p.VendorName), nilIfEmpty(p.VendorContact),
		p.Status, nilIfEmpty(p.Notes), nilIfZero(p.CreatedBy), nilIfZero(p.UpdatedBy),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("printerRepo.Create: %w", err)
	}

	return nil
}

func (r *PrinterRepo) GetByID(ctx context.Context, id int64) (*domain.Printer, error) {
	return r.getBy(ctx, "printerRepo.GetByID", "id = $1", id)
}

func (r *PrinterRepo) GetByAssetNumber(ctx context.Context, assetNumber string) (*domain.Printer, error) {
	return r.getBy(ctx, "printerRepo.GetByAssetNumber", "asset_number = $1", assetNumber)
}

func (r *PrinterRepo) getBy(ctx context.Context, caller, cond string, arg any) (*domain.Printer, error) {
	row := r.db.QueryRow(ctx, `SELECT `+printerColumns+` FROM printers WHERE `+cond, arg)

	p, err := scanPrinter(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", caller, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", caller, err)
	}

	return p, nil
}

func (r *PrinterRepo) Update(ctx context.Context, p *domain.Printer) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE printers SET asset_number = $1, model_name = $2, ip_address = $3, location = $4,
		                     toner_status = $5, drum_status = $6, vendor_name = $7, vendor_contact = $8,
		                     status = $9, notes = $10, updated_by = $11, updated_at = now()
		 WHERE id = $12`,
		p.AssetNumber, p.ModelName, nilIfEmpty(p.IPAddress), nilIfEmpty(p.Location),
		nilIfEmpty(p.TonerStatus), nilIfEmpty(p.DrumStatus),
		nilIfEmpty(p.VendorName), nilIfEmpty(p.VendorContact),
		p.Status, nilIfEmpty(p.Notes), nilIfZero(p.UpdatedBy), p.ID,
	)
	if err != nil {
		return fmt.Errorf("printerRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("printerRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *PrinterRepo) Dispose(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE printers SET status = $1, updated_by = $2, updated_at = now() WHERE id = $3`,
		domain.PrinterStatusDisposed, nilIfZero(userID), id,
	)
	if err != nil {
		return fmt.Errorf("printerRepo.Dispose: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("printerRepo.Dispose: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *PrinterRepo) List(ctx context.Context, f domain.PrinterFilter) ([]*domain.Printer, int64, error) {
	var conds []string
	var args []any

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(asset_number ILIKE $%d OR model_name ILIKE $%d OR location ILIKE $%d)", n, n, n))
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
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM printers`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("printerRepo.List: count: %w", err)
	}

	limit, offset := pageBounds(f.Page, f.Limit)
	args = append(args, limit, offset)
	rows, err := r.db.Query(ctx,
		`SELECT `+printerColumns+` FROM printers`+where+
			fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("printerRepo.List: %w", err)
	}
	defer rows.Close()

	var printers []*domain.Printer
	for rows.Next() {
		p, err := scanPrinter(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("printerRepo.List: scan: %w", err)
		}
		printers = append(printers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("printerRepo.List: rows: %w", err)
	}

	return printers, total, nil
}

func scanPrinter(row pgx.Row) (*domain.Printer, error) {
	var p domain.Printer
	var ipAddress, location, tonerStatus, drumStatus, vendorName, vendorContact, notes *string
	var createdBy, updatedBy *int64

	err := row.Scan(
		&p.ID, &p.AssetNumber, &p.ModelName, &ipAddress, &location, &tonerStatus,
		&drumStatus, &vendorName, &vendorContact, &p.Status, &notes,
		&createdBy, &updatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.IPAddress = derefStr(ipAddress)
	p.Location = derefStr(location)
	p.TonerStatus = derefStr(tonerStatus)
	p.DrumStatus = derefStr(drumStatus)
	p.VendorName = derefStr(vendorName)
	p.VendorContact = derefStr(vendorContact)
	p.Notes = derefStr(notes)
	p.CreatedBy = derefInt(createdBy)
	p.UpdatedBy = derefInt(updatedBy)

	return &p, nil
}
