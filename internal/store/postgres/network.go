package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kinsu128-art/it-hub/internal/domain"
)

type NetworkIPRepo struct {
	db DB
}

func NewNetworkIPRepo(db DB) *NetworkIPRepo {
	return &NetworkIPRepo{db: db}
}

const networkIPColumns = `id, ip_address, subnet_mask, gateway, assigned_device, vlan_id,
	is_active, notes, created_by, updated_by, created_at, updated_at`

func (r *NetworkIPRepo) Create(ctx context.Context, n *domain.NetworkIP) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO network_ips (ip_address, subnet_mask, gateway, assigned_device, vlan_id,
		                          is_active, notes, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		n.IPAddress, n.SubnetMask, nilIfEmpty(n.Gateway), nilIfEmpty(n.AssignedDevice),
		nilIfZeroInt(n.VLANID), n.IsActive, nilIfEmpty(n.Notes),
		nilIfZero(n.CreatedBy), nilIfZero(n.UpdatedBy),
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("networkIPRepo.Create: %w", err)
	}

	return nil
}

func (r *NetworkIPRepo) GetByID(ctx context.Context, id int64) (*domain.NetworkIP, error) {
	row := r.db.QueryRow(ctx, `SELECT `+networkIPColumns+` FROM network_ips WHERE id = $1`, id)

	n, err := scanNetworkIP(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("networkIPRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("networkIPRepo.GetByID: %w", err)
	}

	return n, nil
}

func (r *NetworkIPRepo) Update(ctx context.Context, n *domain.NetworkIP) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE network_ips SET ip_address = $1, subnet_mask = $2, gateway = $3, assigned_device = $4,
		                        vlan_id = $5, is_active = $6, notes = $7, updated_by = $8, updated_at = now()
		 WHERE id = $9`,
		n.IPAddress, n.SubnetMask, nilIfEmpty(n.Gateway), nilIfEmpty(n.AssignedDevice),
		nilIfZeroInt(n.VLANID), n.IsActive, nilIfEmpty(n.Notes), nilIfZero(n.UpdatedBy), n.ID,
	)
	if err != nil {
		return fmt.Errorf("networkIPRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("networkIPRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// Delete removes the allocation row. IP allocations are the one asset kind
// that is hard-deleted rather than disposed.
func (r *NetworkIPRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM network_ips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("networkIPRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("networkIPRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *NetworkIPRepo) List(ctx context.Context, f domain.NetworkIPFilter) ([]*domain.NetworkIP, int64, error) {
	var conds []string
	var args []any

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(ip_address ILIKE $%d OR assigned_device ILIKE $%d)", n, n))
	}
	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		conds = append(conds, fmt.Sprintf("is_active = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM network_ips`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("networkIPRepo.List: count: %w", err)
	}

	limit, offset := pageBounds(f.Page, f.Limit)
	args = append(args, limit, offset)
	rows, err := r.db.Query(ctx,
		`SELECT `+networkIPColumns+` FROM network_ips`+where+
			fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("networkIPRepo.List: %w", err)
	}
	defer rows.Close()

	var ips []*domain.NetworkIP
	for rows.Next() {
		n, err := scanNetworkIP(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("networkIPRepo.List: scan: %w", err)
		}
		ips = append(ips, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("networkIPRepo.List: rows: %w", err)
	}

	return ips, total, nil
}

func (r *NetworkIPRepo) FindActiveByAddress(ctx context.Context, ipAddress string, excludeID int64) (*domain.NetworkIP, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+networkIPColumns+`
		 FROM network_ips
		 WHERE ip_address = $1 AND is_active AND id <> $2
		 ORDER BY id
		 LIMIT 1`,
		ipAddress, excludeID,
	)

	n, err := scanNetworkIP(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("networkIPRepo.FindActiveByAddress: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("networkIPRepo.FindActiveByAddress: %w", err)
	}

	return n, nil
}

func scanNetworkIP(row pgx.Row) (*domain.NetworkIP, error) {
	var n domain.NetworkIP
	var gateway, assignedDevice, notes *string
	var vlanID *int
	var createdBy, updatedBy *int64

	err := row.Scan(
		&n.ID, &n.IPAddress, &n.SubnetMask, &gateway, &assignedDevice, &vlanID,
		&n.IsActive, &notes, &createdBy, &updatedBy, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.Gateway = derefStr(gateway)
	n.AssignedDevice = derefStr(assignedDevice)
	if vlanID != nil {
		n.VLANID = *vlanID
	}
	n.Notes = derefStr(notes)
	n.CreatedBy = derefInt(createdBy)
	n.UpdatedBy = derefInt(updatedBy)

	return &n, nil
}
