package domain

import (
	"context"
	"slices"
	"time"
)

type PCStatus string

const (
	PCStatusAssigned PCStatus = "assigned"
	PCStatusInStock  PCStatus = "in_stock"
	PCStatusRepair   PCStatus = "repair"
	PCStatusDisposed PCStatus = "disposed"
)

// ValidPCStatuses is the canonical set of known PC statuses.
var ValidPCStatuses = []PCStatus{ //nolint:gochecknoglobals // canonical enum list
	PCStatusAssigned,
	PCStatusInStock,
	PCStatusRepair,
	PCStatusDisposed,
}

// Valid returns true if s is a known PC status.
func (s PCStatus) Valid() bool {
	return slices.Contains(ValidPCStatuses, s)
}

// PC is a PC or laptop asset.
type PC struct {
	ID           int64     `json:"id"`
	AssetNumber  string    `json:"asset_number"`
	UserName     string    `json:"user_name,omitempty"`
	Department   string    `json:"department,omitempty"`
	ModelName    string    `json:"model_name"`
	SerialNumber string    `json:"serial_number,omitempty"`
	PurchaseDate string    `json:"purchase_date,omitempty"`
	CPU          string    `json:"cpu,omitempty"`
	RAM          string    `json:"ram,omitempty"`
	Disk         string    `json:"disk,omitempty"`
	Status       PCStatus  `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	CreatedBy    int64     `json:"created_by,omitempty"`
	UpdatedBy    int64     `json:"updated_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fields returns the audit-relevant field values keyed by column name.
// Bookkeeping columns (id, timestamps, attribution) are not included.
func (p *PC) Fields() map[string]any {
	return map[string]any{
		"asset_number":  p.AssetNumber,
		"user_name":     p.UserName,
		"department":    p.Department,
		"model_name":    p.ModelName,
		"serial_number": p.SerialNumber,
		"purchase_date": p.PurchaseDate,
		"cpu":           p.CPU,
		"ram":           p.RAM,
		"disk":          p.Disk,
		"status":        string(p.Status),
		"notes":         p.Notes,
	}
}

// PCFilter narrows and pages a PC list query.
type PCFilter struct {
	Search     string // matches asset_number, model_name, user_name, serial_number
	Status     PCStatus
	Department string
	Page       int
	Limit      int
}

type PCRepository interface {
	Create(ctx context.Context, p *PC) error
	GetByID(ctx context.Context, id int64) (*PC, error)
	GetByAssetNumber(ctx context.Context, assetNumber string) (*PC, error)
	Update(ctx context.Context, p *PC) error
	Dispose(ctx context.Context, id, userID int64) error
	List(ctx context.Context, f PCFilter) ([]*PC, int64, error)
}
