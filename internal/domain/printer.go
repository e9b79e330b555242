package domain

import (
	"context"
	"slices"
	"time"
)

type PrinterStatus string

const (
	PrinterStatusActive   PrinterStatus = "active"
	PrinterStatusInactive PrinterStatus = "inactive"
	PrinterStatusRepair   PrinterStatus = "repair"
	PrinterStatusDisposed PrinterStatus = "disposed"
)

// ValidPrinterStatuses is the canonical set of known printer statuses.
var ValidPrinterStatuses = []PrinterStatus{ //nolint:gochecknoglobals // canonical enum list
	PrinterStatusActive,
	PrinterStatusInactive,
	PrinterStatusRepair,
	PrinterStatusDisposed,
}

// Valid returns true if s is a known printer status.
func (s PrinterStatus) Valid() bool {
	return slices.Contains(ValidPrinterStatuses, s)
}

// Printer is a printer or multifunction device asset.
type Printer struct {
	ID            int64         `json:"id"`
	AssetNumber   string        `json:"asset_number"`
	ModelName     string        `json:"model_name"`
	IPAddress     string        `json:"ip_address,omitempty"`
	Location      string        `json:"location,omitempty"`
	TonerStatus   string        `json:"toner_status,omitempty"`
	DrumStatus    string        `json:"drum_status,omitempty"`
	VendorName    string        `json:"vendor_name,omitempty"`
	VendorContact string        `json:"vendor_contact,omitempty"`
	Status        PrinterStatus `json:"status"`
	Notes         string        `json:"notes,omitempty"`
	CreatedBy     int64         `json:"created_by,omitempty"`
	UpdatedBy     int64         `json:"updated_by,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Fields returns the audit-relevant field values keyed by column name.
func (p *Printer) Fields() map[string]any {
	return map[string]any{
		"asset_number":   p.AssetNumber,
		"model_name":     p.ModelName,
		"ip_address":     p.IPAddress,
		"location":       p.Location,
		"toner_status":   p.TonerStatus,
		"drum_status":    p.DrumStatus,
		"vendor_name":    p.VendorName,
		"vendor_contact": p.VendorContact,
		"status":         string(p.Status),
		"notes":          p.Notes,
	}
}

// PrinterFilter narrows and pages a printer list query.
type PrinterFilter struct {
	Search string // matches asset_number, model_name, location
	Status PrinterStatus
	Page   int
	Limit  int
}

type PrinterRepository interface {
	Create(ctx context.Context, p *Printer) error
	GetByID(ctx context.Context, id int64) (*Printer, error)
	GetByAssetNumber(ctx context.Context, assetNumber string) (*Printer, error)
	Update(ctx context.Context, p *Printer) error
	Dispose(ctx context.Context, id, userID int64) error
	List(ctx context.Context, f PrinterFilter) ([]*Printer, int64, error)
}
