package domain

import (
	"context"
	"slices"
	"time"
)

type SoftwareStatus string

const (
	SoftwareStatusActive   SoftwareStatus = "active"
	SoftwareStatusExpired  SoftwareStatus = "expired"
	SoftwareStatusDisposed SoftwareStatus = "disposed"
)

// ValidSoftwareStatuses is the canonical set of known software statuses.
var ValidSoftwareStatuses = []SoftwareStatus{ //nolint:gochecknoglobals // canonical enum list
	SoftwareStatusActive,
	SoftwareStatusExpired,
	SoftwareStatusDisposed,
}

// Valid returns true if s is a known software status.
func (s SoftwareStatus) Valid() bool {
	return slices.Contains(ValidSoftwareStatuses, s)
}

// Software is one licensed software product.
type Software struct {
	ID                int64          `json:"id"`
	SoftwareName      string         `json:"software_name"`
	LicenseKey        string         `json:"license_key,omitempty"`
	PurchasedQuantity int            `json:"purchased_quantity"`
	AllocatedQuantity int            `json:"allocated_quantity"`
	ExpiryDate        string         `json:"expiry_date,omitempty"`
	Version           string         `json:"version,omitempty"`
	VendorName        string         `json:"vendor_name,omitempty"`
	Status            SoftwareStatus `json:"status"`
	Notes             string         `json:"notes,omitempty"`
	CreatedBy         int64          `json:"created_by,omitempty"`
	UpdatedBy         int64          `json:"updated_by,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// Fields returns the audit-relevant field values keyed by column name.
func (s *Software) Fields() map[string]any {
	return map[string]any{
		"software_name":      s.SoftwareName,
		"license_key":        s.LicenseKey,
		"purchased_quantity": s.PurchasedQuantity,
		"allocated_quantity": s.AllocatedQuantity,
		"expiry_date":        s.ExpiryDate,
		"version":            s.Version,
		"vendor_name":        s.VendorName,
		"status":             string(s.Status),
		"notes":              s.Notes,
	}
}

// SoftwareFilter narrows and pages a software list query.
type SoftwareFilter struct {
	Search string // matches software_name, vendor_name, license_key
	Status SoftwareStatus
	Page   int
	Limit  int
}

type SoftwareRepository interface {
	Create(ctx context.Context, s *Software) error
	GetByID(ctx context.Context, id int64) (*Software, error)
	Update(ctx context.Context, s *Software) error
	Dispose(ctx context.Context, id, userID int64) error
	List(ctx context.Context, f SoftwareFilter) ([]*Software, int64, error)
	// ListExpiringWithin returns active licenses whose expiry date falls
	// within the next d days, soonest first.
	ListExpiringWithin(ctx context.Context, days int) ([]*Software, error)
}
