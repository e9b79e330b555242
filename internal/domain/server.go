package domain

import (
	"context"
	"slices"
	"time"
)

type ServerStatus string

const (
	ServerStatusActive      ServerStatus = "active"
	ServerStatusInactive    ServerStatus = "inactive"
	ServerStatusMaintenance ServerStatus = "maintenance"
	ServerStatusDisposed    ServerStatus = "disposed"
)

// ValidServerStatuses is the canonical set of known server statuses.
var ValidServerStatuses = []ServerStatus{ //nolint:gochecknoglobals // canonical enum list
	ServerStatusActive,
	ServerStatusInactive,
	ServerStatusMaintenance,
	ServerStatusDisposed,
}

// Valid returns true if s is a known server status.
func (s ServerStatus) Valid() bool {
	return slices.Contains(ValidServerStatuses, s)
}

// Server is a physical or virtual server asset.
type Server struct {
	ID             int64        `json:"id"`
	AssetNumber    string       `json:"asset_number"`
	Hostname       string       `json:"hostname"`
	RackLocation   string       `json:"rack_location,omitempty"`
	OSVersion      string       `json:"os_version,omitempty"`
	IPAddress      string       `json:"ip_address,omitempty"`
	Purpose        string       `json:"purpose,omitempty"`
	WarrantyExpiry string       `json:"warranty_expiry,omitempty"`
	CPU            string       `json:"cpu,omitempty"`
	RAM            string       `json:"ram,omitempty"`
	Disk           string       `json:"disk,omitempty"`
	Status         ServerStatus `json:"status"`
	Notes          string       `json:"notes,omitempty"`
	CreatedBy      int64        `json:"created_by,omitempty"`
	UpdatedBy      int64        `json:"updated_by,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Fields returns the audit-relevant field values keyed by column name.
func (s *Server) Fields() map[string]any {
	return map[string]any{
		"asset_number":    s.AssetNumber,
		"hostname":        s.Hostname,
		"rack_location":   s.RackLocation,
		"os_version":      s.OSVersion,
		"ip_address":      s.IPAddress,
		"purpose":         s.Purpose,
		"warranty_expiry": s.WarrantyExpiry,
		"cpu":             s.CPU,
		"ram":             s.RAM,
		"disk":            s.Disk,
		"status":          string(s.Status),
		"notes":           s.Notes,
	}
}

// ServerFilter narrows and pages a server list query.
type ServerFilter struct {
	Search string // matches asset_number, hostname, ip_address
	Status ServerStatus
	Page   int
	Limit  int
}

type ServerRepository interface {
	Create(ctx context.Context, s *Server) error
	GetByID(ctx context.Context, id int64) (*Server, error)
	GetByAssetNumber(ctx context.Context, assetNumber string) (*Server, error)
	Update(ctx context.Context, s *Server) error
	Dispose(ctx context.Context, id, userID int64) error
	List(ctx context.Context, f ServerFilter) ([]*Server, int64, error)
}
