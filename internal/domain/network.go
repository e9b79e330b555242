package domain

import (
	"context"
	"net/netip"
	"time"
)

// NetworkIP is one managed IPv4 allocation. Unlike the other asset kinds it
// has no status enum: active allocations carry IsActive=true, and deletion is
// a hard delete recorded with the delete action.
type NetworkIP struct {
	ID             int64     `json:"id"`
	IPAddress      string    `json:"ip_address"`
	SubnetMask     string    `json:"subnet_mask"`
	Gateway        string    `json:"gateway,omitempty"`
	AssignedDevice string    `json:"assigned_device,omitempty"`
	VLANID         int       `json:"vlan_id,omitempty"`
	IsActive       bool      `json:"is_active"`
	Notes          string    `json:"notes,omitempty"`
	CreatedBy      int64     `json:"created_by,omitempty"`
	UpdatedBy      int64     `json:"updated_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Fields returns the audit-relevant field values keyed by column name.
func (n *NetworkIP) Fields() map[string]any {
	return map[string]any{
		"ip_address":      n.IPAddress,
		"subnet_mask":     n.SubnetMask,
		"gateway":         n.Gateway,
		"assigned_device": n.AssignedDevice,
		"vlan_id":         n.VLANID,
		"is_active":       n.IsActive,
		"notes":           n.Notes,
	}
}

// NetworkIPFilter narrows and pages a network IP list query.
type NetworkIPFilter struct {
	Search   string // matches ip_address, assigned_device
	IsActive *bool
	Page     int
	Limit    int
}

type NetworkIPRepository interface {
	Create(ctx context.Context, n *NetworkIP) error
	GetByID(ctx context.Context, id int64) (*NetworkIP, error)
	Update(ctx context.Context, n *NetworkIP) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f NetworkIPFilter) ([]*NetworkIP, int64, error)
	// FindActiveByAddress reports an active allocation of the given address,
	// excluding excludeID (0 to exclude nothing). Used for duplicate checks.
	FindActiveByAddress(ctx context.Context, ipAddress string, excludeID int64) (*NetworkIP, error)
}

// IsValidIPv4 reports whether s is a dotted-quad IPv4 address.
func IsValidIPv4(s string) bool {
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Is4()
}

// IsValidSubnetMask reports whether s is an IPv4 address whose set bits are
// contiguous from the most significant bit (a valid netmask).
func IsValidSubnetMask(s string) bool {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		return false
	}
	b := addr.As4()
	v := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	// A valid mask has the form 1...10...0, so filling its trailing zeros
	// with ones must yield all ones.
	return v|(v-1) == 0xFFFFFFFF
}
