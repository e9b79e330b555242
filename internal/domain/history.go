package domain

import (
	"context"
	"time"
)

// AssetHistoryRecord is one immutable audit entry. Rows are append-only:
// nothing in the system updates or deletes them after insert.
//
// FieldName, OldValue and NewValue are set only for update records, one row
// per changed field. Empty string means absent (stored as NULL).
type AssetHistoryRecord struct {
	ID        int64     `json:"id"`
	AssetType AssetType `json:"asset_type"`
	AssetID   int64     `json:"asset_id"`
	Action    Action    `json:"action"`
	FieldName string    `json:"field_name,omitempty"`
	OldValue  string    `json:"old_value,omitempty"`
	NewValue  string    `json:"new_value,omitempty"`
	ChangedBy int64     `json:"changed_by,omitempty"` // 0 when the acting user is unknown
	ChangedAt time.Time `json:"changed_at"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`

	// ChangedByName is the acting user's display name, resolved at read time
	// with left-join semantics: empty when the user has since been deleted.
	ChangedByName string `json:"changed_by_name,omitempty"`
}

// FieldChange is one field-level difference between two versions of an asset
// record. Produced by the diff step and consumed immediately by the recorder;
// never persisted as its own entity.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

// ActionCount is the number of audit rows sharing one action within a window.
type ActionCount struct {
	Action Action `json:"action"`
	Count  int64  `json:"count"`
}

// AssetTypeCount is the number of audit rows sharing one asset type within a
// window.
type AssetTypeCount struct {
	AssetType AssetType `json:"asset_type"`
	Count     int64     `json:"count"`
}

// DayCount is the number of audit rows on one calendar day.
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

type HistoryRepository interface {
	Insert(ctx context.Context, rec *AssetHistoryRecord) error
	ListByAsset(ctx context.Context, assetType AssetType, assetID int64, limit int) ([]*AssetHistoryRecord, error)
	ListByWindow(ctx context.Context, start, end time.Time, limit int) ([]*AssetHistoryRecord, error)
	CountByAction(ctx context.Context, start, end time.Time) ([]*ActionCount, error)
	CountByAssetType(ctx context.Context, start, end time.Time) ([]*AssetTypeCount, error)
	CountByDay(ctx context.Context, start, end time.Time) ([]*DayCount, error)
}
