// Package history is the change-tracking core: it diffs two versions of an
// asset record, persists the outcome of a mutation as append-only audit rows,
// and reads the trail back per asset and in aggregate for reporting.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kinsu128-art/it-hub/internal/domain"
)

const (
	// DefaultTimelineLimit caps a per-asset timeline when the caller does
	// not supply its own limit.
	DefaultTimelineLimit = 50

	// aggregateRecordLimit caps the raw record set in an aggregate report.
	aggregateRecordLimit = 100
)

// Tracker records asset mutations to the audit trail and serves read queries
// against it.
type Tracker struct {
	store domain.Store
}

func NewTracker(store domain.Store) *Tracker {
	return &Tracker{store: store}
}

// RecordParams describes one audit write.
type RecordParams struct {
	AssetType domain.AssetType
	AssetID   int64
	Action    domain.Action
	Changes   []domain.FieldChange // update only
	UserID    int64
	IPAddress string
	UserAgent string
}

// Record persists the outcome of an asset mutation.
//
// Create, delete and dispose produce exactly one row with no field values.
// Update produces one row per entry in Changes, written in a single
// transaction so a reader never observes a partial set; an empty Changes
// slice writes nothing. Store errors propagate unchanged — no retries, no
// swallowing — so the caller can decide whether the surrounding mutation
// should fail with the audit.
func (t *Tracker) Record(ctx context.Context, p RecordParams) error {
	switch p.Action {
	case domain.ActionCreate, domain.ActionDelete, domain.ActionDispose:
		err := t.store.History().Insert(ctx, t.newRecord(p, domain.FieldChange{}, false))
		if err != nil {
			return fmt.Errorf("tracker.Record: %w", err)
		}
		return nil

	case domain.ActionUpdate:
		if len(p.Changes) == 0 {
			return nil
		}
		err := t.store.InTx(ctx, func(s domain.Store) error {
			for _, c := range p.Changes {
				if insertErr := s.History().Insert(ctx, t.newRecord(p, c, true)); insertErr != nil {
					return insertErr
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("tracker.Record: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("tracker.Record: unknown action %q", p.Action)
	}
}

func (t *Tracker) newRecord(p RecordParams, c domain.FieldChange, withChange bool) *domain.AssetHistoryRecord {
	rec := &domain.AssetHistoryRecord{
		AssetType: p.AssetType,
		AssetID:   p.AssetID,
		Action:    p.Action,
		ChangedBy: p.UserID,
		IPAddress: p.IPAddress,
		UserAgent: p.UserAgent,
	}
	if withChange {
		rec.FieldName = c.Field
		rec.OldValue = serialize(c.OldValue)
		rec.NewValue = serialize(c.NewValue)
	}
	return rec
}

// serialize renders a field value as stable text for the shared old/new
// columns: strings are stored as-is, everything else is JSON-encoded.
func serialize(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// AssetTimeline returns the most recent audit rows for one asset, newest
// first, with the acting user's display name resolved where the user still
// exists. limit <= 0 selects DefaultTimelineLimit.
func (t *Tracker) AssetTimeline(ctx context.Context, assetType domain.AssetType, assetID int64, limit int) ([]*domain.AssetHistoryRecord, error) {
	if limit <= 0 {
		limit = DefaultTimelineLimit
	}

	recs, err := t.store.History().ListByAsset(ctx, assetType, assetID, limit)
	if err != nil {
		return nil, fmt.Errorf("tracker.AssetTimeline: %w", err)
	}

	return recs, nil
}

// Window is a half-open reporting interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Reporting periods accepted by WindowForPeriod.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// WindowForPeriod resolves a named relative period against now. Unknown
// period names fall back to the last 7 days.
func WindowForPeriod(period string, now time.Time) Window {
	days := 7
	if period == PeriodMonth {
		days = 30
	}
	return Window{Start: now.AddDate(0, 0, -days), End: now}
}

// AggregateResult is the reporting bundle for one window. All slices are
// non-nil; a window with no activity yields empty slices and zero counts.
type AggregateResult struct {
	Records     []*domain.AssetHistoryRecord `json:"records"`
	ByAction    []*domain.ActionCount        `json:"by_action"`
	ByAssetType []*domain.AssetTypeCount     `json:"by_asset_type"`
	Daily       []*domain.DayCount           `json:"daily"`
}

// Aggregate reads the in-window audit rows (newest first, capped) and the
// grouped counts used by the reporting views.
func (t *Tracker) Aggregate(ctx context.Context, w Window) (*AggregateResult, error) {
	h := t.store.History()

	records, err := h.ListByWindow(ctx, w.Start, w.End, aggregateRecordLimit)
	if err != nil {
		return nil, fmt.Errorf("tracker.Aggregate: %w", err)
	}

	byAction, err := h.CountByAction(ctx, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("tracker.Aggregate: %w", err)
	}

	byType, err := h.CountByAssetType(ctx, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("tracker.Aggregate: %w", err)
	}

	daily, err := h.CountByDay(ctx, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("tracker.Aggregate: %w", err)
	}

	res := &AggregateResult{
		Records:     records,
		ByAction:    byAction,
		ByAssetType: byType,
		Daily:       daily,
	}
	if res.Records == nil {
		res.Records = []*domain.AssetHistoryRecord{}
	}
	if res.ByAction == nil {
		res.ByAction = []*domain.ActionCount{}
	}
	if res.ByAssetType == nil {
		res.ByAssetType = []*domain.AssetTypeCount{}
	}
	if res.Daily == nil {
		res.Daily = []*domain.DayCount{}
	}

	return res, nil
}

// EmptyAggregate is the zero-activity reporting bundle. Reporting endpoints
// fall back to it when the store read fails so the dashboard still renders.
func EmptyAggregate() *AggregateResult {
	return &AggregateResult{
		Records:     []*domain.AssetHistoryRecord{},
		ByAction:    []*domain.ActionCount{},
		ByAssetType: []*domain.AssetTypeCount{},
		Daily:       []*domain.DayCount{},
	}
}
