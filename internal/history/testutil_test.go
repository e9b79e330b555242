package history_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kinsu128-art/it-hub/internal/domain"
)

// fakeHistoryRepo is an in-memory HistoryRepository with optional failure
// injection: failAfter >= 0 makes the (failAfter+1)-th insert fail.
type fakeHistoryRepo struct {
	mu        sync.Mutex
	rows      []*domain.AssetHistoryRecord
	nextID    int64
	inserts   int
	failAfter int // -1 = never fail
	insertErr error
	readErr   error
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{failAfter: -1}
}

func (f *fakeHistoryRepo) Insert(_ context.Context, rec *domain.AssetHistoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAfter >= 0 && f.inserts >= f.failAfter {
		return f.insertErr
	}
	f.inserts++

	f.nextID++
	stored := *rec
	stored.ID = f.nextID
	if stored.ChangedAt.IsZero() {
		stored.ChangedAt = time.Now()
	}
	f.rows = append(f.rows, &stored)

	return nil
}

func (f *fakeHistoryRepo) ListByAsset(_ context.Context, assetType domain.AssetType, assetID int64, limit int) ([]*domain.AssetHistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.readErr != nil {
		return nil, f.readErr
	}

	var out []*domain.AssetHistoryRecord
	for _, r := range f.rows {
		if r.AssetType == assetType && r.AssetID == assetID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChangedAt.After(out[j].ChangedAt) })
	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (f *fakeHistoryRepo) ListByWindow(_ context.Context, start, end time.Time, limit int) ([]*domain.AssetHistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.readErr != nil {
		return nil, f.readErr
	}

	var out []*domain.AssetHistoryRecord
	for _, r := range f.rows {
		if !r.ChangedAt.Before(start) && r.ChangedAt.Before(end) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChangedAt.After(out[j].ChangedAt) })
	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (f *fakeHistoryRepo) CountByAction(_ context.Context, start, end time.Time) ([]*domain.ActionCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.readErr != nil {
		return nil, f.readErr
	}

	counts := map[domain.Action]int64{}
	for _, r := range f.rows {
		if !r.ChangedAt.Before(start) && r.ChangedAt.Before(end) {
			counts[r.Action]++
		}
	}

	var out []*domain.ActionCount
	for a, n := range counts {
		out = append(out, &domain.ActionCount{Action: a, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Action < out[j].Action })

	return out, nil
}

func (f *fakeHistoryRepo) CountByAssetType(_ context.Context, start, end time.Time) ([]*domain.AssetTypeCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.readErr != nil {
		return nil, f.readErr
	}

	counts := map[domain.AssetType]int64{}
	for _, r := range f.rows {
		if !r.ChangedAt.Before(start) && r.ChangedAt.Before(end) {
			counts[r.AssetType]++
		}
	}

	var out []*domain.AssetTypeCount
	for at, n := range counts {
		out = append(out, &domain.AssetTypeCount{AssetType: at, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssetType < out[j].AssetType })

	return out, nil
}

func (f *fakeHistoryRepo) CountByDay(_ context.Context, start, end time.Time) ([]*domain.DayCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.readErr != nil {
		return nil, f.readErr
	}

	counts := map[string]int64{}
	for _, r := range f.rows {
		if !r.ChangedAt.Before(start) && r.ChangedAt.Before(end) {
			counts[r.ChangedAt.Format("2006-01-02")]++
		}
	}

	var out []*domain.DayCount
	for d, n := range counts {
		out = append(out, &domain.DayCount{Date: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })

	return out, nil
}

// fakeStore satisfies domain.Store with just the history repository wired.
// InTx rolls inserted rows back when fn fails, mirroring the all-or-nothing
// batch semantics of the real store.
type fakeStore struct {
	history *fakeHistoryRepo
}

func newFakeStore() *fakeStore {
	return &fakeStore{history: newFakeHistoryRepo()}
}

func (f *fakeStore) Users() domain.UserRepository           { return nil }
func (f *fakeStore) PCs() domain.PCRepository               { return nil }
func (f *fakeStore) Servers() domain.ServerRepository       { return nil }
func (f *fakeStore) NetworkIPs() domain.NetworkIPRepository { return nil }
func (f *fakeStore) Printers() domain.PrinterRepository     { return nil }
func (f *fakeStore) Software() domain.SoftwareRepository    { return nil }
func (f *fakeStore) History() domain.HistoryRepository      { return f.history }

func (f *fakeStore) InTx(_ context.Context, fn func(domain.Store) error) error {
	f.history.mu.Lock()
	mark := len(f.history.rows)
	f.history.mu.Unlock()

	if err := fn(f); err != nil {
		f.history.mu.Lock()
		f.history.rows = f.history.rows[:mark]
		f.history.mu.Unlock()
		return err
	}

	return nil
}
