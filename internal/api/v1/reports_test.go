package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/kinsu128-art/it-hub/internal/api/v1"
	"github.com/kinsu128-art/it-hub/internal/domain"
	"github.com/kinsu128-art/it-hub/internal/history"
)

// reportStore returns a store whose list queries serve fixed totals and whose
// history repo is prefilled with a few audit rows.
func reportStore() (*mockStore, *recordingHistoryRepo) {
	hist := &recordingHistoryRepo{}
	hist.rows = []*domain.AssetHistoryRecord{
		{ID: 1, AssetType: domain.AssetTypePC, AssetID: 1, Action: domain.ActionCreate, ChangedAt: time.Now()},
		{ID: 2, AssetType: domain.AssetTypePC, AssetID: 1, Action: domain.ActionUpdate, FieldName: "status", ChangedAt: time.Now()},
	}

	store := &mockStore{
		history: hist,
		pcs: &mockPCRepo{
			listFunc: func(_ context.Context, f domain.PCFilter) ([]*domain.PC, int64, error) {
				if f.Status == domain.PCStatusAssigned {
					return nil, 8, nil
				}
				if f.Status == "" {
					return nil, 12, nil
				}
				return nil, 0, nil
			},
		},
		servers: &mockServerRepo{
			listFunc: func(_ context.Context, _ domain.ServerFilter) ([]*domain.Server, int64, error) {
				return nil, 3, nil
			},
		},
		printers: &mockPrinterRepo{
			listFunc: func(_ context.Context, _ domain.PrinterFilter) ([]*domain.Printer, int64, error) {
				return nil, 2, nil
			},
		},
		software: &mockSoftwareRepo{
			listFunc: func(_ context.Context, _ domain.SoftwareFilter) ([]*domain.Software, int64, error) {
				return nil, 5, nil
			},
			listExpiringWithinFunc: func(_ context.Context, _ int) ([]*domain.Software, error) {
				return []*domain.Software{{ID: 1, SoftwareName: "Antivirus", ExpiryDate: "2026-09-10"}}, nil
			},
		},
		networks: &mockNetworkIPRepo{
			listFunc: func(_ context.Context, f domain.NetworkIPFilter) ([]*domain.NetworkIP, int64, error) {
				if f.IsActive != nil && *f.IsActive {
					return nil, 30, nil
				}
				return nil, 50, nil
			},
		},
	}
	return store, hist
}

// ---------------------------------------------------------------------------
// GET /reports
// ---------------------------------------------------------------------------

func TestHistoryReport(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		store, _ := reportStore()
		_, api := humatest.New(t)
		v1.RegisterReportRoutes(api, store, history.NewTracker(store))

		resp := api.GetCtx(viewerCtx(), "/reports?period=week")

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			PCs struct {
				Total    int64 `json:"total"`
				ByStatus []struct {
					Status string `json:"status"`
					Count  int64  `json:"count"`
				} `json:"by_status"`
			} `json:"pcs"`
			Activity struct {
				Records  []json.RawMessage `json:"records"`
				ByAction []struct {
					Action string `json:"action"`
					Count  int64  `json:"count"`
				} `json:"by_action"`
			} `json:"activity"`
		}
		err := json.Unmarshal(resp.Body.Bytes(), &body)
		require.NoError(t, err)

		assert.Equal(t, int64(12), body.PCs.Total)
		require.Len(t, body.PCs.ByStatus, 4, "one slice per PC status")
		assert.Len(t, body.Activity.Records, 2)
		assert.Len(t, body.Activity.ByAction, 2)
	})

	t.Run("aggregate_failure_serves_empty_activity", func(t *testing.T) {
		t.Parallel()

		store, hist := reportStore()
		hist.readErr = errors.New("db: timeout")
		_, api := humatest.New(t)
		v1.RegisterReportRoutes(api, store, history.NewTracker(store))

		resp := api.GetCtx(viewerCtx(), "/reports")

		require.Equal(t, http.StatusOK, resp.Code, "reporting must degrade, not fail")
		assert.Contains(t, resp.Body.String(), `"records":[]`)
		assert.Contains(t, resp.Body.String(), `"by_action":[]`)
		assert.Contains(t, resp.Body.String(), `"daily":[]`)
	})

	t.Run("explicit_range", func(t *testing.T) {
		t.Parallel()

		store, _ := reportStore()
		_, api := humatest.New(t)
		v1.RegisterReportRoutes(api, store, history.NewTracker(store))

		resp := api.GetCtx(viewerCtx(), "/reports?start=2026-08-01&end=2026-08-28")

		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("lone_range_bound_rejected", func(t *testing.T) {
		t.Parallel()

		store, _ := reportStore()
		_, api := humatest.New(t)
		v1.RegisterReportRoutes(api, store, history.NewTracker(store))

		resp := api.GetCtx(viewerCtx(), "/reports?start=2026-08-01")

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("inverted_range_rejected", func(t *testing.T) {
		t.Parallel()

		store, _ := reportStore()
		_, api := humatest.New(t)
		v1.RegisterReportRoutes(api, store, history.NewTracker(store))

		resp := api.GetCtx(viewerCtx(), "/reports?start=2026-08-28&end=2026-08-01")

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /dashboard
// ---------------------------------------------------------------------------

func TestDashboard(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		store, _ := reportStore()
		_, api := humatest.New(t)
		v1.RegisterReportRoutes(api, store, history.NewTracker(store))

		resp := api.GetCtx(viewerCtx(), "/dashboard")

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Totals struct {
				PCs      int64 `json:"pcs"`
				Networks int64 `json:"networks"`
			} `json:"totals"`
			IPUsage struct {
				Total     int64 `json:"total"`
				Used      int64 `json:"used"`
				Available int64 `json:"available"`
			} `json:"ip_usage"`
			ExpiringSoftware []domain.Software `json:"expiring_software"`
			RecentChanges    []json.RawMessage `json:"recent_changes"`
		}
		err := json.Unmarshal(resp.Body.Bytes(), &body)
		require.NoError(t, err)

		assert.Equal(t, int64(12), body.Totals.PCs)
		assert.Equal(t, int64(50), body.IPUsage.Total)
		assert.Equal(t, int64(30), body.IPUsage.Used)
		assert.Equal(t, int64(20), body.IPUsage.Available)
		require.Len(t, body.ExpiringSoftware, 1)
		assert.Equal(t, "Antivirus", body.ExpiringSoftware[0].SoftwareName)
		assert.Len(t, body.RecentChanges, 2)
	})

	t.Run("expiring_query_failure_degrades", func(t *testing.T) {
		t.Parallel()

		store, _ := reportStore()
		store.software = &mockSoftwareRepo{
			listFunc: func(_ context.Context, _ domain.SoftwareFilter) ([]*domain.Software, int64, error) {
				return nil, 5, nil
			},
			listExpiringWithinFunc: func(_ context.Context, _ int) ([]*domain.Software, error) {
				return nil, errors.New("db: timeout")
			},
		}
		_, api := humatest.New(t)
		v1.RegisterReportRoutes(api, store, history.NewTracker(store))

		resp := api.GetCtx(viewerCtx(), "/dashboard")

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"expiring_software":[]`)
	})
}
