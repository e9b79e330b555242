package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/kinsu128-art/it-hub/internal/api/v1"
	"github.com/kinsu128-art/it-hub/internal/domain"
)

// ---------------------------------------------------------------------------
// POST /networks
// ---------------------------------------------------------------------------

func TestCreateNetworkIP(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		hist := &recordingHistoryRepo{}
		store := &mockStore{
			history: hist,
			networks: &mockNetworkIPRepo{
				findActiveByAddressFunc: func(_ context.Context, ip string, excludeID int64) (*domain.NetworkIP, error) {
					assert.Equal(t, "10.0.1.50", ip)
					assert.Zero(t, excludeID)
					return nil, domain.ErrNotFound
				},
				createFunc: func(_ context.Context, n *domain.NetworkIP) error {
					n.ID = 5
					return nil
				},
			},
		}
		_, api := humatest.New(t)
		v1.RegisterNetworkIPRoutes(api, store)

		resp := api.PostCtx(writerCtx(), "/networks", map[string]any{
			"ip_address":      "10.0.1.50",
			"subnet_mask":     "255.255.255.0",
			"gateway":         "10.0.1.1",
			"assigned_device": "printer-3f",
			"vlan_id":         120,
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.NetworkIP
		err := json.Unmarshal(resp.Body.Bytes(), &body)
		require.NoError(t, err)
		assert.Equal(t, int64(5), body.ID)
		assert.True(t, body.IsActive, "allocations default to active")

		require.Len(t, hist.rows, 1)
		assert.Equal(t, domain.AssetTypeNetwork, hist.rows[0].AssetType)
		assert.Equal(t, domain.ActionCreate, hist.rows[0].Action)
	})

	t.Run("invalid_address", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{networks: &mockNetworkIPRepo{}, history: &recordingHistoryRepo{}}
		_, api := humatest.New(t)
		v1.RegisterNetworkIPRoutes(api, store)

		resp := api.PostCtx(writerCtx(), "/networks", map[string]any{
			"ip_address":  "10.0.1.300",
			"subnet_mask": "255.255.255.0",
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("invalid_subnet_mask", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{networks: &mockNetworkIPRepo{}, history: &recordingHistoryRepo{}}
		_, api := humatest.New(t)
		v1.RegisterNetworkIPRoutes(api, store)

		resp := api.PostCtx(writerCtx(), "/networks", map[string]any{
			"ip_address":  "10.0.1.50",
			"subnet_mask": "255.0.255.0",
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("duplicate_active_address", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{
			history: &recordingHistoryRepo{},
			networks: &mockNetworkIPRepo{
				findActiveByAddressFunc: func(_ context.Context, _ string, _ int64) (*domain.NetworkIP, error) {
					return &domain.NetworkIP{ID: 3, IPAddress: "10.0.1.50", IsActive: true}, nil
				},
			},
		}
		_, api := humatest.New(t)
		v1.RegisterNetworkIPRoutes(api, store)

		resp := api.PostCtx(writerCtx(), "/networks", map[string]any{
			"ip_address":  "10.0.1.50",
			"subnet_mask": "255.255.255.0",
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("inactive_allocation_skips_duplicate_check", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{
			history: &recordingHistoryRepo{},
			networks: &mockNetworkIPRepo{
				// findActiveByAddressFunc deliberately unset: calling it panics.
				createFunc: func(_ context.Context, n *domain.NetworkIP) error {
					n.ID = 6
					return nil
				},
			},
		}
		_, api := humatest.New(t)
		v1.RegisterNetworkIPRoutes(api, store)

		resp := api.PostCtx(writerCtx(), "/networks", map[string]any{
			"ip_address":  "10.0.1.50",
			"subnet_mask": "255.255.255.0",
			"is_active":   false,
		})

		require.Equal(t, http.StatusOK, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /networks/check-duplicate
// ---------------------------------------------------------------------------

func TestCheckDuplicateIP(t *testing.T) {
	t.Parallel()

	t.Run("free_address", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{
			history: &recordingHistoryRepo{},
			networks: &mockNetworkIPRepo{
				findActiveByAddressFunc: func(_ context.Context, _ string, _ int64) (*domain.NetworkIP, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		_, api := humatest.New(t)
		v1.RegisterNetworkIPRoutes(api, store)

		resp := api.GetCtx(viewerCtx(), "/networks/check-duplicate?ip_address=10.0.1.50")

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"duplicate":false`)
	})

	t.Run("taken_address_names_device", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{
			history: &recordingHistoryRepo{},
			networks: &mockNetworkIPRepo{
				findActiveByAddressFunc: func(_ context.Context, ip string, excludeID int64) (*domain.NetworkIP, error) {
					assert.Equal(t, "10.0.1.50", ip)
					assert.Equal(t, int64(8), excludeID)
					return &domain.NetworkIP{ID: 3, IPAddress: ip, AssignedDevice: "core-switch", IsActive: true}, nil
				},
			},
		}
		_, api := humatest.New(t)
		v1.RegisterNetworkIPRoutes(api, store)

		resp := api.GetCtx(viewerCtx(), "/networks/check-duplicate?ip_address=10.0.1.50&exclude_id=8")

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"duplicate":true`)
		assert.Contains(t, resp.Body.String(), `"device":"core-switch"`)
	})

	t.Run("invalid_address", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{networks: &mockNetworkIPRepo{}, history: &recordingHistoryRepo{}}
		_, api := humatest.New(t)
		v1.RegisterNetworkIPRoutes(api, store)

		resp := api.GetCtx(viewerCtx(), "/networks/check-duplicate?ip_address=not-an-ip")

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// DELETE /networks/{id}
// ---------------------------------------------------------------------------

func TestDeleteNetworkIP(t *testing.T) {
	t.Parallel()

	t.Run("hard_delete_records_delete_action", func(t *testing.T) {
		t.Parallel()

		hist := &recordingHistoryRepo{}
		deleted := false
		store := &mockStore{
			history: hist,
			networks: &mockNetworkIPRepo{
				deleteFunc: func(_ context.Context, id int64) error {
					assert.Equal(t, int64(5), id)
					deleted = true
					return nil
				},
			},
		}
		_, api := humatest.New(t)
		v1.RegisterNetworkIPRoutes(api, store)

		resp := api.DeleteCtx(writerCtx(), "/networks/5")

		assert.Equal(t, http.StatusNoContent, resp.Code)
		assert.True(t, deleted)

		require.Len(t, hist.rows, 1)
		assert.Equal(t, domain.ActionDelete, hist.rows[0].Action, "IP removal is a delete, not a dispose")
		assert.Equal(t, int64(5), hist.rows[0].AssetID)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{
			history: &recordingHistoryRepo{},
			networks: &mockNetworkIPRepo{
				deleteFunc: func(_ context.Context, _ int64) error {
					return domain.ErrNotFound
				},
			},
		}
		_, api := humatest.New(t)
		v1.RegisterNetworkIPRoutes(api, store)

		resp := api.DeleteCtx(writerCtx(), "/networks/5")

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// PUT /networks/{id}
// ---------------------------------------------------------------------------

func TestUpdateNetworkIP(t *testing.T) {
	t.Parallel()

	t.Run("deactivation_skips_duplicate_check_and_diffs", func(t *testing.T) {
		t.Parallel()

		existing := &domain.NetworkIP{
			ID:             5,
			IPAddress:      "10.0.1.50",
			SubnetMask:     "255.255.255.0",
			AssignedDevice: "printer-3f",
			IsActive:       true,
		}

		hist := &recordingHistoryRepo{}
		store := &mockStore{
			history: hist,
			networks: &mockNetworkIPRepo{
				getByIDFunc: func(_ context.Context, _ int64) (*domain.NetworkIP, error) {
					return existing, nil
				},
				updateFunc: func(_ context.Context, n *domain.NetworkIP) error {
					assert.False(t, n.IsActive)
					return nil
				},
			},
		}
		_, api := humatest.New(t)
		v1.RegisterNetworkIPRoutes(api, store)

		resp := api.PutCtx(writerCtx(), "/networks/5", map[string]any{
			"ip_address":  "10.0.1.50",
			"subnet_mask": "255.255.255.0",
			"is_active":   false,
		})

		require.Equal(t, http.StatusOK, resp.Code)

		require.Len(t, hist.rows, 1)
		assert.Equal(t, "is_active", hist.rows[0].FieldName)
		assert.Equal(t, "true", hist.rows[0].OldValue)
		assert.Equal(t, "false", hist.rows[0].NewValue)
	})

	t.Run("duplicate_excludes_own_row", func(t *testing.T) {
		t.Parallel()

		existing := &domain.NetworkIP{
			ID:         5,
			IPAddress:  "10.0.1.50",
			SubnetMask: "255.255.255.0",
			IsActive:   true,
		}

		hist := &recordingHistoryRepo{}
		store := &mockStore{
			history: hist,
			networks: &mockNetworkIPRepo{
				getByIDFunc: func(_ context.Context, _ int64) (*domain.NetworkIP, error) {
					return existing, nil
				},
				findActiveByAddressFunc: func(_ context.Context, ip string, excludeID int64) (*domain.NetworkIP, error) {
					assert.Equal(t, int64(5), excludeID, "duplicate check must exclude the row being edited")
					return nil, domain.ErrNotFound
				},
				updateFunc: func(_ context.Context, _ *domain.NetworkIP) error { return nil },
			},
		}
		_, api := humatest.New(t)
		v1.RegisterNetworkIPRoutes(api, store)

		resp := api.PutCtx(writerCtx(), "/networks/5", map[string]any{
			"ip_address":  "10.0.1.50",
			"subnet_mask": "255.255.255.0",
		})

		require.Equal(t, http.StatusOK, resp.Code)
	})
}
