package v1

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/kinsu128-art/it-hub/internal/domain"
	"github.com/kinsu128-art/it-hub/internal/history"
	"github.com/kinsu128-art/it-hub/internal/server/middleware"
)

// requireWriter rejects read-only roles before a mutation. Returns the acting
// user ID for attribution.
func requireWriter(ctx context.Context) (int64, error) {
	role, ok := middleware.RoleFromContext(ctx)
	if !ok || !role.CanWrite() {
		return 0, huma.Error403Forbidden("read-only role cannot modify assets")
	}

	userID, _ := middleware.UserIDFromContext(ctx)
	return userID, nil
}

// requireAdmin rejects everything but the admin role.
func requireAdmin(ctx context.Context) error {
	role, ok := middleware.RoleFromContext(ctx)
	if !ok || role != domain.RoleAdmin {
		return huma.Error403Forbidden("admin role required")
	}
	return nil
}

// recordParams assembles the audit write for one mutation from the request
// context (actor, client IP, user agent).
func recordParams(ctx context.Context, assetType domain.AssetType, assetID int64, action domain.Action, userID int64) history.RecordParams {
	ip, _ := middleware.ClientIPFromContext(ctx)
	ua, _ := middleware.UserAgentFromContext(ctx)

	return history.RecordParams{
		AssetType: assetType,
		AssetID:   assetID,
		Action:    action,
		UserID:    userID,
		IPAddress: ip,
		UserAgent: ua,
	}
}

// assetTimeline loads the recent audit rows for one asset detail view. A
// failed read degrades to an empty timeline so the asset itself still renders.
func assetTimeline(ctx context.Context, store domain.Store, assetType domain.AssetType, assetID int64) []*domain.AssetHistoryRecord {
	recs, err := history.NewTracker(store).AssetTimeline(ctx, assetType, assetID, 0)
	if err != nil {
		log.Warn().Err(err).
			Str("asset_type", string(assetType)).
			Int64("asset_id", assetID).
			Msg("asset timeline failed, serving empty history")
		return []*domain.AssetHistoryRecord{}
	}
	if recs == nil {
		recs = []*domain.AssetHistoryRecord{}
	}
	return recs
}

// ListQuery carries the shared list parameters for asset collections.
type ListQuery struct {
	Search string `query:"search" doc:"Substring match on the asset's key fields"`
	Status string `query:"status" doc:"Filter by status"`
	Page   int    `query:"page" minimum:"0" doc:"1-based page number"`
	Limit  int    `query:"limit" minimum:"0" maximum:"100" doc:"Page size (default 20)"`
}

// ListMeta echoes paging state alongside a collection body.
type ListMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func listMeta(total int64, page, limit int) ListMeta {
	if page < 1 {
		page = 1
	}
	switch {
	case limit < 1:
		limit = 20
	case limit > 100:
		limit = 100
	}
	return ListMeta{Total: total, Page: page, Limit: limit}
}
