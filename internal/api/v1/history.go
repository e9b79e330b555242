package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kinsu128-art/it-hub/internal/domain"
	"github.com/kinsu128-art/it-hub/internal/history"
)

type AssetTimelineInput struct {
	Type  string `path:"type" doc:"Asset type (pc, server, network, printer, software)"`
	ID    int64  `path:"id" doc:"Asset ID"`
	Limit int    `query:"limit" minimum:"0" maximum:"200" doc:"Max rows (default 50)"`
}

type AssetTimelineOutput struct {
	Body struct {
		Items []*domain.AssetHistoryRecord `json:"items"`
	}
}

func RegisterHistoryRoutes(api huma.API, tracker *history.Tracker) {
	huma.Register(api, huma.Operation{
		OperationID: "get-asset-history",
		Method:      http.MethodGet,
		Path:        "/assets/{type}/{id}/history",
		Summary:     "Get the change history of one asset",
		Description: "Returns audit rows for the asset, newest first.",
		Tags:        []string{"History"},
	}, func(ctx context.Context, input *AssetTimelineInput) (*AssetTimelineOutput, error) {
		assetType := domain.AssetType(input.Type)
		if !assetType.Valid() {
			return nil, huma.Error400BadRequest("unknown asset type " + input.Type)
		}

		recs, err := tracker.AssetTimeline(ctx, assetType, input.ID, input.Limit)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load asset history", err)
		}
		if recs == nil {
			recs = []*domain.AssetHistoryRecord{}
		}

		out := &AssetTimelineOutput{}
		out.Body.Items = recs
		return out, nil
	})
}
