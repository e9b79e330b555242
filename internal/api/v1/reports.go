package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/kinsu128-art/it-hub/internal/domain"
	"github.com/kinsu128-art/it-hub/internal/history"
)

const expiryHorizonDays = 30

type HistoryReportInput struct {
	Period string `query:"period" enum:",week,month" doc:"Named window (default week)"`
	Start  string `query:"start" doc:"Explicit window start (YYYY-MM-DD), overrides period"`
	End    string `query:"end" doc:"Explicit window end (YYYY-MM-DD), overrides period"`
}

// StatusCount is one slice of a status distribution.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// AssetTypeReport summarizes one asset collection.
type AssetTypeReport struct {
	Total    int64         `json:"total"`
	ByStatus []StatusCount `json:"by_status,omitempty"`
}

type HistoryReportOutput struct {
	Body struct {
		PCs      AssetTypeReport          `json:"pcs"`
		Servers  AssetTypeReport          `json:"servers"`
		Printers AssetTypeReport          `json:"printers"`
		Software AssetTypeReport          `json:"software"`
		Networks AssetTypeReport          `json:"networks"`
		Activity *history.AggregateResult `json:"activity"`
	}
}

type DashboardOutput struct {
	Body struct {
		Totals struct {
			PCs      int64 `json:"pcs"`
			Servers  int64 `json:"servers"`
			Printers int64 `json:"printers"`
			Software int64 `json:"software"`
			Networks int64 `json:"networks"`
		} `json:"totals"`
		IPUsage struct {
			Total     int64 `json:"total"`
			Used      int64 `json:"used"`
			Available int64 `json:"available"`
		} `json:"ip_usage"`
		ExpiringSoftware []*domain.Software           `json:"expiring_software"`
		RecentChanges    []*domain.AssetHistoryRecord `json:"recent_changes"`
	}
}

func RegisterReportRoutes(api huma.API, store domain.Store, tracker *history.Tracker) {
	huma.Register(api, huma.Operation{
		OperationID: "get-history-report",
		Method:      http.MethodGet,
		Path:        "/reports",
		Summary:     "Asset totals, status distributions and audit activity",
		Description: "Read failures degrade to empty sections so the dashboard still renders.",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, input *HistoryReportInput) (*HistoryReportOutput, error) {
		out := &HistoryReportOutput{}

		out.Body.PCs = pcReport(ctx, store)
		out.Body.Servers = serverReport(ctx, store)
		out.Body.Printers = printerReport(ctx, store)
		out.Body.Software = AssetTypeReport{Total: softwareCount(ctx, store, "")}
		out.Body.Networks = AssetTypeReport{Total: networkCount(ctx, store, nil)}

		w, err := reportWindow(input)
		if err != nil {
			return nil, err
		}

		activity, err := tracker.Aggregate(ctx, w)
		if err != nil {
			log.Warn().Err(err).Msg("history aggregate failed, serving empty activity")
			activity = history.EmptyAggregate()
		}
		out.Body.Activity = activity

		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-dashboard",
		Method:      http.MethodGet,
		Path:        "/dashboard",
		Summary:     "Dashboard summary",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, _ *struct{}) (*DashboardOutput, error) {
		out := &DashboardOutput{}

		out.Body.Totals.PCs = pcCount(ctx, store, "")
		out.Body.Totals.Servers = serverCount(ctx, store, "")
		out.Body.Totals.Printers = printerCount(ctx, store, "")
		out.Body.Totals.Software = softwareCount(ctx, store, "")
		out.Body.Totals.Networks = networkCount(ctx, store, nil)

		active := true
		used := networkCount(ctx, store, &active)
		out.Body.IPUsage.Total = out.Body.Totals.Networks
		out.Body.IPUsage.Used = used
		out.Body.IPUsage.Available = out.Body.Totals.Networks - used

		expiring, err := store.Software().ListExpiringWithin(ctx, expiryHorizonDays)
		if err != nil {
			log.Warn().Err(err).Msg("expiring software query failed, serving empty list")
			expiring = nil
		}
		if expiring == nil {
			expiring = []*domain.Software{}
		}
		out.Body.ExpiringSoftware = expiring

		now := time.Now()
		recent, err := store.History().ListByWindow(ctx, now.AddDate(0, 0, -7), now, 10)
		if err != nil {
			log.Warn().Err(err).Msg("recent changes query failed, serving empty list")
			recent = nil
		}
		if recent == nil {
			recent = []*domain.AssetHistoryRecord{}
		}
		out.Body.RecentChanges = recent

		return out, nil
	})
}

// reportWindow resolves the requested reporting window. Explicit start/end
// wins over the named period; a lone bound is rejected.
func reportWindow(input *HistoryReportInput) (history.Window, error) {
	if input.Start == "" && input.End == "" {
		return history.WindowForPeriod(input.Period, time.Now()), nil
	}
	if input.Start == "" || input.End == "" {
		return history.Window{}, huma.Error400BadRequest("start and end must be given together")
	}

	start, err := time.Parse("2006-01-02", input.Start)
	if err != nil {
		return history.Window{}, huma.Error400BadRequest("start is not a valid date (YYYY-MM-DD)")
	}
	end, err := time.Parse("2006-01-02", input.End)
	if err != nil {
		return history.Window{}, huma.Error400BadRequest("end is not a valid date (YYYY-MM-DD)")
	}
	if end.Before(start) {
		return history.Window{}, huma.Error400BadRequest("end precedes start")
	}

	// The end bound is inclusive of that calendar day.
	return history.Window{Start: start, End: end.AddDate(0, 0, 1)}, nil
}

func pcReport(ctx context.Context, store domain.Store) AssetTypeReport {
	r := AssetTypeReport{Total: pcCount(ctx, store, "")}
	for _, s := range domain.ValidPCStatuses {
		r.ByStatus = append(r.ByStatus, StatusCount{Status: string(s), Count: pcCount(ctx, store, s)})
	}
	return r
}

func serverReport(ctx context.Context, store domain.Store) AssetTypeReport {
	r := AssetTypeReport{Total: serverCount(ctx, store, "")}
	for _, s := range domain.ValidServerStatuses {
		r.ByStatus = append(r.ByStatus, StatusCount{Status: string(s), Count: serverCount(ctx, store, s)})
	}
	return r
}

func printerReport(ctx context.Context, store domain.Store) AssetTypeReport {
	r := AssetTypeReport{Total: printerCount(ctx, store, "")}
	for _, s := range domain.ValidPrinterStatuses {
		r.ByStatus = append(r.ByStatus, StatusCount{Status: string(s), Count: printerCount(ctx, store, s)})
	}
	return r
}

// The count helpers run a count-only list query (limit 1, paging discarded)
// and degrade to zero on failure.

func pcCount(ctx context.Context, store domain.Store, status domain.PCStatus) int64 {
	_, total, err := store.PCs().List(ctx, domain.PCFilter{Status: status, Limit: 1})
	if err != nil {
		log.Warn().Err(err).Str("status", string(status)).Msg("pc count failed")
		return 0
	}
	return total
}

func serverCount(ctx context.Context, store domain.Store, status domain.ServerStatus) int64 {
	_, total, err := store.Servers().List(ctx, domain.ServerFilter{Status: status, Limit: 1})
	if err != nil {
		log.Warn().Err(err).Str("status", string(status)).Msg("server count failed")
		return 0
	}
	return total
}

func printerCount(ctx context.Context, store domain.Store, status domain.PrinterStatus) int64 {
	_, total, err := store.Printers().List(ctx, domain.PrinterFilter{Status: status, Limit: 1})
	if err != nil {
		log.Warn().Err(err).Str("status", string(status)).Msg("printer count failed")
		return 0
	}
	return total
}

func softwareCount(ctx context.Context, store domain.Store, status domain.SoftwareStatus) int64 {
	_, total, err := store.Software().List(ctx, domain.SoftwareFilter{Status: status, Limit: 1})
	if err != nil {
		log.Warn().Err(err).Str("status", string(status)).Msg("software count failed")
		return 0
	}
	return total
}

func networkCount(ctx context.Context, store domain.Store, isActive *bool) int64 {
	_, total, err := store.NetworkIPs().List(ctx, domain.NetworkIPFilter{IsActive: isActive, Limit: 1})
	if err != nil {
		log.Warn().Err(err).Msg("network count failed")
		return 0
	}
	return total
}
