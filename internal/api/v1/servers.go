package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kinsu128-art/it-hub/internal/domain"
	"github.com/kinsu128-art/it-hub/internal/history"
)

type ServerBody struct {
	AssetNumber    string `json:"asset_number" minLength:"1" maxLength:"64" doc:"Unique asset tag"`
	Hostname       string `json:"hostname" minLength:"1" maxLength:"255" doc:"Hostname"`
	RackLocation   string `json:"rack_location,omitempty" maxLength:"255" doc:"Rack position"`
	OSVersion      string `json:"os_version,omitempty" maxLength:"255"`
	IPAddress      string `json:"ip_address,omitempty" maxLength:"64"`
	Purpose        string `json:"purpose,omitempty" maxLength:"255"`
	WarrantyExpiry string `json:"warranty_expiry,omitempty" doc:"Warranty expiry (YYYY-MM-DD)"`
	CPU            string `json:"cpu,omitempty" maxLength:"255"`
	RAM            string `json:"ram,omitempty" maxLength:"255"`
	Disk           string `json:"disk,omitempty" maxLength:"255"`
	Status         string `json:"status,omitempty" doc:"active, inactive, maintenance or disposed"`
	Notes          string `json:"notes,omitempty" maxLength:"2000"`
}

type CreateServerInput struct {
	Body ServerBody
}

type ServerOutput struct {
	Body *domain.Server
}

type ListServersInput struct {
	ListQuery
}

type ListServersOutput struct {
	Body struct {
		Items []*domain.Server `json:"items"`
		Meta  ListMeta         `json:"meta"`
	}
}

type GetServerInput struct {
	ID int64 `path:"id" doc:"Server ID"`
}

type ServerDetailOutput struct {
	Body struct {
		Server  *domain.Server               `json:"server"`
		History []*domain.AssetHistoryRecord `json:"history"`
	}
}

type UpdateServerInput struct {
	ID   int64 `path:"id" doc:"Server ID"`
	Body ServerBody
}

type DisposeServerInput struct {
	ID int64 `path:"id" doc:"Server ID"`
}

func RegisterServerRoutes(api huma.API, store domain.Store) {
	huma.Register(api, huma.Operation{
		OperationID: "create-server",
		Method:      http.MethodPost,
		Path:        "/servers",
		Summary:     "Register a new server",
		Tags:        []string{"Servers"},
	}, func(ctx context.Context, input *CreateServerInput) (*ServerOutput, error) {
		userID, err := requireWriter(ctx)
		if err != nil {
			return nil, err
		}

		status := domain.ServerStatus(input.Body.Status)
		if status == "" {
			status = domain.ServerStatusActive
		}
		if !status.Valid() {
			return nil, huma.Error400BadRequest("unknown status " + input.Body.Status)
		}

		if input.Body.IPAddress != "" && !domain.IsValidIPv4(input.Body.IPAddress) {
			return nil, huma.Error400BadRequest("ip_address is not a valid IPv4 address")
		}

		if _, err := store.Servers().GetByAssetNumber(ctx, input.Body.AssetNumber); err == nil {
			return nil, huma.Error409Conflict("asset number already registered")
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error500InternalServerError("failed to check asset number", err)
		}

		srv := &domain.Server{
			AssetNumber:    input.Body.AssetNumber,
			Hostname:       input.Body.Hostname,
			RackLocation:   input.Body.RackLocation,
			OSVersion:      input.Body.OSVersion,
			IPAddress:      input.Body.IPAddress,
			Purpose:        input.Body.Purpose,
			WarrantyExpiry: input.Body.WarrantyExpiry,
			CPU:            input.Body.CPU,
			RAM:            input.Body.RAM,
			Disk:           input.Body.Disk,
			Status:         status,
			Notes:          input.Body.Notes,
			CreatedBy:      userID,
			UpdatedBy:      userID,
		}

		err = store.InTx(ctx, func(tx domain.Store) error {
			if createErr := tx.Servers().Create(ctx, srv); createErr != nil {
				return createErr
			}
			return history.NewTracker(tx).Record(ctx,
				recordParams(ctx, domain.AssetTypeServer, srv.ID, domain.ActionCreate, userID))
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create server", err)
		}

		return &ServerOutput{Body: srv}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-servers",
		Method:      http.MethodGet,
		Path:        "/servers",
		Summary:     "List servers",
		Tags:        []string{"Servers"},
	}, func(ctx context.Context, input *ListServersInput) (*ListServersOutput, error) {
		status := domain.ServerStatus(input.Status)
		if status != "" && !status.Valid() {
			return nil, huma.Error400BadRequest("unknown status " + input.Status)
		}

		items, total, err := store.Servers().List(ctx, domain.ServerFilter{
			Search: input.Search,
			Status: status,
			Page:   input.Page,
			Limit:  input.Limit,
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list servers", err)
		}
		if items == nil {
			items = []*domain.Server{}
		}

		out := &ListServersOutput{}
		out.Body.Items = items
		out.Body.Meta = listMeta(total, input.Page, input.Limit)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-server",
		Method:      http.MethodGet,
		Path:        "/servers/{id}",
		Summary:     "Get a server by ID",
		Tags:        []string{"Servers"},
	}, func(ctx context.Context, input *GetServerInput) (*ServerDetailOutput, error) {
		srv, err := store.Servers().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("server not found")
			}
			return nil, huma.Error500InternalServerError("failed to get server", err)
		}

		out := &ServerDetailOutput{}
		out.Body.Server = srv
		out.Body.History = assetTimeline(ctx, store, domain.AssetTypeServer, srv.ID)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-server",
		Method:      http.MethodPut,
		Path:        "/servers/{id}",
		Summary:     "Update a server",
		Tags:        []string{"Servers"},
	}, func(ctx context.Context, input *UpdateServerInput) (*ServerOutput, error) {
		userID, err := requireWriter(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Servers().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("server not found")
			}
			return nil, huma.Error500InternalServerError("failed to get server", err)
		}

		oldFields := existing.Fields()

		updated := *existing
		applyServerBody(&updated, input.Body)
		if updated.Status != existing.Status && !updated.Status.Valid() {
			return nil, huma.Error400BadRequest("unknown status " + input.Body.Status)
		}
		if updated.IPAddress != "" && !domain.IsValidIPv4(updated.IPAddress) {
			return nil, huma.Error400BadRequest("ip_address is not a valid IPv4 address")
		}
		updated.UpdatedBy = userID

		if updated.AssetNumber != existing.AssetNumber {
			if _, err := store.Servers().GetByAssetNumber(ctx, updated.AssetNumber); err == nil {
				return nil, huma.Error409Conflict("asset number already registered")
			} else if !errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error500InternalServerError("failed to check asset number", err)
			}
		}

		changes := history.Diff(oldFields, updated.Fields())

		err = store.InTx(ctx, func(tx domain.Store) error {
			if updateErr := tx.Servers().Update(ctx, &updated); updateErr != nil {
				return updateErr
			}
			p := recordParams(ctx, domain.AssetTypeServer, updated.ID, domain.ActionUpdate, userID)
			p.Changes = changes
			return history.NewTracker(tx).Record(ctx, p)
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to update server", err)
		}

		return &ServerOutput{Body: &updated}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "dispose-server",
		Method:      http.MethodDelete,
		Path:        "/servers/{id}",
		Summary:     "Dispose a server",
		Description: "Marks the server as disposed. The row is retained for the audit trail.",
		Tags:        []string{"Servers"},
	}, func(ctx context.Context, input *DisposeServerInput) (*struct{}, error) {
		userID, err := requireWriter(ctx)
		if err != nil {
			return nil, err
		}

		err = store.InTx(ctx, func(tx domain.Store) error {
			if dispErr := tx.Servers().Dispose(ctx, input.ID, userID); dispErr != nil {
				return dispErr
			}
			return history.NewTracker(tx).Record(ctx,
				recordParams(ctx, domain.AssetTypeServer, input.ID, domain.ActionDispose, userID))
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("server not found")
			}
			return nil, huma.Error500InternalServerError("failed to dispose server", err)
		}

		return nil, nil
	})
}

func applyServerBody(s *domain.Server, b ServerBody) {
	if b.AssetNumber != "" {
		s.AssetNumber = b.AssetNumber
	}
	if b.Hostname != "" {
		s.Hostname = b.Hostname
	}
	if b.RackLocation != "" {
		s.RackLocation = b.RackLocation
	}
	if b.OSVersion != "" {
		s.OSVersion = b.OSVersion
	}
	if b.IPAddress != "" {
		s.IPAddress = b.IPAddress
	}
	if b.Purpose != "" {
		s.Purpose = b.Purpose
	}
	if b.WarrantyExpiry != "" {
		s.WarrantyExpiry = b.WarrantyExpiry
	}
	if b.CPU != "" {
		s.CPU = b.CPU
	}
	if b.RAM != "" {
		s.RAM = b.RAM
	}
	if b.Disk != "" {
		s.Disk = b.Disk
	}
	if b.Status != "" {
		s.Status = domain.ServerStatus(b.Status)
	}
	if b.Notes != "" {
		s.Notes = b.Notes
	}
}
