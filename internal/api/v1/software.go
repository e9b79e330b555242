package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kinsu128-art/it-hub/internal/domain"
	"github.com/kinsu128-art/it-hub/internal/history"
)

type SoftwareBody struct {
	SoftwareName      string `json:"software_name" minLength:"1" maxLength:"255" doc:"Product name"`
	LicenseKey        string `json:"license_key,omitempty" maxLength:"512"`
	PurchasedQuantity int    `json:"purchased_quantity,omitempty" minimum:"0" doc:"Seats purchased"`
	AllocatedQuantity int    `json:"allocated_quantity,omitempty" minimum:"0" doc:"Seats in use"`
	ExpiryDate        string `json:"expiry_date,omitempty" doc:"License expiry (YYYY-MM-DD)"`
	Version           string `json:"version,omitempty" maxLength:"255"`
	VendorName        string `json:"vendor_name,omitempty" maxLength:"255"`
	Status            string `json:"status,omitempty" doc:"active, expired or disposed"`
	Notes             string `json:"notes,omitempty" maxLength:"2000"`
}

type CreateSoftwareInput struct {
	Body SoftwareBody
}

type SoftwareOutput struct {
	Body *domain.Software
}

type ListSoftwareInput struct {
	ListQuery
}

type ListSoftwareOutput struct {
	Body struct {
		Items []*domain.Software `json:"items"`
		Meta  ListMeta           `json:"meta"`
	}
}

type GetSoftwareInput struct {
	ID int64 `path:"id" doc:"License ID"`
}

type SoftwareDetailOutput struct {
	Body struct {
		Software *domain.Software             `json:"software"`
		History  []*domain.AssetHistoryRecord `json:"history"`
	}
}

type UpdateSoftwareInput struct {
	ID   int64 `path:"id" doc:"License ID"`
	Body SoftwareBody
}

type DisposeSoftwareInput struct {
	ID int64 `path:"id" doc:"License ID"`
}

func RegisterSoftwareRoutes(api huma.API, store domain.Store) {
	huma.Register(api, huma.Operation{
		OperationID: "create-software",
		Method:      http.MethodPost,
		Path:        "/software",
		Summary:     "Register a software license",
		Tags:        []string{"Software"},
	}, func(ctx context.Context, input *CreateSoftwareInput) (*SoftwareOutput, error) {
		userID, err := requireWriter(ctx)
		if err != nil {
			return nil, err
		}

		status := domain.SoftwareStatus(input.Body.Status)
		if status == "" {
			status = domain.SoftwareStatusActive
		}
		if !status.Valid() {
			return nil, huma.Error400BadRequest("unknown status " + input.Body.Status)
		}

		if input.Body.AllocatedQuantity > input.Body.PurchasedQuantity {
			return nil, huma.Error400BadRequest("allocated_quantity exceeds purchased_quantity")
		}

		sw := &domain.Software{
			SoftwareName:      input.Body.SoftwareName,
			LicenseKey:        input.Body.LicenseKey,
			PurchasedQuantity: input.Body.PurchasedQuantity,
			AllocatedQuantity: input.Body.AllocatedQuantity,
			ExpiryDate:        input.Body.ExpiryDate,
			Version:           input.Body.Version,
			VendorName:        input.Body.VendorName,
			Status:            status,
			Notes:             input.Body.Notes,
			CreatedBy:         userID,
			UpdatedBy:         userID,
		}

		err = store.InTx(ctx, func(tx domain.Store) error {
			if createErr := tx.Software().Create(ctx, sw); createErr != nil {
				return createErr
			}
			return history.NewTracker(tx).Record(ctx,
				recordParams(ctx, domain.AssetTypeSoftware, sw.ID, domain.ActionCreate, userID))
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create software license", err)
		}

		return &SoftwareOutput{Body: sw}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-software",
		Method:      http.MethodGet,
		Path:        "/software",
		Summary:     "List software licenses",
		Tags:        []string{"Software"},
	}, func(ctx context.Context, input *ListSoftwareInput) (*ListSoftwareOutput, error) {
		status := domain.SoftwareStatus(input.Status)
		if status != "" && !status.Valid() {
			return nil, huma.Error400BadRequest("unknown status " + input.Status)
		}

		items, total, err := store.Software().List(ctx, domain.SoftwareFilter{
			Search: input.Search,
			Status: status,
			Page:   input.Page,
			Limit:  input.Limit,
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list software licenses", err)
		}
		if items == nil {
			items = []*domain.Software{}
		}

		out := &ListSoftwareOutput{}
		out.Body.Items = items
		out.Body.Meta = listMeta(total, input.Page, input.Limit)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-software",
		Method:      http.MethodGet,
		Path:        "/software/{id}",
		Summary:     "Get a software license by ID",
		Tags:        []string{"Software"},
	}, func(ctx context.Context, input *GetSoftwareInput) (*SoftwareDetailOutput, error) {
		sw, err := store.Software().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("software license not found")
			}
			return nil, huma.Error500InternalServerError("failed to get software license", err)
		}

		out := &SoftwareDetailOutput{}
		out.Body.Software = sw
		out.Body.History = assetTimeline(ctx, store, domain.AssetTypeSoftware, sw.ID)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-software",
		Method:      http.MethodPut,
		Path:        "/software/{id}",
		Summary:     "Update a software license",
		Tags:        []string{"Software"},
	}, func(ctx context.Context, input *UpdateSoftwareInput) (*SoftwareOutput, error) {
		userID, err := requireWriter(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Software().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("software license not found")
			}
			return nil, huma.Error500InternalServerError("failed to get software license", err)
		}

		oldFields := existing.Fields()

		updated := *existing
		applySoftwareBody(&updated, input.Body)
		if updated.Status != existing.Status && !updated.Status.Valid() {
			return nil, huma.Error400BadRequest("unknown status " + input.Body.Status)
		}
		if updated.AllocatedQuantity > updated.PurchasedQuantity {
			return nil, huma.Error400BadRequest("allocated_quantity exceeds purchased_quantity")
		}
		updated.UpdatedBy = userID

		changes := history.Diff(oldFields, updated.Fields())

		err = store.InTx(ctx, func(tx domain.Store) error {
			if updateErr := tx.Software().Update(ctx, &updated); updateErr != nil {
				return updateErr
			}
			p := recordParams(ctx, domain.AssetTypeSoftware, updated.ID, domain.ActionUpdate, userID)
			p.Changes = changes
			return history.NewTracker(tx).Record(ctx, p)
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to update software license", err)
		}

		return &SoftwareOutput{Body: &updated}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "dispose-software",
		Method:      http.MethodDelete,
		Path:        "/software/{id}",
		Summary:     "Dispose a software license",
		Description: "Marks the license as disposed. The row is retained for the audit trail.",
		Tags:        []string{"Software"},
	}, func(ctx context.Context, input *DisposeSoftwareInput) (*struct{}, error) {
		userID, err := requireWriter(ctx)
		if err != nil {
			return nil, err
		}

		err = store.InTx(ctx, func(tx domain.Store) error {
			if dispErr := tx.Software().Dispose(ctx, input.ID, userID); dispErr != nil {
				return dispErr
			}
			return history.NewTracker(tx).Record(ctx,
				recordParams(ctx, domain.AssetTypeSoftware, input.ID, domain.ActionDispose, userID))
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("software license not found")
			}
			return nil, huma.Error500InternalServerError("failed to dispose software license", err)
		}

		return nil, nil
	})
}

func applySoftwareBody(s *domain.Software, b SoftwareBody) {
	if b.SoftwareName != "" {
		s.SoftwareName = b.SoftwareName
	}
	if b.LicenseKey != "" {
		s.LicenseKey = b.LicenseKey
	}
	if b.PurchasedQuantity != 0 {
		s.PurchasedQuantity = b.PurchasedQuantity
	}
	if b.AllocatedQuantity != 0 {
		s.AllocatedQuantity = b.AllocatedQuantity
	}
	if b.ExpiryDate != "" {
		s.ExpiryDate = b.ExpiryDate
	}
	if b.Version != "" {
		s.Version = b.Version
	}
	if b.VendorName != "" {
		s.VendorName = b.VendorName
	}
	if b.Status != "" {
		s.Status = domain.SoftwareStatus(b.Status)
	}
	if b.Notes != "" {
		s.Notes = b.Notes
	}
}
