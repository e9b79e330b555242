package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kinsu128-art/it-hub/internal/domain"
	"github.com/kinsu128-art/it-hub/internal/history"
)

type PCBody struct {
	AssetNumber  string `json:"asset_number" minLength:"1" maxLength:"64" doc:"Unique asset tag"`
	UserName     string `json:"user_name,omitempty" maxLength:"255" doc:"Assigned user"`
	Department   string `json:"department,omitempty" maxLength:"255" doc:"Owning department"`
	ModelName    string `json:"model_name" minLength:"1" maxLength:"255" doc:"Model name"`
	SerialNumber string `json:"serial_number,omitempty" maxLength:"255" doc:"Serial number"`
	PurchaseDate string `json:"purchase_date,omitempty" doc:"Purchase date (YYYY-MM-DD)"`
	CPU          string `json:"cpu,omitempty" maxLength:"255"`
	RAM          string `json:"ram,omitempty" maxLength:"255"`
	Disk         string `json:"disk,omitempty" maxLength:"255"`
	Status       string `json:"status,omitempty" doc:"assigned, in_stock, repair or disposed"`
	Notes        string `json:"notes,omitempty" maxLength:"2000"`
}

type CreatePCInput struct {
	Body PCBody
}

type PCOutput struct {
	Body *domain.PC
}

type ListPCsInput struct {
	ListQuery
	Department string `query:"department" doc:"Filter by department"`
}

type ListPCsOutput struct {
	Body struct {
		Items []*domain.PC `json:"items"`
		Meta  ListMeta     `json:"meta"`
	}
}

type GetPCInput struct {
	ID int64 `path:"id" doc:"PC ID"`
}

type PCDetailOutput struct {
	Body struct {
		PC      *domain.PC                   `json:"pc"`
		History []*domain.AssetHistoryRecord `json:"history"`
	}
}

type UpdatePCInput struct {
	ID   int64 `path:"id" doc:"PC ID"`
	Body PCBody
}

type DisposePCInput struct {
	ID int64 `path:"id" doc:"PC ID"`
}

func RegisterPCRoutes(api huma.API, store domain.Store) {
	huma.Register(api, huma.Operation{
		OperationID: "create-pc",
		Method:      http.MethodPost,
		Path:        "/pcs",
		Summary:     "Register a new PC",
		Tags:        []string{"PCs"},
	}, func(ctx context.Context, input *CreatePCInput) (*PCOutput, error) {
		userID, err := requireWriter(ctx)
		if err != nil {
			return nil, err
		}

		status := domain.PCStatus(input.Body.Status)
		if status == "" {
			status = domain.PCStatusInStock
		}
		if !status.Valid() {
			return nil, huma.Error400BadRequest("unknown status " + input.Body.Status)
		}

		if _, err := store.PCs().GetByAssetNumber(ctx, input.Body.AssetNumber); err == nil {
			return nil, huma.Error409Conflict("asset number already registered")
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error500InternalServerError("failed to check asset number", err)
		}

		pc := &domain.PC{
			AssetNumber:  input.Body.AssetNumber,
			UserName:     input.Body.UserName,
			Department:   input.Body.Department,
			ModelName:    input.Body.ModelName,
			SerialNumber: input.Body.SerialNumber,
			PurchaseDate: input.Body.PurchaseDate,
			CPU:          input.Body.CPU,
			RAM:          input.Body.RAM,
			Disk:         input.Body.Disk,
			Status:       status,
			Notes:        input.Body.Notes,
			CreatedBy:    userID,
			UpdatedBy:    userID,
		}

		// Entity row and audit row land in the same transaction.
		err = store.InTx(ctx, func(tx domain.Store) error {
			if createErr := tx.PCs().Create(ctx, pc); createErr != nil {
				return createErr
			}
			return history.NewTracker(tx).Record(ctx,
				recordParams(ctx, domain.AssetTypePC, pc.ID, domain.ActionCreate, userID))
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create pc", err)
		}

		return &PCOutput{Body: pc}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-pcs",
		Method:      http.MethodGet,
		Path:        "/pcs",
		Summary:     "List PCs",
		Tags:        []string{"PCs"},
	}, func(ctx context.Context, input *ListPCsInput) (*ListPCsOutput, error) {
		status := domain.PCStatus(input.Status)
		if status != "" && !status.Valid() {
			return nil, huma.Error400BadRequest("unknown status " + input.Status)
		}

		items, total, err := store.PCs().List(ctx, domain.PCFilter{
			Search:     input.Search,
			Status:     status,
			Department: input.Department,
			Page:       input.Page,
			Limit:      input.Limit,
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list pcs", err)
		}
		if items == nil {
			items = []*domain.PC{}
		}

		out := &ListPCsOutput{}
		out.Body.Items = items
		out.Body.Meta = listMeta(total, input.Page, input.Limit)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-pc",
		Method:      http.MethodGet,
		Path:        "/pcs/{id}",
		Summary:     "Get a PC by ID",
		Tags:        []string{"PCs"},
	}, func(ctx context.Context, input *GetPCInput) (*PCDetailOutput, error) {
		pc, err := store.PCs().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("pc not found")
			}
			return nil, huma.Error500InternalServerError("failed to get pc", err)
		}

		out := &PCDetailOutput{}
		out.Body.PC = pc
		out.Body.History = assetTimeline(ctx, store, domain.AssetTypePC, pc.ID)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-pc",
		Method:      http.MethodPut,
		Path:        "/pcs/{id}",
		Summary:     "Update a PC",
		Tags:        []string{"PCs"},
	}, func(ctx context.Context, input *UpdatePCInput) (*PCOutput, error) {
		userID, err := requireWriter(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.PCs().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("pc not found")
			}
			return nil, huma.Error500InternalServerError("failed to get pc", err)
		}

		oldFields := existing.Fields()

		updated := *existing
		applyPCBody(&updated, input.Body)
		if updated.Status != existing.Status && !updated.Status.Valid() {
			return nil, huma.Error400BadRequest("unknown status " + input.Body.Status)
		}
		updated.UpdatedBy = userID

		if updated.AssetNumber != existing.AssetNumber {
			if _, err := store.PCs().GetByAssetNumber(ctx, updated.AssetNumber); err == nil {
				return nil, huma.Error409Conflict("asset number already registered")
			} else if !errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error500InternalServerError("failed to check asset number", err)
			}
		}

		changes := history.Diff(oldFields, updated.Fields())

		err = store.InTx(ctx, func(tx domain.Store) error {
			if updateErr := tx.PCs().Update(ctx, &updated); updateErr != nil {
				return updateErr
			}
			p := recordParams(ctx, domain.AssetTypePC, updated.ID, domain.ActionUpdate, userID)
			p.Changes = changes
			return history.NewTracker(tx).Record(ctx, p)
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to update pc", err)
		}

		return &PCOutput{Body: &updated}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "dispose-pc",
		Method:      http.MethodDelete,
		Path:        "/pcs/{id}",
		Summary:     "Dispose a PC",
		Description: "Marks the PC as disposed. The row is retained for the audit trail.",
		Tags:        []string{"PCs"},
	}, func(ctx context.Context, input *DisposePCInput) (*struct{}, error) {
		userID, err := requireWriter(ctx)
		if err != nil {
			return nil, err
		}

		err = store.InTx(ctx, func(tx domain.Store) error {
			if dispErr := tx.PCs().Dispose(ctx, input.ID, userID); dispErr != nil {
				return dispErr
			}
			return history.NewTracker(tx).Record(ctx,
				recordParams(ctx, domain.AssetTypePC, input.ID, domain.ActionDispose, userID))
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("pc not found")
			}
			return nil, huma.Error500InternalServerError("failed to dispose pc", err)
		}

		return nil, nil
	})
}

// applyPCBody overlays non-empty input fields onto the PC, mirroring how the
// dashboard submits full records.
func applyPCBody(pc *domain.PC, b PCBody) {
	if b.AssetNumber != "" {
		pc.AssetNumber = b.AssetNumber
	}
	if b.UserName != "" {
		pc.UserName = b.UserName
	}
	if b.Department != "" {
		pc.Department = b.Department
	}
	if b.ModelName != "" {
		pc.ModelName = b.ModelName
	}
	if b.SerialNumber != "" {
		pc.SerialNumber = b.SerialNumber
	}
	if b.PurchaseDate != "" {
		pc.PurchaseDate = b.PurchaseDate
	}
	if b.CPU != "" {
		pc.CPU = b.CPU
	}
	if b.RAM != "" {
		pc.RAM = b.RAM
	}
	if b.Disk != "" {
		pc.Disk = b.Disk
	}
	if b.Status != "" {
		pc.Status = domain.PCStatus(b.Status)
	}
	if b.Notes != "" {
		pc.Notes = b.Notes
	}
}
