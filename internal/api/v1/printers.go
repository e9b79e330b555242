package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kinsu128-art/it-hub/internal/domain"
	"github.com/kinsu128-art/it-hub/internal/history"
)

type PrinterBody struct {
	AssetNumber   string `json:"asset_number" minLength:"1" maxLength:"64" doc:"Unique asset tag"`
	ModelName     string `json:"model_name" minLength:"1" maxLength:"255" doc:"Model name"`
	IPAddress     string `json:"ip_address,omitempty" maxLength:"64"`
	Location      string `json:"location,omitempty" maxLength:"255" doc:"Physical location"`
	TonerStatus   string `json:"toner_status,omitempty" maxLength:"255"`
	DrumStatus    string `json:"drum_status,omitempty" maxLength:"255"`
	VendorName    string `json:"vendor_name,omitempty" maxLength:"255"`
	VendorContact string `json:"vendor_contact,omitempty" maxLength:"255"`
	Status        string `json:"status,omitempty" doc:"active, inactive, repair or disposed"`
	Notes         string `json:"notes,omitempty" maxLength:"2000"`
}

type CreatePrinterInput struct {
	Body PrinterBody
}

type PrinterOutput struct {
	Body *domain.Printer
}

type ListPrintersInput struct {
	ListQuery
}

type ListPrintersOutput struct {
	Body struct {
		Items []*domain.Printer `json:"items"`
		Meta  ListMeta          `json:"meta"`
	}
}

type GetPrinterInput struct {
	ID int64 `path:"id" doc:"Printer ID"`
}

type PrinterDetailOutput struct {
	Body struct {
		Printer *domain.Printer              `json:"printer"`
		History []*domain.AssetHistoryRecord `json:"history"`
	}
}

type UpdatePrinterInput struct {
	ID   int64 `path:"id" doc:"Printer ID"`
	Body PrinterBody
}

type DisposePrinterInput struct {
	ID int64 `path:"id" doc:"Printer ID"`
}

func RegisterPrinterRoutes(api huma.API, store domain.Store) {
	huma.Register(api, huma.Operation{
		OperationID: "create-printer",
		Method:      http.MethodPost,
		Path:        "/printers",
		Summary:     "Register a new printer",
		Tags:        []string{"Printers"},
	}, func(ctx context.Context, input *CreatePrinterInput) (*PrinterOutput, error) {
		userID, err := requireWriter(ctx)
		if err != nil {
			return nil, err
		}

		status := domain.PrinterStatus(input.Body.Status)
		if status == "" {
			status = domain.PrinterStatusActive
		}
		if !status.Valid() {
			return nil, huma.Error400BadRequest("unknown status " + input.Body.Status)
		}

		if input.Body.IPAddress != "" && !domain.IsValidIPv4(input.Body.IPAddress) {
			return nil, huma.Error400BadRequest("ip_address is not a valid IPv4 address")
		}

		if _, err := store.Printers().GetByAssetNumber(ctx, input.Body.AssetNumber); err == nil {
			return nil, huma.Error409Conflict("asset number already registered")
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error500InternalServerError("failed to check asset number", err)
		}

		pr := &domain.Printer{
			AssetNumber:   input.Body.AssetNumber,
			ModelName:     input.Body.ModelName,
			IPAddress:     input.Body.IPAddress,
			Location:      input.Body.Location,
			TonerStatus:   input.Body.TonerStatus,
			DrumStatus:    input.Body.DrumStatus,
			VendorName:    input.Body.VendorName,
			VendorContact: input.Body.VendorContact,
			Status:        status,
			Notes:         input.Body.Notes,
			CreatedBy:     userID,
			UpdatedBy:     userID,
		}

		err = store.InTx(ctx, func(tx domain.Store) error {
			if createErr := tx.Printers().Create(ctx, pr); createErr != nil {
				return createErr
			}
			return history.NewTracker(tx).Record(ctx,
				recordParams(ctx, domain.AssetTypePrinter, pr.ID, domain.ActionCreate, userID))
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create printer", err)
		}

		return &PrinterOutput{Body: pr}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-printers",
		Method:      http.MethodGet,
		Path:        "/printers",
		Summary:     "List printers",
		Tags:        []string{"Printers"},
	}, func(ctx context.Context, input *ListPrintersInput) (*ListPrintersOutput, error) {
		status := domain.PrinterStatus(input.Status)
		if status != "" && !status.Valid() {
			return nil, huma.Error400BadRequest("unknown status " + input.Status)
		}

		items, total, err := store.Printers().List(ctx, domain.PrinterFilter{
			Search: input.Search,
			Status: status,
			Page:   input.Page,
			Limit:  input.Limit,
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list printers", err)
		}
		if items == nil {
			items = []*domain.Printer{}
		}

		out := &ListPrintersOutput{}
		out.Body.Items = items
		out.Body.Meta = listMeta(total, input.Page, input.Limit)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-printer",
		Method:      http.MethodGet,
		Path:        "/printers/{id}",
		Summary:     "Get a printer by ID",
		Tags:        []string{"Printers"},
	}, func(ctx context.Context, input *GetPrinterInput) (*PrinterDetailOutput, error) {
		pr, err := store.Printers().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("printer not found")
			}
			return nil, huma.Error500InternalServerError("failed to get printer", err)
		}

		out := &PrinterDetailOutput{}
		out.Body.Printer = pr
		out.Body.History = assetTimeline(ctx, store, domain.AssetTypePrinter, pr.ID)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-printer",
		Method:      http.MethodPut,
		Path:        "/printers/{id}",
		Summary:     "Update a printer",
		Tags:        []string{"Printers"},
	}, func(ctx context.Context, input *UpdatePrinterInput) (*PrinterOutput, error) {
		userID, err := requireWriter(ctx)
		if err != nil {
			return nil, err
		}

		existing, err := store.Printers().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("printer not found")
			}
			return nil, huma.Error500InternalServerError("failed to get printer", err)
		}

		oldFields := existing.Fields()

		updated := *existing
		applyPrinterBody(&updated, input.Body)
		if updated.Status != existing.Status && !updated.Status.Valid() {
			return nil, huma.Error400BadRequest("unknown status " + input.Body.Status)
		}
		if updated.IPAddress != "" && !domain.IsValidIPv4(updated.IPAddress) {
			return nil, huma.Error400BadRequest("ip_address is not a valid IPv4 address")
		}
		updated.UpdatedBy = userID

		if updated.AssetNumber != existing.AssetNumber {
			if _, err := store.Printers().GetByAssetNumber(ctx, updated.AssetNumber); err == nil {
				return nil, huma.Error409Conflict("asset number already registered")
			} else if !errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error500InternalServerError("failed to check asset number", err)
			}
		}

		changes := history.Diff(oldFields, updated.Fields())

		err = store.InTx(ctx, func(tx domain.Store) error {
			if updateErr := tx.Printers().Update(ctx, &updated); updateErr != nil {
				return updateErr
			}
			p := recordParams(ctx, domain.AssetTypePrinter, updated.ID, domain.ActionUpdate, userID)
			p.Changes = changes
			return history.NewTracker(tx).Record(ctx, p)
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to update printer", err)
		}

		return &PrinterOutput{Body: &updated}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "dispose-printer",
		Method:      http.MethodDelete,
		Path:        "/printers/{id}",
		Summary:     "Dispose a printer",
		Description: "Marks the printer as disposed. The row is retained for the audit trail.",
		Tags:        []string{"Printers"},
	}, func(ctx context.Context, input *DisposePrinterInput) (*struct{}, error) {
		userID, err := requireWriter(ctx)
		if err != nil {
			return nil, err
		}

		err = store.InTx(ctx, func(tx domain.Store) error {
			if dispErr := tx.Printers().Dispose(ctx, input.ID, userID); dispErr != nil {
				return dispErr
			}
			return history.NewTracker(tx).Record(ctx,
				recordParams(ctx, domain.AssetTypePrinter, input.ID, domain.ActionDispose, userID))
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("printer not found")
			}
			return nil, huma.Error500InternalServerError("failed to dispose printer", err)
		}

		return nil, nil
	})
}

func applyPrinterBody(p *domain.Printer, b PrinterBody) {
	if b.AssetNumber != "" {
		p.AssetNumber = b.AssetNumber
	}
	if b.ModelName != "" {
		p.ModelName = b.ModelName
	}
	if b.IPAddress != "" {
		p.IPAddress = b.IPAddress
	}
	if b.Location != "" {
		p.Location = b.Location
	}
	if b.TonerStatus != "" {
		p.TonerStatus = b.TonerStatus
	}
	if b.DrumStatus != "" {
		p.DrumStatus = b.DrumStatus
	}
	if b.VendorName != "" {
		p.VendorName = b.VendorName
	}
	if b.VendorContact != "" {
		p.VendorContact = b.VendorContact
	}
	if b.Status != "" {
		p.Status = domain.PrinterStatus(b.Status)
	}
	if b.Notes != "" {
		p.Notes = b.Notes
	}
}
