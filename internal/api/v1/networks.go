package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kinsu128-art/it-hub/internal/domain"
	"github.com/kinsu128-art/it-hub/internal/history"
)

type NetworkIPBody struct {
	IPAddress      string `json:"ip_address" minLength:"7" maxLength:"15" doc:"IPv4 address"`
	SubnetMask     string `json:"subnet_mask" minLength:"7" maxLength:"15" doc:"IPv4 subnet mask"`
	Gateway        string `json:"gateway,omitempty" maxLength:"15" doc:"Gateway address"`
	AssignedDevice string `json:"assigned_device,omitempty" maxLength:"255" doc:"Device using this address"`
	VLANID         int    `json:"vlan_id,omitempty" minimum:"0" maximum:"4094" doc:"VLAN ID"`
	IsActive       *bool  `json:"is_active,omitempty" doc:"Whether the allocation is in use"`
	Notes          string `json:"notes,omitempty" maxLength:"2000"`
}

type CreateNetworkIPInput struct {
	Body NetworkIPBody
}

type NetworkIPOutput struct {
	Body *domain.NetworkIP
}

type ListNetworkIPsInput struct {
	Search   string `query:"search" doc:"Substring match on ip_address or assigned_device"`
	IsActive string `query:"is_active" enum:",true,false" doc:"Filter by active flag"`
	Page     int    `query:"page" minimum:"0" doc:"1-based page number"`
	Limit    int    `query:"limit" minimum:"0" maximum:"100" doc:"Page size (default 20)"`
}

type ListNetworkIPsOutput struct {
	Body struct {
		Items []*domain.NetworkIP `json:"items"`
		Meta  ListMeta            `json:"meta"`
	}
}

type GetNetworkIPInput struct {
	ID int64 `path:"id" doc:"Allocation ID"`
}

type NetworkIPDetailOutput struct {
	Body struct {
		IP      *domain.NetworkIP            `json:"ip"`
		History []*domain.AssetHistoryRecord `json:"history"`
	}
}

type UpdateNetworkIPInput struct {
	ID   int64 `path:"id" doc:"Allocation ID"`
	Body NetworkIPBody
}

type DeleteNetworkIPInput struct {
	ID int64 `path:"id" doc:"Allocation ID"`
}

type CheckDuplicateIPInput struct {
	IPAddress string `query:"ip_address" required:"true" doc:"IPv4 address to check"`
	ExcludeID int64  `query:"exclude_id" doc:"Allocation ID to ignore (when editing)"`
}

type CheckDuplicateIPOutput struct {
	Body struct {
		Duplicate bool   `json:"duplicate"`
		Device    string `json:"device,omitempty" doc:"Device holding the address when duplicate"`
	}
}

func RegisterNetworkIPRoutes(api huma.API, store domain.Store) {
	huma.Register(api, huma.Operation{
		OperationID: "create-network-ip",
		Method:      http.MethodPost,
		Path:        "/networks",
		Summary:     "Register a new IP allocation",
		Tags:        []string{"Networks"},
	}, func(ctx context.Context, input *CreateNetworkIPInput) (*NetworkIPOutput, error) {
		userID, err := requireWriter(ctx)
		if err != nil {
			return nil, err
		}

		if err := validateNetworkIPBody(input.Body); err != nil {
			return nil, err
		}

		isActive := true
		if input.Body.IsActive != nil {
			isActive = *input.Body.IsActive
		}

		// An address may only have one active allocation.
		if isActive {
			if _, err := store.NetworkIPs().FindActiveByAddress(ctx, input.Body.IPAddress, 0); err == nil {
				return nil, huma.Error409Conflict("ip address already has an active allocation")
			} else if !errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error500InternalServerError("failed to check ip address", err)
			}
		}

		ip := &domain.NetworkIP{
			IPAddress:      input.Body.IPAddress,
			SubnetMask:     input.Body.SubnetMask,
			Gateway:        input.Body.Gateway,
			AssignedDevice: input.Body.AssignedDevice,
			VLANID:         input.Body.VLANID,
			IsActive:       isActive,
			Notes:          input.Body.Notes,
			CreatedBy:      userID,
			UpdatedBy:      userID,
		}

		err = store.InTx(ctx, func(tx domain.Store) error {
			if createErr := tx.NetworkIPs().Create(ctx, ip); createErr != nil {
				return createErr
			}
			return history.NewTracker(tx).Record(ctx,
				recordParams(ctx, domain.AssetTypeNetwork, ip.ID, domain.ActionCreate, userID))
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create ip allocation", err)
		}

		return &NetworkIPOutput{Body: ip}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-network-ips",
		Method:      http.MethodGet,
		Path:        "/networks",
		Summary:     "List IP allocations",
		Tags:        []string{"Networks"},
	}, func(ctx context.Context, input *ListNetworkIPsInput) (*ListNetworkIPsOutput, error) {
		f := domain.NetworkIPFilter{
			Search: input.Search,
			Page:   input.Page,
			Limit:  input.Limit,
		}
		switch input.IsActive {
		case "true":
			v := true
			f.IsActive = &v
		case "false":
			v := false
			f.IsActive = &v
		}

		items, total, err := store.NetworkIPs().List(ctx, f)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list ip allocations", err)
		}
		if items == nil {
			items = []*domain.NetworkIP{}
		}

		out := &ListNetworkIPsOutput{}
		out.Body.Items = items
		out.Body.Meta = listMeta(total, input.Page, input.Limit)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "check-duplicate-ip",
		Method:      http.MethodGet,
		Path:        "/networks/check-duplicate",
		Summary:     "Check whether an IP address is already allocated",
		Tags:        []string{"Networks"},
	}, func(ctx context.Context, input *CheckDuplicateIPInput) (*CheckDuplicateIPOutput, error) {
		if !domain.IsValidIPv4(input.IPAddress) {
			return nil, huma.Error400BadRequest("ip_address is not a valid IPv4 address")
		}

		out := &CheckDuplicateIPOutput{}

		existing, err := store.NetworkIPs().FindActiveByAddress(ctx, input.IPAddress, input.ExcludeID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return out, nil
			}
			return nil, huma.Error500InternalServerError("failed to check ip address", err)
		}

		out.Body.Duplicate = true
		out.Body.Device = existing.AssignedDevice
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-network-ip",
		Method:      http.MethodGet,
		Path:        "/networks/{id}",
		Summary:     "Get an IP allocation by ID",
		Tags:        []string{"Networks"},
	}, func(ctx context.Context, input *GetNetworkIPInput) (*NetworkIPDetailOutput, error) {
		ip, err := store.NetworkIPs().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("ip allocation not found")
			}
			return nil, huma.Error500InternalServerError("failed to get ip allocation", err)
		}

		out := &NetworkIPDetailOutput{}
		out.Body.IP = ip
		out.Body.History = assetTimeline(ctx, store, domain.AssetTypeNetwork, ip.ID)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-network-ip",
		Method:      http.MethodPut,
		Path:        "/networks/{id}",
		Summary:     "Update an IP allocation",
		Tags:        []string{"Networks"},
	}, func(ctx context.Context, input *UpdateNetworkIPInput) (*NetworkIPOutput, error) {
		userID, err := requireWriter(ctx)
		if err != nil {
			return nil, err
		}

		if err := validateNetworkIPBody(input.Body); err != nil {
			return nil, err
		}

		existing, err := store.NetworkIPs().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("ip allocation not found")
			}
			return nil, huma.Error500InternalServerError("failed to get ip allocation", err)
		}

		oldFields := existing.Fields()

		updated := *existing
		updated.IPAddress = input.Body.IPAddress
		updated.SubnetMask = input.Body.SubnetMask
		if input.Body.Gateway != "" {
			updated.Gateway = input.Body.Gateway
		}
		if input.Body.AssignedDevice != "" {
			updated.AssignedDevice = input.Body.AssignedDevice
		}
		if input.Body.VLANID != 0 {
			updated.VLANID = input.Body.VLANID
		}
		if input.Body.IsActive != nil {
			updated.IsActive = *input.Body.IsActive
		}
		if input.Body.Notes != "" {
			updated.Notes = input.Body.Notes
		}
		updated.UpdatedBy = userID

		if updated.IsActive {
			if _, err := store.NetworkIPs().FindActiveByAddress(ctx, updated.IPAddress, updated.ID); err == nil {
				return nil, huma.Error409Conflict("ip address already has an active allocation")
			} else if !errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error500InternalServerError("failed to check ip address", err)
			}
		}

		changes := history.Diff(oldFields, updated.Fields())

		err = store.InTx(ctx, func(tx domain.Store) error {
			if updateErr := tx.NetworkIPs().Update(ctx, &updated); updateErr != nil {
				return updateErr
			}
			p := recordParams(ctx, domain.AssetTypeNetwork, updated.ID, domain.ActionUpdate, userID)
			p.Changes = changes
			return history.NewTracker(tx).Record(ctx, p)
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to update ip allocation", err)
		}

		return &NetworkIPOutput{Body: &updated}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-network-ip",
		Method:      http.MethodDelete,
		Path:        "/networks/{id}",
		Summary:     "Delete an IP allocation",
		Description: "Removes the allocation row. The deletion itself stays visible in the audit trail.",
		Tags:        []string{"Networks"},
	}, func(ctx context.Context, input *DeleteNetworkIPInput) (*struct{}, error) {
		userID, err := requireWriter(ctx)
		if err != nil {
			return nil, err
		}

		err = store.InTx(ctx, func(tx domain.Store) error {
			if delErr := tx.NetworkIPs().Delete(ctx, input.ID); delErr != nil {
				return delErr
			}
			return history.NewTracker(tx).Record(ctx,
				recordParams(ctx, domain.AssetTypeNetwork, input.ID, domain.ActionDelete, userID))
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("ip allocation not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete ip allocation", err)
		}

		return nil, nil
	})
}

func validateNetworkIPBody(b NetworkIPBody) error {
	if !domain.IsValidIPv4(b.IPAddress) {
		return huma.Error400BadRequest("ip_address is not a valid IPv4 address")
	}
	if !domain.IsValidSubnetMask(b.SubnetMask) {
		return huma.Error400BadRequest("subnet_mask is not a valid IPv4 netmask")
	}
	if b.Gateway != "" && !domain.IsValidIPv4(b.Gateway) {
		return huma.Error400BadRequest("gateway is not a valid IPv4 address")
	}
	return nil
}
