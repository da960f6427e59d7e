package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/lease"
	"github.com/rentora/rentora/internal/server/middleware"
)

type CreateLeaseInput struct {
	Body struct {
		LandlordID    uuid.UUID           `json:"landlord_id" doc:"Landlord user ID"`
		UnitID        uuid.UUID           `json:"unit_id" doc:"Unit being leased"`
		StartDate     time.Time           `json:"start_date" doc:"Lease start"`
		EndDate       time.Time           `json:"end_date" doc:"Lease end"`
		TenantDetails domain.PartyDetails `json:"tenant_details" doc:"Tenant identity details"`
	}
}

type CreateLeaseOutput struct {
	Body *domain.Lease
}

type ListLeasesInput struct {
	Status string `query:"status" doc:"Filter by status"`
}

type ListLeasesOutput struct {
	Body []*domain.Lease
}

type GetLeaseInput struct {
	ID uuid.UUID `path:"id" doc:"Lease ID"`
}

type GetLeaseOutput struct {
	Body *domain.Lease
}

type ApproveLeaseInput struct {
	ID   uuid.UUID `path:"id" doc:"Lease ID"`
	Body struct {
		LandlordDetails domain.PartyDetails `json:"landlord_details" doc:"Landlord identity details"`
		PropertyAddress string              `json:"property_address" minLength:"1" doc:"Address of the leased property"`
		RentAmount      float64             `json:"rent_amount" doc:"Monthly rent"`
		DepositAmount   float64             `json:"deposit_amount" doc:"Security deposit"`
	}
}

type ApproveLeaseOutput struct {
	Body *domain.Lease
}

type TransitionLeaseInput struct {
	ID uuid.UUID `path:"id" doc:"Lease ID"`
}

type UpdateTenantDetailsInput struct {
	ID   uuid.UUID `path:"id" doc:"Lease ID"`
	Body struct {
		TenantDetails domain.PartyDetails `json:"tenant_details" doc:"Tenant identity details"`
		StartDate     *time.Time          `json:"start_date,omitempty" doc:"New lease start"`
		EndDate       *time.Time          `json:"end_date,omitempty" doc:"New lease end"`
	}
}

type UpdateLandlordDetailsInput struct {
	ID   uuid.UUID `path:"id" doc:"Lease ID"`
	Body struct {
		LandlordDetails domain.PartyDetails `json:"landlord_details" doc:"Landlord identity details"`
		PropertyAddress string              `json:"property_address" doc:"Address of the leased property"`
		RentAmount      float64             `json:"rent_amount" doc:"Monthly rent"`
		DepositAmount   float64             `json:"deposit_amount" doc:"Security deposit"`
		Clauses         []string            `json:"clauses,omitempty" doc:"Custom contract clauses"`
	}
}

type AdminListLeasesInput struct {
	Status        string     `query:"status" doc:"Filter by status"`
	CreatedAfter  *time.Time `query:"created_after" doc:"Created on or after"`
	CreatedBefore *time.Time `query:"created_before" doc:"Created before"`
	Limit         int        `query:"limit" minimum:"0" maximum:"1000" doc:"Page size"`
	Offset        int        `query:"offset" minimum:"0" doc:"Page offset"`
}

type AdminListLeasesOutput struct {
	Body struct {
		Leases []*domain.Lease `json:"leases"`
		Total  int64           `json:"total"`
	}
}

func RegisterLeaseRoutes(api huma.API, store DataStore, svc LeaseService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-lease",
		Method:      http.MethodPost,
		Path:        "/leases",
		Summary:     "Request a new lease",
		Tags:        []string{"Leases"},
	}, func(ctx context.Context, input *CreateLeaseInput) (*CreateLeaseOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}

		l, err := svc.Create(ctx, lease.CreateInput{
			TenantID:      userID,
			LandlordID:    input.Body.LandlordID,
			UnitID:        input.Body.UnitID,
			StartDate:     input.Body.StartDate,
			EndDate:       input.Body.EndDate,
			TenantDetails: input.Body.TenantDetails,
		})
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				return nil, huma.Error400BadRequest(err.Error())
			}
			return nil, huma.Error500InternalServerError("failed to create lease", err)
		}

		return &CreateLeaseOutput{Body: l}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-leases",
		Method:      http.MethodGet,
		Path:        "/leases",
		Summary:     "List the caller's leases",
		Tags:        []string{"Leases"},
	}, func(ctx context.Context, input *ListLeasesInput) (*ListLeasesOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}
		role, _ := middleware.RoleFromContext(ctx)

		var status *domain.LeaseStatus
		if input.Status != "" {
			s := domain.LeaseStatus(input.Status)
			status = &s
		}

		var leases []*domain.Lease
		var err error
		if role == "landlord" {
			leases, err = store.Leases().ListByLandlord(ctx, userID, status)
		} else {
			leases, err = store.Leases().ListByTenant(ctx, userID, status)
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list leases", err)
		}

		return &ListLeasesOutput{Body: leases}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-lease",
		Method:      http.MethodGet,
		Path:        "/leases/{id}",
		Summary:     "Get a lease by ID",
		Tags:        []string{"Leases"},
	}, func(ctx context.Context, input *GetLeaseInput) (*GetLeaseOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}
		role, _ := middleware.RoleFromContext(ctx)

		l, err := store.Leases().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("lease not found")
			}
			return nil, huma.Error500InternalServerError("failed to get lease", err)
		}

		if userID != l.TenantID && userID != l.LandlordID && role != "admin" {
			return nil, huma.Error403Forbidden("not a party to this lease")
		}

		return &GetLeaseOutput{Body: l}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "approve-lease",
		Method:      http.MethodPost,
		Path:        "/leases/{id}/approve",
		Summary:     "Approve a pending lease",
		Tags:        []string{"Leases"},
	}, func(ctx context.Context, input *ApproveLeaseInput) (*ApproveLeaseOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}

		existing, err := store.Leases().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("lease not found")
			}
			return nil, huma.Error500InternalServerError("failed to get lease", err)
		}
		if existing.LandlordID != userID {
			return nil, huma.Error403Forbidden("only the landlord can approve")
		}

		l, err := svc.Approve(ctx, input.ID, domain.LeaseApproval{
			LandlordDetails: input.Body.LandlordDetails,
			PropertyAddress: input.Body.PropertyAddress,
			RentAmount:      input.Body.RentAmount,
			DepositAmount:   input.Body.DepositAmount,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrValidation):
				return nil, huma.Error400BadRequest(err.Error())
			case errors.Is(err, domain.ErrInvalidState):
				return nil, huma.Error409Conflict("lease is no longer pending")
			case errors.Is(err, domain.ErrNotFound):
				return nil, huma.Error404NotFound("lease not found")
			}
			return nil, huma.Error500InternalServerError("failed to approve lease", err)
		}

		return &ApproveLeaseOutput{Body: l}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reject-lease",
		Method:      http.MethodPost,
		Path:        "/leases/{id}/reject",
		Summary:     "Reject a pending lease",
		Tags:        []string{"Leases"},
	}, func(ctx context.Context, input *TransitionLeaseInput) (*struct{}, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}

		existing, err := store.Leases().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("lease not found")
			}
			return nil, huma.Error500InternalServerError("failed to get lease", err)
		}
		if existing.LandlordID != userID {
			return nil, huma.Error403Forbidden("only the landlord can reject")
		}

		if err := svc.Reject(ctx, input.ID); err != nil {
			if errors.Is(err, domain.ErrInvalidState) {
				return nil, huma.Error409Conflict("lease is no longer pending")
			}
			return nil, huma.Error500InternalServerError("failed to reject lease", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "cancel-lease",
		Method:      http.MethodPost,
		Path:        "/leases/{id}/cancel",
		Summary:     "Cancel a pending lease request",
		Tags:        []string{"Leases"},
	}, func(ctx context.Context, input *TransitionLeaseInput) (*struct{}, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}

		existing, err := store.Leases().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("lease not found")
			}
			return nil, huma.Error500InternalServerError("failed to get lease", err)
		}
		if existing.TenantID != userID {
			return nil, huma.Error403Forbidden("only the tenant can cancel")
		}

		if err := svc.Cancel(ctx, input.ID); err != nil {
			if errors.Is(err, domain.ErrInvalidState) {
				return nil, huma.Error409Conflict("lease is no longer pending")
			}
			return nil, huma.Error500InternalServerError("failed to cancel lease", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-lease-tenant-details",
		Method:      http.MethodPut,
		Path:        "/leases/{id}/tenant-details",
		Summary:     "Update the tenant side of a pending lease",
		Tags:        []string{"Leases"},
	}, func(ctx context.Context, input *UpdateTenantDetailsInput) (*struct{}, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}

		existing, err := store.Leases().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("lease not found")
			}
			return nil, huma.Error500InternalServerError("failed to get lease", err)
		}
		if existing.TenantID != userID {
			return nil, huma.Error403Forbidden("only the tenant can update tenant details")
		}

		err = svc.UpdateTenantDetails(ctx, input.ID, input.Body.TenantDetails, input.Body.StartDate, input.Body.EndDate)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrValidation):
				return nil, huma.Error400BadRequest(err.Error())
			case errors.Is(err, domain.ErrInvalidState):
				return nil, huma.Error409Conflict("lease is no longer pending")
			case errors.Is(err, domain.ErrNotFound):
				return nil, huma.Error404NotFound("lease not found")
			}
			return nil, huma.Error500InternalServerError("failed to update lease", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-lease-landlord-details",
		Method:      http.MethodPut,
		Path:        "/leases/{id}/landlord-details",
		Summary:     "Update the landlord side of a pending lease",
		Tags:        []string{"Leases"},
	}, func(ctx context.Context, input *UpdateLandlordDetailsInput) (*struct{}, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("missing identity")
		}

		err := svc.UpdateLandlordDetails(ctx, input.ID, userID,
			input.Body.LandlordDetails, input.Body.PropertyAddress,
			input.Body.RentAmount, input.Body.DepositAmount, input.Body.Clauses)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrForbidden):
				return nil, huma.Error403Forbidden("only the landlord can update landlord details")
			case errors.Is(err, domain.ErrValidation):
				return nil, huma.Error400BadRequest(err.Error())
			case errors.Is(err, domain.ErrInvalidState):
				return nil, huma.Error409Conflict("lease is no longer pending")
			case errors.Is(err, domain.ErrNotFound):
				return nil, huma.Error404NotFound("lease not found")
			}
			return nil, huma.Error500InternalServerError("failed to update lease", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-list-leases",
		Method:      http.MethodGet,
		Path:        "/admin/leases",
		Summary:     "List leases across all users",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *AdminListLeasesInput) (*AdminListLeasesOutput, error) {
		role, _ := middleware.RoleFromContext(ctx)
		if role != "admin" {
			return nil, huma.Error403Forbidden("admin only")
		}

		f := domain.LeaseFilter{
			CreatedAfter:  input.CreatedAfter,
			CreatedBefore: input.CreatedBefore,
			Limit:         input.Limit,
			Offset:        input.Offset,
		}
		if input.Status != "" {
			s := domain.LeaseStatus(input.Status)
			f.Status = &s
		}

		leases, err := store.Leases().ListAll(ctx, f)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list leases", err)
		}
		total, err := store.Leases().CountAll(ctx, f)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count leases", err)
		}

		out := &AdminListLeasesOutput{}
		out.Body.Leases = leases
		out.Body.Total = total
		return out, nil
	})
}
