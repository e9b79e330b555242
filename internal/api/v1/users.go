package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kinsu128-art/it-hub/internal/auth"
	"github.com/kinsu128-art/it-hub/internal/domain"
)

type CreateUserInput struct {
	Body struct {
		Username string `json:"username" minLength:"3" maxLength:"64" doc:"Login name"`
		Password string `json:"password" minLength:"8" maxLength:"128" doc:"Initial password"` //nolint:gosec // G117: account creation DTO
		Name     string `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
		Email    string `json:"email,omitempty" format:"email" maxLength:"255"`
		Role     string `json:"role" enum:"admin,user,viewer" doc:"Account role"`
	}
}

type UserOutput struct {
	Body *domain.User
}

type ListUsersOutput struct {
	Body struct {
		Items []*domain.User `json:"items"`
	}
}

// RegisterUserRoutes wires the admin-only account management endpoints.
func RegisterUserRoutes(api huma.API, store domain.Store, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List accounts",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, _ *struct{}) (*ListUsersOutput, error) {
		if err := requireAdmin(ctx); err != nil {
			return nil, err
		}

		users, err := store.Users().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list users", err)
		}
		if users == nil {
			users = []*domain.User{}
		}
		for _, u := range users {
			u.PasswordHash = ""
		}

		out := &ListUsersOutput{}
		out.Body.Items = users
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-user",
		Method:      http.MethodPost,
		Path:        "/users",
		Summary:     "Create an account",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *CreateUserInput) (*UserOutput, error) {
		if err := requireAdmin(ctx); err != nil {
			return nil, err
		}

		role := domain.UserRole(input.Body.Role)
		if !role.Valid() {
			return nil, huma.Error400BadRequest("unknown role " + input.Body.Role)
		}

		user, err := authSvc.CreateUser(ctx, input.Body.Username, input.Body.Password,
			input.Body.Name, input.Body.Email, role)
		if err != nil {
			if errors.Is(err, auth.ErrUserAlreadyExists) {
				return nil, huma.Error409Conflict("username already taken")
			}
			return nil, huma.Error500InternalServerError("failed to create user", err)
		}

		user.PasswordHash = ""
		return &UserOutput{Body: user}, nil
	})
}
