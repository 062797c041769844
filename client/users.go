package client

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/serenoa/go-session"
)

// UserRecord is the backend's user resource, distinct from the session's
// claims-derived user.
type UserRecord struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phoneNumber,omitempty"`
	Role      string `json:"role,omitempty"`
	RankID    string `json:"rankId,omitempty"`
}

type UserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phoneNumber,omitempty"`
	Role      string `json:"role,omitempty"`
	RankID    string `json:"rankId,omitempty"`
}

func (r UserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.FirstName, validation.Required),
		validation.Field(&r.Phone, validation.By(session.ValidatePhone)),
	)
}

type UsersService struct {
	c *Client
}

func (s *UsersService) List(ctx context.Context, opts ListOptions) (*Page[UserRecord], error) {
	return list[UserRecord](ctx, s.c, "/users", opts)
}

func (s *UsersService) Get(ctx context.Context, id string) (*UserRecord, error) {
	return getOne[UserRecord](ctx, s.c, fmt.Sprintf("/users/%s", id))
}

func (s *UsersService) Create(ctx context.Context, req UserRequest) (*UserRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return create[UserRecord](ctx, s.c, "/users", req)
}

func (s *UsersService) Update(ctx context.Context, id string, req UserRequest) (*UserRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return update[UserRecord](ctx, s.c, fmt.Sprintf("/users/%s", id), req)
}

func (s *UsersService) Delete(ctx context.Context, id string) error {
	return remove(ctx, s.c, fmt.Sprintf("/users/%s", id))
}
