package client

import (
	"context"
	"fmt"
)

// Role is a backend managed access role assignable to users
type Role struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type RolesService struct {
	c *Client
}

func (s *RolesService) List(ctx context.Context, opts ListOptions) (*Page[Role], error) {
	return list[Role](ctx, s.c, "/roles", opts)
}

func (s *RolesService) Get(ctx context.Context, id string) (*Role, error) {
	return getOne[Role](ctx, s.c, fmt.Sprintf("/roles/%s", id))
}

func (s *RolesService) Create(ctx context.Context, role Role) (*Role, error) {
	return create[Role](ctx, s.c, "/roles", role)
}

func (s *RolesService) Update(ctx context.Context, id string, role Role) (*Role, error) {
	return update[Role](ctx, s.c, fmt.Sprintf("/roles/%s", id), role)
}

func (s *RolesService) Delete(ctx context.Context, id string) error {
	return remove(ctx, s.c, fmt.Sprintf("/roles/%s", id))
}
