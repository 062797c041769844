package client

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/serenoa/go-session"
)

// Branch is a physical location a provider operates, along with the
// facilities it advertises
type Branch struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Address     string   `json:"address,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Facilities  []string `json:"facilities,omitempty"`
}

type BranchRequest struct {
	Name        string   `json:"name"`
	Address     string   `json:"address,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Facilities  []string `json:"facilities,omitempty"`
}

func (r BranchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 160)),
		validation.Field(&r.Phone, validation.By(session.ValidatePhone)),
	)
}

type BranchesService struct {
	c *Client
}

func (s *BranchesService) List(ctx context.Context, opts ListOptions) (*Page[Branch], error) {
	return list[Branch](ctx, s.c, "/branches", opts)
}

func (s *BranchesService) Get(ctx context.Context, id string) (*Branch, error) {
	return getOne[Branch](ctx, s.c, fmt.Sprintf("/branches/%s", id))
}

func (s *BranchesService) Create(ctx context.Context, req BranchRequest) (*Branch, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return create[Branch](ctx, s.c, "/branches", req)
}

func (s *BranchesService) Update(ctx context.Context, id string, req BranchRequest) (*Branch, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return update[Branch](ctx, s.c, fmt.Sprintf("/branches/%s", id), req)
}

func (s *BranchesService) Delete(ctx context.Context, id string) error {
	return remove(ctx, s.c, fmt.Sprintf("/branches/%s", id))
}
