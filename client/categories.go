package client

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Category groups services for browsing and filtering
type Category struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IconURL     string `json:"iconUrl,omitempty"`
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IconURL     string `json:"iconUrl,omitempty"`
}

func (r CategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 120)),
	)
}

type CategoriesService struct {
	c *Client
}

func (s *CategoriesService) List(ctx context.Context, opts ListOptions) (*Page[Category], error) {
	return list[Category](ctx, s.c, "/categories", opts)
}

func (s *CategoriesService) Get(ctx context.Context, id string) (*Category, error) {
	return getOne[Category](ctx, s.c, fmt.Sprintf("/categories/%s", id))
}

func (s *CategoriesService) Create(ctx context.Context, req CategoryRequest) (*Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return create[Category](ctx, s.c, "/categories", req)
}

func (s *CategoriesService) Update(ctx context.Context, id string, req CategoryRequest) (*Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return update[Category](ctx, s.c, fmt.Sprintf("/categories/%s", id), req)
}

func (s *CategoriesService) Delete(ctx context.Context, id string) error {
	return remove(ctx, s.c, fmt.Sprintf("/categories/%s", id))
}
