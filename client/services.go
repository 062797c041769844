package client

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Service is a bookable treatment offered at a branch
type Service struct {
	ID              string  `json:"id,omitempty"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
	CategoryID      string  `json:"categoryId,omitempty"`
	BranchID        string  `json:"branchId,omitempty"`
}

type ServiceRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
	CategoryID      string  `json:"categoryId"`
	BranchID        string  `json:"branchId,omitempty"`
}

func (r ServiceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 160)),
		validation.Field(&r.Price, validation.Min(0.0)),
		validation.Field(&r.DurationMinutes, validation.Required, validation.Min(5)),
		validation.Field(&r.CategoryID, validation.Required),
	)
}

type ServicesService struct {
	c *Client
}

func (s *ServicesService) List(ctx context.Context, opts ListOptions) (*Page[Service], error) {
	return list[Service](ctx, s.c, "/services", opts)
}

func (s *ServicesService) Get(ctx context.Context, id string) (*Service, error) {
	return getOne[Service](ctx, s.c, fmt.Sprintf("/services/%s", id))
}

func (s *ServicesService) Create(ctx context.Context, req ServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return create[Service](ctx, s.c, "/services", req)
}

func (s *ServicesService) Update(ctx context.Context, id string, req ServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return update[Service](ctx, s.c, fmt.Sprintf("/services/%s", id), req)
}

func (s *ServicesService) Delete(ctx context.Context, id string) error {
	return remove(ctx, s.c, fmt.Sprintf("/services/%s", id))
}
