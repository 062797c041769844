package client

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Promotion is a time-boxed discount a branch runs on its services
type Promotion struct {
	ID              string     `json:"id,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	DiscountPercent int        `json:"discountPercent"`
	StartsAt        *time.Time `json:"startsAt,omitempty"`
	EndsAt          *time.Time `json:"endsAt,omitempty"`
	BranchID        string     `json:"branchId,omitempty"`
}

type PromotionRequest struct {
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	DiscountPercent int        `json:"discountPercent"`
	StartsAt        *time.Time `json:"startsAt,omitempty"`
	EndsAt          *time.Time `json:"endsAt,omitempty"`
	BranchID        string     `json:"branchId,omitempty"`
}

func (r PromotionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 160)),
		validation.Field(&r.DiscountPercent, validation.Required, validation.Min(1), validation.Max(100)),
	)
}

type PromotionsService struct {
	c *Client
}

func (s *PromotionsService) List(ctx context.Context, opts ListOptions) (*Page[Promotion], error) {
	return list[Promotion](ctx, s.c, "/promotions", opts)
}

func (s *PromotionsService) Get(ctx context.Context, id string) (*Promotion, error) {
	return getOne[Promotion](ctx, s.c, fmt.Sprintf("/promotions/%s", id))
}

func (s *PromotionsService) Create(ctx context.Context, req PromotionRequest) (*Promotion, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return create[Promotion](ctx, s.c, "/promotions", req)
}

func (s *PromotionsService) Update(ctx context.Context, id string, req PromotionRequest) (*Promotion, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return update[Promotion](ctx, s.c, fmt.Sprintf("/promotions/%s", id), req)
}

func (s *PromotionsService) Delete(ctx context.Context, id string) error {
	return remove(ctx, s.c, fmt.Sprintf("/promotions/%s", id))
}
