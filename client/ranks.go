package client

import (
	"context"
	"fmt"
)

// Rank is a loyalty tier customers earn through completed bookings
type Rank struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name"`
	MinPoints       int    `json:"minPoints"`
	DiscountPercent int    `json:"discountPercent,omitempty"`
}

type RanksService struct {
	c *Client
}

func (s *RanksService) List(ctx context.Context, opts ListOptions) (*Page[Rank], error) {
	return list[Rank](ctx, s.c, "/ranks", opts)
}

func (s *RanksService) Get(ctx context.Context, id string) (*Rank, error) {
	return getOne[Rank](ctx, s.c, fmt.Sprintf("/ranks/%s", id))
}

func (s *RanksService) Create(ctx context.Context, rank Rank) (*Rank, error) {
	return create[Rank](ctx, s.c, "/ranks", rank)
}

func (s *RanksService) Update(ctx context.Context, id string, rank Rank) (*Rank, error) {
	return update[Rank](ctx, s.c, fmt.Sprintf("/ranks/%s", id), rank)
}

func (s *RanksService) Delete(ctx context.Context, id string) error {
	return remove(ctx, s.c, fmt.Sprintf("/ranks/%s", id))
}
