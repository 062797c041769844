package client

import (
	"context"
	"net/url"
)

// Statistics is the dashboard summary the backend aggregates for a
// provider or the whole marketplace
type Statistics struct {
	TotalUsers     int     `json:"totalUsers"`
	TotalBranches  int     `json:"totalBranches"`
	TotalServices  int     `json:"totalServices"`
	TotalBookings  int     `json:"totalBookings"`
	MonthlyRevenue float64 `json:"monthlyRevenue"`
}

// StatisticsService is read only, the backend derives everything
type StatisticsService struct {
	c *Client
}

func (s *StatisticsService) Get(ctx context.Context) (*Statistics, error) {
	return getOne[Statistics](ctx, s.c, "/statistics")
}

// ForBranch scopes the summary to a single branch.
func (s *StatisticsService) ForBranch(ctx context.Context, branchID string) (*Statistics, error) {
	out := new(Statistics)
	query := url.Values{}
	query.Set("branchId", branchID)
	if err := s.c.do(ctx, "GET", "/statistics", query, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
