// Package client is the REST surface of the marketplace backend: paginated
// list fetching and CRUD for the resources the portal pages manage. Every
// request flows through the session BearerTransport, so the credential
// attached is always the persisted one.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/serenoa/go-session"
)

type Client struct {
	baseURL string
	http    *http.Client
	logger  session.Logger
}

// New builds a client whose requests authenticate through the given token
// store.
func New(baseURL string, store session.TokenStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   15 * time.Second,
			Transport: session.NewBearerTransport(store),
		},
		logger: noopLogger{},
	}
}

func (c *Client) WithLogger(logger session.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithHTTPClient swaps the underlying client. The caller is responsible for
// wiring credential attachment into its transport.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.http = hc
	}
	return c
}

// Page is the backend's paginated list envelope
type Page[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
}

// ListOptions map to the backend's pagination query parameters
type ListOptions struct {
	PageNumber int
	PageSize   int
	Search     string
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	if o.PageNumber > 0 {
		q.Set("pageNumber", strconv.Itoa(o.PageNumber))
	}
	if o.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(o.PageSize))
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	return q
}

// Resource services. Each is a thin view over the shared client.

func (c *Client) Categories() *CategoriesService { return &CategoriesService{c: c} }
func (c *Client) Ranks() *RanksService { return &RanksService{c: c} }
func (c *Client) Roles() *RolesService { return &RolesService{c: c} }
func (c *Client) Services() *ServicesService { return &ServicesService{c: c} }
func (c *Client) Users() *UsersService { return &UsersService{c: c} }
func (c *Client) Promotions() *PromotionsService { return &PromotionsService{c: c} }
func (c *Client) Branches() *BranchesService { return &BranchesService{c: c} }
func (c *Client) Statistics() *StatisticsService { return &StatisticsService{c: c} }

func list[T any](ctx context.Context, c *Client, path string, opts ListOptions) (*Page[T], error) {
	page := &Page[T]{}
	if err := c.do(ctx, http.MethodGet, path, opts.values(), nil, page); err != nil {
		return nil, err
	}
	return page, nil
}

func getOne[T any](ctx context.Context, c *Client, path string) (*T, error) {
	out := new(T)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func create[T any](ctx context.Context, c *Client, path string, in any) (*T, error) {
	out := new(T)
	if err := c.do(ctx, http.MethodPost, path, nil, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func update[T any](ctx context.Context, c *Client, path string, in any) (*T, error) {
	out := new(T)
	if err := c.do(ctx, http.MethodPut, path, nil, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func remove(ctx context.Context, c *Client, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, errors.CategoryBadInput, "unable to encode request payload")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "unable to build request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("request failed", "method", method, "path", path, "error", err)
		return session.WrapNetworkError(err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return session.WrapNetworkError(err)
	}

	if res.StatusCode == http.StatusNotFound {
		return errors.New(
			fmt.Sprintf("resource not found: %s", path),
			errors.CategoryNotFound,
		).WithCode(errors.CodeNotFound)
	}

	if err := session.ClassifyResourceResponse(res.StatusCode, raw); err != nil {
		return err
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "unable to decode response payload")
		}
	}

	return nil
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any) {}
func (noopLogger) Error(string, ...any) {}
