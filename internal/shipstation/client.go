// Package shipstation – API client
//
// This file implements the HTTP client for the three API resources the tool
// uses: the store list, the filtered order list, and single-order lookup by
// order number. Every method performs exactly one network round trip; the
// API's own pagination is reported at debug level but never followed.
//
// Authentication is HTTP Basic with the API key as username and the API
// secret as password. A client-side rate limiter keeps bursts under
// ShipStation's 40 requests/minute quota; it delays requests, it never
// retries them.
package shipstation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tbourn/shipstation-cli/internal/config"
	"github.com/tbourn/shipstation-cli/internal/domain"
)

// requestInterval spaces requests to stay under 40 req/min.
const requestInterval = 1500 * time.Millisecond

// OrderQuery is the set of server-side filters for FetchOrders. Zero values
// mean "no filter".
type OrderQuery struct {
	Status  string // orderStatus parameter; empty fetches all statuses
	StoreID int64  // storeId parameter; 0 fetches all stores
}

// Client talks to the ShipStation REST API. Construct it with New; the
// zero value is not usable.
type Client struct {
	baseURL   string
	apiKey    string
	apiSecret string
	pageSize  int
	http      *http.Client
	limiter   *rate.Limiter
	log       zerolog.Logger
}

// New builds a Client from the given configuration. Credentials may be
// empty at this point; each request checks them and fails with
// ErrMissingCredentials before touching the network.
func New(cfg config.Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   cfg.APIURL,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		pageSize:  cfg.PageSize,
		http:      &http.Client{Timeout: cfg.HTTPTimeout},
		limiter:   rate.NewLimiter(rate.Every(requestInterval), 1),
		log:       log,
	}
}

// ListStores returns all sales channels on the account as (id, name) pairs.
func (c *Client) ListStores(ctx context.Context) ([]domain.Store, error) {
	var stores []domain.Store
	if err := c.get(ctx, "/stores", nil, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

// ordersPage is the envelope of the /orders resource.
type ordersPage struct {
	Orders []domain.Order `json:"orders"`
	Total  int            `json:"total"`
	Page   int            `json:"page"`
	Pages  int            `json:"pages"`
}

// FetchOrders returns the orders matching q, newest first, in a single
// request. When the account holds more orders than one page carries, the
// truncation is logged at debug level.
func (c *Client) FetchOrders(ctx context.Context, q OrderQuery) ([]domain.Order, error) {
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(c.pageSize))
	params.Set("sortBy", "CreateDate")
	params.Set("sortDir", "DESC")
	if q.Status != "" {
		params.Set("orderStatus", q.Status)
	}
	if q.StoreID != 0 {
		params.Set("storeId", strconv.FormatInt(q.StoreID, 10))
	}

	var page ordersPage
	if err := c.get(ctx, "/orders", params, &page); err != nil {
		return nil, err
	}

	c.log.Debug().
		Int("fetched", len(page.Orders)).
		Int("total", page.Total).
		Int("pages", page.Pages).
		Msg("fetched orders")
	if page.Pages > 1 {
		c.log.Debug().
			Int("pages", page.Pages).
			Msg("response spans multiple pages; only the first was fetched")
	}

	return page.Orders, nil
}

// FetchOrderByNumber looks up a single order by its merchant-facing order
// number. It returns ErrOrderNotFound when the number matches nothing.
func (c *Client) FetchOrderByNumber(ctx context.Context, number string) (*domain.Order, error) {
	params := url.Values{}
	params.Set("orderNumber", number)

	var page ordersPage
	if err := c.get(ctx, "/orders", params, &page); err != nil {
		return nil, err
	}
	if len(page.Orders) == 0 {
		return nil, ErrOrderNotFound
	}
	return &page.Orders[0], nil
}

// get performs one authenticated GET against path and decodes the JSON
// response into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.apiKey == "" || c.apiSecret == "" {
		return ErrMissingCredentials
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("shipstation: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("shipstation: build request: %w", err)
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("shipstation: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidCredentials
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("shipstation: decode %s response: %w", path, err)
	}
	return nil
}
