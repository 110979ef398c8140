// Package client talks to the shopcart REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/erazemk/cartconsole/internal/model"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 4 << 20

// Client issues one request per call against a shopcart API.
type Client struct {
	BaseURL string
	Prefix  string
	HTTP    *http.Client
}

// New creates a client for the API at baseURL with the given resource prefix.
// A nil httpClient uses NewHTTPClient with a 10 second timeout.
func New(baseURL, prefix string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(10 * time.Second)
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Prefix:  NormalizePrefix(prefix),
		HTTP:    httpClient,
	}
}

// NewHTTPClient returns an HTTP client with dial and overall timeouts.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   3 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// NormalizePrefix returns prefix with exactly one leading slash and no trailing
// slash. An empty prefix becomes model.DefaultPrefix.
func NormalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return model.DefaultPrefix
	}
	return "/" + prefix
}

// Query filters a list request. Nil fields are left out of the query string.
type Query struct {
	ShopcartID *int64
	ProductID  *int64
}

// Values returns the query string parameters for q.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.ShopcartID != nil {
		v.Set("shopcart_id", strconv.FormatInt(*q.ShopcartID, 10))
	}
	if q.ProductID != nil {
		v.Set("product_id", strconv.FormatInt(*q.ProductID, 10))
	}
	return v
}

// CreateItem adds an item to the customer's cart.
func (c *Client) CreateItem(ctx context.Context, customerID int64, req model.ItemRequest) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, http.MethodPost, c.cartPath(customerID), nil, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem replaces an item in the customer's cart.
func (c *Client) UpdateItem(ctx context.Context, customerID, productID int64, req model.ItemRequest) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, http.MethodPut, c.itemPath(customerID, productID), nil, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItem fetches one item from the customer's cart.
func (c *Client) GetItem(ctx context.Context, customerID, productID int64) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, http.MethodGet, c.itemPath(customerID, productID), nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems lists the items matching q, in the order the server returns them.
func (c *Client) ListItems(ctx context.Context, q Query) ([]model.Item, error) {
	items := []model.Item{}
	if err := c.do(ctx, http.MethodGet, c.Prefix, q.Values(), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteItem removes one item from the customer's cart.
func (c *Client) DeleteItem(ctx context.Context, customerID, productID int64) error {
	return c.do(ctx, http.MethodDelete, c.itemPath(customerID, productID), nil, nil, nil)
}

// DeleteCart removes the customer's whole cart.
func (c *Client) DeleteCart(ctx context.Context, customerID int64) error {
	return c.do(ctx, http.MethodDelete, c.cartPath(customerID), nil, nil, nil)
}

// CheckoutItem marks one item as purchased.
func (c *Client) CheckoutItem(ctx context.Context, customerID, productID int64, req model.ItemRequest) (*model.Item, error) {
	var item model.Item
	path := c.itemPath(customerID, productID) + "/checkout"
	if err := c.do(ctx, http.MethodPut, path, nil, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CheckoutCart marks every item in the customer's cart as purchased. Servers answer
// with either the updated items or a single item, so both are accepted.
func (c *Client) CheckoutCart(ctx context.Context, customerID int64) (*Result, error) {
	var raw json.RawMessage
	path := c.cartPath(customerID) + "/checkout"
	if err := c.do(ctx, http.MethodPut, path, nil, struct{}{}, &raw); err != nil {
		return nil, err
	}
	return decodeResult(raw)
}

func (c *Client) cartPath(customerID int64) string {
	return fmt.Sprintf("%s/%d", c.Prefix, customerID)
}

func (c *Client) itemPath(customerID, productID int64) string {
	return fmt.Sprintf("%s/%d/items/%d", c.Prefix, customerID, productID)
}

// do sends one JSON request and decodes a 2xx response into out. Non-2xx
// responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrapf(err, "building %s %s", method, path)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID(ctx))

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return errors.Wrapf(err, "reading %s %s response", method, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		if raw, ok := out.(*json.RawMessage); ok {
			*raw = nil
			return nil
		}
		return errors.Errorf("%s %s: empty response body", method, path)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decoding %s %s response", method, path)
	}
	return nil
}

// requestID reuses the incoming request id when there is one.
func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
