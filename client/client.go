// Package client talks to the storefront REST API on behalf of a shopper.
// It satisfies wishlist.Remote and submits the cart at checkout.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"electro_store/cart"
	"electro_store/model"

	"github.com/sirupsen/logrus"
)

const defaultTimeout = 15 * time.Second

var ErrEmptyCart = errors.New("cart is empty")

// APIError is a non-2xx response. Message is the server's messageToUser.
type APIError struct {
	StatusCode int
	ID         string
	Message    string
}

func (e *APIError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.ID, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status behind err, or 0 when err is not an APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New returns a client for baseURL. A nil httpClient gets a default with a timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Logout() { c.SetToken("") }

func (c *Client) Register(ctx context.Context, name, email, password string) (model.AuthResponse, error) {
	var out model.AuthResponse
	body := model.UserRequestBody{Name: name, Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out); err != nil {
		return model.AuthResponse{}, err
	}
	c.SetToken(out.Token)
	return out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (model.AuthResponse, error) {
	var out model.AuthResponse
	body := model.LoginRequestBody{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return model.AuthResponse{}, err
	}
	c.SetToken(out.Token)
	return out, nil
}

func (c *Client) Me(ctx context.Context) (model.User, error) {
	var out model.User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out)
	return out, err
}

func (c *Client) Products(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.MinPrice != nil {
		q.Set("minPrice", strconv.FormatFloat(*filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice != nil {
		q.Set("maxPrice", strconv.FormatFloat(*filter.MaxPrice, 'f', -1, 64))
	}
	if filter.InStockOnly {
		q.Set("inStock", "true")
	}
	if filter.Sort != "" {
		q.Set("sort", string(filter.Sort))
	}
	path := "/api/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []model.Product
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) Product(ctx context.Context, id int64) (model.Product, error) {
	var out model.Product
	err := c.do(ctx, http.MethodGet, "/api/products/"+strconv.FormatInt(id, 10), nil, &out)
	return out, err
}

func (c *Client) PlaceOrder(ctx context.Context, req model.CreateOrderRequest) (model.Order, error) {
	var out model.Order
	err := c.do(ctx, http.MethodPost, "/api/orders", req, &out)
	return out, err
}

func (c *Client) MyOrders(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	err := c.do(ctx, http.MethodGet, "/api/orders/my", nil, &out)
	return out, err
}

func (c *Client) Wishlist(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	err := c.do(ctx, http.MethodGet, "/api/wishlist", nil, &out)
	return out, err
}

func (c *Client) AddToWishlist(ctx context.Context, productID int64) ([]model.Product, error) {
	var out []model.Product
	err := c.do(ctx, http.MethodPost, "/api/wishlist", model.WishlistRequest{ID: productID}, &out)
	return out, err
}

func (c *Client) RemoveFromWishlist(ctx context.Context, productID int64) ([]model.Product, error) {
	var out []model.Product
	err := c.do(ctx, http.MethodDelete, "/api/wishlist/"+strconv.FormatInt(productID, 10), nil, &out)
	return out, err
}

func (c *Client) Profile(ctx context.Context) (model.User, error) {
	var out model.User
	err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &out)
	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (model.User, error) {
	var out model.User
	err := c.do(ctx, http.MethodPatch, "/api/users/me", req, &out)
	return out, err
}

// Checkout places an order for everything in the cart. Once the server has
// accepted it the submitted lines are taken out of the cart; anything added
// while the request was in flight stays. A zero address lets the server fall
// back to the profile address.
func (c *Client) Checkout(ctx context.Context, store *cart.Store, address model.ShippingAddress, method model.PaymentMethod, notes string) (model.Order, error) {
	items := store.Items()
	if len(items) == 0 {
		return model.Order{}, ErrEmptyCart
	}
	lines := make([]model.OrderLineRequest, 0, len(items))
	for _, item := range items {
		lines = append(lines, model.OrderLineRequest{ID: item.ID, Quantity: item.Quantity})
	}

	order, err := c.PlaceOrder(ctx, model.CreateOrderRequest{
		Items:           lines,
		ShippingAddress: address,
		PaymentMethod:   method,
		Notes:           notes,
	})
	if err != nil {
		logrus.Errorf("Checkout: failed to place order err = %v", err)
		return model.Order{}, err
	}
	store.Subtract(items)
	return order, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	var body struct {
		ID            string `json:"id"`
		MessageToUser string `json:"messageToUser"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.ID = body.ID
		if body.MessageToUser != "" {
			apiErr.Message = body.MessageToUser
		}
	}
	return apiErr
}
