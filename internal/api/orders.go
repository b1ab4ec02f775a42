package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/voltmart/voltmart/internal/model"
)

// OrderRequest is the payload for placing an order
type OrderRequest struct {
	Items     []model.OrderItem `json:"items"`
	AddressID int64             `json:"address_id,omitempty"`
}

// CreateOrder places an order for the authenticated user
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*model.Order, error) {
	var order model.Order
	if err := c.do(ctx, http.MethodPost, "/orders", nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Orders fetches the authenticated user's order history
func (c *Client) Orders(ctx context.Context) ([]model.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/orders", nil, nil, &raw); err != nil {
		return nil, err
	}
	var orders []model.Order
	if err := decodeList(raw, "orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Addresses fetches the user's saved delivery addresses
func (c *Client) Addresses(ctx context.Context) ([]model.Address, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/addresses", nil, nil, &raw); err != nil {
		return nil, err
	}
	var addresses []model.Address
	if err := decodeList(raw, "addresses", &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// CreateAddress saves a new delivery address
func (c *Client) CreateAddress(ctx context.Context, addr model.Address) (*model.Address, error) {
	var created model.Address
	if err := c.do(ctx, http.MethodPost, "/addresses", nil, addr, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateAddress replaces an existing address
func (c *Client) UpdateAddress(ctx context.Context, addr model.Address) error {
	path := fmt.Sprintf("/addresses/%d", addr.AddressID)
	return c.do(ctx, http.MethodPut, path, nil, addr, nil)
}

// DeleteAddress removes a saved address
func (c *Client) DeleteAddress(ctx context.Context, addressID int64) error {
	path := fmt.Sprintf("/addresses/%d", addressID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// SubmitFeedback sends a customer comment or rating
func (c *Client) SubmitFeedback(ctx context.Context, fb model.Feedback) error {
	return c.do(ctx, http.MethodPost, "/feedback", nil, fb, nil)
}

// Resource is a downloadable guide or manual from the resources page
type Resource struct {
	ResourceID int64  `json:"resource_id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Kind       string `json:"kind,omitempty"`
}

// Resources fetches the published resource links
func (c *Client) Resources(ctx context.Context) ([]Resource, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/resources", nil, nil, &raw); err != nil {
		return nil, err
	}
	var resources []Resource
	if err := decodeList(raw, "resources", &resources); err != nil {
		return nil, err
	}
	return resources, nil
}
