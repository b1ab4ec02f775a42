package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/voltmart/voltmart/internal/model"
)

// ProductQuery selects a page of products. Zero values mean "not filtered".
type ProductQuery struct {
	CategoryID int64
	Search     string
	Page       int
	Limit      int
}

// ProductPage is one page of catalog results. ExactTotal is false when the
// server answered with a bare array and Total had to be inferred, in which
// case HasMore falls back to the full-page heuristic.
type ProductPage struct {
	Products   []model.Product
	Total      int
	Page       int
	Limit      int
	ExactTotal bool
}

// HasMore reports whether another page likely exists. With an exact total
// this is precise; otherwise a full page is taken as evidence of more.
func (p *ProductPage) HasMore() bool {
	if p.ExactTotal {
		return p.Page*p.Limit < p.Total
	}
	return p.Limit > 0 && len(p.Products) == p.Limit
}

// Products fetches one page of products matching the query
func (c *Client) Products(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	query := url.Values{}
	if q.CategoryID > 0 {
		query.Set("categoryId", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/products", query, nil, &raw); err != nil {
		return nil, err
	}

	page := &ProductPage{Page: q.Page, Limit: q.Limit}

	var envelope struct {
		Products []model.Product `json:"products"`
		Total    *int            `json:"total"`
		Page     int             `json:"page"`
		Limit    int             `json:"limit"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Products != nil {
		page.Products = envelope.Products
		if envelope.Total != nil {
			page.Total = *envelope.Total
			page.ExactTotal = true
		}
		if envelope.Page > 0 {
			page.Page = envelope.Page
		}
		if envelope.Limit > 0 {
			page.Limit = envelope.Limit
		}
		return page, nil
	}

	// Bare-array shape
	if err := decodeList(raw, "products", &page.Products); err != nil {
		return nil, err
	}
	return page, nil
}

// Categories fetches the category list
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &raw); err != nil {
		return nil, err
	}
	var categories []model.Category
	if err := decodeList(raw, "categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Services fetches the bookable services
func (c *Client) Services(ctx context.Context) ([]model.Service, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/services/available", nil, nil, &raw); err != nil {
		return nil, err
	}
	var services []model.Service
	if err := decodeList(raw, "services", &services); err != nil {
		return nil, err
	}
	return services, nil
}

// BookService schedules a service visit
func (c *Client) BookService(ctx context.Context, serviceID int64, scheduledAt, notes string) (*model.Booking, error) {
	var booking model.Booking
	err := c.do(ctx, http.MethodPost, "/services/book", nil, map[string]interface{}{
		"service_id":   serviceID,
		"scheduled_at": scheduledAt,
		"notes":        notes,
	}, &booking)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
