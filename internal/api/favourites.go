package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Toggle statuses the backend is known to emit. Anything else is treated
// as ambiguous by the favourites store and reconciled with a full reload.
const (
	ToggleStatusAdded   = "added"
	ToggleStatusRemoved = "removed"
)

// favouriteEntry tolerates the backend's inconsistent id casing
type favouriteEntry struct {
	ProductIDUpper *int64 `json:"product_Id"`
	ProductIDLower *int64 `json:"product_id"`
	CreatedAt      string `json:"created_at"`
}

func (f *favouriteEntry) id() (int64, bool) {
	if f.ProductIDUpper != nil {
		return *f.ProductIDUpper, true
	}
	if f.ProductIDLower != nil {
		return *f.ProductIDLower, true
	}
	return 0, false
}

// Favourites fetches the favourited product ids for a user
func (c *Client) Favourites(ctx context.Context, userID int64) ([]int64, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/favourites/%d", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, err
	}

	var entries []favouriteEntry
	if err := decodeList(raw, "favourites", &entries); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(entries))
	for i := range entries {
		if id, ok := entries[i].id(); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ToggleFavourite flips a product's favourite state server-side and
// returns the reported status. The status is empty when the server sent
// none; callers decide what an unknown status means.
func (c *Client) ToggleFavourite(ctx context.Context, userID, productID int64) (string, error) {
	var resp struct {
		Result struct {
			Status string `json:"status"`
		} `json:"result"`
	}
	err := c.do(ctx, http.MethodPost, "/favourites/toggle", nil, map[string]int64{
		"user_id":    userID,
		"product_id": productID,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Result.Status, nil
}
