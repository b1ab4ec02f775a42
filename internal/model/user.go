package model

// User is the authenticated account identity returned by the auth API
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// CartItem is one cart line: the full product snapshot plus a quantity.
// At most one line exists per product id.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal is price times quantity for this line
func (ci *CartItem) LineTotal() float64 {
	return ci.Price * float64(ci.Quantity)
}
