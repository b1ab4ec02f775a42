package model

import "time"

// Shipping policy: orders at or above the free-shipping floor ship free,
// everything else pays a flat fee.
const (
	FreeShippingFloor = 5000
	FlatShippingFee   = 200
)

// ShippingFee returns the shipping cost for a given items total
func ShippingFee(itemsTotal float64) float64 {
	if itemsTotal >= FreeShippingFloor {
		return 0
	}
	return FlatShippingFee
}

// OrderItem is a purchased line as recorded on an order
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order is a placed order as returned by the orders API
type Order struct {
	OrderID    int64       `json:"order_id"`
	UserID     int64       `json:"user_id"`
	Items      []OrderItem `json:"items"`
	ItemsTotal float64     `json:"items_total"`
	Shipping   float64     `json:"shipping"`
	GrandTotal float64     `json:"grand_total"`
	AddressID  int64       `json:"address_id,omitempty"`
	Status     string      `json:"status,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Address is a saved delivery address
type Address struct {
	AddressID int64  `json:"address_id"`
	UserID    int64  `json:"user_id"`
	Label     string `json:"label,omitempty"`
	Street    string `json:"street"`
	City      string `json:"city"`
	Region    string `json:"region,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Feedback is a submitted customer comment or rating
type Feedback struct {
	FeedbackID int64     `json:"feedback_id"`
	UserID     int64     `json:"user_id"`
	ProductID  int64     `json:"product_id,omitempty"`
	Rating     int       `json:"rating,omitempty"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// Booking is a scheduled service visit
type Booking struct {
	BookingID int64     `json:"booking_id"`
	UserID    int64     `json:"user_id"`
	ServiceID int64     `json:"service_id"`
	Scheduled time.Time `json:"scheduled_at"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
