package model

// Stock status thresholds for display
const (
	StockLowWater = 5 // at or below this, show "low stock"
)

// Product is a single catalog item (a UPS unit, battery, accessory...)
type Product struct {
	ProductID   int64   `json:"product_id"`
	CategoryID  int64   `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Brand       string  `json:"brand,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	RatingVA    int     `json:"rating_va,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// InStock returns true if at least one unit can be ordered
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// LowStock returns true if the product is close to selling out
func (p *Product) LowStock() bool {
	return p.Stock > 0 && p.Stock <= StockLowWater
}

// Category groups products in the catalog sidebar
type Category struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
}

// Service is a bookable offering (installation, battery swap, maintenance)
type Service struct {
	ServiceID   int64   `json:"service_id"`
	ServiceName string  `json:"service_name"`
	Price       float64 `json:"price"`
	Duration    string  `json:"duration,omitempty"`
	Description string  `json:"description,omitempty"`
}
