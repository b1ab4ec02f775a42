package devserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/voltmart/voltmart/internal/model"
)

func currentUserID(c echo.Context) int64 {
	id, _ := c.Get("user_id").(int64)
	return id
}

type favouriteRow struct {
	ProductID int64  `json:"product_id"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) handleFavourites(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid user id")
	}
	if userID != currentUserID(c) {
		return errJSON(c, http.StatusForbidden, "forbidden")
	}

	rows, err := s.db.Query(`
		SELECT product_id, created_at FROM favourites
		WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	defer rows.Close()

	favs := []favouriteRow{}
	for rows.Next() {
		var f favouriteRow
		var created time.Time
		if err := rows.Scan(&f.ProductID, &created); err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
		f.CreatedAt = created.Format(time.RFC3339)
		favs = append(favs, f)
	}

	return c.JSON(http.StatusOK, favs)
}

func (s *Server) handleFavouriteToggle(c echo.Context) error {
	var req struct {
		UserID    int64 `json:"user_id"`
		ProductID int64 `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}
	if req.UserID != currentUserID(c) {
		return errJSON(c, http.StatusForbidden, "forbidden")
	}

	var exists int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM favourites WHERE user_id = $1 AND product_id = $2`,
		req.UserID, req.ProductID).Scan(&exists)
	if err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	status := "added"
	if exists > 0 {
		_, err = s.db.Exec(`DELETE FROM favourites WHERE user_id = $1 AND product_id = $2`,
			req.UserID, req.ProductID)
		status = "removed"
	} else {
		_, err = s.db.Exec(`INSERT INTO favourites (user_id, product_id, created_at) VALUES ($1, $2, $3)`,
			req.UserID, req.ProductID, time.Now())
	}
	if err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"result": map[string]string{"status": status},
	})
}

// handleCreateOrder recomputes totals server-side and decrements stock.
// Client-supplied prices are ignored; the catalog is authoritative.
func (s *Server) handleCreateOrder(c echo.Context) error {
	var req struct {
		Items     []model.OrderItem `json:"items"`
		AddressID int64             `json:"address_id"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}
	if len(req.Items) == 0 {
		return errJSON(c, http.StatusBadRequest, "order has no items")
	}

	userID := currentUserID(c)

	tx, err := s.db.Begin()
	if err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	defer tx.Rollback()

	var itemsTotal float64
	items := make([]model.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return errJSON(c, http.StatusBadRequest, "invalid quantity")
		}

		var name string
		var price float64
		var stock int
		err := tx.QueryRow(`SELECT name, price, stock FROM products WHERE product_id = $1`,
			it.ProductID).Scan(&name, &price, &stock)
		if err != nil {
			return errJSON(c, http.StatusBadRequest, "unknown product")
		}
		if it.Quantity > stock {
			return errJSON(c, http.StatusConflict, "insufficient stock for "+name)
		}

		if _, err := tx.Exec(`UPDATE products SET stock = stock - $1 WHERE product_id = $2`,
			it.Quantity, it.ProductID); err != nil {
			c.Logger().Error("db error:", err)
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}

		items = append(items, model.OrderItem{
			ProductID: it.ProductID,
			Name:      name,
			Price:     price,
			Quantity:  it.Quantity,
		})
		itemsTotal += price * float64(it.Quantity)
	}

	shipping := model.ShippingFee(itemsTotal)
	now := time.Now().UTC()

	var orderID int64
	err = tx.QueryRow(`
		INSERT INTO orders (user_id, items_total, shipping, grand_total, address_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, 'placed', $6)
		RETURNING order_id`,
		userID, itemsTotal, shipping, itemsTotal+shipping, req.AddressID, now,
	).Scan(&orderID)
	if err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	for _, it := range items {
		if _, err := tx.Exec(`
			INSERT INTO order_items (order_id, product_id, name, price, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			orderID, it.ProductID, it.Name, it.Price, it.Quantity); err != nil {
			c.Logger().Error("db error:", err)
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
	}

	if err := tx.Commit(); err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusCreated, model.Order{
		OrderID:    orderID,
		UserID:     userID,
		Items:      items,
		ItemsTotal: itemsTotal,
		Shipping:   shipping,
		GrandTotal: itemsTotal + shipping,
		AddressID:  req.AddressID,
		Status:     "placed",
		CreatedAt:  now,
	})
}

func (s *Server) handleOrders(c echo.Context) error {
	userID := currentUserID(c)

	rows, err := s.db.Query(`
		SELECT order_id, items_total, shipping, grand_total, address_id, status, created_at
		FROM orders WHERE user_id = $1 ORDER BY order_id DESC`, userID)
	if err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		o := model.Order{UserID: userID}
		if err := rows.Scan(&o.OrderID, &o.ItemsTotal, &o.Shipping, &o.GrandTotal,
			&o.AddressID, &o.Status, &o.CreatedAt); err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
		orders = append(orders, o)
	}
	rows.Close()

	for i := range orders {
		itemRows, err := s.db.Query(`
			SELECT product_id, name, price, quantity FROM order_items WHERE order_id = $1`,
			orders[i].OrderID)
		if err != nil {
			c.Logger().Error("db error:", err)
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
		for itemRows.Next() {
			var it model.OrderItem
			if err := itemRows.Scan(&it.ProductID, &it.Name, &it.Price, &it.Quantity); err != nil {
				itemRows.Close()
				return errJSON(c, http.StatusInternalServerError, "internal error")
			}
			orders[i].Items = append(orders[i].Items, it)
		}
		itemRows.Close()
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"orders": orders})
}

func (s *Server) handleAddresses(c echo.Context) error {
	userID := currentUserID(c)

	rows, err := s.db.Query(`
		SELECT address_id, label, street, city, region, zip, phone
		FROM addresses WHERE user_id = $1 ORDER BY address_id`, userID)
	if err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	defer rows.Close()

	addresses := []model.Address{}
	for rows.Next() {
		a := model.Address{UserID: userID}
		if err := rows.Scan(&a.AddressID, &a.Label, &a.Street, &a.City, &a.Region, &a.Zip, &a.Phone); err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
		addresses = append(addresses, a)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"addresses": addresses})
}

func (s *Server) handleCreateAddress(c echo.Context) error {
	var addr model.Address
	if err := c.Bind(&addr); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}
	if addr.Street == "" || addr.City == "" {
		return errJSON(c, http.StatusBadRequest, "street and city required")
	}

	addr.UserID = currentUserID(c)
	err := s.db.QueryRow(`
		INSERT INTO addresses (user_id, label, street, city, region, zip, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING address_id`,
		addr.UserID, addr.Label, addr.Street, addr.City, addr.Region, addr.Zip, addr.Phone,
	).Scan(&addr.AddressID)
	if err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusCreated, addr)
}

func (s *Server) handleUpdateAddress(c echo.Context) error {
	addressID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid address id")
	}

	var addr model.Address
	if err := c.Bind(&addr); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}

	res, err := s.db.Exec(`
		UPDATE addresses SET label = $1, street = $2, city = $3, region = $4, zip = $5, phone = $6
		WHERE address_id = $7 AND user_id = $8`,
		addr.Label, addr.Street, addr.City, addr.Region, addr.Zip, addr.Phone,
		addressID, currentUserID(c))
	if err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errJSON(c, http.StatusNotFound, "address not found")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDeleteAddress(c echo.Context) error {
	addressID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid address id")
	}

	res, err := s.db.Exec(`DELETE FROM addresses WHERE address_id = $1 AND user_id = $2`,
		addressID, currentUserID(c))
	if err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errJSON(c, http.StatusNotFound, "address not found")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFeedback(c echo.Context) error {
	var fb model.Feedback
	if err := c.Bind(&fb); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}
	if fb.Message == "" {
		return errJSON(c, http.StatusBadRequest, "message required")
	}
	if fb.Rating < 0 || fb.Rating > 5 {
		return errJSON(c, http.StatusBadRequest, "rating must be between 1 and 5")
	}

	fb.UserID = currentUserID(c)
	fb.CreatedAt = time.Now().UTC()
	err := s.db.QueryRow(`
		INSERT INTO feedback (user_id, product_id, rating, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING feedback_id`,
		fb.UserID, fb.ProductID, fb.Rating, fb.Message, fb.CreatedAt,
	).Scan(&fb.FeedbackID)
	if err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusCreated, fb)
}

func (s *Server) handleBookService(c echo.Context) error {
	var req struct {
		ServiceID   int64  `json:"service_id"`
		ScheduledAt string `json:"scheduled_at"`
		Notes       string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}

	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM services WHERE service_id = $1`, req.ServiceID).Scan(&exists); err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	if exists == 0 {
		return errJSON(c, http.StatusNotFound, "unknown service")
	}

	scheduled, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "scheduled_at must be RFC3339")
	}

	booking := model.Booking{
		UserID:    currentUserID(c),
		ServiceID: req.ServiceID,
		Scheduled: scheduled,
		Notes:     req.Notes,
		CreatedAt: time.Now().UTC(),
	}
	err = s.db.QueryRow(`
		INSERT INTO bookings (user_id, service_id, scheduled_at, notes, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING booking_id`,
		booking.UserID, booking.ServiceID, req.ScheduledAt, booking.Notes, booking.CreatedAt,
	).Scan(&booking.BookingID)
	if err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusCreated, booking)
}
