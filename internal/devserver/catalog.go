package devserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/voltmart/voltmart/internal/api"
	"github.com/voltmart/voltmart/internal/model"
)

const defaultPageLimit = 20

// handleProducts serves a filtered, paginated product page in the
// envelope shape the client prefers.
func (s *Server) handleProducts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultPageLimit
	}

	where := []string{"1=1"}
	args := []interface{}{}
	n := 1

	if cat := c.QueryParam("categoryId"); cat != "" {
		id, err := strconv.ParseInt(cat, 10, 64)
		if err != nil {
			return errJSON(c, http.StatusBadRequest, "invalid categoryId")
		}
		where = append(where, "category_id = $"+strconv.Itoa(n))
		args = append(args, id)
		n++
	}
	if search := c.QueryParam("search"); search != "" {
		where = append(where, "(LOWER(name) LIKE $"+strconv.Itoa(n)+" OR LOWER(brand) LIKE $"+strconv.Itoa(n)+")")
		args = append(args, "%"+strings.ToLower(search)+"%")
		n++
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM products WHERE `+cond, args...).Scan(&total); err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	query := `
		SELECT product_id, category_id, name, description, brand, price, stock, rating_va, image_url
		FROM products WHERE ` + cond + `
		ORDER BY product_id
		LIMIT $` + strconv.Itoa(n) + ` OFFSET $` + strconv.Itoa(n+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ProductID, &p.CategoryID, &p.Name, &p.Description,
			&p.Brand, &p.Price, &p.Stock, &p.RatingVA, &p.ImageURL); err != nil {
			c.Logger().Error("scan error:", err)
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
		products = append(products, p)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func (s *Server) handleCategories(c echo.Context) error {
	rows, err := s.db.Query(`SELECT category_id, name FROM categories ORDER BY category_id`)
	if err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.CategoryID, &cat.Name); err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
		categories = append(categories, cat)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"categories": categories})
}

func (s *Server) handleServices(c echo.Context) error {
	rows, err := s.db.Query(`SELECT service_id, service_name, price, duration, description FROM services ORDER BY service_id`)
	if err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	defer rows.Close()

	services := []model.Service{}
	for rows.Next() {
		var svc model.Service
		if err := rows.Scan(&svc.ServiceID, &svc.ServiceName, &svc.Price, &svc.Duration, &svc.Description); err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
		services = append(services, svc)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"services": services})
}

func (s *Server) handleResources(c echo.Context) error {
	rows, err := s.db.Query(`SELECT resource_id, title, url, kind FROM resources ORDER BY resource_id`)
	if err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}
	defer rows.Close()

	resources := []api.Resource{}
	for rows.Next() {
		var r api.Resource
		if err := rows.Scan(&r.ResourceID, &r.Title, &r.URL, &r.Kind); err != nil {
			return errJSON(c, http.StatusInternalServerError, "internal error")
		}
		resources = append(resources, r)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"resources": resources})
}
