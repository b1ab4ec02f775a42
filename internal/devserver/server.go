package devserver

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/voltmart/voltmart/internal/logger"
)

// Server is the development stub backend. It implements the storefront
// API against a local database so the client can be exercised without
// the real deployment.
type Server struct {
	db     *sql.DB
	driver string
	echo   *echo.Echo
}

// New opens the database, runs migrations and seeds, and wires routes
func New(databaseURL string) (*Server, error) {
	db, driver, err := OpenDB(databaseURL)
	if err != nil {
		return nil, err
	}

	s := &Server{db: db, driver: driver}

	if err := Migrate(db, driver); err != nil {
		db.Close()
		return nil, err
	}
	if err := Seed(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}

	s.setupEcho()
	return s, nil
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	// Custom logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			res := c.Response()
			duration := time.Since(start)

			logger.Info("HTTP",
				logger.F("method", req.Method),
				logger.F("uri", req.RequestURI),
				logger.F("status", res.Status),
				logger.F("duration", duration.String()))

			fmt.Printf("REQUEST: %s %s  status=%d  duration=%s\n",
				req.Method, req.RequestURI, res.Status, duration)

			return err
		}
	})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// Auth (public)
	e.POST("/auth/signup", s.handleSignup)
	e.POST("/auth/login", s.handleLogin)
	e.POST("/auth/refresh", s.handleRefresh)
	e.POST("/auth/logout", s.handleLogout)

	// Catalog (public)
	e.GET("/products", s.handleProducts)
	e.GET("/categories", s.handleCategories)
	e.GET("/services/available", s.handleServices)
	e.GET("/resources", s.handleResources)

	// Protected endpoints
	protected := e.Group("")
	protected.Use(s.authMiddleware)
	protected.GET("/favourites/:userId", s.handleFavourites)
	protected.POST("/favourites/toggle", s.handleFavouriteToggle)
	protected.POST("/orders", s.handleCreateOrder)
	protected.GET("/orders", s.handleOrders)
	protected.GET("/addresses", s.handleAddresses)
	protected.POST("/addresses", s.handleCreateAddress)
	protected.PUT("/addresses/:id", s.handleUpdateAddress)
	protected.DELETE("/addresses/:id", s.handleDeleteAddress)
	protected.POST("/feedback", s.handleFeedback)
	protected.POST("/services/book", s.handleBookService)

	s.echo = e
}

// Close closes the database connection
func (s *Server) Close() error {
	return s.db.Close()
}

// Router returns the HTTP handler, mainly for tests
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func errJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"message": msg})
}
