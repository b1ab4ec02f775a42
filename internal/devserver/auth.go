package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/voltmart/voltmart/internal/logger"
	"github.com/voltmart/voltmart/internal/model"
)

const (
	accessTokenTTL    = 15 * time.Minute
	refreshTokenTTL   = 7 * 24 * time.Hour
	refreshCookieName = "refresh_token"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type authResponse struct {
	AccessToken string      `json:"accessToken"`
	User        *model.User `json:"user"`
}

// handleSignup creates an account. It does not authenticate; the client
// follows up with a login.
func (s *Server) handleSignup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}

	if req.Email == "" || req.Username == "" || req.Password == "" {
		return errJSON(c, http.StatusBadRequest, "email, username, and password required")
	}
	if len(req.Password) < 8 {
		return errJSON(c, http.StatusBadRequest, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.Logger().Error("bcrypt error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	var userID int64
	err = s.db.QueryRow(`
		INSERT INTO users (name, email, username, password_hash, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		req.Name, req.Email, req.Username, string(hash), req.Phone,
	).Scan(&userID)

	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return errJSON(c, http.StatusConflict, "email or username already exists")
		}
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	logger.Info("user registered", logger.F("username", req.Username))

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"user": model.User{
			ID:       userID,
			Email:    req.Email,
			Username: req.Username,
			Name:     req.Name,
			Phone:    req.Phone,
		},
	})
}

// handleLogin authenticates by email or username
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request")
	}

	var user model.User
	var passwordHash string
	err := s.db.QueryRow(`
		SELECT id, name, email, username, phone, password_hash
		FROM users WHERE email = $1 OR username = $1`,
		req.Identifier,
	).Scan(&user.ID, &user.Name, &user.Email, &user.Username, &user.Phone, &passwordHash)

	if err != nil {
		return errJSON(c, http.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return errJSON(c, http.StatusUnauthorized, "invalid credentials")
	}

	access, err := s.createAccessToken(user.ID)
	if err != nil {
		c.Logger().Error("session error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	refresh := uuid.NewString()
	_, err = s.db.Exec(`
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)`,
		refresh, user.ID, time.Now().Add(refreshTokenTTL))
	if err != nil {
		c.Logger().Error("db error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    refresh,
		Path:     "/auth",
		HttpOnly: true,
		Expires:  time.Now().Add(refreshTokenTTL),
	})

	logger.Info("user logged in", logger.F("username", user.Username))

	return c.JSON(http.StatusOK, authResponse{AccessToken: access, User: &user})
}

// handleRefresh mints a new access token from the refresh cookie
func (s *Server) handleRefresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return errJSON(c, http.StatusUnauthorized, "refresh token required")
	}

	var userID int64
	var expiresAt time.Time
	err = s.db.QueryRow(`
		SELECT user_id, expires_at FROM refresh_tokens WHERE token = $1`,
		cookie.Value,
	).Scan(&userID, &expiresAt)
	if err != nil || time.Now().After(expiresAt) {
		return errJSON(c, http.StatusUnauthorized, "invalid refresh token")
	}

	access, err := s.createAccessToken(userID)
	if err != nil {
		c.Logger().Error("session error:", err)
		return errJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]string{"accessToken": access})
}

// handleLogout revokes the refresh token and any presented access token
func (s *Server) handleLogout(c echo.Context) error {
	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		s.db.Exec(`DELETE FROM refresh_tokens WHERE token = $1`, cookie.Value)
	}
	if token := bearerToken(c); token != "" {
		s.db.Exec(`DELETE FROM sessions WHERE token = $1`, token)
	}

	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/auth",
		HttpOnly: true,
		MaxAge:   -1,
	})

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) createAccessToken(userID int64) (string, error) {
	token := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)`,
		token, userID, time.Now().Add(accessTokenTTL))
	if err != nil {
		return "", err
	}
	return token, nil
}

func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	token := strings.TrimPrefix(auth, "Bearer ")
	if token == auth {
		return ""
	}
	return token
}

// authMiddleware checks for a valid access token
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get("Authorization")
		if auth == "" {
			return errJSON(c, http.StatusUnauthorized, "authorization required")
		}

		token := bearerToken(c)
		if token == "" {
			return errJSON(c, http.StatusUnauthorized, "invalid authorization format")
		}

		var userID int64
		var expiresAt time.Time
		err := s.db.QueryRow(`
			SELECT user_id, expires_at FROM sessions WHERE token = $1`,
			token,
		).Scan(&userID, &expiresAt)
		if err != nil {
			return errJSON(c, http.StatusUnauthorized, "invalid token")
		}
		if time.Now().After(expiresAt) {
			return errJSON(c, http.StatusUnauthorized, "token expired")
		}

		c.Set("user_id", userID)
		return next(c)
	}
}
