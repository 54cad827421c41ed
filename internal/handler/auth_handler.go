package handler

import (
	"net/http"
	"time"

	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	uc *usecase.AuthUsecase
}

// DI
func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, sessions repository.SessionRepository, admins repository.AdminRepository, sessionTTL time.Duration) {
	e.POST("/admin/login", h.login)
	e.POST("/admin/logout", h.logout, middleware.SessionAuth(sessions, admins, sessionTTL))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.uc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "logged in", out)
}

func (h *AuthHandler) logout(c echo.Context) error {
	token, _ := c.Get(middleware.CtxSessionTokenKey).(string)
	if err := h.uc.Logout(c.Request().Context(), token); err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, "logged out", nil)
}
