package account

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/physiocare/physiocare/internal/platform/httpapi"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/auth/login", h.Login)
}

type loginRequest struct {
	Login    string `json:"login" form:"login"`
	Password string `json:"password" form:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, err := h.svc.Authenticate(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect login")
		}
		return err
	}
	return httpapi.Result(c, http.StatusOK, loginResponse{Token: token})
}

type loginResponse struct {
	Token string `json:"token"`
}
