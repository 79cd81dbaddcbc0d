package physio

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/physiocare/physiocare/internal/platform/apperr"
	"github.com/physiocare/physiocare/internal/platform/auth"
	"github.com/physiocare/physiocare/internal/platform/httpapi"
	"github.com/physiocare/physiocare/internal/platform/upload"
	"github.com/physiocare/physiocare/pkg/pagination"
)

type Handler struct {
	svc     *Service
	uploads *upload.Store
}

func NewHandler(svc *Service, uploads *upload.Store) *Handler {
	return &Handler{svc: svc, uploads: uploads}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Any authenticated caller can browse physios.
	read := api.Group("", auth.RequireRole())
	read.GET("/physios", h.List)
	read.GET("/physios/:id", h.Get)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.POST("/physios", h.Create)
	admin.PUT("/physios/:id", h.Update)
	admin.DELETE("/physios/:id", h.Delete)
}

type createRequest struct {
	Login         string `json:"login" form:"login"`
	Password      string `json:"password" form:"password"`
	Name          string `json:"name" form:"name"`
	Surname       string `json:"surname" form:"surname"`
	Specialty     string `json:"specialty" form:"specialty"`
	LicenseNumber string `json:"licenseNumber" form:"licenseNumber"`
}

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	image, err := h.saveImage(c)
	if err != nil {
		return err
	}

	p, err := h.svc.Register(c.Request().Context(), RegisterInput{
		Login:         req.Login,
		Password:      req.Password,
		Name:          req.Name,
		Surname:       req.Surname,
		Specialty:     req.Specialty,
		LicenseNumber: req.LicenseNumber,
		Image:         image,
	})
	if err != nil {
		h.uploads.Remove(image)
		return err
	}
	return httpapi.Result(c, http.StatusCreated, p)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	physios, total, err := h.svc.List(c.Request().Context(), c.QueryParam("specialty"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if physios == nil {
		physios = []*Physio{}
	}
	return httpapi.Result(c, http.StatusOK, pagination.NewResponse(physios, total, pg.Limit, pg.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return notFound(err, "physio not found")
	}
	return httpapi.Result(c, http.StatusOK, p)
}

type updateRequest struct {
	Name          string `json:"name" form:"name"`
	Surname       string `json:"surname" form:"surname"`
	Specialty     string `json:"specialty" form:"specialty"`
	LicenseNumber string `json:"licenseNumber" form:"licenseNumber"`
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	image, err := h.saveImage(c)
	if err != nil {
		return err
	}

	p, err := h.svc.Update(c.Request().Context(), id, UpdateInput{
		Name:          req.Name,
		Surname:       req.Surname,
		Specialty:     req.Specialty,
		LicenseNumber: req.LicenseNumber,
		Image:         image,
	})
	if err != nil {
		h.uploads.Remove(image)
		return notFound(err, "physio not found")
	}
	return httpapi.Result(c, http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return notFound(err, "physio not found")
	}
	return httpapi.Result(c, http.StatusOK, nil)
}

func (h *Handler) saveImage(c echo.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	name, err := h.uploads.Save(fh)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "failed to store image")
	}
	return name, nil
}

func notFound(err error, msg string) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, msg)
	}
	return err
}
