package patient

import (
	"errors"
	"mime/multipart"
	"net/http"
	"time"

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
	staff := api.Group("", auth.RequireRole("admin", "physio"))
	staff.GET("/patients", h.List)
	staff.POST("/patients", h.Create)
	staff.PUT("/patients/:id", h.Update)
	staff.DELETE("/patients/:id", h.Delete)

	// Patients may fetch their own row; the ownership check runs in
	// the handler.
	own := api.Group("", auth.RequireRole("admin", "physio", "patient"))
	own.GET("/patients/:id", h.Get)
}

type createRequest struct {
	Login           string `json:"login" form:"login"`
	Password        string `json:"password" form:"password"`
	Name            string `json:"name" form:"name"`
	Surname         string `json:"surname" form:"surname"`
	BirthDate       string `json:"birthDate" form:"birthDate"`
	Address         string `json:"address" form:"address"`
	InsuranceNumber string `json:"insuranceNumber" form:"insuranceNumber"`
}

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return err
	}

	image, err := h.saveImage(c)
	if err != nil {
		return err
	}

	p, err := h.svc.Register(c.Request().Context(), RegisterInput{
		Login:           req.Login,
		Password:        req.Password,
		Name:            req.Name,
		Surname:         req.Surname,
		BirthDate:       birthDate,
		Address:         req.Address,
		InsuranceNumber: req.InsuranceNumber,
		Image:           image,
	})
	if err != nil {
		h.uploads.Remove(image)
		return err
	}
	return httpapi.Result(c, http.StatusCreated, p)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	patients, total, err := h.svc.List(c.Request().Context(),
		c.QueryParam("name"), c.QueryParam("surname"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if patients == nil {
		patients = []*Patient{}
	}
	return httpapi.Result(c, http.StatusOK, pagination.NewResponse(patients, total, pg.Limit, pg.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := requireSelfOrStaff(c, id); err != nil {
		return err
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return notFound(err, "patient not found")
	}
	return httpapi.Result(c, http.StatusOK, p)
}

type updateRequest struct {
	Name            string `json:"name" form:"name"`
	Surname         string `json:"surname" form:"surname"`
	BirthDate       string `json:"birthDate" form:"birthDate"`
	Address         string `json:"address" form:"address"`
	InsuranceNumber string `json:"insuranceNumber" form:"insuranceNumber"`
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
	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return err
	}

	image, err := h.saveImage(c)
	if err != nil {
		return err
	}

	p, err := h.svc.Update(c.Request().Context(), id, UpdateInput{
		Name:            req.Name,
		Surname:         req.Surname,
		BirthDate:       birthDate,
		Address:         req.Address,
		InsuranceNumber: req.InsuranceNumber,
		Image:           image,
	})
	if err != nil {
		h.uploads.Remove(image)
		return notFound(err, "patient not found")
	}
	return httpapi.Result(c, http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return notFound(err, "patient not found")
	}
	return httpapi.Result(c, http.StatusOK, nil)
}

// saveImage stores the optional uploaded image and returns its
// generated name, or "" when the request carries none.
func (h *Handler) saveImage(c echo.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	return h.storeImage(fh)
}

func (h *Handler) storeImage(fh *multipart.FileHeader) (string, error) {
	name, err := h.uploads.Save(fh)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "failed to store image")
	}
	return name, nil
}

func parseBirthDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, apperr.FieldErrors{"birthDate": "Birth date must be in YYYY-MM-DD format."}
	}
	return t, nil
}

// requireSelfOrStaff rejects patient-role callers reading anyone but
// themselves. Staff roles pass through.
func requireSelfOrStaff(c echo.Context, id uuid.UUID) error {
	identity, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "authorization token not provided")
	}
	if identity.Role == "patient" && identity.ID != id {
		return echo.NewHTTPError(http.StatusForbidden, "patients may only access their own data")
	}
	return nil
}

func notFound(err error, msg string) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, msg)
	}
	return err
}
