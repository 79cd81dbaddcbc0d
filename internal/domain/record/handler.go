package record

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/physiocare/physiocare/internal/platform/apperr"
	"github.com/physiocare/physiocare/internal/platform/auth"
	"github.com/physiocare/physiocare/internal/platform/httpapi"
	"github.com/physiocare/physiocare/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("", auth.RequireRole("admin", "physio"))
	staff.GET("/records", h.List)
	staff.POST("/records", h.Create)
	staff.PUT("/records/:id", h.Update)
	staff.DELETE("/records/:id", h.Delete)
	staff.POST("/records/:id/appointments", h.AddAppointment)

	// Patients may fetch the record that belongs to them; the
	// ownership check runs in the handler.
	own := api.Group("", auth.RequireRole("admin", "physio", "patient"))
	own.GET("/records/:id", h.Get)
	own.GET("/records/patient/:patientId", h.GetByPatient)
}

type createRequest struct {
	Patient       string `json:"patient" form:"patient"`
	MedicalRecord string `json:"medicalRecord" form:"medicalRecord"`
}

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	patientID, err := uuid.Parse(req.Patient)
	if err != nil {
		return apperr.FieldErrors{"patient": "Patient is required."}
	}

	rec, err := h.svc.Create(c.Request().Context(), patientID, req.MedicalRecord)
	if err != nil {
		return err
	}
	return httpapi.Result(c, http.StatusCreated, rec)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	records, total, err := h.svc.List(c.Request().Context(), c.QueryParam("surname"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if records == nil {
		records = []*Record{}
	}
	return httpapi.Result(c, http.StatusOK, pagination.NewResponse(records, total, pg.Limit, pg.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return notFound(err)
	}
	if err := requireOwnerOrStaff(c, rec.PatientID); err != nil {
		return err
	}
	return httpapi.Result(c, http.StatusOK, rec)
}

func (h *Handler) GetByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := requireOwnerOrStaff(c, patientID); err != nil {
		return err
	}
	rec, err := h.svc.GetByPatient(c.Request().Context(), patientID)
	if err != nil {
		return notFound(err)
	}
	return httpapi.Result(c, http.StatusOK, rec)
}

type updateRequest struct {
	MedicalRecord string `json:"medicalRecord" form:"medicalRecord"`
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
	rec, err := h.svc.Update(c.Request().Context(), id, req.MedicalRecord)
	if err != nil {
		return notFound(err)
	}
	return httpapi.Result(c, http.StatusOK, rec)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return notFound(err)
	}
	return httpapi.Result(c, http.StatusOK, nil)
}

type appointmentRequest struct {
	Date         string `json:"date" form:"date"`
	Physio       string `json:"physio" form:"physio"`
	Diagnosis    string `json:"diagnosis" form:"diagnosis"`
	Treatment    string `json:"treatment" form:"treatment"`
	Observations string `json:"observations" form:"observations"`
}

func (h *Handler) AddAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req appointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	a := &Appointment{
		Diagnosis:    req.Diagnosis,
		Treatment:    req.Treatment,
		Observations: req.Observations,
	}
	if req.Date != "" {
		a.Date, err = parseDate(req.Date)
		if err != nil {
			return err
		}
	}
	if req.Physio != "" {
		a.PhysioID, err = uuid.Parse(req.Physio)
		if err != nil {
			return apperr.FieldErrors{"physio": "Physio is required."}
		}
	}

	rec, err := h.svc.AddAppointment(c.Request().Context(), id, a)
	if err != nil {
		return notFound(err)
	}
	return httpapi.Result(c, http.StatusCreated, rec)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, apperr.FieldErrors{"date": "Date must be in YYYY-MM-DD or RFC 3339 format."}
	}
	return t, nil
}

// requireOwnerOrStaff rejects patient-role callers reading a record
// that is not their own. Staff roles pass through.
func requireOwnerOrStaff(c echo.Context, patientID uuid.UUID) error {
	identity, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "authorization token not provided")
	}
	if identity.Role == "patient" && identity.ID != patientID {
		return echo.NewHTTPError(http.StatusForbidden, "patients may only access their own record")
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Record not found")
	}
	return err
}
