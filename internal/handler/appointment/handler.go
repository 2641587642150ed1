package appointment

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-records/internal/handler"
	"github.com/jwalitptl/clinic-records/internal/middleware"
	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/service/appointment"
	"github.com/jwalitptl/clinic-records/internal/session"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

const (
	templateList = "appointments/list.html"
	templateForm = "appointments/form.html"
)

type PatientLister interface {
	ListByName(ctx context.Context) ([]*model.Patient, error)
}

type DoctorLister interface {
	List(ctx context.Context) ([]*model.Doctor, error)
}

type Handler struct {
	service  *appointment.Service
	patients PatientLister
	doctors  DoctorLister
}

func NewHandler(service *appointment.Service, patients PatientLister, doctors DoctorLister) *Handler {
	return &Handler{service: service, patients: patients, doctors: doctors}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	clerks := auth.RequireRoles(model.RoleClerk)

	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.GET("/new", clerks, h.NewAppointment)
		appointments.POST("/new", clerks, h.CreateAppointment)
		appointments.GET("/:id/edit", clerks, h.EditAppointment)
		appointments.POST("/:id/edit", clerks, h.UpdateAppointment)
		appointments.POST("/:id/delete", auth.RequireRoles(model.RoleAdmin), h.DeleteAppointment)
	}
}

func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.service.List(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Render(c, http.StatusOK, templateList, gin.H{"Appointments": appointments})
}

// NewAppointment accepts ?patient_id= to preselect the patient.
func (h *Handler) NewAppointment(c *gin.Context) {
	form := &model.AppointmentForm{
		PatientID: c.Query("patient_id"),
		Status:    string(model.AppointmentStatusScheduled),
	}
	h.renderForm(c, form, nil, "")
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var form model.AppointmentForm
	_ = c.ShouldBind(&form)

	if _, err := h.service.Create(c.Request.Context(), &form); err != nil {
		if apperrors.IsValidation(err) {
			h.renderForm(c, &form, nil, apperrors.Message(err))
			return
		}
		handler.Error(c, err)
		return
	}

	handler.Redirect(c, session.FlashSuccess, "Appointment booked.", "/appointments")
}

func (h *Handler) EditAppointment(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	h.renderForm(c, model.FormFromAppointment(a), a, "")
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	var form model.AppointmentForm
	_ = c.ShouldBind(&form)

	if _, err := h.service.Update(c.Request.Context(), id, &form); err != nil {
		if apperrors.IsValidation(err) {
			h.renderForm(c, &form, &model.Appointment{ID: id}, apperrors.Message(err))
			return
		}
		handler.Error(c, err)
		return
	}

	handler.Redirect(c, session.FlashSuccess, "Appointment updated.", "/appointments")
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}

	handler.Redirect(c, session.FlashSuccess, "Appointment deleted.", "/appointments")
}

func (h *Handler) renderForm(c *gin.Context, form *model.AppointmentForm, a *model.Appointment, errMsg string) {
	ctx := c.Request.Context()
	patients, err := h.patients.ListByName(ctx)
	if err != nil {
		handler.Error(c, err)
		return
	}
	doctors, err := h.doctors.List(ctx)
	if err != nil {
		handler.Error(c, err)
		return
	}

	action, title := "/appointments/new", "New appointment"
	if a != nil {
		action, title = fmt.Sprintf("/appointments/%d/edit", a.ID), "Edit appointment"
	}
	handler.Render(c, http.StatusOK, templateForm, gin.H{
		"Title":    title,
		"Action":   action,
		"Form":     form,
		"Patients": patients,
		"Doctors":  doctors,
		"Statuses": model.AppointmentStatuses,
		"Error":    errMsg,
	})
}
