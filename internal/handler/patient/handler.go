package patient

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-records/internal/handler"
	"github.com/jwalitptl/clinic-records/internal/middleware"
	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/service/patient"
	"github.com/jwalitptl/clinic-records/internal/session"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

const (
	templateList   = "patients/list.html"
	templateForm   = "patients/form.html"
	templateDetail = "patients/detail.html"
)

type Handler struct {
	service patient.PatientService
}

func NewHandler(service patient.PatientService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	editors := auth.RequireRoles(model.RoleNurse, model.RoleClerk)

	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.GET("/new", editors, h.NewPatient)
		patients.POST("/new", editors, h.CreatePatient)
		patients.GET("/:id", h.GetPatient)
		patients.GET("/:id/edit", editors, h.EditPatient)
		patients.POST("/:id/edit", editors, h.UpdatePatient)
		patients.POST("/:id/delete", auth.RequireRoles(model.RoleAdmin), h.DeletePatient)
	}
}

func (h *Handler) ListPatients(c *gin.Context) {
	var filter model.PatientFilter
	_ = c.ShouldBindQuery(&filter)

	patients, err := h.service.List(c.Request.Context(), &filter)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Render(c, http.StatusOK, templateList, gin.H{
		"Patients": patients,
		"Query":    filter.Query,
	})
}

func (h *Handler) NewPatient(c *gin.Context) {
	h.renderForm(c, &model.PatientForm{}, nil, "")
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var form model.PatientForm
	_ = c.ShouldBind(&form)

	p, err := h.service.Create(c.Request.Context(), &form)
	if err != nil {
		if apperrors.IsValidation(err) {
			h.renderForm(c, &form, nil, apperrors.Message(err))
			return
		}
		handler.Error(c, err)
		return
	}

	handler.Redirect(c, session.FlashSuccess, fmt.Sprintf("Patient %s created.", p.Name), "/patients")
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	p, visits, err := h.service.Detail(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Render(c, http.StatusOK, templateDetail, gin.H{
		"Patient": p,
		"Visits":  visits,
	})
}

func (h *Handler) EditPatient(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	h.renderForm(c, model.FormFromPatient(p), p, "")
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	var form model.PatientForm
	_ = c.ShouldBind(&form)

	p, err := h.service.Update(c.Request.Context(), id, &form)
	if err != nil {
		if apperrors.IsValidation(err) {
			h.renderForm(c, &form, &model.Patient{ID: id}, apperrors.Message(err))
			return
		}
		handler.Error(c, err)
		return
	}

	handler.Redirect(c, session.FlashSuccess, "Patient updated.", fmt.Sprintf("/patients/%d", p.ID))
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}

	handler.Redirect(c, session.FlashSuccess, "Patient and related records deleted.", "/patients")
}

// renderForm shows the new or edit form. A validation failure re-renders
// with HTTP 200 and the submitted values.
func (h *Handler) renderForm(c *gin.Context, form *model.PatientForm, p *model.Patient, errMsg string) {
	action, title := "/patients/new", "New patient"
	if p != nil {
		action, title = fmt.Sprintf("/patients/%d/edit", p.ID), "Edit patient"
	}
	handler.Render(c, http.StatusOK, templateForm, gin.H{
		"Title":   title,
		"Action":  action,
		"Form":    form,
		"Patient": p,
		"Error":   errMsg,
	})
}
