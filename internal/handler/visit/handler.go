package visit

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-records/internal/handler"
	"github.com/jwalitptl/clinic-records/internal/middleware"
	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/service/visit"
	"github.com/jwalitptl/clinic-records/internal/session"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

const templateForm = "visits/form.html"

type PatientGetter interface {
	Get(ctx context.Context, id int64) (*model.Patient, error)
}

type DoctorLister interface {
	List(ctx context.Context) ([]*model.Doctor, error)
}

type Handler struct {
	service  *visit.Service
	patients PatientGetter
	doctors  DoctorLister
}

func NewHandler(service *visit.Service, patients PatientGetter, doctors DoctorLister) *Handler {
	return &Handler{service: service, patients: patients, doctors: doctors}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	editors := auth.RequireRoles(model.RoleDoctor, model.RoleNurse)

	for _, path := range []string{"/patients/:id/visits/new", "/patients/:id/records/new"} {
		r.GET(path, editors, h.NewVisit)
		r.POST(path, editors, h.CreateVisit)
	}

	visits := r.Group("/visits")
	{
		visits.GET("/:id/edit", editors, h.EditVisit)
		visits.POST("/:id/edit", editors, h.UpdateVisit)
		visits.POST("/:id/delete", auth.RequireRoles(model.RoleDoctor), h.DeleteVisit)
	}
}

func (h *Handler) NewVisit(c *gin.Context) {
	patientID, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}
	p, err := h.patients.Get(c.Request.Context(), patientID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	h.renderForm(c, &model.VisitForm{}, p, nil, "")
}

func (h *Handler) CreateVisit(c *gin.Context) {
	patientID, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	var form model.VisitForm
	_ = c.ShouldBind(&form)

	if _, err := h.service.Create(c.Request.Context(), patientID, &form); err != nil {
		if apperrors.IsValidation(err) {
			p, perr := h.patients.Get(c.Request.Context(), patientID)
			if perr != nil {
				handler.Error(c, perr)
				return
			}
			h.renderForm(c, &form, p, nil, apperrors.Message(err))
			return
		}
		handler.Error(c, err)
		return
	}

	handler.Redirect(c, session.FlashSuccess, "Visit recorded.", fmt.Sprintf("/patients/%d", patientID))
}

func (h *Handler) EditVisit(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	v, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	p, err := h.patients.Get(c.Request.Context(), v.PatientID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	h.renderForm(c, model.FormFromVisit(v), p, v, "")
}

func (h *Handler) UpdateVisit(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	var form model.VisitForm
	_ = c.ShouldBind(&form)

	v, err := h.service.Update(c.Request.Context(), id, &form)
	if err != nil {
		if apperrors.IsValidation(err) {
			existing, gerr := h.service.Get(c.Request.Context(), id)
			if gerr != nil {
				handler.Error(c, gerr)
				return
			}
			p, perr := h.patients.Get(c.Request.Context(), existing.PatientID)
			if perr != nil {
				handler.Error(c, perr)
				return
			}
			h.renderForm(c, &form, p, existing, apperrors.Message(err))
			return
		}
		handler.Error(c, err)
		return
	}

	handler.Redirect(c, session.FlashSuccess, "Visit updated.", fmt.Sprintf("/patients/%d", v.PatientID))
}

func (h *Handler) DeleteVisit(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	patientID, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	handler.Redirect(c, session.FlashSuccess, "Visit deleted.", fmt.Sprintf("/patients/%d", patientID))
}

func (h *Handler) renderForm(c *gin.Context, form *model.VisitForm, p *model.Patient, v *model.Visit, errMsg string) {
	doctors, err := h.doctors.List(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}

	action, title := fmt.Sprintf("/patients/%d/visits/new", p.ID), "New visit"
	if v != nil {
		action, title = fmt.Sprintf("/visits/%d/edit", v.ID), "Edit visit"
	}
	handler.Render(c, http.StatusOK, templateForm, gin.H{
		"Title":   title,
		"Action":  action,
		"Form":    form,
		"Patient": p,
		"Visit":   v,
		"Doctors": doctors,
		"Error":   errMsg,
	})
}
