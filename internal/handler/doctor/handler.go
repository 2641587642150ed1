package doctor

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-records/internal/handler"
	"github.com/jwalitptl/clinic-records/internal/middleware"
	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/service/doctor"
	"github.com/jwalitptl/clinic-records/internal/session"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

const (
	templateList = "doctors/list.html"
	templateForm = "doctors/form.html"
)

type Handler struct {
	service *doctor.Service
}

func NewHandler(service *doctor.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	admin := auth.RequireRoles(model.RoleAdmin)

	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/new", admin, h.NewDoctor)
		doctors.POST("/new", admin, h.CreateDoctor)
		doctors.GET("/:id/edit", admin, h.EditDoctor)
		doctors.POST("/:id/edit", admin, h.UpdateDoctor)
		doctors.POST("/:id/delete", admin, h.DeleteDoctor)
	}
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.service.List(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Render(c, http.StatusOK, templateList, gin.H{"Doctors": doctors})
}

func (h *Handler) NewDoctor(c *gin.Context) {
	h.renderForm(c, &model.DoctorForm{}, nil, "")
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var form model.DoctorForm
	_ = c.ShouldBind(&form)

	d, err := h.service.Create(c.Request.Context(), &form)
	if err != nil {
		if apperrors.IsValidation(err) {
			h.renderForm(c, &form, nil, apperrors.Message(err))
			return
		}
		handler.Error(c, err)
		return
	}

	handler.Redirect(c, session.FlashSuccess, fmt.Sprintf("Doctor %s added.", d.Name), "/doctors")
}

func (h *Handler) EditDoctor(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	d, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	h.renderForm(c, model.FormFromDoctor(d), d, "")
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	var form model.DoctorForm
	_ = c.ShouldBind(&form)

	if _, err := h.service.Update(c.Request.Context(), id, &form); err != nil {
		if apperrors.IsValidation(err) {
			h.renderForm(c, &form, &model.Doctor{ID: id}, apperrors.Message(err))
			return
		}
		handler.Error(c, err)
		return
	}

	handler.Redirect(c, session.FlashSuccess, "Doctor updated.", "/doctors")
}

// DeleteDoctor refuses doctors with appointments and says so on the list page.
func (h *Handler) DeleteDoctor(c *gin.Context) {
	id, ok := handler.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if apperrors.IsConflict(err) {
			handler.Redirect(c, session.FlashError, apperrors.Message(err), "/doctors")
			return
		}
		handler.Error(c, err)
		return
	}

	handler.Redirect(c, session.FlashSuccess, "Doctor deleted.", "/doctors")
}

func (h *Handler) renderForm(c *gin.Context, form *model.DoctorForm, d *model.Doctor, errMsg string) {
	action, title := "/doctors/new", "New doctor"
	if d != nil {
		action, title = fmt.Sprintf("/doctors/%d/edit", d.ID), "Edit doctor"
	}
	handler.Render(c, http.StatusOK, templateForm, gin.H{
		"Title":  title,
		"Action": action,
		"Form":   form,
		"Error":  errMsg,
	})
}
