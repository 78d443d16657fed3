// Package handler exposes the hospital directory over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"partner_portal_backend/internal/hospitals/service"
	"partner_portal_backend/internal/hospitals/transport"
	"partner_portal_backend/internal/shared/actor"
	"partner_portal_backend/platform/httpkit"
	"partner_portal_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}

	hospitals, err := h.svc.List(c.Request.Context(), act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, hospitals)
}

func (h *Handler) GetByID(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	hospital, err := h.svc.GetByID(c.Request.Context(), id, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, hospital)
}

func (h *Handler) Create(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}

	var req transport.UpsertHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	hospital, err := h.svc.Create(c.Request.Context(), req, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, hospital)
}

func (h *Handler) Update(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpsertHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	hospital, err := h.svc.Update(c.Request.Context(), id, req, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, hospital)
}

func (h *Handler) Delete(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, act); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"message": "hospital deleted"})
}
