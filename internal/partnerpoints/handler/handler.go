// Package handler exposes partner point rates over HTTP.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"partner_portal_backend/internal/partnerpoints/service"
	"partner_portal_backend/internal/partnerpoints/transport"
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
	rg.POST("", h.Set)
	rg.GET("/pending", h.ListPending)
	rg.GET("/partner/:partnerId", h.GetForPartner)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id/approve", h.Approve)
	rg.PUT("/:id/reject", h.Reject)
}

func (h *Handler) Set(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}

	var req transport.SetPartnerPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	entry, err := h.svc.Set(c.Request.Context(), req, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, entry)
}

func (h *Handler) Approve(c *gin.Context) {
	h.reviewEndpoint(c, h.svc.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.reviewEndpoint(c, h.svc.Reject)
}

func (h *Handler) reviewEndpoint(c *gin.Context, review func(ctx context.Context, id uuid.UUID, act actor.Actor) (transport.PartnerPointsResponse, error)) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	entry, err := review(c.Request.Context(), id, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, entry)
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

	entry, err := h.svc.GetByID(c.Request.Context(), id, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, entry)
}

func (h *Handler) GetForPartner(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}
	partnerID, err := uuid.Parse(c.Param("partnerId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	entries, err := h.svc.GetForPartner(c.Request.Context(), partnerID, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, entries)
}

func (h *Handler) ListPending(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}

	entries, err := h.svc.ListPending(c.Request.Context(), act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, entries)
}
