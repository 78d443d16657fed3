// Package handler exposes the user directory over HTTP.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"partner_portal_backend/internal/shared/actor"
	"partner_portal_backend/internal/users/service"
	"partner_portal_backend/internal/users/transport"
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
	rg.GET("/me", h.Me)
	rg.PUT("/me", h.UpdateMe)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.PUT("/:id/approve", h.Approve)
	rg.PUT("/:id/reject", h.Reject)
	rg.PUT("/:id/approve-assign", h.ApproveAssign)
	rg.POST("/:id/reassign", h.ReassignAdminData)
}

func (h *Handler) Create(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}

	var req transport.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	user, err := h.svc.Create(c.Request.Context(), req, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, user)
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

	user, err := h.svc.GetByID(c.Request.Context(), id, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, user)
}

func (h *Handler) Me(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}

	user, err := h.svc.Me(c.Request.Context(), act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, user)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}

	var req transport.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	user, err := h.svc.UpdateMe(c.Request.Context(), req, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, user)
}

func (h *Handler) List(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}

	var req transport.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	users, err := h.svc.List(c.Request.Context(), req, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, users)
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

	var req transport.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	user, err := h.svc.Update(c.Request.Context(), id, req, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, user)
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

	httpkit.OK(c, gin.H{"message": "user deleted"})
}

func (h *Handler) Approve(c *gin.Context) {
	h.onboardingEndpoint(c, h.svc.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.onboardingEndpoint(c, h.svc.Reject)
}

func (h *Handler) onboardingEndpoint(c *gin.Context, review func(ctx context.Context, id uuid.UUID, act actor.Actor) (transport.UserResponse, error)) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	user, err := review(c.Request.Context(), id, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, user)
}

func (h *Handler) ApproveAssign(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.ApproveAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	user, err := h.svc.ApproveAssign(c.Request.Context(), id, req, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, user)
}

func (h *Handler) ReassignAdminData(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.ReassignAdminDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.ReassignAdminData(c.Request.Context(), id, req, act); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"message": "admin data reassigned and admin deleted"})
}
