// Package handler exposes the leads module over HTTP.
package handler

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"partner_portal_backend/internal/leads/management"
	"partner_portal_backend/internal/leads/transport"
	"partner_portal_backend/internal/shared/actor"
	"partner_portal_backend/platform/httpkit"
	"partner_portal_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *management.Service
	val *validator.Validator
}

func New(svc *management.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/duplicates", h.ListDuplicates)
	rg.GET("/analytics", h.Analytics)
	rg.GET("/export", h.Export)
	rg.POST("/bulk-upload", h.BulkUpload)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.PUT("/:id/reassign", h.Reassign)
	rg.GET("/:id/documents/:documentId/url", h.DocumentURL)
	rg.GET("/:id/remarks", h.ListRemarks)
	rg.POST("/:id/remarks", h.AddRemark)
}

func (h *Handler) Create(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}

	var req transport.CreateLeadRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	files, cleanup, err := formUploads(c)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	defer cleanup()

	lead, err := h.svc.Create(c.Request.Context(), req, act, files)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, lead)
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

	lead, err := h.svc.GetByID(c.Request.Context(), id, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
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

	var req transport.UpdateLeadRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	files, cleanup, err := formUploads(c)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	defer cleanup()

	lead, err := h.svc.Update(c.Request.Context(), id, req, act, files)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
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

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id, act)) {
		return
	}

	httpkit.OK(c, gin.H{"deleted": true})
}

func (h *Handler) List(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}

	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	list, err := h.svc.List(c.Request.Context(), req, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, list)
}

func (h *Handler) ListDuplicates(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}

	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	list, err := h.svc.ListDuplicates(c.Request.Context(), req, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, list)
}

func (h *Handler) Reassign(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.ReassignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	lead, err := h.svc.Reassign(c.Request.Context(), id, req, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) Analytics(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}

	analytics, err := h.svc.Analytics(c.Request.Context(), act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, analytics)
}

func (h *Handler) Export(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}

	var req transport.ExportLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	data, err := h.svc.ExportCSV(c.Request.Context(), req, act)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Disposition", `attachment; filename="leads.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *Handler) BulkUpload(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "CSV file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	defer file.Close()

	var hospitalID *uuid.UUID
	if raw := c.PostForm("hospitalId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid hospitalId", nil)
			return
		}
		hospitalID = &parsed
	}

	result, err := h.svc.BulkUploadCSV(c.Request.Context(), file, act, hospitalID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) DocumentURL(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	documentID, err := uuid.Parse(c.Param("documentId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	signed, err := h.svc.DocumentURL(c.Request.Context(), id, documentID, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, signed)
}

func (h *Handler) AddRemark(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.AddRemarkRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	files, cleanup, err := formUploads(c)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	defer cleanup()

	var upload *management.Upload
	if len(files) > 0 {
		upload = &files[0]
	}

	remark, err := h.svc.AddRemark(c.Request.Context(), id, req, act, upload)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, remark)
}

func (h *Handler) ListRemarks(c *gin.Context) {
	act, ok := actor.FromContext(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	remarks, err := h.svc.ListRemarks(c.Request.Context(), id, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, remarks)
}

// bindJSONOrForm binds JSON bodies and multipart forms with the same DTO.
func bindJSONOrForm(c *gin.Context, obj interface{}) error {
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") || contentType == "application/x-www-form-urlencoded" {
		return c.ShouldBind(obj)
	}
	return c.ShouldBindJSON(obj)
}

// formUploads extracts the "files" parts of a multipart request. The cleanup
// function closes the opened file handles.
func formUploads(c *gin.Context) ([]management.Upload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return nil, noop, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, noop, err
	}

	var opened []multipart.File
	uploads := make([]management.Upload, 0)
	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			for _, o := range opened {
				o.Close()
			}
			return nil, noop, err
		}
		opened = append(opened, f)
		uploads = append(uploads, management.Upload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      f,
		})
	}

	cleanup := func() {
		for _, o := range opened {
			o.Close()
		}
	}
	return uploads, cleanup, nil
}
