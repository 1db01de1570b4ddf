package controller

import (
	"errors"
	"time"

	"retreat_screening_backend/internal/repository"
	"retreat_screening_backend/internal/service"
	"retreat_screening_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ApplicationController struct {
	Apps    *service.ApplicationService
	Storage *service.StorageService
}

func NewApplicationController(apps *service.ApplicationService, storage *service.StorageService) *ApplicationController {
	return &ApplicationController{Apps: apps, Storage: storage}
}

// @Summary List applications
// @Tags applications
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page" default(1)
// @Param pageSize query int false "page size" default(10)
// @Param status query string false "status filter"
// @Param screenerId query int false "assigned screener filter"
// @Param search query string false "participant name/email search"
// @Param startDate query string false "submitted after (RFC3339)"
// @Param endDate query string false "submitted before (RFC3339)"
// @Success 200 {object} util.Response
// @Router /api/applications [get]
func (c *ApplicationController) List(ctx *gin.Context) {
	page, pageSize := util.PageParams(ctx)

	filter := repository.ApplicationFilter{
		Status:             ctx.Query("status"),
		AssignedScreenerID: util.MustParseUint(ctx.Query("screenerId")),
		Search:             ctx.Query("search"),
	}

	if s := ctx.Query("startDate"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			util.BadRequest(ctx, "invalid startDate")
			return
		}
		filter.StartDate = t
	}
	if s := ctx.Query("endDate"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			util.BadRequest(ctx, "invalid endDate")
			return
		}
		filter.EndDate = t
	}

	items, total, err := c.Apps.List(page, pageSize, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Paginated(ctx, items, total, page, pageSize)
}

// @Summary Application detail with responses and scores
// @Tags applications
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "application id"
// @Success 200 {object} util.Response
// @Router /api/applications/{id} [get]
func (c *ApplicationController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	detail, err := c.Apps.GetDetail(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary Update application notes/assignment
// @Tags applications
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "application id"
// @Param body body service.UpdateApplicationRequest true "changes"
// @Success 200 {object} util.Response
// @Router /api/applications/{id} [patch]
func (c *ApplicationController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req service.UpdateApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	app, err := c.Apps.Update(id, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, app)
}

// @Summary Change application status
// @Description Persists the status change, then mirrors it to the CRM
// best-effort. closed_reason applies to closed/screening_completed;
// rejected_type refines rejections.
// @Tags applications
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "application id"
// @Param body body service.StatusUpdateRequest true "status change"
// @Success 200 {object} util.Response
// @Router /api/applications/{id}/status [post]
func (c *ApplicationController) UpdateStatus(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req service.StatusUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	app, err := c.Apps.UpdateStatus(id, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidStatus):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, app)
}

// @Summary Re-run the scoring pass
// @Tags applications
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "application id"
// @Success 200 {object} util.Response
// @Router /api/applications/{id}/rescore [post]
func (c *ApplicationController) Rescore(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	tally, err := c.Apps.Rescore(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tally)
}

// @Summary Upload an attachment for an application
// @Tags applications
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "application id"
// @Param file formData file true "attachment"
// @Success 201 {object} util.Response
// @Router /api/applications/{id}/attachments [post]
func (c *ApplicationController) UploadAttachment(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if c.Storage == nil {
		util.BadRequest(ctx, "attachment storage is not configured")
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	key, err := c.Storage.UploadAttachment(ctx.Request.Context(), id, header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"key": key})
}

// @Summary Presigned URL for an attachment
// @Tags applications
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "application id"
// @Param name path string true "attachment filename"
// @Success 200 {object} util.Response
// @Router /api/applications/{id}/attachments/{name} [get]
func (c *ApplicationController) GetAttachment(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if c.Storage == nil {
		util.BadRequest(ctx, "attachment storage is not configured")
		return
	}

	u, err := c.Storage.AttachmentURL(ctx.Request.Context(), id, ctx.Param("name"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": u})
}
