package controller

import (
	"errors"

	"retreat_screening_backend/internal/service"
	"retreat_screening_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ScreeningController struct {
	Screenings *service.ScreeningService
}

func NewScreeningController(screenings *service.ScreeningService) *ScreeningController {
	return &ScreeningController{Screenings: screenings}
}

// @Summary List screening calls
// @Tags screenings
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page" default(1)
// @Param pageSize query int false "page size" default(10)
// @Param screenerId query int false "screener filter"
// @Param status query string false "status filter"
// @Success 200 {object} util.Response
// @Router /api/screenings [get]
func (c *ScreeningController) List(ctx *gin.Context) {
	page, pageSize := util.PageParams(ctx)

	items, total, err := c.Screenings.List(page, pageSize, util.MustParseUint(ctx.Query("screenerId")), ctx.Query("status"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Paginated(ctx, items, total, page, pageSize)
}

// @Summary Schedule a screening call
// @Tags screenings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateScreeningRequest true "call"
// @Success 201 {object} util.Response
// @Router /api/screenings [post]
func (c *ScreeningController) Create(ctx *gin.Context) {
	var req service.CreateScreeningRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	call, err := c.Screenings.Create(req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, call)
}

// @Summary Get screening call
// @Tags screenings
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "call id"
// @Success 200 {object} util.Response
// @Router /api/screenings/{id} [get]
func (c *ScreeningController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	call, err := c.Screenings.GetByID(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, call)
}

// @Summary Record screening outcome or reschedule
// @Tags screenings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "call id"
// @Param body body service.UpdateScreeningRequest true "changes"
// @Success 200 {object} util.Response
// @Router /api/screenings/{id} [patch]
func (c *ScreeningController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req service.UpdateScreeningRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	call, err := c.Screenings.Update(id, req)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, call)
}
