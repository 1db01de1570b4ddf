package controller

import (
	"retreat_screening_backend/internal/service"
	"retreat_screening_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ParticipantController struct {
	Participants *service.ParticipantService
}

func NewParticipantController(participants *service.ParticipantService) *ParticipantController {
	return &ParticipantController{Participants: participants}
}

// @Summary List participants
// @Tags participants
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page" default(1)
// @Param pageSize query int false "page size" default(10)
// @Param search query string false "name/email search"
// @Success 200 {object} util.Response
// @Router /api/participants [get]
func (c *ParticipantController) List(ctx *gin.Context) {
	page, pageSize := util.PageParams(ctx)

	items, total, err := c.Participants.List(page, pageSize, ctx.Query("search"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Paginated(ctx, items, total, page, pageSize)
}

// @Summary Create participant
// @Tags participants
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateParticipantRequest true "participant"
// @Success 201 {object} util.Response
// @Router /api/participants [post]
func (c *ParticipantController) Create(ctx *gin.Context) {
	var req service.CreateParticipantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	p, err := c.Participants.Create(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, p)
}

// @Summary Get participant
// @Tags participants
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "participant id"
// @Success 200 {object} util.Response
// @Router /api/participants/{id} [get]
func (c *ParticipantController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	p, err := c.Participants.GetByID(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, p)
}

// @Summary Update participant
// @Tags participants
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "participant id"
// @Param body body service.UpdateParticipantRequest true "changes"
// @Success 200 {object} util.Response
// @Router /api/participants/{id} [patch]
func (c *ParticipantController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req service.UpdateParticipantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	p, err := c.Participants.Update(id, req)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, p)
}
