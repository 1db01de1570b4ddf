package controller

import (
	"retreat_screening_backend/internal/service"
	"retreat_screening_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ScoringRuleController struct {
	Rules *service.ScoringRuleService
}

func NewScoringRuleController(rules *service.ScoringRuleService) *ScoringRuleController {
	return &ScoringRuleController{Rules: rules}
}

// @Summary List scoring rules
// @Tags scoring-rules
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page" default(1)
// @Param pageSize query int false "page size" default(10)
// @Param targetType query string false "field or choice"
// @Param targetId query string false "target version id"
// @Success 200 {object} util.Response
// @Router /api/scoring-rules [get]
func (c *ScoringRuleController) List(ctx *gin.Context) {
	page, pageSize := util.PageParams(ctx)

	rules, total, err := c.Rules.List(page, pageSize, ctx.Query("targetType"), ctx.Query("targetId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Paginated(ctx, rules, total, page, pageSize)
}

// @Summary Create scoring rule
// @Tags scoring-rules
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ScoringRuleRequest true "rule"
// @Success 201 {object} util.Response
// @Router /api/scoring-rules [post]
func (c *ScoringRuleController) Create(ctx *gin.Context) {
	var req service.ScoringRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rule, err := c.Rules.Create(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, rule)
}

// @Summary Update scoring rule
// @Tags scoring-rules
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "rule id"
// @Param body body service.ScoringRuleRequest true "rule"
// @Success 200 {object} util.Response
// @Router /api/scoring-rules/{id} [patch]
func (c *ScoringRuleController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req service.ScoringRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rule, err := c.Rules.Update(id, req)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, rule)
}

// @Summary Delete scoring rule (idempotent)
// @Tags scoring-rules
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "rule id"
// @Success 200 {object} util.Response
// @Router /api/scoring-rules/{id} [delete]
func (c *ScoringRuleController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.Rules.Delete(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}
