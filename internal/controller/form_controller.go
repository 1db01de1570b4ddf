package controller

import (
	"errors"

	"retreat_screening_backend/internal/service"
	"retreat_screening_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FormController struct {
	Forms *service.FormService
}

func NewFormController(forms *service.FormService) *FormController {
	return &FormController{Forms: forms}
}

// @Summary List forms
// @Tags forms
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page" default(1)
// @Param pageSize query int false "page size" default(10)
// @Success 200 {object} util.Response
// @Router /api/forms [get]
func (c *FormController) List(ctx *gin.Context) {
	page, pageSize := util.PageParams(ctx)

	forms, total, err := c.Forms.List(page, pageSize)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Paginated(ctx, forms, total, page, pageSize)
}

// @Summary Form fields with versions and choices
// @Tags forms
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "form id"
// @Success 200 {object} util.Response
// @Router /api/forms/{id}/fields [get]
func (c *FormController) ListFields(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	fields, err := c.Forms.ListFields(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, fields)
}
