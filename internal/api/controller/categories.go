package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ougirez/popchart/internal/domain"
)

type setCategoryRequest struct {
	Category domain.StatCategory `json:"category" validate:"required"`
}

type categoriesResponse struct {
	Categories []domain.StatCategory `json:"categories"`
	Active     domain.StatCategory   `json:"active"`
}

func (c *Controller) GetCategories(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, categoriesResponse{
		Categories: domain.StatCategories,
		Active:     c.service.ActiveCategory(),
	})
}

func (c *Controller) SetActiveCategory(ctx echo.Context) error {
	var req setCategoryRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if err := c.service.SetActiveCategory(req.Category); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, categoriesResponse{
		Categories: domain.StatCategories,
		Active:     c.service.ActiveCategory(),
	})
}
