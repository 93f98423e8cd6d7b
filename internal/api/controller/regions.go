package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type toggleRegionRequest struct {
	Selected *bool `json:"selected" validate:"required"`
}

func (c *Controller) GetState(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.service.Snapshot())
}

func (c *Controller) GetRegions(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.service.Snapshot().Regions)
}

func (c *Controller) SelectRegion(ctx echo.Context) error {
	code, err := parseCode(ctx.Param("code"))
	if err != nil {
		return err
	}

	if err := c.service.Select(ctx.Request().Context(), code); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, c.service.Snapshot())
}

func (c *Controller) DeselectRegion(ctx echo.Context) error {
	code, err := parseCode(ctx.Param("code"))
	if err != nil {
		return err
	}

	if err := c.service.Deselect(code); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, c.service.Snapshot())
}

func (c *Controller) ToggleRegion(ctx echo.Context) error {
	code, err := parseCode(ctx.Param("code"))
	if err != nil {
		return err
	}

	var req toggleRegionRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if err := c.service.Toggle(ctx.Request().Context(), code, *req.Selected); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, c.service.Snapshot())
}
