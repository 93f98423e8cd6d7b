package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type purgeResponse struct {
	Purged int64 `json:"purged"`
}

// Reload fetches the region list again. Every selection is reset.
func (c *Controller) Reload(ctx echo.Context) error {
	if err := c.service.Initialize(ctx.Request().Context()); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, c.service.Snapshot())
}

func (c *Controller) PurgeCache(ctx echo.Context) error {
	n, err := c.providers.PurgeCache(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, purgeResponse{Purged: n})
}
