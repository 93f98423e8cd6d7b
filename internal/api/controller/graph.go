package controller

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ougirez/popchart/internal/domain"
	"github.com/ougirez/popchart/internal/pkg/chart"
)

type graphResponse struct {
	Category domain.StatCategory `json:"category"`
	Rows     []domain.GraphRow   `json:"rows"`
}

func (c *Controller) GetGraph(ctx echo.Context) error {
	graph := c.service.Graph()

	return ctx.JSON(http.StatusOK, graphResponse{
		Category: graph.Category,
		Rows:     graph.Rows,
	})
}

func (c *Controller) GetChartPNG(ctx echo.Context) error {
	return c.renderChart(ctx, chart.FormatPNG)
}

func (c *Controller) GetChartSVG(ctx echo.Context) error {
	return c.renderChart(ctx, chart.FormatSVG)
}

func (c *Controller) renderChart(ctx echo.Context, format chart.Format) error {
	graph := c.service.Graph()

	var buf bytes.Buffer
	if err := c.renderer.Render(&buf, format, string(graph.Category), graph.Lines); err != nil {
		return err
	}

	ctx.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return ctx.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}
