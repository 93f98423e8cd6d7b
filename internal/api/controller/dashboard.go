package controller

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ougirez/popchart/internal/domain"
	"github.com/ougirez/popchart/internal/pkg/constants"
	"github.com/ougirez/popchart/internal/pkg/logger"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates renders the embedded HTML pages for echo.
type Templates struct {
	tmpl *template.Template
}

func NewTemplates() (*Templates, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Templates{tmpl: tmpl}, nil
}

func (t *Templates) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return t.tmpl.ExecuteTemplate(w, name, data)
}

type categoryOption struct {
	Value   domain.StatCategory
	Checked bool
}

type regionOption struct {
	Code    int
	Name    string
	Color   string
	Checked bool
}

type tableRow struct {
	Year   domain.Year
	Values []string
}

type dashboardView struct {
	Categories []categoryOption
	Regions    []regionOption
	Columns    []string
	Rows       []tableRow
	Loading    bool
	Error      string
	ChartURL   string
}

func (c *Controller) Dashboard(ctx echo.Context) error {
	state := c.service.Snapshot()
	graph := c.service.Graph()

	view := dashboardView{
		Loading:  state.Loading,
		Error:    state.LastError,
		ChartURL: "/api/v1/graph/chart.svg?t=" + strconv.FormatInt(time.Now().UnixNano(), 36),
	}

	for _, category := range domain.StatCategories {
		view.Categories = append(view.Categories, categoryOption{
			Value:   category,
			Checked: category == state.ActiveCategory,
		})
	}

	for _, r := range state.Regions {
		view.Regions = append(view.Regions, regionOption{
			Code:    r.Code,
			Name:    r.Name,
			Color:   r.StrokeColor,
			Checked: r.Selected,
		})
	}

	if len(graph.Rows) > 0 {
		view.Columns = graph.Rows[0].Columns
	}
	for _, row := range graph.Rows {
		tr := tableRow{Year: row.Year}
		for _, name := range view.Columns {
			if v, ok := row.Value(name); ok {
				tr.Values = append(tr.Values, c.renderer.FormatPopulation(v))
			} else {
				tr.Values = append(tr.Values, "-")
			}
		}
		view.Rows = append(view.Rows, tr)
	}

	return ctx.Render(http.StatusOK, "dashboard.html", view)
}

func (c *Controller) SubmitCategory(ctx echo.Context) error {
	category := domain.StatCategory(ctx.FormValue("category"))
	if err := c.service.SetActiveCategory(category); err != nil {
		return err
	}

	return ctx.Redirect(http.StatusSeeOther, "/")
}

// SubmitRegion toggles a region from the dashboard form. Fetch failures are
// already recorded in the view state, so the page is shown again either way.
func (c *Controller) SubmitRegion(ctx echo.Context) error {
	code, err := parseCode(ctx.Param("code"))
	if err != nil {
		return err
	}

	selected, err := strconv.ParseBool(ctx.FormValue("selected"))
	if err != nil {
		return constants.ErrBadRequest
	}

	if err := c.service.Toggle(ctx.Request().Context(), code, selected); err != nil {
		logger.Warnf(ctx.Request().Context(), "toggle region %d: %s", code, err.Error())
		if errors.Is(err, constants.ErrRegionNotFound) {
			return err
		}
	}

	return ctx.Redirect(http.StatusSeeOther, "/")
}
