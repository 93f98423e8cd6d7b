package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/ougirez/popchart/internal/api/controller"
	"github.com/ougirez/popchart/internal/pkg/chart"
	"github.com/ougirez/popchart/internal/pkg/logger"
	"github.com/ougirez/popchart/internal/service/providers"
	"github.com/ougirez/popchart/internal/service/region"
)

type APIService struct {
	router           *echo.Echo
	regionService    *region.Service
	providersService *providers.Service
}

type Options struct {
	CORSOrigins []string
}

func (svc *APIService) Serve(addr string) {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(context.Background(), err)
	}
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

// Handler exposes the router, mostly for httptest.
func (svc *APIService) Handler() http.Handler {
	return svc.router
}

func NewAPIService(
	regionService *region.Service,
	providersService *providers.Service,
	renderer *chart.Renderer,
	opts Options,
) (*APIService, error) {
	svc := &APIService{
		router:           echo.New(),
		regionService:    regionService,
		providersService: providersService,
	}

	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(log.WARN)
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.JSONSerializer = NewJSONSerializer()
	svc.router.HTTPErrorHandler = httpErrorHandler

	templates, err := controller.NewTemplates()
	if err != nil {
		return nil, err
	}
	svc.router.Renderer = templates

	svc.router.Use(middleware.Recover())
	svc.router.Use(svc.RequestIDMiddleware)
	svc.router.Use(middleware.Logger())
	if len(opts.CORSOrigins) > 0 {
		svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: opts.CORSOrigins,
			AllowMethods: []string{echo.GET, echo.PUT, echo.POST},
			AllowHeaders: []string{"Content-Type", "Authorization"},
		}))
	}

	cntrl := controller.NewController(svc.regionService, svc.providersService, renderer)

	svc.router.GET("/", cntrl.Dashboard)
	ui := svc.router.Group("/ui")
	ui.POST("/category", cntrl.SubmitCategory)
	ui.POST("/regions/:code", cntrl.SubmitRegion)

	api := svc.router.Group("/api/v1")
	api.GET("/state", cntrl.GetState)

	regions := api.Group("/regions")
	regions.GET("/list", cntrl.GetRegions)
	regions.POST("/:code/select", cntrl.SelectRegion)
	regions.POST("/:code/deselect", cntrl.DeselectRegion)
	regions.PUT("/:code", cntrl.ToggleRegion)

	categories := api.Group("/categories")
	categories.GET("", cntrl.GetCategories)
	categories.PUT("/active", cntrl.SetActiveCategory)

	graph := api.Group("/graph")
	graph.GET("", cntrl.GetGraph)
	graph.GET("/chart.png", cntrl.GetChartPNG)
	graph.GET("/chart.svg", cntrl.GetChartSVG)

	admin := api.Group("/admin", svc.AdminMiddleware)
	admin.POST("/reload", cntrl.Reload)
	admin.POST("/cache/purge", cntrl.PurgeCache)

	return svc, nil
}
