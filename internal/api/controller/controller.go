package controller

import (
	"strconv"

	"github.com/ougirez/popchart/internal/pkg/chart"
	"github.com/ougirez/popchart/internal/pkg/constants"
	"github.com/ougirez/popchart/internal/service/providers"
	"github.com/ougirez/popchart/internal/service/region"
)

type Controller struct {
	service   *region.Service
	providers *providers.Service
	renderer  *chart.Renderer
}

func NewController(service *region.Service, providers *providers.Service, renderer *chart.Renderer) *Controller {
	return &Controller{service: service, providers: providers, renderer: renderer}
}

func parseCode(raw string) (int, error) {
	code, err := strconv.Atoi(raw)
	if err != nil || code <= 0 {
		return 0, constants.ErrBadRequest
	}
	return code, nil
}
