package api

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/ougirez/popchart/internal/pkg/constants"
	"github.com/ougirez/popchart/internal/pkg/utils"
)

type requestValidator struct{}

func NewValidator() echo.Validator {
	return requestValidator{}
}

func (requestValidator) Validate(i interface{}) error {
	if err := utils.ValidateStruct(i); err != nil {
		return fmt.Errorf("%w: %s", constants.ErrBadRequest, err.Error())
	}
	return nil
}

// binder binds with echo's default rules and validates the result.
type binder struct {
	echo.DefaultBinder
}

func NewBinder() echo.Binder {
	return &binder{}
}

func (b *binder) Bind(i interface{}, c echo.Context) error {
	if err := b.DefaultBinder.Bind(i, c); err != nil {
		return err
	}
	return c.Validate(i)
}
