package server

import (
	"net/http"

	"comanda/internal/config"
	"comanda/internal/handler"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// echoのValidatorフック
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func New(
	cfg config.Config,
	tableH *handler.TableHandler,
	productH *handler.ProductHandler,
	orderH *handler.OrderHandler,
	eventsH *handler.EventsHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.FEURL},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	tableH.RegisterRoutes(e)
	productH.RegisterRoutes(e)
	orderH.RegisterRoutes(e)
	eventsH.RegisterRoutes(e)

	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
