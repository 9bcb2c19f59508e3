package http

import (
	"context"
	"net/http"

	"portfolio-tracker/internal/service"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.GET("/", h.healthCheck)

	base := h.echo.Group("/api")
	h.SetupUser(base)
	h.SetupSecurity(base)
	h.SetupTransaction(base)
	h.SetupPortfolio(base)
}

func (h *HttpAPIHandler) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"status": true})
}
