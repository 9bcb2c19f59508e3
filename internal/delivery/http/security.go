package http

import (
	"fmt"
	"net/http"
	"strconv"

	"portfolio-tracker/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupSecurity(base *echo.Group) {
	v1 := base.Group("/v1/security")
	{
		v1.GET("/listing", h.listSecurities)
		v1.POST("/create", h.createSecurities, h.authenticate)
		v1.PUT("/update", h.updateSecurityPrices, h.authenticate)
		v1.POST("/refresh", h.refreshSecurityPrices, h.authenticate)
		v1.GET("/refresh/runs", h.listRefreshRuns, h.authenticate)
	}
}

func (h *HttpAPIHandler) listSecurities(c echo.Context) error {
	securities, err := h.service.SecurityService.ListSecurities(c.Request().Context(), c.QueryParam("ticker_symbol"))
	if err != nil {
		return failed(c, err)
	}
	return c.JSON(http.StatusOK, securities)
}

func (h *HttpAPIHandler) createSecurities(c echo.Context) error {
	var req []dto.CreateSecurityRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c, err)
	}
	if err := h.validator.Var(req, "min=1,dive"); err != nil {
		return invalidRequest(c, err)
	}

	if err := h.service.SecurityService.CreateSecurities(c.Request().Context(), authUser(c), req); err != nil {
		return failed(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CodeDataAdded, nil))
}

func (h *HttpAPIHandler) updateSecurityPrices(c echo.Context) error {
	var req []dto.UpdateSecurityPriceRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c, err)
	}
	if err := h.validator.Var(req, "min=1,dive"); err != nil {
		return invalidRequest(c, err)
	}

	if err := h.service.SecurityService.UpdatePrices(c.Request().Context(), authUser(c), req); err != nil {
		return failed(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CodeDataUpdated, nil))
}

func (h *HttpAPIHandler) refreshSecurityPrices(c echo.Context) error {
	result, err := h.service.PriceRefreshService.Refresh(c.Request().Context())
	if err != nil {
		return failed(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CodePricesRefreshed, result))
}

func (h *HttpAPIHandler) listRefreshRuns(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return invalidRequest(c, fmt.Errorf("%w: limit must be a non-negative integer", dto.ErrValidation))
		}
		limit = n
	}

	runs, err := h.service.SchedulerService.RecentRuns(c.Request().Context(), limit)
	if err != nil {
		return failed(c, err)
	}
	return c.JSON(http.StatusOK, runs)
}
