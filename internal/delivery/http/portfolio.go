package http

import (
	"fmt"
	"net/http"
	"strconv"

	"portfolio-tracker/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupPortfolio(base *echo.Group) {
	v1 := base.Group("/v1/portfolio", h.authenticate)
	{
		v1.GET("/possession", h.listHoldings)
		v1.GET("/returns", h.computeReturns)
		v1.GET("/:portfolio_id/trades", h.listPositionTrades)
	}
}

func (h *HttpAPIHandler) listHoldings(c echo.Context) error {
	holdings, err := h.service.PortfolioService.ListHoldings(c.Request().Context(), authUser(c))
	if err != nil {
		return failed(c, err)
	}
	return c.JSON(http.StatusOK, holdings)
}

func (h *HttpAPIHandler) computeReturns(c echo.Context) error {
	returns, err := h.service.PortfolioService.ComputeReturns(c.Request().Context(), authUser(c))
	if err != nil {
		return failed(c, err)
	}
	return c.JSON(http.StatusOK, returns)
}

func (h *HttpAPIHandler) listPositionTrades(c echo.Context) error {
	positionID, err := strconv.ParseUint(c.Param("portfolio_id"), 10, 64)
	if err != nil || positionID == 0 {
		return invalidRequest(c, fmt.Errorf("%w: portfolio_id must be a positive integer", dto.ErrValidation))
	}

	trades, err := h.service.PortfolioService.ListPositionTrades(c.Request().Context(), authUser(c), uint(positionID))
	if err != nil {
		return failed(c, err)
	}
	return c.JSON(http.StatusOK, trades)
}
