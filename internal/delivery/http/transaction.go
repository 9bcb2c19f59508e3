package http

import (
	"net/http"
	"strconv"

	"portfolio-tracker/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupTransaction(base *echo.Group) {
	v1 := base.Group("/v1/transaction", h.authenticate)
	{
		v1.POST("/trade", h.submitTrade)
		v1.PUT("/update", h.amendLastTrade)
		v1.DELETE("/rollback", h.deleteLastTrade)
		v1.GET("/history", h.tradeHistory)
	}
}

func (h *HttpAPIHandler) submitTrade(c echo.Context) error {
	req := new(dto.SubmitTradeRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return invalidRequest(c, err)
	}

	result, err := h.service.TradeService.SubmitTrade(c.Request().Context(), authUser(c), *req)
	if err != nil {
		return failed(c, err)
	}

	response := dto.NewSuccessResponse(result.Message, nil)
	response.RefID = result.RefID()
	return c.JSON(http.StatusOK, response)
}

func (h *HttpAPIHandler) amendLastTrade(c echo.Context) error {
	req := new(dto.AmendTradeRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return invalidRequest(c, err)
	}

	result, err := h.service.TradeService.AmendLastTrade(c.Request().Context(), authUser(c), *req)
	if err != nil {
		return failed(c, err)
	}

	response := dto.NewSuccessResponse(result.Message, nil)
	response.RefID = strconv.FormatUint(uint64(req.UpdatingPortfolioID), 10)
	return c.JSON(http.StatusOK, response)
}

func (h *HttpAPIHandler) deleteLastTrade(c echo.Context) error {
	req := new(dto.DeleteTradeRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return invalidRequest(c, err)
	}

	result, err := h.service.TradeService.DeleteLastTrade(c.Request().Context(), authUser(c), *req)
	if err != nil {
		return failed(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse(result.Message, nil))
}

func (h *HttpAPIHandler) tradeHistory(c echo.Context) error {
	history, err := h.service.PortfolioService.ListTradeHistory(c.Request().Context(), authUser(c))
	if err != nil {
		return failed(c, err)
	}
	return c.JSON(http.StatusOK, history)
}
