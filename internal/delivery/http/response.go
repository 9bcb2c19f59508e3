package http

import (
	"net/http"

	"portfolio-tracker/internal/dto"

	"github.com/labstack/echo/v4"
)

// failed writes err as {"success": false, "message": <code>} with its mapped status.
func failed(c echo.Context, err error) error {
	_, status := dto.ErrorCodeAndStatus(err)
	return c.JSON(status, dto.NewFailedResponse(dto.ErrorMessage(err)))
}

func invalidRequest(c echo.Context, err error) error {
	response := dto.NewFailedResponse(dto.CodeValidation)
	response.Data = err.Error()
	return c.JSON(http.StatusBadRequest, response)
}

// bindAndValidate binds the request body into req and runs its validate tags.
func (h *HttpAPIHandler) bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return h.validator.Struct(req)
}
