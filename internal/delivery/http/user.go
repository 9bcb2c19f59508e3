package http

import (
	"net/http"

	"portfolio-tracker/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupUser(base *echo.Group) {
	v1 := base.Group("/v1/user")
	{
		v1.POST("/create", h.createUser)
		v1.POST("/auth", h.authUser)
	}
}

func (h *HttpAPIHandler) createUser(c echo.Context) error {
	req := new(dto.CreateUserRequest)
	if err := h.bindAndValidate(c, req); err != nil {
		return invalidRequest(c, err)
	}

	user, err := h.service.UserService.CreateUser(c.Request().Context(), *req)
	if err != nil {
		return failed(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// authUser checks Basic credentials and returns the user with a bearer token.
func (h *HttpAPIHandler) authUser(c echo.Context) error {
	ctx := c.Request().Context()
	username, password, ok := c.Request().BasicAuth()
	if !ok {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="portfolio-tracker"`)
		return c.JSON(http.StatusUnauthorized, dto.NewFailedResponse(dto.CodeUnauthorised))
	}

	user, err := h.service.UserService.Authenticate(ctx, username, password)
	if err != nil {
		return failed(c, err)
	}

	resp, err := h.service.UserService.IssueToken(ctx, *user)
	if err != nil {
		return failed(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
