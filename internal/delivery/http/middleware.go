package http

import (
	"net/http"
	"strings"

	"portfolio-tracker/internal/dto"
	"portfolio-tracker/pkg/common"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// authenticate resolves the caller from Basic credentials or a Bearer token
// and stores the dto.AuthUser in the echo context.
func (h *HttpAPIHandler) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		header := c.Request().Header.Get(echo.HeaderAuthorization)

		var (
			user *dto.AuthUser
			err  error
		)
		switch {
		case strings.HasPrefix(header, bearerPrefix):
			user, err = h.service.UserService.VerifyToken(ctx, strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
		default:
			username, password, ok := c.Request().BasicAuth()
			if !ok {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="portfolio-tracker"`)
				return c.JSON(http.StatusUnauthorized, dto.NewFailedResponse(dto.CodeUnauthorised))
			}
			user, err = h.service.UserService.Authenticate(ctx, username, password)
		}
		if err != nil {
			return failed(c, err)
		}

		c.Set(common.CONTEXT_KEY_USER, *user)
		return next(c)
	}
}

func authUser(c echo.Context) dto.AuthUser {
	user, _ := c.Get(common.CONTEXT_KEY_USER).(dto.AuthUser)
	return user
}
