package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pharmacy-core/app/server/types"
	"pharmacy-core/app/server/utils"
)

func (a *App) er(c echo.Context, statusCode int) error {
	return c.JSON(statusCode, &types.ErrorMessage{
		Message: utils.P(http.StatusText(statusCode)),
	})
}

// erm 用于需要稳定业务错误信息的场合（例如区分令牌过期与令牌不存在）
func (a *App) erm(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, &types.ErrorMessage{
		Message: utils.P(message),
	})
}
