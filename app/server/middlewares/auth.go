package middlewares

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"pharmacy-core/app/server/jwt"
	"pharmacy-core/app/server/models"
)

const ContextKeyAuthUser = "authUser"

// Auth 提取并验证 Bearer 令牌。缺失、无效、过期的令牌都按匿名请求放行，
// 是否拒绝由后面各路由的守卫决定。
func Auth(j *jwt.JWT) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:             ContextKeyAuthUser,
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			// 匿名继续
			return nil
		},
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return j.ParseUser(auth)
		},
	})
}

// AuthUser 读取认证中间件写入的用户信息，匿名请求返回 nil
func AuthUser(c echo.Context) *jwt.User {
	user, _ := c.Get(ContextKeyAuthUser).(*jwt.User)
	return user
}

// RequireRole 按角色白名单保护路由：匿名返回 401 ，角色不匹配返回 403
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := AuthUser(c)
			if user == nil {
				return c.NoContent(http.StatusUnauthorized)
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}

			return c.NoContent(http.StatusForbidden)
		}
	}
}
