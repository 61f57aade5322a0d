package handlers

import (
	"github.com/labstack/echo/v4"

	"pharmacy-core/app/server/middlewares"
	"pharmacy-core/app/server/models"
)

// RegisterRoutes 绑定全部路由。认证中间件对整个 /api 组放行匿名请求，
// 具体是否拒绝由每条路由的角色白名单决定。
func (a *App) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", a.HealthCheck)

	api := e.Group("/api", middlewares.Auth(a.jwt))

	// 认证相关，全部公开
	auth := api.Group("/auth")
	auth.POST("/register", a.AuthRegister)
	auth.POST("/login", a.AuthLogin)
	auth.POST("/refresh", a.AuthRefresh)
	auth.POST("/password-reset/request", a.PasswordResetRequest)
	auth.POST("/password-reset/confirm", a.PasswordResetConfirm)

	// 公开的药品目录（受限字段）
	public := api.Group("/public/drugs")
	public.GET("", a.PublicDrugList)
	public.GET("/search", a.PublicDrugSearch)
	public.GET("/:id", a.PublicDrugGet)

	// 完整药品目录：读取对所有登录角色开放，写入仅限管理员
	canRead := middlewares.RequireRole(models.RoleReader, models.RoleUser, models.RoleAdmin)
	adminOnly := middlewares.RequireRole(models.RoleAdmin)

	drugs := api.Group("/drugs")
	drugs.GET("", a.DrugList, canRead)
	drugs.GET("/:id", a.DrugGet, canRead)
	drugs.POST("", a.DrugCreate, adminOnly)
	drugs.PUT("/:id", a.DrugUpdate, adminOnly)
	drugs.DELETE("/:id", a.DrugDelete, adminOnly)

	// 处方：只读角色无权管理处方
	prescriptions := api.Group("/prescriptions", middlewares.RequireRole(models.RoleUser, models.RoleAdmin))
	prescriptions.GET("", a.PrescriptionList)
	prescriptions.GET("/:id", a.PrescriptionGet)
	prescriptions.POST("", a.PrescriptionCreate)
	prescriptions.PUT("/:id", a.PrescriptionUpdate)
	prescriptions.DELETE("/:id", a.PrescriptionDelete)

	// 个人资料
	profile := api.Group("/profile", canRead)
	profile.GET("", a.ProfileGet)
	profile.PUT("", a.ProfileUpdate)
	profile.POST("/password", a.ProfilePasswordChange)

	// 管理端
	admin := api.Group("/admin", adminOnly)
	admin.GET("/stats", a.AdminStats)
	admin.GET("/users", a.AdminUserList)
	admin.DELETE("/users/:id", a.AdminUserDelete)
}
