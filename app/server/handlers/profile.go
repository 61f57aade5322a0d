package handlers

import (
	"errors"
	"net/http"

	"github.com/alexedwards/argon2id"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pharmacy-core/app/server/middlewares"
	"pharmacy-core/app/server/models"
	"pharmacy-core/app/server/types"
)

func (a *App) profileRes(user *models.User) *types.ProfileResponse {
	return &types.ProfileResponse{
		ID:            user.ID,
		Email:         user.Email,
		Username:      user.Username,
		Name:          user.Name,
		Address:       user.Address,
		PhoneNumber:   user.PhoneNumber,
		PaymentMethod: user.PaymentMethod,
		Role:          string(user.Role),
		RegisteredAt:  user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

func (a *App) profileMapFields(req *types.ProfileUpdateRequest, user *models.User) {
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.PaymentMethod != nil {
		user.PaymentMethod = *req.PaymentMethod
	}
}

// profileUpdateColumns 把请求里出现的字段转成列更新，清空字段（提交空串）也要落库
func (a *App) profileUpdateColumns(req *types.ProfileUpdateRequest) map[string]interface{} {
	columns := map[string]interface{}{}
	if req.Name != nil {
		columns["name"] = *req.Name
	}
	if req.Address != nil {
		columns["address"] = *req.Address
	}
	if req.PhoneNumber != nil {
		columns["phone_number"] = *req.PhoneNumber
	}
	if req.PaymentMethod != nil {
		columns["payment_method"] = *req.PaymentMethod
	}
	return columns
}

// currentUser 从请求上下文里取出登录用户对应的数据库记录
func (a *App) currentUser(c echo.Context) (*models.User, error, int) {
	jwtUser := middlewares.AuthUser(c)
	if jwtUser == nil {
		return nil, errors.New("missing auth user"), http.StatusUnauthorized
	}

	var user models.User
	if err := a.db.WithContext(c.Request().Context()).First(&user, "id = ?", jwtUser.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found"), http.StatusNotFound
		}
		return nil, err, http.StatusInternalServerError
	}

	return &user, nil, http.StatusOK
}

func (a *App) ProfileGet(c echo.Context) error {
	user, err, statusCode := a.currentUser(c)
	if err != nil {
		a.l.Error("failed to get user", zap.Error(err))
		return a.er(c, statusCode)
	}

	return c.JSON(http.StatusOK, a.profileRes(user))
}

func (a *App) ProfileUpdate(c echo.Context) error {
	user, err, statusCode := a.currentUser(c)
	if err != nil {
		a.l.Error("failed to get user", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req types.ProfileUpdateRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	a.profileMapFields(&req, user)

	// 更新用户信息
	if columns := a.profileUpdateColumns(&req); len(columns) > 0 {
		if err := a.db.WithContext(rctx).Model(user).Updates(columns).Error; err != nil {
			a.l.Error("failed to update user", zap.Uint("id", user.ID), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	return c.JSON(http.StatusOK, a.profileRes(user))
}

func (a *App) ProfilePasswordChange(c echo.Context) error {
	user, err, statusCode := a.currentUser(c)
	if err != nil {
		a.l.Error("failed to get user", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req types.PasswordChangeRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	if len(req.NewPassword) < minPasswordLength {
		return a.erm(c, http.StatusBadRequest, "password too short")
	}

	// 校验当前密码
	if match, _, err := argon2id.CheckHash(req.CurrentPassword, user.Password); err != nil {
		a.l.Error("failed to check password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	} else if !match {
		return a.erm(c, http.StatusUnauthorized, "invalid credentials")
	}

	// 处理新密码
	passwordHash, err := argon2id.CreateHash(req.NewPassword, argon2id.DefaultParams)
	if err != nil {
		a.l.Error("failed to hash password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 更新密码的同时吊销该用户的全部刷新令牌，旧会话不能再换取新的访问令牌
	if err := a.db.WithContext(rctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Update("password", passwordHash).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{}).Error
	}); err != nil {
		a.l.Error("failed to change password", zap.Uint("id", user.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, &types.PasswordChangeResponse{
		Message:   "password changed",
		UpdatedAt: user.UpdatedAt,
	})
}
