package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pharmacy-core/app/server/constants"
	"pharmacy-core/app/server/models"
	"pharmacy-core/app/server/types"
)

func (a *App) PasswordResetRequest(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req types.PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	if req.Email == "" {
		return a.er(c, http.StatusBadRequest)
	}

	// 无论邮箱是否存在，成功响应的形状都一致，避免枚举用户
	res := &types.PasswordResetResponse{
		Message:   "password reset link sent to email",
		Timestamp: time.Now(),
	}

	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "email = ?", req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusOK, res)
		}
		a.l.Error("failed to find user", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 创建重置令牌
	token := models.PasswordResetToken{
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(constants.PasswordResetTokenTTL),
		UserID:    user.ID,
	}
	if err := a.db.WithContext(rctx).Create(&token).Error; err != nil {
		a.l.Error("failed to create password reset token", zap.Uint("userID", user.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 发送带重置链接的通知
	resetLink := a.cfg.System.FrontendURL + "/reset-password?token=" + token.Token
	if err := a.mail.Send(
		user.Email,
		"Password Reset Request",
		"To reset your password, click the following link:\n"+resetLink,
	); err != nil {
		// 投递失败属于基础设施错误，对外只返回通用错误
		a.l.Error("failed to send password reset mail", zap.Uint("userID", user.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, res)
}

func (a *App) PasswordResetConfirm(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req types.PasswordResetConfirmRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	if req.Token == "" {
		return a.er(c, http.StatusBadRequest)
	}
	if len(req.NewPassword) < minPasswordLength {
		return a.erm(c, http.StatusBadRequest, "password too short")
	}

	// 查找重置令牌
	var stored models.PasswordResetToken
	if err := a.db.WithContext(rctx).First(&stored, "token = ?", req.Token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.erm(c, http.StatusUnauthorized, "password reset token not found")
		}
		a.l.Error("failed to find password reset token", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 惰性过期检查：发现过期立即删除记录
	if stored.ExpiresAt.Before(time.Now()) {
		if err := a.db.WithContext(rctx).Delete(&stored).Error; err != nil {
			a.l.Error("failed to delete expired password reset token", zap.Uint("id", stored.ID), zap.Error(err))
		}
		return a.erm(c, http.StatusUnauthorized, "password reset token expired")
	}

	// 处理新密码
	passwordHash, err := argon2id.CreateHash(req.NewPassword, argon2id.DefaultParams)
	if err != nil {
		a.l.Error("failed to hash password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 更新密码并删除该用户所有未消耗的重置令牌（不只是当前这一枚），
	// 防止已经发出的其它重置链接被继续使用
	var user models.User
	if err := a.db.WithContext(rctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", stored.UserID).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Update("password", passwordHash).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", user.ID).Delete(&models.PasswordResetToken{}).Error
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 用户已被删除，令牌视同不存在
			return a.erm(c, http.StatusUnauthorized, "password reset token not found")
		}
		a.l.Error("failed to reset password", zap.Uint("userID", stored.UserID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, &types.PasswordChangeResponse{
		Message:   "password reset successful",
		UpdatedAt: user.UpdatedAt,
	})
}
