package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pharmacy-core/app/server/jwt"
	"pharmacy-core/app/server/models"
	"pharmacy-core/app/server/types"
)

const minPasswordLength = 8

func (a *App) AuthRegister(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req types.RegisterRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	// 校验输入
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return a.erm(c, http.StatusBadRequest, "invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return a.erm(c, http.StatusBadRequest, "password too short")
	}

	// 未指定用户名时回落为邮箱，保证唯一索引始终有意义
	username := req.Username
	if username == "" {
		username = req.Email
	}

	// 处理密码
	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		a.l.Error("failed to hash password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	user := models.User{
		Email:    req.Email,
		Username: username,
		Password: passwordHash,
		Role:     models.RoleUser,
	}

	// 查重和创建放在同一个事务里，并发注册由唯一索引兜底
	if err := a.db.WithContext(rctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("email = ? OR username = ?", req.Email, username).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrDuplicatedKey
		}

		return tx.Create(&user).Error
	}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return a.erm(c, http.StatusConflict, "email or username already in use")
		}
		a.l.Error("failed to create user", zap.String("email", req.Email), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusCreated, &types.RegisterResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		Role:         string(user.Role),
		RegisteredAt: user.CreatedAt,
	})
}

func (a *App) AuthLogin(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req types.LoginRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	if req.Identifier == "" || req.Password == "" {
		return a.er(c, http.StatusBadRequest)
	}

	// 标识符可以是用户名或邮箱
	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "username = ? OR email = ?", req.Identifier, req.Identifier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 用户不存在与密码错误返回一致的响应，避免枚举用户
			return a.erm(c, http.StatusUnauthorized, "invalid credentials")
		}
		a.l.Error("failed to find user", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 提取密码 hash 并进行校验
	if match, _, err := argon2id.CheckHash(req.Password, user.Password); err != nil {
		a.l.Error("failed to check password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	} else if !match {
		// 密码不一致
		return a.erm(c, http.StatusUnauthorized, "invalid credentials")
	}

	// 签出 JWT
	issued := time.Now()
	expires := issued.Add(a.cfg.Security.AccessTokenTTL)
	token, err := a.jwt.SignToken(&jwt.User{
		ID:      user.ID,
		Role:    user.Role,
		Issued:  issued.Unix(),
		Expires: expires.Unix(),
	})
	if err != nil {
		a.l.Error("failed to sign token", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 创建刷新令牌
	refresh := models.RefreshToken{
		Token:     uuid.NewString(),
		ExpiresAt: issued.Add(a.cfg.Security.RefreshTokenTTL),
		UserID:    user.ID,
	}
	if err := a.db.WithContext(rctx).Create(&refresh).Error; err != nil {
		a.l.Error("failed to create refresh token", zap.Uint("userID", user.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 返回
	return c.JSON(http.StatusOK, &types.LoginResponse{
		ID:           user.ID,
		Email:        user.Email,
		AccessToken:  token,
		RefreshToken: refresh.Token,
		Role:         string(user.Role),
		IssuedAt:     issued,
		ExpiresAt:    expires,
	})
}

func (a *App) AuthRefresh(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req types.RefreshRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	if req.RefreshToken == "" {
		return a.er(c, http.StatusBadRequest)
	}

	// 查找持久化的刷新令牌
	var stored models.RefreshToken
	if err := a.db.WithContext(rctx).First(&stored, "token = ?", req.RefreshToken).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.erm(c, http.StatusUnauthorized, "refresh token not found")
		}
		a.l.Error("failed to find refresh token", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 惰性过期检查：发现过期立即删除记录
	if stored.ExpiresAt.Before(time.Now()) {
		if err := a.db.WithContext(rctx).Delete(&stored).Error; err != nil {
			a.l.Error("failed to delete expired refresh token", zap.Uint("id", stored.ID), zap.Error(err))
		}
		return a.erm(c, http.StatusUnauthorized, "refresh token expired")
	}

	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "id = ?", stored.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 用户已被删除，令牌视同不存在
			return a.erm(c, http.StatusUnauthorized, "refresh token not found")
		}
		a.l.Error("failed to find user", zap.Uint("userID", stored.UserID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 签出新的 JWT
	issued := time.Now()
	expires := issued.Add(a.cfg.Security.AccessTokenTTL)
	token, err := a.jwt.SignToken(&jwt.User{
		ID:      user.ID,
		Role:    user.Role,
		Issued:  issued.Unix(),
		Expires: expires.Unix(),
	})
	if err != nil {
		a.l.Error("failed to sign token", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 旋转：删除已消耗的令牌并写入新令牌，必须在同一个事务里，
	// 否则被窃取的旧令牌可能在部分失败后仍然可用
	next := models.RefreshToken{
		Token:     uuid.NewString(),
		ExpiresAt: issued.Add(a.cfg.Security.RefreshTokenTTL),
		UserID:    user.ID,
	}
	if err := a.db.WithContext(rctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&stored)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// 令牌在查找之后已被并发的刷新请求消耗，只有删除成功的一方可以换发
			return gorm.ErrRecordNotFound
		}
		return tx.Create(&next).Error
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.erm(c, http.StatusUnauthorized, "refresh token not found")
		}
		a.l.Error("failed to rotate refresh token", zap.Uint("userID", user.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, &types.RefreshResponse{
		AccessToken:  token,
		RefreshToken: next.Token,
		IssuedAt:     issued,
		ExpiresAt:    expires,
	})
}
