package handlers

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pharmacy-core/app/server/models"
	"pharmacy-core/app/server/types"
)

func TestAuthRegister(t *testing.T) {
	env := newTestEnv(t)

	t.Run("success", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/register", "", &types.RegisterRequest{
			Email:    "alice@example.com",
			Username: "alice",
			Password: "correct horse battery staple",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		res := decodeBody[types.RegisterResponse](t, rec)
		assert.NotZero(t, res.ID)
		assert.Equal(t, "alice@example.com", res.Email)
		assert.Equal(t, "alice", res.Username)
		assert.Equal(t, "USER", res.Role)

		// 密码不以明文落库
		var user models.User
		require.NoError(t, env.db.First(&user, "id = ?", res.ID).Error)
		assert.NotEqual(t, "correct horse battery staple", user.Password)
		assert.Contains(t, user.Password, "$argon2id$")
	})

	t.Run("username falls back to email", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/register", "", &types.RegisterRequest{
			Email:    "bob@example.com",
			Password: "password123",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		res := decodeBody[types.RegisterResponse](t, rec)
		assert.Equal(t, "bob@example.com", res.Username)
	})

	t.Run("duplicate email", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/register", "", &types.RegisterRequest{
			Email:    "alice@example.com",
			Password: "another password",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("duplicate username", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/register", "", &types.RegisterRequest{
			Email:    "alice2@example.com",
			Username: "alice",
			Password: "another password",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/register", "", &types.RegisterRequest{
			Email:    "not-an-email",
			Password: "password123",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("short password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/register", "", &types.RegisterRequest{
			Email:    "short@example.com",
			Password: "short",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthLogin(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "password123", models.RoleUser)

	t.Run("by email", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/login", "", &types.LoginRequest{
			Identifier: "alice@example.com",
			Password:   "password123",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		res := decodeBody[types.LoginResponse](t, rec)
		assert.Equal(t, user.ID, res.ID)
		assert.Equal(t, "USER", res.Role)
		assert.NotEmpty(t, res.RefreshToken)

		// 访问令牌能被解析回同一个身份
		parsed, err := env.jwt.ParseUser(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, parsed.ID)
		assert.Equal(t, models.RoleUser, parsed.Role)

		// 刷新令牌已经落库
		var stored models.RefreshToken
		require.NoError(t, env.db.First(&stored, "token = ?", res.RefreshToken).Error)
		assert.Equal(t, user.ID, stored.UserID)
	})

	t.Run("by username", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/login", "", &types.LoginRequest{
			Identifier: user.Username,
			Password:   "password123",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no user enumeration", func(t *testing.T) {
		wrongPassword := env.do(t, http.MethodPost, "/api/auth/login", "", &types.LoginRequest{
			Identifier: "alice@example.com",
			Password:   "wrong password",
		})
		unknownUser := env.do(t, http.MethodPost, "/api/auth/login", "", &types.LoginRequest{
			Identifier: "nobody@example.com",
			Password:   "password123",
		})

		// 密码错误和用户不存在必须不可区分
		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
		assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/login", "", &types.LoginRequest{
			Identifier: "alice@example.com",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthRefresh(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "password123", models.RoleUser)

	login := env.do(t, http.MethodPost, "/api/auth/login", "", &types.LoginRequest{
		Identifier: "alice@example.com",
		Password:   "password123",
	})
	require.Equal(t, http.StatusOK, login.Code)
	first := decodeBody[types.LoginResponse](t, login)

	t.Run("rotation", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/refresh", "", &types.RefreshRequest{
			RefreshToken: first.RefreshToken,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		res := decodeBody[types.RefreshResponse](t, rec)
		assert.NotEmpty(t, res.AccessToken)
		assert.NotEqual(t, first.RefreshToken, res.RefreshToken)

		parsed, err := env.jwt.ParseUser(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, parsed.ID)

		// 已消耗的令牌立即失效
		replay := env.do(t, http.MethodPost, "/api/auth/refresh", "", &types.RefreshRequest{
			RefreshToken: first.RefreshToken,
		})
		assert.Equal(t, http.StatusUnauthorized, replay.Code)
		assert.Contains(t, replay.Body.String(), "refresh token not found")
	})

	t.Run("expired token is deleted on use", func(t *testing.T) {
		expired := models.RefreshToken{
			Token:     "expired-refresh-token",
			ExpiresAt: time.Now().Add(-time.Minute),
			UserID:    user.ID,
		}
		require.NoError(t, env.db.Create(&expired).Error)

		rec := env.do(t, http.MethodPost, "/api/auth/refresh", "", &types.RefreshRequest{
			RefreshToken: expired.Token,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "refresh token expired")

		// 过期令牌被惰性删除，再次使用时已经不存在
		again := env.do(t, http.MethodPost, "/api/auth/refresh", "", &types.RefreshRequest{
			RefreshToken: expired.Token,
		})
		assert.Equal(t, http.StatusUnauthorized, again.Code)
		assert.Contains(t, again.Body.String(), "refresh token not found")
	})

	t.Run("unknown token", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/refresh", "", &types.RefreshRequest{
			RefreshToken: "never-issued",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/refresh", "", &types.RefreshRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthRefreshInterleavedUse(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "password123", models.RoleUser)

	login := env.do(t, http.MethodPost, "/api/auth/login", "", &types.LoginRequest{
		Identifier: "alice@example.com",
		Password:   "password123",
	})
	require.Equal(t, http.StatusOK, login.Code)
	session := decodeBody[types.LoginResponse](t, login)

	// 模拟两个请求拿着同一枚令牌交错执行：在查找成功之后、事务删除之前，
	// 另一端抢先消耗了这枚令牌
	var steal sync.Once
	require.NoError(t, env.db.Callback().Delete().Before("gorm:delete").Register("interleaved_refresh", func(d *gorm.DB) {
		steal.Do(func() {
			require.NoError(t, env.db.
				Exec("UPDATE refresh_tokens SET deleted_at = ? WHERE token = ?", time.Now(), session.RefreshToken).
				Error)
		})
	}))
	t.Cleanup(func() {
		_ = env.db.Callback().Delete().Remove("interleaved_refresh")
	})

	// 删除没有命中任何行时不允许换发
	rec := env.do(t, http.MethodPost, "/api/auth/refresh", "", &types.RefreshRequest{
		RefreshToken: session.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "refresh token not found")

	// 输掉的一方不能留下可用的新令牌
	var count int64
	require.NoError(t, env.db.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
