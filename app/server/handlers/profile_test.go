package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy-core/app/server/models"
	"pharmacy-core/app/server/types"
	"pharmacy-core/app/server/utils"
)

func TestProfileGet(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "password123", models.RoleUser)
	token := env.tokenFor(t, user)

	t.Run("anonymous", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/profile", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		res := decodeBody[types.ProfileResponse](t, rec)
		assert.Equal(t, user.ID, res.ID)
		assert.Equal(t, "alice@example.com", res.Email)
		assert.Equal(t, "USER", res.Role)
	})

	t.Run("reader can view own profile", func(t *testing.T) {
		reader := env.createUser(t, "reader@example.com", "password123", models.RoleReader)
		rec := env.do(t, http.MethodGet, "/api/profile", env.tokenFor(t, reader), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestProfileUpdate(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "password123", models.RoleUser)
	token := env.tokenFor(t, user)

	rec := env.do(t, http.MethodPut, "/api/profile", token, &types.ProfileUpdateRequest{
		Name:        utils.P("Alice"),
		Address:     utils.P("1 Main Street"),
		PhoneNumber: utils.P("555-0100"),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeBody[types.ProfileResponse](t, rec)
	assert.Equal(t, "Alice", res.Name)
	assert.Equal(t, "1 Main Street", res.Address)
	assert.Equal(t, "555-0100", res.PhoneNumber)

	// 未提交的字段不被覆盖
	again := env.do(t, http.MethodPut, "/api/profile", token, &types.ProfileUpdateRequest{
		PaymentMethod: utils.P("credit card"),
	})
	require.Equal(t, http.StatusOK, again.Code)

	res = decodeBody[types.ProfileResponse](t, again)
	assert.Equal(t, "Alice", res.Name)
	assert.Equal(t, "credit card", res.PaymentMethod)

	// 清空字段（提交空串）必须真正落库，而不是只出现在响应里
	cleared := env.do(t, http.MethodPut, "/api/profile", token, &types.ProfileUpdateRequest{
		Address: utils.P(""),
	})
	require.Equal(t, http.StatusOK, cleared.Code)

	var stored models.User
	require.NoError(t, env.db.First(&stored, "id = ?", user.ID).Error)
	assert.Empty(t, stored.Address)
	assert.Equal(t, "Alice", stored.Name)
}

func TestProfilePasswordChange(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice@example.com", "password123", models.RoleUser)

	// 通过登录建立一个会话，拿到刷新令牌
	login := env.do(t, http.MethodPost, "/api/auth/login", "", &types.LoginRequest{
		Identifier: "alice@example.com",
		Password:   "password123",
	})
	require.Equal(t, http.StatusOK, login.Code)
	session := decodeBody[types.LoginResponse](t, login)

	t.Run("wrong current password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/profile/password", session.AccessToken, &types.PasswordChangeRequest{
			CurrentPassword: "wrong password",
			NewPassword:     "new password 456",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("short new password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/profile/password", session.AccessToken, &types.PasswordChangeRequest{
			CurrentPassword: "password123",
			NewPassword:     "short",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("success revokes refresh tokens", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/profile/password", session.AccessToken, &types.PasswordChangeRequest{
			CurrentPassword: "password123",
			NewPassword:     "new password 456",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		// 旧会话的刷新令牌已被吊销
		refresh := env.do(t, http.MethodPost, "/api/auth/refresh", "", &types.RefreshRequest{
			RefreshToken: session.RefreshToken,
		})
		assert.Equal(t, http.StatusUnauthorized, refresh.Code)

		// 新密码可以登录
		newLogin := env.do(t, http.MethodPost, "/api/auth/login", "", &types.LoginRequest{
			Identifier: "alice@example.com",
			Password:   "new password 456",
		})
		assert.Equal(t, http.StatusOK, newLogin.Code)
	})
}
