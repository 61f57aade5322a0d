package types

import "time"

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"` // 可选，未填写时使用邮箱
	Password string `json:"password"`
}

type RegisterResponse struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registeredAt"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"` // 用户名或邮箱
	Password   string `json:"password"`
}

type LoginResponse struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	Role         string    `json:"role"`
	IssuedAt     time.Time `json:"issuedAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	IssuedAt     time.Time `json:"issuedAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type PasswordChangeResponse struct {
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updatedAt"`
}
