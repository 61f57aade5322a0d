package types

import "time"

type ProfileResponse struct {
	ID            uint      `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	PhoneNumber   string    `json:"phoneNumber"`
	PaymentMethod string    `json:"paymentMethod"`
	Role          string    `json:"role"`
	RegisteredAt  time.Time `json:"registeredAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type ProfileUpdateRequest struct {
	Name          *string `json:"name"`
	Address       *string `json:"address"`
	PhoneNumber   *string `json:"phoneNumber"`
	PaymentMethod *string `json:"paymentMethod"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
