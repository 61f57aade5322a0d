package types

import "time"

type AdminStats struct {
	TotalUsers          int64 `json:"totalUsers"`
	TotalDrugs          int64 `json:"totalDrugs"`
	ActivePrescriptions int64 `json:"activePrescriptions"`
}

type AdminUserInfo struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registeredAt"`
}

type AdminUserListResponse struct {
	Limit   int             `json:"limit"`
	PageMax int64           `json:"pageMax"`
	List    []AdminUserInfo `json:"list"`
}
