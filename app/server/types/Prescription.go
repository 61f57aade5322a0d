package types

import "time"

type PrescriptionInfo struct {
	ID                   uint       `json:"id"`
	DrugID               uint       `json:"drugId"`
	DrugName             string     `json:"drugName"`
	Dosage               string     `json:"dosage"`
	Frequency            string     `json:"frequency"`
	Status               string     `json:"status"`
	RefillsRemaining     int        `json:"refillsRemaining"`
	LastRefill           *time.Time `json:"lastRefill,omitempty"`
	NextRefill           *time.Time `json:"nextRefill,omitempty"`
	PrescriptionRequired bool       `json:"prescriptionRequired"`
	IssuedAt             time.Time  `json:"issuedAt"`
	ExpiresAt            time.Time  `json:"expiresAt"`
}

type PrescriptionCreateRequest struct {
	DrugID           uint       `json:"drugId"`
	Dosage           string     `json:"dosage"`
	Frequency        string     `json:"frequency"`
	RefillsRemaining int        `json:"refillsRemaining"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"` // 未填写时默认六个月
}

type PrescriptionUpdateRequest struct {
	Dosage           *string    `json:"dosage"`
	Frequency        *string    `json:"frequency"`
	Status           *string    `json:"status"`
	RefillsRemaining *int       `json:"refillsRemaining"`
	LastRefill       *time.Time `json:"lastRefill"`
	NextRefill       *time.Time `json:"nextRefill"`
}
