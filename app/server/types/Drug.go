package types

type DrugInfo struct {
	ID                   uint     `json:"id"`
	Name                 string   `json:"name"`
	Type                 string   `json:"type"`
	Manufacturer         string   `json:"manufacturer"`
	Dosage               string   `json:"dosage"`
	Description          string   `json:"description"`
	SideEffects          []string `json:"sideEffects,omitempty"`
	PrescriptionRequired bool     `json:"prescriptionRequired"`
}

type DrugInput struct {
	Name                 *string  `json:"name"`
	Type                 *string  `json:"type"`
	Manufacturer         *string  `json:"manufacturer"`
	Dosage               *string  `json:"dosage"`
	Description          *string  `json:"description"`
	SideEffects          []string `json:"sideEffects"`
	PrescriptionRequired *bool    `json:"prescriptionRequired"`
}

type DrugListResponse struct {
	Limit   int        `json:"limit"`
	PageMax int64      `json:"pageMax"`
	List    []DrugInfo `json:"list"`
}

// PublicDrugInfo 是未认证访问时暴露的受限字段子集
type PublicDrugInfo struct {
	ID                   uint   `json:"id"`
	Name                 string `json:"name"`
	Type                 string `json:"type"`
	Description          string `json:"description"`
	PrescriptionRequired bool   `json:"prescriptionRequired"`
}
