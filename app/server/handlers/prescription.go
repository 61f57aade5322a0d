package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pharmacy-core/app/server/middlewares"
	"pharmacy-core/app/server/models"
	"pharmacy-core/app/server/types"
)

func (a *App) prescriptionRes(p *models.Prescription) *types.PrescriptionInfo {
	return &types.PrescriptionInfo{
		ID:                   p.ID,
		DrugID:               p.DrugID,
		DrugName:             p.Drug.Name,
		Dosage:               p.Dosage,
		Frequency:            p.Frequency,
		Status:               p.Status,
		RefillsRemaining:     p.RefillsRemaining,
		LastRefill:           p.LastRefill,
		NextRefill:           p.NextRefill,
		PrescriptionRequired: p.Drug.PrescriptionRequired,
		IssuedAt:             p.IssuedAt,
		ExpiresAt:            p.ExpiresAt,
	}
}

func (a *App) prescriptionMapFields(req *types.PrescriptionUpdateRequest, p *models.Prescription) {
	if req.Dosage != nil {
		p.Dosage = *req.Dosage
	}
	if req.Frequency != nil {
		p.Frequency = *req.Frequency
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.RefillsRemaining != nil {
		p.RefillsRemaining = *req.RefillsRemaining
	}
	if req.LastRefill != nil {
		p.LastRefill = req.LastRefill
	}
	if req.NextRefill != nil {
		p.NextRefill = req.NextRefill
	}
}

// prescriptionUpdateColumns 把请求里出现的字段转成列更新，零值（例如剩余续配次数归零）也要落库
func (a *App) prescriptionUpdateColumns(req *types.PrescriptionUpdateRequest) map[string]interface{} {
	columns := map[string]interface{}{}
	if req.Dosage != nil {
		columns["dosage"] = *req.Dosage
	}
	if req.Frequency != nil {
		columns["frequency"] = *req.Frequency
	}
	if req.Status != nil {
		columns["status"] = *req.Status
	}
	if req.RefillsRemaining != nil {
		columns["refills_remaining"] = *req.RefillsRemaining
	}
	if req.LastRefill != nil {
		columns["last_refill"] = *req.LastRefill
	}
	if req.NextRefill != nil {
		columns["next_refill"] = *req.NextRefill
	}
	return columns
}

func (a *App) PrescriptionList(c echo.Context) error {
	jwtUser := middlewares.AuthUser(c)
	if jwtUser == nil {
		return a.er(c, http.StatusUnauthorized)
	}

	rctx := c.Request().Context()

	// 只列出当前用户自己的处方
	var prescriptions []models.Prescription
	if err := a.db.WithContext(rctx).Preload("Drug").
		Order("id ASC").
		Find(&prescriptions, "user_id = ?", jwtUser.ID).Error; err != nil {
		a.l.Error("failed to get prescription list", zap.Uint("userID", jwtUser.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	res := []types.PrescriptionInfo{}
	for _, p := range prescriptions {
		res = append(res, *a.prescriptionRes(&p))
	}

	return c.JSON(http.StatusOK, res)
}

func (a *App) PrescriptionGet(c echo.Context) error {
	jwtUser := middlewares.AuthUser(c)
	if jwtUser == nil {
		return a.er(c, http.StatusUnauthorized)
	}

	id, err := a.parseIDParam(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 归属检查直接并入查询条件，他人的处方等同于不存在
	var p models.Prescription
	if err := a.db.WithContext(rctx).Preload("Drug").
		First(&p, "id = ? AND user_id = ?", id, jwtUser.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get prescription", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, a.prescriptionRes(&p))
}

func (a *App) PrescriptionCreate(c echo.Context) error {
	jwtUser := middlewares.AuthUser(c)
	if jwtUser == nil {
		return a.er(c, http.StatusUnauthorized)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req types.PrescriptionCreateRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	if req.DrugID == 0 || req.Dosage == "" || req.Frequency == "" {
		return a.er(c, http.StatusBadRequest)
	}

	// 确认药品存在
	var drug models.Drug
	if err := a.db.WithContext(rctx).First(&drug, "id = ?", req.DrugID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.erm(c, http.StatusNotFound, "drug not found")
		}
		a.l.Error("failed to get drug", zap.Uint("drugID", req.DrugID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	now := time.Now()
	expiresAt := now.AddDate(0, 6, 0) // 默认六个月有效
	if req.ExpiresAt != nil {
		expiresAt = *req.ExpiresAt
	}

	p := models.Prescription{
		UserID:           jwtUser.ID,
		DrugID:           drug.ID,
		Dosage:           req.Dosage,
		Frequency:        req.Frequency,
		Status:           models.PrescriptionStatusActive,
		RefillsRemaining: req.RefillsRemaining,
		IssuedAt:         now,
		ExpiresAt:        expiresAt,
	}

	if err := a.db.WithContext(rctx).Create(&p).Error; err != nil {
		a.l.Error("failed to create prescription", zap.Uint("userID", jwtUser.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	p.Drug = drug

	return c.JSON(http.StatusCreated, a.prescriptionRes(&p))
}

func (a *App) PrescriptionUpdate(c echo.Context) error {
	jwtUser := middlewares.AuthUser(c)
	if jwtUser == nil {
		return a.er(c, http.StatusUnauthorized)
	}

	id, err := a.parseIDParam(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req types.PrescriptionUpdateRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	var p models.Prescription
	if err := a.db.WithContext(rctx).Preload("Drug").
		First(&p, "id = ? AND user_id = ?", id, jwtUser.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get prescription", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	a.prescriptionMapFields(&req, &p)

	if columns := a.prescriptionUpdateColumns(&req); len(columns) > 0 {
		if err := a.db.WithContext(rctx).Model(&p).Updates(columns).Error; err != nil {
			a.l.Error("failed to update prescription", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	return c.JSON(http.StatusOK, a.prescriptionRes(&p))
}

func (a *App) PrescriptionDelete(c echo.Context) error {
	jwtUser := middlewares.AuthUser(c)
	if jwtUser == nil {
		return a.er(c, http.StatusUnauthorized)
	}

	id, err := a.parseIDParam(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	result := a.db.WithContext(rctx).
		Where("id = ? AND user_id = ?", id, jwtUser.ID).
		Delete(&models.Prescription{})
	if result.Error != nil {
		a.l.Error("failed to delete prescription", zap.Uint("id", id), zap.Error(result.Error))
		return a.er(c, http.StatusInternalServerError)
	}
	if result.RowsAffected == 0 {
		return a.er(c, http.StatusNotFound)
	}

	return c.NoContent(http.StatusNoContent)
}
