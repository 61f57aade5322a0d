package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pharmacy-core/app/server/constants"
	"pharmacy-core/app/server/models"
	"pharmacy-core/app/server/types"
)

func (a *App) drugRes(drug *models.Drug) *types.DrugInfo {
	return &types.DrugInfo{
		ID:                   drug.ID,
		Name:                 drug.Name,
		Type:                 drug.Type,
		Manufacturer:         drug.Manufacturer,
		Dosage:               drug.Dosage,
		Description:          drug.Description,
		SideEffects:          drug.SideEffects,
		PrescriptionRequired: drug.PrescriptionRequired,
	}
}

func (a *App) drugMapFields(req *types.DrugInput, drug *models.Drug) {
	if req.Name != nil {
		drug.Name = *req.Name
	}
	if req.Type != nil {
		drug.Type = *req.Type
	}
	if req.Manufacturer != nil {
		drug.Manufacturer = *req.Manufacturer
	}
	if req.Dosage != nil {
		drug.Dosage = *req.Dosage
	}
	if req.Description != nil {
		drug.Description = *req.Description
	}
	if req.SideEffects != nil {
		drug.SideEffects = req.SideEffects
	}
	if req.PrescriptionRequired != nil {
		drug.PrescriptionRequired = *req.PrescriptionRequired
	}
}

// drugUpdateColumns 把请求里出现的字段转成列更新。指针区分"未提交"和"零值"，
// 零值（例如把处方药标记改回 false ）也必须落库
func (a *App) drugUpdateColumns(req *types.DrugInput) map[string]interface{} {
	columns := map[string]interface{}{}
	if req.Name != nil {
		columns["name"] = *req.Name
	}
	if req.Type != nil {
		columns["type"] = *req.Type
	}
	if req.Manufacturer != nil {
		columns["manufacturer"] = *req.Manufacturer
	}
	if req.Dosage != nil {
		columns["dosage"] = *req.Dosage
	}
	if req.Description != nil {
		columns["description"] = *req.Description
	}
	if req.SideEffects != nil {
		columns["side_effects"] = pq.StringArray(req.SideEffects)
	}
	if req.PrescriptionRequired != nil {
		columns["prescription_required"] = *req.PrescriptionRequired
	}
	return columns
}

// parseIDParam 提取路径中的记录 ID
func (a *App) parseIDParam(c echo.Context) (uint, error) {
	idUint64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(idUint64), nil
}

func (a *App) DrugList(c echo.Context) error {
	rctx := c.Request().Context()

	var (
		drugs      []models.Drug
		drugsCount int64
	)

	showAll, page, limit := a.parsePagination(c)
	queryBase := a.db.WithContext(rctx).Model(&models.Drug{}).Order("id ASC")
	if !showAll {
		queryBase = queryBase.Limit(limit).Offset(page * limit)
	}

	if err := queryBase.Find(&drugs).Error; err != nil {
		a.l.Error("failed to get drug list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if err := a.db.WithContext(rctx).Model(&models.Drug{}).Count(&drugsCount).Error; err != nil {
		a.l.Error("failed to count drug", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resDrugs := []types.DrugInfo{}
	for _, drug := range drugs {
		resDrugs = append(resDrugs, *a.drugRes(&drug))
	}

	return c.JSON(http.StatusOK, &types.DrugListResponse{
		Limit:   limit,
		PageMax: a.calcMaxPage(drugsCount, showAll, limit),
		List:    resDrugs,
	})
}

func (a *App) DrugGet(c echo.Context) error {
	id, err := a.parseIDParam(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	var drug models.Drug
	if err := a.db.WithContext(rctx).First(&drug, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get drug", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, a.drugRes(&drug))
}

func (a *App) DrugCreate(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req types.DrugInput
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	if req.Name == nil || *req.Name == "" {
		return a.er(c, http.StatusBadRequest)
	}

	var drug models.Drug
	a.drugMapFields(&req, &drug)

	if err := a.db.WithContext(rctx).Create(&drug).Error; err != nil {
		a.l.Error("failed to create drug", zap.Any("drug", drug), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusCreated, a.drugRes(&drug))
}

func (a *App) DrugUpdate(c echo.Context) error {
	id, err := a.parseIDParam(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req types.DrugInput
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	var drug models.Drug
	if err := a.db.WithContext(rctx).First(&drug, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get drug", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	a.drugMapFields(&req, &drug)

	if columns := a.drugUpdateColumns(&req); len(columns) > 0 {
		if err := a.db.WithContext(rctx).Model(&drug).Updates(columns).Error; err != nil {
			a.l.Error("failed to update drug", zap.Uint("id", id), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	// 目录有变动，清理公开缓存
	a.cacheDel(rctx, fmt.Sprintf(constants.CacheKeyDrugPublic, drug.ID))

	return c.JSON(http.StatusOK, a.drugRes(&drug))
}

func (a *App) DrugDelete(c echo.Context) error {
	id, err := a.parseIDParam(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	result := a.db.WithContext(rctx).Delete(&models.Drug{}, id)
	if result.Error != nil {
		a.l.Error("failed to delete drug", zap.Uint("id", id), zap.Error(result.Error))
		return a.er(c, http.StatusInternalServerError)
	}
	if result.RowsAffected == 0 {
		return a.er(c, http.StatusNotFound)
	}

	// 目录有变动，清理公开缓存
	a.cacheDel(rctx, fmt.Sprintf(constants.CacheKeyDrugPublic, id))

	return c.NoContent(http.StatusNoContent)
}
