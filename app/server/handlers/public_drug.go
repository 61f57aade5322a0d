package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pharmacy-core/app/server/constants"
	"pharmacy-core/app/server/models"
	"pharmacy-core/app/server/types"
)

func (a *App) publicDrugRes(drug *models.Drug) *types.PublicDrugInfo {
	return &types.PublicDrugInfo{
		ID:                   drug.ID,
		Name:                 drug.Name,
		Type:                 drug.Type,
		Description:          drug.Description,
		PrescriptionRequired: drug.PrescriptionRequired,
	}
}

func (a *App) PublicDrugList(c echo.Context) error {
	rctx := c.Request().Context()

	var drugs []models.Drug
	if err := a.db.WithContext(rctx).Order("id ASC").Find(&drugs).Error; err != nil {
		a.l.Error("failed to get public drug list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resDrugs := []types.PublicDrugInfo{}
	for _, drug := range drugs {
		resDrugs = append(resDrugs, *a.publicDrugRes(&drug))
	}

	return c.JSON(http.StatusOK, resDrugs)
}

func (a *App) PublicDrugSearch(c echo.Context) error {
	rctx := c.Request().Context()

	query := strings.TrimSpace(c.QueryParam("query"))
	if query == "" {
		return a.PublicDrugList(c)
	}

	// 大小写不敏感的模糊匹配，lower + LIKE 在 Postgres 和 sqlite 上行为一致
	pattern := "%" + strings.ToLower(query) + "%"

	var drugs []models.Drug
	if err := a.db.WithContext(rctx).
		Where("lower(name) LIKE ? OR lower(manufacturer) LIKE ? OR lower(description) LIKE ?", pattern, pattern, pattern).
		Order("id ASC").
		Find(&drugs).Error; err != nil {
		a.l.Error("failed to search public drugs", zap.String("query", query), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resDrugs := []types.PublicDrugInfo{}
	for _, drug := range drugs {
		resDrugs = append(resDrugs, *a.publicDrugRes(&drug))
	}

	return c.JSON(http.StatusOK, resDrugs)
}

func (a *App) PublicDrugGet(c echo.Context) error {
	id, err := a.parseIDParam(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 查询缓存
	cacheKey := fmt.Sprintf(constants.CacheKeyDrugPublic, id)
	var cached types.PublicDrugInfo
	if a.cacheGet(rctx, cacheKey, &cached) {
		return c.JSON(http.StatusOK, &cached)
	}

	// 查询数据库
	var drug models.Drug
	if err := a.db.WithContext(rctx).First(&drug, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get drug", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 加入缓存，方便下一次查询
	res := a.publicDrugRes(&drug)
	a.cacheSet(rctx, cacheKey, res, constants.CacheExpireDrugPublic)

	return c.JSON(http.StatusOK, res)
}
