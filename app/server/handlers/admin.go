package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pharmacy-core/app/server/constants"
	"pharmacy-core/app/server/models"
	"pharmacy-core/app/server/types"
)

func (a *App) AdminStats(c echo.Context) error {
	rctx := c.Request().Context()

	// 查询缓存
	var stats types.AdminStats
	if a.cacheGet(rctx, constants.CacheKeyAdminStats, &stats) {
		return c.JSON(http.StatusOK, &stats)
	}

	if err := a.db.WithContext(rctx).Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		a.l.Error("failed to count user", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if err := a.db.WithContext(rctx).Model(&models.Drug{}).Count(&stats.TotalDrugs).Error; err != nil {
		a.l.Error("failed to count drug", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if err := a.db.WithContext(rctx).Model(&models.Prescription{}).
		Where("status = ?", models.PrescriptionStatusActive).
		Count(&stats.ActivePrescriptions).Error; err != nil {
		a.l.Error("failed to count prescription", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 统计是近似值，短暂缓存即可
	a.cacheSet(rctx, constants.CacheKeyAdminStats, &stats, constants.CacheExpireAdminStats)

	return c.JSON(http.StatusOK, &stats)
}

func (a *App) AdminUserList(c echo.Context) error {
	rctx := c.Request().Context()

	var (
		users      []models.User
		usersCount int64
	)

	showAll, page, limit := a.parsePagination(c)
	queryBase := a.db.WithContext(rctx).Model(&models.User{}).Order("id ASC")
	if !showAll {
		queryBase = queryBase.Limit(limit).Offset(page * limit)
	}

	if err := queryBase.Find(&users).Error; err != nil {
		a.l.Error("failed to get user list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if err := a.db.WithContext(rctx).Model(&models.User{}).Count(&usersCount).Error; err != nil {
		a.l.Error("failed to count user", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resUsers := []types.AdminUserInfo{}
	for _, user := range users {
		resUsers = append(resUsers, types.AdminUserInfo{
			ID:           user.ID,
			Email:        user.Email,
			Username:     user.Username,
			Name:         user.Name,
			Role:         string(user.Role),
			RegisteredAt: user.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, &types.AdminUserListResponse{
		Limit:   limit,
		PageMax: a.calcMaxPage(usersCount, showAll, limit),
		List:    resUsers,
	})
}

func (a *App) AdminUserDelete(c echo.Context) error {
	id, err := a.parseIDParam(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	// 删除用户时连同其持久化令牌一起清理
	if err := a.db.WithContext(rctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", id).Delete(&models.PasswordResetToken{}).Error
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to delete user", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.NoContent(http.StatusNoContent)
}
