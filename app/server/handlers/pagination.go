package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

func (a *App) parsePagination(c echo.Context) (bool, int, int) {
	var page, limit *uint

	if v := c.QueryParam("page"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			p := uint(parsed)
			page = &p
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			l := uint(parsed)
			limit = &l
		}
	}

	if page != nil && *page == 0 && limit != nil && *limit == 0 {
		// 特殊参数：展示全部
		return true, -1, -1
	}
	// 映射前：第几页，每页限制多少个
	// 映射后：页减一，限制不变
	var parsedPage, parsedLimit uint

	if page == nil || *page < 1 {
		parsedPage = 0
	} else {
		parsedPage = *page - 1
	}

	if limit == nil || *limit <= 0 {
		parsedLimit = 100
	} else {
		parsedLimit = *limit
	}

	return false, int(parsedPage), int(parsedLimit)
}

func (a *App) calcMaxPage(count int64, showAll bool, limit int) int64 {
	if showAll {
		return 1
	} else {
		pageMax := count / int64(limit)
		if (count % int64(limit)) != 0 {
			pageMax++
		}
		return pageMax
	}
}
