package admin

import (
	"strconv"
	"time"

	handlershared "github.com/polaroid-next/internal/http/handlers/shared"
	"github.com/polaroid-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

const defaultTopSizesLimit = 10

// AdminStatsOverview 统计总览
func (h *Handler) AdminStatsOverview(c *gin.Context) {
	overview, err := h.StatsService.GetOverview()
	if err != nil {
		respondWithMappedError(c, err, statsErrorRules, response.CodeInternal, "error.stats_fetch_failed")
		return
	}
	response.Success(c, overview)
}

// AdminStatsByStatus 按履约状态计数
func (h *Handler) AdminStatsByStatus(c *gin.Context) {
	counts, err := h.StatsService.GetOrdersByStatus()
	if err != nil {
		respondWithMappedError(c, err, statsErrorRules, response.CodeInternal, "error.stats_fetch_failed")
		return
	}
	response.Success(c, counts)
}

// AdminStatsByState 按州计数
func (h *Handler) AdminStatsByState(c *gin.Context) {
	counts, err := h.StatsService.GetOrdersByState()
	if err != nil {
		respondWithMappedError(c, err, statsErrorRules, response.CodeInternal, "error.stats_fetch_failed")
		return
	}
	response.Success(c, counts)
}

// AdminStatsTopSizes 畅销尺寸
func (h *Handler) AdminStatsTopSizes(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultTopSizesLimit)))
	if err != nil || limit <= 0 {
		limit = defaultTopSizesLimit
	}
	items, err := h.StatsService.GetTopSellingSizes(limit)
	if err != nil {
		respondWithMappedError(c, err, statsErrorRules, response.CodeInternal, "error.stats_fetch_failed")
		return
	}
	response.Success(c, items)
}

// AdminStatsDailySales 每日销售
func (h *Handler) AdminStatsDailySales(c *gin.Context) {
	from, to, ok := h.parseStatsRange(c)
	if !ok {
		return
	}
	items, err := h.StatsService.GetDailySales(from, to)
	if err != nil {
		respondWithMappedError(c, err, statsErrorRules, response.CodeInternal, "error.stats_fetch_failed")
		return
	}
	response.Success(c, items)
}

// AdminStatsPaymentCosts 支付手续费
func (h *Handler) AdminStatsPaymentCosts(c *gin.Context) {
	from, to, ok := h.parseStatsRange(c)
	if !ok {
		return
	}
	costs, err := h.StatsService.GetPaymentCosts(from, to)
	if err != nil {
		respondWithMappedError(c, err, statsErrorRules, response.CodeInternal, "error.stats_fetch_failed")
		return
	}
	response.Success(c, costs)
}

// parseStatsRange 读取 from/to，缺省使用最近 30 天；日期格式的 to 包含当天
func (h *Handler) parseStatsRange(c *gin.Context) (time.Time, time.Time, bool) {
	defaultFrom, defaultTo := h.StatsService.DefaultStatsRange()

	from, err := handlershared.ParseDateQuery(c.Query("from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.date_range_invalid", nil)
		return time.Time{}, time.Time{}, false
	}
	to, err := handlershared.ParseDateQuery(c.Query("to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.date_range_invalid", nil)
		return time.Time{}, time.Time{}, false
	}

	rangeFrom, rangeTo := defaultFrom, defaultTo
	if from != nil {
		rangeFrom = *from
	}
	if to != nil {
		rangeTo = *to
		if isDateOnly(c.Query("to")) {
			rangeTo = rangeTo.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
	}
	return rangeFrom, rangeTo, true
}
