package admin

import (
	"strings"

	"github.com/polaroid-next/internal/http/response"
	"github.com/polaroid-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PrintSizeRequest 创建/更新尺寸请求
type PrintSizeRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Price       string  `json:"price"`
	Description string  `json:"description"`
	IsActive    *bool   `json:"is_active"`
	SortOrder   int     `json:"sort_order"`
}

func (r PrintSizeRequest) toServiceInput() service.PrintSizeInput {
	return service.PrintSizeInput{
		ID:          r.ID,
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Width:       r.Width,
		Height:      r.Height,
		Price:       r.Price,
		Description: r.Description,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}
}

// AdminListPrintSizes 全部尺寸（含停用）
func (h *Handler) AdminListPrintSizes(c *gin.Context) {
	sizes, err := h.PrintSizeService.ListAll()
	if err != nil {
		respondError(c, response.CodeInternal, "error.print_size_fetch_failed", err)
		return
	}
	response.Success(c, sizes)
}

// AdminGetPrintSize 尺寸详情
func (h *Handler) AdminGetPrintSize(c *gin.Context) {
	size, err := h.PrintSizeService.GetByID(strings.TrimSpace(c.Param("id")))
	if err != nil {
		respondWithMappedError(c, err, printSizeErrorRules, response.CodeInternal, "error.print_size_fetch_failed")
		return
	}
	response.Success(c, size)
}

// AdminCreatePrintSize 新增尺寸
func (h *Handler) AdminCreatePrintSize(c *gin.Context) {
	var req PrintSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.print_size_invalid", nil)
		return
	}
	size, err := h.PrintSizeService.Create(c.Request.Context(), req.toServiceInput())
	if err != nil {
		respondWithMappedError(c, err, printSizeErrorRules, response.CodeInternal, "error.print_size_save_failed")
		return
	}
	requestLog(c).Infow("admin_print_size_created", "print_size_id", size.ID, "operator", currentCaller(c))
	response.Success(c, size)
}

// AdminUpdatePrintSize 更新尺寸（ID 不可修改）
func (h *Handler) AdminUpdatePrintSize(c *gin.Context) {
	var req PrintSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.print_size_invalid", nil)
		return
	}
	size, err := h.PrintSizeService.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req.toServiceInput())
	if err != nil {
		respondWithMappedError(c, err, printSizeErrorRules, response.CodeInternal, "error.print_size_save_failed")
		return
	}
	response.Success(c, size)
}

// AdminDeletePrintSize 删除尺寸
func (h *Handler) AdminDeletePrintSize(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := h.PrintSizeService.Delete(c.Request.Context(), id); err != nil {
		respondWithMappedError(c, err, printSizeErrorRules, response.CodeInternal, "error.print_size_save_failed")
		return
	}
	requestLog(c).Infow("admin_print_size_deleted", "print_size_id", id, "operator", currentCaller(c))
	response.Success(c, gin.H{"deleted": true})
}
