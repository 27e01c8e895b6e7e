package public

import (
	"strings"

	"github.com/polaroid-next/internal/http/response"
	"github.com/polaroid-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListPrintSizes 启用中的尺寸目录
func (h *Handler) ListPrintSizes(c *gin.Context) {
	sizes, err := h.PrintSizeService.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.print_size_fetch_failed", err)
		return
	}
	response.Success(c, sizes)
}

// GetPrintSize 尺寸详情（停用尺寸对前台不可见）
func (h *Handler) GetPrintSize(c *gin.Context) {
	size, err := h.PrintSizeService.GetByID(strings.TrimSpace(c.Param("id")))
	if err == nil && !size.IsActive {
		err = service.ErrPrintSizeNotFound
	}
	if err != nil {
		respondWithMappedError(c, err, printSizeQueryErrorRules, response.CodeInternal, "error.print_size_fetch_failed")
		return
	}
	response.Success(c, size)
}
