package cache

import (
	"context"
	"time"

	"github.com/polaroid-next/internal/models"
)

const (
	activePrintSizesKey = "catalog:print_sizes:active"
	activePrintSizesTTL = 5 * time.Minute
)

// GetActivePrintSizes 上架尺寸列表缓存
func GetActivePrintSizes(ctx context.Context) ([]models.PrintSize, bool, error) {
	return getJSON[[]models.PrintSize](ctx, activePrintSizesKey)
}

func SetActivePrintSizes(ctx context.Context, sizes []models.PrintSize) error {
	return setJSON(ctx, activePrintSizesKey, sizes, activePrintSizesTTL)
}

// InvalidatePrintSizes 尺寸增删改后调用
func InvalidatePrintSizes(ctx context.Context) error {
	return del(ctx, activePrintSizesKey)
}
