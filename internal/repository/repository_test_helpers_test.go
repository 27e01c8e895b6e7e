package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.Tables()...); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	return db
}

func money(value string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(value))
}

func seedOrder(t *testing.T, db *gorm.DB, orderNo, status, paymentStatus, state, total string, createdAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:       orderNo,
		CustomerName:  "Tester",
		CustomerEmail: "tester@example.com",
		CustomerState: state,
		Subtotal:      money(total),
		Shipping:      models.ZeroMoney(),
		Total:         money(total),
		Status:        status,
		PaymentStatus: paymentStatus,
		PaymentMethod: constants.DefaultPaymentMethod,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	if paymentStatus == constants.PaymentStatusPaid {
		paidAt := createdAt
		order.PaidAt = &paidAt
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order %s failed: %v", orderNo, err)
	}
	return order
}
