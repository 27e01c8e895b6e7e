package service

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/polaroid-next/internal/config"
	"github.com/polaroid-next/internal/models"
	"github.com/polaroid-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db            *gorm.DB
	orderRepo     *repository.GormOrderRepository
	printSizeRepo *repository.GormPrintSizeRepository
	userRepo      *repository.GormUserRepository
	orderSvc      *OrderService
	paymentSvc    *PaymentService
}

func setupServiceTest(t *testing.T) *serviceTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%s_%d?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	return newServiceTestEnv(t, db)
}

// setupFileServiceTest 文件库 + 单连接池（与 sqlite 默认配置一致），用于并发用例
func setupFileServiceTest(t *testing.T) *serviceTestEnv {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "orders.db") + "?_pragma=busy_timeout(5000)"
	db, err := models.OpenDB("sqlite", dsn, models.DBPoolConfig{MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open sqlite file failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return newServiceTestEnv(t, db)
}

func newServiceTestEnv(t *testing.T, db *gorm.DB) *serviceTestEnv {
	t.Helper()
	if err := db.AutoMigrate(models.Tables()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	env := &serviceTestEnv{
		db:            db,
		orderRepo:     repository.NewOrderRepository(db),
		printSizeRepo: repository.NewPrintSizeRepository(db),
		userRepo:      repository.NewUserRepository(db),
	}
	env.orderSvc = NewOrderService(env.orderRepo, env.printSizeRepo, env.userRepo, nil, config.OrderConfig{
		OrderNoMaxAttempts:   3,
		DefaultCustomerState: "W",
	})
	env.paymentSvc = NewPaymentService(env.orderRepo, nil, config.PaymentConfig{
		Gateway:       "toyyibpay",
		FeePercentage: 2.5,
	})

	seedTestPrintSize(t, db, "3R", "Classic 3R", "1.00", true)
	seedTestPrintSize(t, db, "4R", "Standard 4R", "1.50", true)
	seedTestPrintSize(t, db, "A3", "A3 Poster", "25.00", false)
	return env
}

func seedTestPrintSize(t *testing.T, db *gorm.DB, id, displayName, price string, active bool) {
	t.Helper()
	size := models.PrintSize{
		ID:          id,
		Name:        strings.ToLower(id),
		DisplayName: displayName,
		Price:       models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		IsActive:    active,
	}
	if err := db.Create(&size).Error; err != nil {
		t.Fatalf("seed print size %s failed: %v", id, err)
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string, affiliateCode string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         role,
		IsActive:     true,
	}
	if affiliateCode != "" {
		code := affiliateCode
		user.AffiliateCode = &code
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func placeTestOrder(t *testing.T, env *serviceTestEnv) *models.Order {
	t.Helper()
	order, err := env.orderSvc.CreateOrder(CreateOrderInput{
		CustomerName:  "Aisyah",
		CustomerEmail: "aisyah@example.com",
		CustomerState: "J",
		Items: []CreateOrderItem{
			{PrintSizeID: "4R", Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func reloadTestOrder(t *testing.T, env *serviceTestEnv, id uint) *models.Order {
	t.Helper()
	order, err := env.orderRepo.GetByID(id)
	if err != nil || order == nil {
		t.Fatalf("reload order %d failed: %v", id, err)
	}
	return order
}

func countHistory(t *testing.T, db *gorm.DB, orderID uint) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.OrderStatusHistory{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		t.Fatalf("count history failed: %v", err)
	}
	return count
}

func markTestOrderPaymentStatus(t *testing.T, db *gorm.DB, orderID uint, status string) {
	t.Helper()
	if err := db.Model(&models.Order{}).Where("id = ?", orderID).Update("payment_status", status).Error; err != nil {
		t.Fatalf("set payment status failed: %v", err)
	}
}
