package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/models"

	"gorm.io/gorm"
)

func TestOrderRepositoryCreateLoadsItemsAndHistory(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewOrderRepository(db)

	order := &models.Order{
		OrderNo:       "PG12345678ABCD",
		CustomerName:  "Aina",
		CustomerEmail: "aina@example.com",
		CustomerState: constants.DefaultCustomerState,
		Subtotal:      money("20.00"),
		Total:         money("20.00"),
		Status:        constants.OrderStatusPending,
		PaymentStatus: constants.PaymentStatusPending,
	}
	items := []models.OrderItem{{
		PrintSizeID: "A4",
		SizeName:    "A4 Print",
		UnitPrice:   money("10.00"),
		Quantity:    2,
		TotalPrice:  money("20.00"),
		Images:      models.StringArray{"img-1"},
	}}
	history := &models.OrderStatusHistory{
		Status:    constants.OrderStatusPending,
		Message:   constants.HistoryMessageOrderCreated,
		CreatedBy: constants.CallerSystem,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		return repo.WithTx(tx).Create(order, items, history)
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	loaded, err := repo.GetByOrderNo("PG12345678ABCD")
	if err != nil || loaded == nil {
		t.Fatalf("get by order no failed: %v", err)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].Images[0] != "img-1" {
		t.Fatalf("unexpected items: %+v", loaded.Items)
	}
	if len(loaded.History) != 1 || loaded.History[0].Message != constants.HistoryMessageOrderCreated {
		t.Fatalf("unexpected history: %+v", loaded.History)
	}
	if !loaded.Total.Equal(money("20.00").Decimal) {
		t.Fatalf("total want 20.00 got %s", loaded.Total.String())
	}

	missing, err := repo.GetByID(9999)
	if err != nil || missing != nil {
		t.Fatalf("missing order should return nil,nil got %v %v", missing, err)
	}
}

func TestOrderRepositoryDuplicateOrderNoIsTranslated(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	seedOrder(t, db, "PGDUP0000001AA", constants.OrderStatusPending, constants.PaymentStatusPending, "W", "5.00", time.Now())

	dup := &models.Order{
		OrderNo:       "PGDUP0000001AA",
		CustomerName:  "Dup",
		CustomerEmail: "dup@example.com",
		CustomerState: "W",
		Status:        constants.OrderStatusPending,
		PaymentStatus: constants.PaymentStatusPending,
	}
	err := repo.Create(dup, nil, nil)
	if !IsUniqueViolation(err) {
		t.Fatalf("duplicate order no should be a unique violation, got %v", err)
	}
	if IsUniqueViolation(errors.New("connection refused")) {
		t.Fatalf("plain error must not be treated as unique violation")
	}
}

func TestOrderRepositoryMarkPaidIsConditional(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	order := seedOrder(t, db, "PGPAY0000001AA", constants.OrderStatusPending, constants.PaymentStatusPending, "W", "12.00", time.Now())

	firstPaidAt := time.Now().Add(-time.Minute).Truncate(time.Second)
	applied, err := repo.MarkPaid(order.ID, firstPaidAt)
	if err != nil || !applied {
		t.Fatalf("first mark paid should apply, applied=%v err=%v", applied, err)
	}
	applied, err = repo.MarkPaid(order.ID, time.Now())
	if err != nil {
		t.Fatalf("second mark paid failed: %v", err)
	}
	if applied {
		t.Fatalf("second mark paid should be a no-op")
	}

	loaded, _ := repo.GetByID(order.ID)
	if loaded.PaidAt == nil || !loaded.PaidAt.Equal(firstPaidAt) {
		t.Fatalf("paid_at should keep first value %v, got %v", firstPaidAt, loaded.PaidAt)
	}

	applied, err = repo.UpdatePaymentStatusFrom(order.ID, constants.PaymentStatusPending, constants.PaymentStatusFailed)
	if err != nil || applied {
		t.Fatalf("paid order must not move to failed, applied=%v err=%v", applied, err)
	}
}

func TestOrderRepositoryUpdateFulfillmentKeepsPaymentColumns(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	order := seedOrder(t, db, "PGFUL0000001AA", constants.OrderStatusPending, constants.PaymentStatusPaid, "W", "8.00", time.Now())

	if err := repo.UpdateFulfillment(order.ID, constants.OrderStatusPosted, map[string]interface{}{
		"shipped_at": time.Now(),
	}); err != nil {
		t.Fatalf("update fulfillment failed: %v", err)
	}
	loaded, _ := repo.GetByID(order.ID)
	if loaded.Status != constants.OrderStatusPosted || loaded.ShippedAt == nil {
		t.Fatalf("unexpected fulfillment state: %s %v", loaded.Status, loaded.ShippedAt)
	}
	if loaded.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("payment status should be untouched, got %s", loaded.PaymentStatus)
	}
}

func TestOrderRepositoryListAdminFilters(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	now := time.Now()
	seedOrder(t, db, "PGLST0000001AA", constants.OrderStatusPending, constants.PaymentStatusPaid, "W", "8.00", now)
	seedOrder(t, db, "PGLST0000002AA", constants.OrderStatusPosted, constants.PaymentStatusPaid, "J", "9.00", now)
	seedOrder(t, db, "PGLST0000003AA", constants.OrderStatusPosted, constants.PaymentStatusPending, "J", "10.00", now.Add(-48*time.Hour))

	orders, total, err := repo.ListAdmin(OrderListFilter{
		Page:          1,
		PageSize:      10,
		Status:        constants.OrderStatusPosted,
		PaymentStatus: constants.PaymentStatusPaid,
	})
	if err != nil {
		t.Fatalf("list admin failed: %v", err)
	}
	if total != 1 || len(orders) != 1 || orders[0].OrderNo != "PGLST0000002AA" {
		t.Fatalf("unexpected filter result total=%d orders=%+v", total, orders)
	}

	from := now.Add(-time.Hour)
	_, total, err = repo.ListAdmin(OrderListFilter{CustomerState: "J", CreatedFrom: &from})
	if err != nil {
		t.Fatalf("list admin by state failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("state+date filter total want 1 got %d", total)
	}
}
