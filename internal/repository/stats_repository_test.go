package repository

import (
	"testing"
	"time"

	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/models"
)

func TestStatsRepositoryGroupedCountsAndRevenue(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewStatsRepository(db)
	now := time.Now()

	seedOrder(t, db, "PGSTA0000001AA", constants.OrderStatusPending, constants.PaymentStatusPaid, "W", "10.00", now)
	seedOrder(t, db, "PGSTA0000002AA", constants.OrderStatusPending, constants.PaymentStatusPending, "W", "5.00", now)
	seedOrder(t, db, "PGSTA0000003AA", constants.OrderStatusDelivered, constants.PaymentStatusPaid, "J", "7.50", now)
	seedOrder(t, db, "PGSTA0000004AA", constants.OrderStatusDelivered, constants.PaymentStatusPaid, "J", "100.00", now.AddDate(0, 0, -40))

	total, err := repo.CountOrders()
	if err != nil || total != 4 {
		t.Fatalf("count orders want 4 got %d err=%v", total, err)
	}

	byStatus, err := repo.CountByStatus()
	if err != nil {
		t.Fatalf("count by status failed: %v", err)
	}
	statusMap := groupRowsToMap(byStatus)
	if len(statusMap) != 2 || statusMap[constants.OrderStatusPending] != 2 || statusMap[constants.OrderStatusDelivered] != 2 {
		t.Fatalf("unexpected status map: %+v", statusMap)
	}

	byState, err := repo.CountByCustomerState()
	if err != nil {
		t.Fatalf("count by state failed: %v", err)
	}
	if stateMap := groupRowsToMap(byState); stateMap["W"] != 2 || stateMap["J"] != 2 {
		t.Fatalf("unexpected state map: %+v", stateMap)
	}

	revenue, err := repo.SumPaidRevenue(now.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("sum revenue failed: %v", err)
	}
	if revenue.String() != "17.50" {
		t.Fatalf("revenue want 17.50 got %s", revenue.String())
	}
}

func TestStatsRepositoryRevenueIsZeroWithoutRows(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewStatsRepository(db)

	revenue, err := repo.SumPaidRevenue(time.Now().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("sum revenue failed: %v", err)
	}
	if !revenue.IsZero() {
		t.Fatalf("revenue should be zero, got %s", revenue.String())
	}
	totals, err := repo.PaidTotals(time.Now().AddDate(0, 0, -1), time.Now())
	if err != nil {
		t.Fatalf("paid totals failed: %v", err)
	}
	if totals.Transactions != 0 || !totals.Amount.IsZero() {
		t.Fatalf("paid totals should be empty, got %+v", totals)
	}
}

func TestStatsRepositoryTopSellingSizesAndDailySales(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewStatsRepository(db)
	now := time.Now()

	first := seedOrder(t, db, "PGTOP0000001AA", constants.OrderStatusPending, constants.PaymentStatusPaid, "W", "30.00", now)
	second := seedOrder(t, db, "PGTOP0000002AA", constants.OrderStatusPending, constants.PaymentStatusPending, "W", "12.00", now)
	items := []models.OrderItem{
		{OrderID: first.ID, PrintSizeID: "A4", SizeName: "A4 Print", UnitPrice: money("10.00"), Quantity: 3, TotalPrice: money("30.00")},
		{OrderID: second.ID, PrintSizeID: "4R", SizeName: "4R Print", UnitPrice: money("2.00"), Quantity: 6, TotalPrice: money("12.00")},
		{OrderID: second.ID, PrintSizeID: "A4", SizeName: "A4 Print", UnitPrice: money("10.00"), Quantity: 1, TotalPrice: money("10.00")},
	}
	if err := db.Create(&items).Error; err != nil {
		t.Fatalf("create items failed: %v", err)
	}

	top, err := repo.TopSellingSizes(5)
	if err != nil {
		t.Fatalf("top sizes failed: %v", err)
	}
	if len(top) != 2 || top[0].PrintSizeID != "4R" || top[0].Quantity != 6 || top[1].Quantity != 4 {
		t.Fatalf("unexpected top sizes: %+v", top)
	}
	if top[1].Revenue.String() != "40.00" {
		t.Fatalf("A4 revenue want 40.00 got %s", top[1].Revenue.String())
	}

	daily, err := repo.DailySales(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("daily sales failed: %v", err)
	}
	if len(daily) != 1 || daily[0].Orders != 2 || daily[0].Revenue.String() != "42.00" {
		t.Fatalf("unexpected daily sales: %+v", daily)
	}
	if daily[0].Day != now.Format("2006-01-02") {
		t.Fatalf("day want %s got %s", now.Format("2006-01-02"), daily[0].Day)
	}

	paid, err := repo.PaidTotals(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("paid totals failed: %v", err)
	}
	if paid.Transactions != 1 || paid.Amount.String() != "30.00" {
		t.Fatalf("unexpected paid totals: %+v", paid)
	}
}
