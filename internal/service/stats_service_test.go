package service

import (
	"errors"
	"testing"
	"time"

	"github.com/polaroid-next/internal/config"
	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/repository"
)

func TestStatsOverviewScenario(t *testing.T) {
	env := setupServiceTest(t)
	stats := NewStatsService(repository.NewStatsRepository(env.db), config.StatsConfig{}, config.PaymentConfig{})

	paid := placeBilledTestOrder(t, env, "bill-stats-1")
	placeTestOrder(t, env)
	if _, err := env.paymentSvc.HandleGatewayCallback(t.Context(), GatewayCallbackInput{Reference: "bill-stats-1", StatusCode: "1"}); err != nil {
		t.Fatalf("callback failed: %v", err)
	}
	if _, err := env.orderSvc.UpdateOrderStatus(UpdateOrderStatusInput{OrderID: paid.ID, Status: constants.OrderStatusPosted, Caller: "packer"}); err != nil {
		t.Fatalf("update status failed: %v", err)
	}

	overview, err := stats.GetOverview()
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if overview.TotalOrders != 2 || overview.RevenueWindowDays != 30 {
		t.Fatalf("unexpected overview: %+v", overview)
	}
	if len(overview.ByStatus) != 7 || overview.ByStatus[constants.OrderStatusPosted] != 1 || overview.ByStatus[constants.OrderStatusPending] != 1 || overview.ByStatus[constants.OrderStatusRefunded] != 0 {
		t.Fatalf("unexpected status counts: %+v", overview.ByStatus)
	}
	if len(overview.ByPaymentStatus) != 3 || overview.ByPaymentStatus[constants.PaymentStatusPaid] != 1 || overview.ByPaymentStatus[constants.PaymentStatusFailed] != 0 {
		t.Fatalf("unexpected payment counts: %+v", overview.ByPaymentStatus)
	}
	if overview.Revenue.String() != "3.00" {
		t.Fatalf("revenue want 3.00 got %s", overview.Revenue)
	}

	byStatus, err := stats.GetOrdersByStatus()
	if err != nil {
		t.Fatalf("by status failed: %v", err)
	}
	if len(byStatus) != 2 {
		t.Fatalf("only present statuses expected: %+v", byStatus)
	}
	byState, err := stats.GetOrdersByState()
	if err != nil || byState["J"] != 2 {
		t.Fatalf("unexpected state counts: %+v err=%v", byState, err)
	}

	top, err := stats.GetTopSellingSizes(0)
	if err != nil {
		t.Fatalf("top sizes failed: %v", err)
	}
	if len(top) != 1 || top[0].PrintSizeID != "4R" || top[0].Quantity != 4 || top[0].Revenue.String() != "6.00" {
		t.Fatalf("unexpected top sizes: %+v", top)
	}
}

func TestStatsOverviewEmpty(t *testing.T) {
	env := setupServiceTest(t)
	stats := NewStatsService(repository.NewStatsRepository(env.db), config.StatsConfig{RevenueWindowDays: 7}, config.PaymentConfig{})

	overview, err := stats.GetOverview()
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if overview.TotalOrders != 0 || !overview.Revenue.IsZero() || overview.RevenueWindowDays != 7 {
		t.Fatalf("unexpected empty overview: %+v", overview)
	}
	for status, count := range overview.ByStatus {
		if count != 0 {
			t.Fatalf("status %s should be zero", status)
		}
	}
}

func TestStatsPaymentCosts(t *testing.T) {
	env := setupServiceTest(t)
	stats := NewStatsService(repository.NewStatsRepository(env.db), config.StatsConfig{}, config.PaymentConfig{FeePercentage: 2.5})

	for _, ref := range []string{"bill-fee-1", "bill-fee-2"} {
		placeBilledTestOrder(t, env, ref)
		if _, err := env.paymentSvc.HandleGatewayCallback(t.Context(), GatewayCallbackInput{Reference: ref, StatusCode: "1"}); err != nil {
			t.Fatalf("callback failed: %v", err)
		}
	}
	placeTestOrder(t, env)

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)
	costs, err := stats.GetPaymentCosts(from, to)
	if err != nil {
		t.Fatalf("payment costs failed: %v", err)
	}
	if costs.TotalTransactions != 2 || costs.TotalAmount.String() != "6.00" {
		t.Fatalf("unexpected totals: %+v", costs)
	}
	if costs.TotalFee.String() != "0.15" || costs.NetAmount.String() != "5.85" || costs.Provider != "ToyyibPay" {
		t.Fatalf("unexpected fee math: fee=%s net=%s provider=%s", costs.TotalFee, costs.NetAmount, costs.Provider)
	}

	if _, err := stats.GetPaymentCosts(to, from); !errors.Is(err, ErrDateRangeInvalid) {
		t.Fatalf("want ErrDateRangeInvalid got %v", err)
	}
}

func TestStatsDailySales(t *testing.T) {
	env := setupServiceTest(t)
	stats := NewStatsService(repository.NewStatsRepository(env.db), config.StatsConfig{}, config.PaymentConfig{})
	placeTestOrder(t, env)
	placeTestOrder(t, env)

	from, to := stats.DefaultStatsRange()
	days, err := stats.GetDailySales(from, to.Add(time.Minute))
	if err != nil {
		t.Fatalf("daily sales failed: %v", err)
	}
	if len(days) != 1 || days[0].Orders != 2 || days[0].Revenue.String() != "6.00" {
		t.Fatalf("unexpected daily sales: %+v", days)
	}
	if _, err := stats.GetDailySales(time.Time{}, to); !errors.Is(err, ErrDateRangeInvalid) {
		t.Fatalf("want ErrDateRangeInvalid got %v", err)
	}
}
