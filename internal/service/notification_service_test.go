package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/polaroid-next/internal/config"
	"github.com/polaroid-next/internal/constants"
	"github.com/polaroid-next/internal/i18n"
	"github.com/polaroid-next/internal/queue"
)

type recordingNotifier struct {
	sent []OrderNotification
	err  error
}

func (n *recordingNotifier) Name() string { return "recording" }

func (n *recordingNotifier) Notify(_ context.Context, notification OrderNotification) error {
	n.sent = append(n.sent, notification)
	return n.err
}

func TestNotificationServiceBuildsFromLatestHistory(t *testing.T) {
	env := setupServiceTest(t)
	order := placeTestOrder(t, env)
	if _, err := env.orderSvc.UpdateOrderStatus(UpdateOrderStatusInput{OrderID: order.ID, Status: constants.OrderStatusPosted, Message: "Sent today", Caller: "packer"}); err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if _, err := env.orderSvc.UpdateTrackingNumber(order.ID, "EP1"); err != nil {
		t.Fatalf("update tracking failed: %v", err)
	}

	recorder := &recordingNotifier{}
	svc := NewNotificationService(env.orderRepo, recorder)
	if err := svc.NotifyOrderStatus(t.Context(), queue.OrderStatusNotifyPayload{OrderID: order.ID, Status: constants.OrderStatusPosted, Caller: "packer"}); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if len(recorder.sent) != 1 {
		t.Fatalf("want 1 notification got %d", len(recorder.sent))
	}
	got := recorder.sent[0]
	if got.Event != constants.NotificationEventStatusChanged || got.OrderNo != order.OrderNo || got.Message != "Sent today" || got.TrackingNumber != "EP1" || got.Caller != "packer" {
		t.Fatalf("unexpected notification: %+v", got)
	}

	if err := svc.NotifyPaymentReceived(t.Context(), queue.OrderPaymentReceivedPayload{OrderID: order.ID}); err != nil {
		t.Fatalf("notify payment failed: %v", err)
	}
	if recorder.sent[1].Event != constants.NotificationEventPaymentReceived || recorder.sent[1].Caller != constants.CallerGateway {
		t.Fatalf("unexpected payment notification: %+v", recorder.sent[1])
	}
}

func TestNotificationServiceUsesMessageOfNotifiedStatus(t *testing.T) {
	env := setupServiceTest(t)
	order := placeBilledTestOrder(t, env, "bill-notify")
	for _, step := range []UpdateOrderStatusInput{
		{OrderID: order.ID, Status: constants.OrderStatusPosted, Message: "Sent today", Caller: "packer"},
		{OrderID: order.ID, Status: constants.OrderStatusDelivered, Message: "Arrived", Caller: "courier"},
	} {
		if _, err := env.orderSvc.UpdateOrderStatus(step); err != nil {
			t.Fatalf("update status %s failed: %v", step.Status, err)
		}
	}
	if _, err := env.paymentSvc.HandleGatewayCallback(t.Context(), GatewayCallbackInput{Reference: "bill-notify", StatusCode: "1"}); err != nil {
		t.Fatalf("paid callback failed: %v", err)
	}

	recorder := &recordingNotifier{}
	svc := NewNotificationService(env.orderRepo, recorder)
	cases := []struct {
		status string
		want   string
	}{
		// 延迟执行的 POSTED 任务仍取 POSTED 的记录
		{status: constants.OrderStatusPosted, want: "Sent today"},
		{status: constants.OrderStatusDelivered, want: "Arrived"},
		{status: "", want: "Arrived"},
		{status: constants.OrderStatusCancelled, want: "Arrived"},
	}
	for _, tc := range cases {
		if err := svc.NotifyOrderStatus(t.Context(), queue.OrderStatusNotifyPayload{OrderID: order.ID, Status: tc.status}); err != nil {
			t.Fatalf("notify %q failed: %v", tc.status, err)
		}
		got := recorder.sent[len(recorder.sent)-1]
		if got.Message != tc.want {
			t.Fatalf("status %q: want message %q got %q", tc.status, tc.want, got.Message)
		}
		if got.Status != constants.OrderStatusDelivered || got.PaymentStatus != constants.PaymentStatusPaid {
			t.Fatalf("notification should carry current columns: %+v", got)
		}
	}
}

func TestNotificationServiceErrors(t *testing.T) {
	env := setupServiceTest(t)
	order := placeTestOrder(t, env)

	svc := NewNotificationService(env.orderRepo)
	if err := svc.NotifyOrderStatus(t.Context(), queue.OrderStatusNotifyPayload{}); !errors.Is(err, ErrNotificationPayload) {
		t.Fatalf("want ErrNotificationPayload got %v", err)
	}
	if err := svc.NotifyOrderStatus(t.Context(), queue.OrderStatusNotifyPayload{OrderID: 9999}); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}
	if err := svc.NotifyOrderStatus(t.Context(), queue.OrderStatusNotifyPayload{OrderID: order.ID}); err != nil {
		t.Fatalf("log notifier should not fail: %v", err)
	}

	failing := &recordingNotifier{err: errors.New("smtp down")}
	withFailure := NewNotificationService(env.orderRepo, LogNotifier{}, failing)
	if err := withFailure.NotifyOrderStatus(t.Context(), queue.OrderStatusNotifyPayload{OrderID: order.ID}); err == nil {
		t.Fatalf("channel failure should be returned for retry")
	}
}

func TestBuildOrderNotificationContent(t *testing.T) {
	n := OrderNotification{
		Event:          constants.NotificationEventStatusChanged,
		OrderNo:        "PG12345678ABCD",
		CustomerName:   "Aisyah",
		CustomerEmail:  "aisyah@example.com",
		Status:         constants.OrderStatusOnDelivery,
		Message:        "Out for delivery",
		TrackingNumber: "EP1",
	}
	subject, body := buildOrderNotificationContent(n, i18n.LocaleEnUS)
	if subject != "Order PG12345678ABCD: out for delivery" {
		t.Fatalf("unexpected subject: %s", subject)
	}
	for _, part := range []string{"Hi Aisyah", "Tracking number: EP1", "Order total: 0.00"} {
		if !strings.Contains(body, part) {
			t.Fatalf("body missing %q: %s", part, body)
		}
	}

	if NewEmailNotifier(config.EmailConfig{}, "") != nil {
		t.Fatalf("disabled email config should not create a notifier")
	}
}
