package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/polaroid-next/internal/config"
	"github.com/polaroid-next/internal/queue"
	"github.com/polaroid-next/internal/service"

	"github.com/hibiken/asynq"
)

type stubNotifier struct {
	statusCalls  []queue.OrderStatusNotifyPayload
	paymentCalls []queue.OrderPaymentReceivedPayload
	err          error
}

func (s *stubNotifier) NotifyOrderStatus(_ context.Context, payload queue.OrderStatusNotifyPayload) error {
	s.statusCalls = append(s.statusCalls, payload)
	return s.err
}

func (s *stubNotifier) NotifyPaymentReceived(_ context.Context, payload queue.OrderPaymentReceivedPayload) error {
	s.paymentCalls = append(s.paymentCalls, payload)
	return s.err
}

func TestHandleOrderStatusNotifyDispatchesPayload(t *testing.T) {
	notifier := &stubNotifier{}
	consumer := &Consumer{notifier: notifier}
	task, err := queue.NewOrderStatusNotifyTask(queue.OrderStatusNotifyPayload{OrderID: 9, Status: "POSTED", Caller: "packer@example.com"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderStatusNotify(t.Context(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}
	if len(notifier.statusCalls) != 1 || notifier.statusCalls[0].OrderID != 9 || notifier.statusCalls[0].Status != "POSTED" {
		t.Fatalf("unexpected notifier calls: %+v", notifier.statusCalls)
	}
}

func TestHandleOrderPaymentReceivedSkipsRetryForMissingOrder(t *testing.T) {
	notifier := &stubNotifier{err: service.ErrOrderNotFound}
	consumer := &Consumer{notifier: notifier}
	task, err := queue.NewOrderPaymentReceivedTask(queue.OrderPaymentReceivedPayload{OrderID: 3, OrderNo: "PG1", Amount: "3.00"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	err = consumer.handleOrderPaymentReceived(t.Context(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected skip retry, got %v", err)
	}
	if len(notifier.paymentCalls) != 1 {
		t.Fatalf("expected one notifier call, got %d", len(notifier.paymentCalls))
	}
}

func TestHandleOrderStatusNotifyRetriesOnDispatchFailure(t *testing.T) {
	dispatchErr := errors.New("smtp down")
	consumer := &Consumer{notifier: &stubNotifier{err: dispatchErr}}
	body, _ := json.Marshal(queue.OrderStatusNotifyPayload{OrderID: 4})
	err := consumer.handleOrderStatusNotify(t.Context(), asynq.NewTask(queue.TaskOrderStatusNotify, body))
	if !errors.Is(err, dispatchErr) {
		t.Fatalf("expected dispatch error, got %v", err)
	}
	if errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("dispatch failure should be retried")
	}
}

func TestHandleOrderStatusNotifyRejectsMalformedPayload(t *testing.T) {
	notifier := &stubNotifier{}
	consumer := &Consumer{notifier: notifier}
	err := consumer.handleOrderStatusNotify(t.Context(), asynq.NewTask(queue.TaskOrderStatusNotify, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected skip retry for malformed payload, got %v", err)
	}
	if len(notifier.statusCalls) != 0 {
		t.Fatalf("notifier should not be called")
	}
}

func TestHandlerWithoutNotifierIsNoop(t *testing.T) {
	consumer := NewConsumer(nil)
	task, err := queue.NewOrderPaymentReceivedTask(queue.OrderPaymentReceivedPayload{OrderID: 1})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderPaymentReceived(t.Context(), task); err != nil {
		t.Fatalf("expected noop, got %v", err)
	}
}

func TestResolveNotifyErrorSkipsUndeliverableEmail(t *testing.T) {
	rejected := errors.Join(service.ErrEmailRecipientRejected, errors.New("550 no such user"))
	consumer := &Consumer{notifier: &stubNotifier{err: rejected}}
	body, _ := json.Marshal(queue.OrderStatusNotifyPayload{OrderID: 5})
	err := consumer.handleOrderStatusNotify(t.Context(), asynq.NewTask(queue.TaskOrderStatusNotify, body))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("rejected recipient should not be retried, got %v", err)
	}
}

func TestNewServiceRejectsDisabledQueue(t *testing.T) {
	if _, err := NewService(nil, &Consumer{}); !errors.Is(err, errQueueDisabled) {
		t.Fatalf("expected errQueueDisabled, got %v", err)
	}
	if _, err := NewService(&config.QueueConfig{Enabled: true}, nil); !errors.Is(err, errNilConsumer) {
		t.Fatalf("expected errNilConsumer, got %v", err)
	}
	var svc *Service
	if err := svc.Start(context.Background()); !errors.Is(err, errNotInitialized) {
		t.Fatalf("expected errNotInitialized, got %v", err)
	}
	if err := svc.Stop(context.Background()); err != nil {
		t.Fatalf("stop on nil service: %v", err)
	}
}
