package worker

import (
	"context"
	"errors"

	"github.com/polaroid-next/internal/config"
	"github.com/polaroid-next/internal/logger"
	"github.com/polaroid-next/internal/queue"

	"github.com/hibiken/asynq"
)

var (
	errQueueDisabled  = errors.New("queue disabled")
	errNilConsumer    = errors.New("consumer is nil")
	errNotInitialized = errors.New("worker not initialized")
)

// Service 通知队列消费服务，由 app.Runner 管理生命周期
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	queues map[string]int
}

func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	switch {
	case cfg == nil || !cfg.Enabled:
		return nil, errQueueDisabled
	case consumer == nil:
		return nil, errNilConsumer
	}
	redisOpt, serverCfg := queue.BuildServerConfig(cfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		server: asynq.NewServer(redisOpt, serverCfg),
		mux:    mux,
		queues: serverCfg.Queues,
	}, nil
}

func (s *Service) Name() string { return "worker" }

// Start 启动消费后阻塞到 ctx 结束，信号由 Runner 统一处理
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errNotInitialized
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	logger.Infow("worker_started", "queues", s.queues)
	<-ctx.Done()
	return nil
}

// Stop 等待进行中的任务结束，超过 ctx 期限后放弃等待
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.server.Shutdown()
	}()
	select {
	case <-done:
		logger.Infow("worker_stopped")
		return nil
	case <-ctx.Done():
		logger.Warnw("worker_shutdown_timeout", "error", ctx.Err())
		return ctx.Err()
	}
}
