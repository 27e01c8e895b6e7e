package queue

import (
	"errors"
	"strconv"
	"time"

	"github.com/polaroid-next/internal/config"
	"github.com/polaroid-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	statusNotifyMaxRetry    = 5
	paymentReceivedDedupTTL = 24 * time.Hour
)

// Client 任务投递端；队列未启用时 asynq 客户端为空，投递为空操作
type Client struct {
	asynq *asynq.Client
}

func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{asynq: asynq.NewClient(redisOpt(cfg))}, nil
}

func (c *Client) Enabled() bool {
	return c != nil && c.asynq != nil
}

func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.asynq.Close()
}

// EnqueueOrderStatusNotify 投递到 default 队列，失败最多重试 5 次
func (c *Client) EnqueueOrderStatusNotify(payload OrderStatusNotifyPayload, opts ...asynq.Option) error {
	task, err := NewOrderStatusNotifyTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, []asynq.Option{
		asynq.Queue(constants.QueueDefault),
		asynq.MaxRetry(statusNotifyMaxRetry),
	}, opts)
}

// EnqueueOrderPaymentReceived 投递到 critical 队列；TaskID 按订单去重，重复回调不会重复通知
func (c *Client) EnqueueOrderPaymentReceived(payload OrderPaymentReceivedPayload, opts ...asynq.Option) error {
	task, err := NewOrderPaymentReceivedTask(payload)
	if err != nil {
		return err
	}
	err = c.enqueue(task, []asynq.Option{
		asynq.Queue(constants.QueueCritical),
		asynq.TaskID(TaskOrderPaymentReceived + ":" + strconv.FormatUint(uint64(payload.OrderID), 10)),
		asynq.Retention(paymentReceivedDedupTTL),
	}, opts)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func (c *Client) enqueue(task *asynq.Task, defaults, extra []asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	_, err := c.asynq.Enqueue(task, append(defaults, extra...)...)
	return err
}
