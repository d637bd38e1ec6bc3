package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/giftcert-next/internal/logger"
	"github.com/giftcert-next/internal/provider"
	"github.com/giftcert-next/internal/queue"
	"github.com/giftcert-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderNotifyEmail, c.handleOrderNotifyEmail)
}

func (c *Consumer) handleOrderNotifyEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_notify_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderNotifyEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_notify_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_notify_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_notify_email_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_notify_email_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}

	certificateName := ""
	certificate, err := c.CertificateRepo.GetByID(order.GiftCertificateID)
	if err != nil {
		logger.Warnw("worker_order_notify_email_fetch_certificate_failed", "order_id", order.ID, "certificate_id", order.GiftCertificateID, "error", err)
		return err
	}
	if certificate != nil {
		certificateName = certificate.Name
	}

	receiverEmail := ""
	if c.Config != nil {
		receiverEmail = strings.TrimSpace(c.Config.Email.NotifyTo)
	}
	if receiverEmail == "" {
		logger.Debugw("worker_order_notify_email_skip_empty_receiver", "order_id", order.ID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_order_notify_email_skip_email_service_nil", "order_id", order.ID)
		return nil
	}

	err = c.EmailService.SendOrderNotifyEmail(receiverEmail, service.OrderNotifyEmailInput{
		OrderID:           order.ID,
		UserID:            order.UserID,
		CertificateName:   certificateName,
		Cost:              order.Cost,
		PurchaseTimestamp: order.PurchaseTimestamp,
	})
	if err != nil {
		logger.Warnw("worker_order_notify_email_send_failed", "order_id", order.ID, "error", err)
		return err
	}

	logger.Infow("worker_order_notify_email_sent", "order_id", order.ID)
	return nil
}
