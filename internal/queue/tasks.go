package queue

import (
	"encoding/json"

	"github.com/giftcert-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderNotifyEmail 下单邮件通知任务
	TaskOrderNotifyEmail = constants.TaskOrderNotifyEmail
)

// OrderNotifyEmailPayload 下单邮件通知任务载荷
type OrderNotifyEmailPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderNotifyEmailTask 创建下单邮件通知任务
func NewOrderNotifyEmailTask(payload OrderNotifyEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderNotifyEmail, body), nil
}
