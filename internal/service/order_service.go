package service

import (
	"github.com/giftcert-next/internal/constants"
	"github.com/giftcert-next/internal/logger"
	"github.com/giftcert-next/internal/models"
	"github.com/giftcert-next/internal/queue"
	"github.com/giftcert-next/internal/repository"

	"gorm.io/gorm"
)

// CreateOrderInput 下单入参
type CreateOrderInput struct {
	UserID            uint
	GiftCertificateID uint
}

// OrderService 订单业务服务
type OrderService struct {
	orderRepo repository.UserOrderRepository
	userRepo  repository.UserRepository
	certRepo  repository.CertificateRepository
	audit     *AuditService
	queue     *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.UserOrderRepository,
	userRepo repository.UserRepository,
	certRepo repository.CertificateRepository,
	audit *AuditService,
	queueClient *queue.Client,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		certRepo:  certRepo,
		audit:     audit,
		queue:     queueClient,
	}
}

// GetAll 分页获取全部订单
func (s *OrderService) GetAll(limit, offset int) ([]models.UserOrder, error) {
	if err := checkPagination(limit, offset); err != nil {
		return nil, err
	}
	return s.orderRepo.GetAll(limit, offset)
}

// GetAllByUser 分页获取指定用户的订单
func (s *OrderService) GetAllByUser(userID uint, limit, offset int) ([]models.UserOrder, error) {
	if err := checkPagination(limit, offset); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, mapRowConflict(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.orderRepo.GetAllByUser(userID, limit, offset)
}

// GetByID 获取单个订单
func (s *OrderService) GetByID(id uint) (*models.UserOrder, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, mapRowConflict(err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// Create 下单，成交价取下单时刻的礼品券价格
func (s *OrderService) Create(input CreateOrderInput) (*models.UserOrder, error) {
	if input.UserID == 0 {
		return nil, newFieldError("user_id", "is required")
	}
	if input.GiftCertificateID == 0 {
		return nil, newFieldError("gift_certificate_id", "is required")
	}

	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, mapRowConflict(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	certificate, err := s.certRepo.GetByID(input.GiftCertificateID)
	if err != nil {
		return nil, mapRowConflict(err)
	}
	if certificate == nil {
		return nil, ErrCertificateNotFound
	}

	order := &models.UserOrder{
		UserID:            input.UserID,
		GiftCertificateID: input.GiftCertificateID,
		Cost:              certificate.Price,
		PurchaseTimestamp: models.Now(),
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			return err
		}
		return s.audit.Record(tx, constants.AuditEntityOrder, order.ID, constants.AuditOperationCreate)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"user_id", order.UserID,
		"certificate_id", order.GiftCertificateID,
		"cost", order.Cost)

	// 通知任务在事务提交后入队，失败只记日志不影响下单
	if enqueueErr := s.queue.EnqueueOrderNotifyEmail(queue.OrderNotifyEmailPayload{OrderID: order.ID}); enqueueErr != nil {
		logger.Warnw("order_notify_enqueue_failed", "order_id", order.ID, "error", enqueueErr)
	}
	return order, nil
}

// Delete 删除订单
func (s *OrderService) Delete(id uint) error {
	existing, err := s.orderRepo.GetByID(id)
	if err != nil {
		return mapRowConflict(err)
	}
	if existing == nil {
		return ErrOrderNotFound
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Delete(id); err != nil {
			return err
		}
		return s.audit.Record(tx, constants.AuditEntityOrder, id, constants.AuditOperationDelete)
	})
	if err != nil {
		return err
	}

	logger.Infow("order_deleted", "order_id", id)
	return nil
}
