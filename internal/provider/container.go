package provider

import (
	"github.com/giftcert-next/internal/cache"
	"github.com/giftcert-next/internal/config"
	"github.com/giftcert-next/internal/logger"
	"github.com/giftcert-next/internal/models"
	"github.com/giftcert-next/internal/queue"
	"github.com/giftcert-next/internal/repository"
	"github.com/giftcert-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	CertificateRepo repository.CertificateRepository
	TagRepo         repository.TagRepository
	LinkRepo        repository.CertificateTagRepository
	UserRepo        repository.UserRepository
	OrderRepo       repository.UserOrderRepository
	AuditLogRepo    repository.AuditLogRepository

	// Services
	AuditService       *service.AuditService
	CertificateService *service.CertificateService
	TagService         *service.TagService
	UserService        *service.UserService
	OrderService       *service.OrderService
	EmailService       *service.EmailService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.CertificateRepo = repository.NewCertificateRepository(db)
	c.TagRepo = repository.NewTagRepository(db)
	c.LinkRepo = repository.NewCertificateTagRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.OrderRepo = repository.NewUserOrderRepository(db)
	c.AuditLogRepo = repository.NewAuditLogRepository(db)
}

func (c *Container) initServices() {
	c.AuditService = service.NewAuditService(c.AuditLogRepo)
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CertificateService = service.NewCertificateService(c.CertificateRepo, c.TagRepo, c.LinkRepo, c.AuditService)
	c.TagService = service.NewTagService(c.TagRepo, c.LinkRepo, c.AuditService)
	c.UserService = service.NewUserService(c.UserRepo, c.AuditService)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.UserRepo, c.CertificateRepo, c.AuditService, c.QueueClient)
}
