package router

import (
	"fmt"
	"strings"

	"github.com/giftcert-next/internal/cache"
	"github.com/giftcert-next/internal/config"
	"github.com/giftcert-next/internal/http/handlers"
	"github.com/giftcert-next/internal/logger"
	"github.com/giftcert-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := handlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "gc"
	}
	writeRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:write", redisPrefix),
		WindowSeconds: cfg.Security.WriteRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.WriteRateLimit.MaxRequests,
	}
	writeLimit := RateLimitMiddleware(cache.Client(), writeRule, KeyByIP)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		certificates := apiV1.Group("/certificates")
		{
			certificates.GET("", handler.ListCertificates)
			certificates.GET("/:id", handler.GetCertificate)
			certificates.POST("", writeLimit, handler.CreateCertificate)
			certificates.PUT("/:id", writeLimit, handler.UpdateCertificate)
			certificates.PATCH("/:id", writeLimit, handler.PatchCertificate)
			certificates.DELETE("/:id", writeLimit, handler.DeleteCertificate)
		}

		tags := apiV1.Group("/tags")
		{
			tags.GET("", handler.ListTags)
			tags.GET("/top", handler.TopTagOfUser)
			tags.GET("/:id", handler.GetTag)
			tags.POST("", writeLimit, handler.CreateTag)
			tags.DELETE("/:id", writeLimit, handler.DeleteTag)
		}

		users := apiV1.Group("/users")
		{
			users.GET("", handler.ListUsers)
			users.GET("/:id", handler.GetUser)
			users.POST("", writeLimit, handler.CreateUser)
			users.DELETE("/:id", writeLimit, handler.DeleteUser)
		}

		orders := apiV1.Group("/orders")
		{
			orders.GET("", handler.ListOrders)
			orders.GET("/:id", handler.GetOrder)
			orders.POST("", writeLimit, handler.CreateOrder)
			orders.DELETE("/:id", writeLimit, handler.DeleteOrder)
		}
	}

	return r
}
