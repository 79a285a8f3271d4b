package api

import (
	"github.com/gin-gonic/gin"
	_ "github.com/mautops/testimonial-gin/docs" // 导入生成的 docs 包
	"github.com/mautops/testimonial-gin/internal/config"
	"github.com/mautops/testimonial-gin/internal/service"
	"github.com/mautops/testimonial-gin/internal/websocket"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// RouterDeps 路由依赖
type RouterDeps struct {
	Config             *config.Config
	DB                 *gorm.DB
	Logger             logrus.FieldLogger
	TestimonialService service.TestimonialService
	StatisticsService  service.StatisticsService
	AuditLogService    service.AuditLogService
	FormKeys           *FormKeyStore
	Tracing            *Tracing
	Feed               *websocket.Hub
}

// SetupRoutes 配置路由
func SetupRoutes(deps *RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	formKeys := deps.FormKeys
	if formKeys == nil {
		formKeys = NewFormKeyStore(nil)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// 中间件
	if deps.Tracing.Enabled() {
		router.Use(deps.Tracing.Middleware())
	}
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware(deps.Logger))
	router.Use(SecurityHeadersMiddleware(config.IsProduction(cfg)))
	router.Use(CORSMiddleware(cfg.CORS))
	router.Use(ErrorHandlerMiddleware())

	// 健康检查
	healthController := NewHealthController(deps.DB)
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	router.GET("/metrics", MetricsHandler())

	// Swagger 文档
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 后台评价管理
	testimonialController := NewTestimonialController(deps.TestimonialService, deps.StatisticsService, deps.AuditLogService)
	admin := router.Group("/admin/testimonials")
	if cfg.Server.AdminRPS > 0 {
		admin.Use(RateLimitMiddleware(cfg.Server.AdminRPS, cfg.Server.AdminBurst))
	}
	{
		admin.GET("", testimonialController.List)
		admin.POST("", testimonialController.Create)
		admin.GET("/statistics", testimonialController.Statistics)
		if deps.Feed != nil {
			admin.GET("/feed", websocket.Handler(deps.Feed))
		}
		admin.POST("/inline-edit", testimonialController.InlineEdit)
		admin.POST("/mass-delete", testimonialController.MassDelete)
		admin.POST("/mass-status", testimonialController.MassStatus)
		admin.GET("/:id", testimonialController.Get)
		admin.PUT("/:id", testimonialController.Update)
		admin.DELETE("/:id", testimonialController.Delete)
		admin.GET("/:id/history", testimonialController.History)
	}

	// 前台评价
	storefrontController := NewStorefrontController(deps.TestimonialService, formKeys)
	submitLimiter := NewClientRateLimiter(cfg.Storefront.SubmitRPS, cfg.Storefront.SubmitBurst)
	storefront := router.Group(storefrontPath)
	{
		storefront.GET("", storefrontController.List)
		storefront.GET("/form", storefrontController.Form)
		storefront.POST("", submitLimiter.Middleware(), FormKeyMiddleware(formKeys), storefrontController.Submit)
	}

	return router
}
