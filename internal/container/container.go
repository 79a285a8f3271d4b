package container

import (
	"fmt"
	"time"

	"github.com/mautops/testimonial-gin/internal/api"
	"github.com/mautops/testimonial-gin/internal/config"
	"github.com/mautops/testimonial-gin/internal/database"
	"github.com/mautops/testimonial-gin/internal/metrics"
	"github.com/mautops/testimonial-gin/internal/repository"
	"github.com/mautops/testimonial-gin/internal/service"
	"github.com/mautops/testimonial-gin/internal/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Container 依赖注入容器
// 管理数据库、仓储、服务与后台任务
type Container struct {
	cfg             *config.Config
	db              *gorm.DB
	logger          *logrus.Logger
	testimonialRepo repository.TestimonialRepository
	auditLogSvc     service.AuditLogService
	testimonialSvc  service.TestimonialService
	statisticsSvc   service.StatisticsService
	formKeys        *api.FormKeyStore
	collector       *metrics.Collector
	feed            *websocket.Hub
	stopFeed        chan struct{}
}

// NewContainer 创建依赖注入容器
func NewContainer(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	// 1. 初始化数据库（重试 3 次，指数退避）
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return NewContainerWithDB(cfg, db, logger), nil
}

// NewContainerWithDB 基于已有连接创建容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, logger *logrus.Logger) *Container {
	if logger == nil {
		logger = api.GetLogger()
	}

	// 2. 审核事件流
	feed := websocket.NewHub(logger.WithField("component", "moderation_feed"))
	stopFeed := make(chan struct{})
	go feed.Run(stopFeed)

	// 3. 仓储与服务
	testimonialRepo := repository.NewTestimonialRepository(db)
	auditLogSvc := service.NewAuditLogService(repository.NewAuditLogRepository(db))
	testimonialSvc := service.NewTestimonialService(testimonialRepo, auditLogSvc, logger, service.WithEventPublisher(feed))
	statisticsSvc := service.NewStatisticsService(db)

	// 4. 前台表单密钥
	formKeyCfg := api.DefaultFormKeyConfig()
	if cfg.Storefront.FormKeyTTL > 0 {
		formKeyCfg.TokenTTL = time.Duration(cfg.Storefront.FormKeyTTL) * time.Second
	}
	formKeyCfg.CookieSecure = config.IsProduction(cfg)

	return &Container{
		cfg:             cfg,
		db:              db,
		logger:          logger,
		testimonialRepo: testimonialRepo,
		auditLogSvc:     auditLogSvc,
		testimonialSvc:  testimonialSvc,
		statisticsSvc:   statisticsSvc,
		formKeys:        api.NewFormKeyStore(formKeyCfg),
		collector:       metrics.NewCollector(db, testimonialRepo, 30*time.Second),
		feed:            feed,
		stopFeed:        stopFeed,
	}
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Logger 获取日志记录器
func (c *Container) Logger() *logrus.Logger {
	return c.logger
}

// TestimonialService 获取评价服务
func (c *Container) TestimonialService() service.TestimonialService {
	return c.testimonialSvc
}

// StatisticsService 获取统计服务
func (c *Container) StatisticsService() service.StatisticsService {
	return c.statisticsSvc
}

// AuditLogService 获取审计日志服务
func (c *Container) AuditLogService() service.AuditLogService {
	return c.auditLogSvc
}

// Collector 获取指标采集器
func (c *Container) Collector() *metrics.Collector {
	return c.collector
}

// Feed 获取审核事件流
func (c *Container) Feed() *websocket.Hub {
	return c.feed
}

// RouterDeps 路由依赖
func (c *Container) RouterDeps(tracing *api.Tracing) *api.RouterDeps {
	return &api.RouterDeps{
		Config:             c.cfg,
		DB:                 c.db,
		Logger:             c.logger,
		TestimonialService: c.testimonialSvc,
		StatisticsService:  c.statisticsSvc,
		AuditLogService:    c.auditLogSvc,
		FormKeys:           c.formKeys,
		Tracing:            tracing,
		Feed:               c.feed,
	}
}

// Close 关闭容器, 清理资源
func (c *Container) Close() error {
	c.collector.Stop()
	c.formKeys.Stop()
	close(c.stopFeed)

	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}
