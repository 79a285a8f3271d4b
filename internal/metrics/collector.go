package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/mautops/testimonial-gin/internal/model"
	"github.com/mautops/testimonial-gin/internal/repository"
	"gorm.io/gorm"
)

// Collector 定期刷新数据库相关指标
type Collector struct {
	db       *gorm.DB
	repo     repository.TestimonialRepository
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	started  bool
	mu       sync.Mutex
}

// NewCollector 创建指标收集器
func NewCollector(db *gorm.DB, repo repository.TestimonialRepository, interval time.Duration) *Collector {
	ctx, cancel := context.WithCancel(context.Background())
	return &Collector{
		db:       db,
		repo:     repo,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start 启动指标收集器
func (c *Collector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true
	go c.run()
}

// Stop 停止指标收集器, 未启动时直接返回
func (c *Collector) Stop() {
	c.cancel()

	c.mu.Lock()
	started := c.started
	c.mu.Unlock()
	if started {
		<-c.done
	}
}

func (c *Collector) run() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.done)

	c.Collect()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.Collect()
		}
	}
}

// Collect 执行一次采集
func (c *Collector) Collect() {
	_ = UpdateDatabaseConnections(c.db)

	if c.repo == nil {
		return
	}
	counts, err := c.repo.CountByStatus()
	if err != nil {
		return
	}
	// 没有记录的状态归零
	byStatus := map[string]float64{
		model.StatusEnabled.Label():  0,
		model.StatusDisabled.Label(): 0,
	}
	for _, sc := range counts {
		byStatus[sc.Status.Label()] = float64(sc.Count)
	}
	for label, count := range byStatus {
		UpdateTestimonialsByStatus(label, count)
	}
}
