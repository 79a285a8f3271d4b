package metrics

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	// API 请求计数器
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	// API 请求响应时间
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// 评价保存次数
	testimonialSavesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testimonial_saves_total",
			Help: "Total number of testimonial save attempts",
		},
		[]string{"path", "result"}, // path: save, inline_edit, storefront
	)

	// 批量操作处理的条目数
	massActionItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testimonial_mass_action_items_total",
			Help: "Total number of items processed by mass actions",
		},
		[]string{"action", "result"}, // action: delete, status
	)

	databaseConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_active",
			Help: "Number of active database connections",
		},
	)

	databaseConnectionsIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	// 按状态统计的评价数量
	testimonialsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "testimonials_by_status",
			Help: "Number of testimonials by status",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(testimonialSavesTotal)
	prometheus.MustRegister(massActionItemsTotal)
	prometheus.MustRegister(databaseConnectionsActive)
	prometheus.MustRegister(databaseConnectionsIdle)
	prometheus.MustRegister(testimonialsByStatus)
}

// Handler 返回 Prometheus 指标处理器
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAPIRequest 记录 API 请求
func RecordAPIRequest(method, path string, status int, duration float64) {
	statusText := http.StatusText(status)
	if statusText == "" {
		statusText = fmt.Sprintf("%d", status)
	}
	apiRequestsTotal.WithLabelValues(method, path, statusText).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordSave 记录评价保存结果, result 为 success 或错误分类
func RecordSave(path, result string) {
	testimonialSavesTotal.WithLabelValues(path, strings.ToLower(result)).Inc()
}

// RecordMassAction 记录批量操作结果
func RecordMassAction(action string, succeeded, failed int) {
	if succeeded > 0 {
		massActionItemsTotal.WithLabelValues(action, "success").Add(float64(succeeded))
	}
	if failed > 0 {
		massActionItemsTotal.WithLabelValues(action, "failure").Add(float64(failed))
	}
}

// UpdateDatabaseConnections 更新数据库连接数指标
func UpdateDatabaseConnections(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	stats := sqlDB.Stats()
	databaseConnectionsActive.Set(float64(stats.InUse))
	databaseConnectionsIdle.Set(float64(stats.Idle))
	return nil
}

// UpdateTestimonialsByStatus 更新状态分布指标
func UpdateTestimonialsByStatus(status string, count float64) {
	testimonialsByStatus.WithLabelValues(status).Set(count)
}
