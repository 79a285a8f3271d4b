package metrics

import (
	"testing"
	"time"

	"github.com/mautops/testimonial-gin/internal/model"
	"github.com/mautops/testimonial-gin/internal/repository"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TestRecordSave 测试保存结果计数, 分类统一为小写
func TestRecordSave(t *testing.T) {
	before := testutil.ToFloat64(testimonialSavesTotal.WithLabelValues("save", "too_short"))
	RecordSave("save", "TOO_SHORT")
	RecordSave("save", "too_short")
	assert.Equal(t, before+2, testutil.ToFloat64(testimonialSavesTotal.WithLabelValues("save", "too_short")))
}

// TestRecordMassAction 测试批量操作计数
func TestRecordMassAction(t *testing.T) {
	success := testutil.ToFloat64(massActionItemsTotal.WithLabelValues("delete", "success"))
	failure := testutil.ToFloat64(massActionItemsTotal.WithLabelValues("delete", "failure"))

	RecordMassAction("delete", 4, 1)
	RecordMassAction("delete", 0, 0)

	assert.Equal(t, success+4, testutil.ToFloat64(massActionItemsTotal.WithLabelValues("delete", "success")))
	assert.Equal(t, failure+1, testutil.ToFloat64(massActionItemsTotal.WithLabelValues("delete", "failure")))
}

// TestCollector_Collect 测试采集状态分布
func TestCollector_Collect(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.TestimonialModel{}))

	repo := repository.NewTestimonialRepository(db)
	for i, status := range []model.Status{model.StatusEnabled, model.StatusEnabled, model.StatusDisabled} {
		require.NoError(t, repo.Save(&model.TestimonialModel{
			CustomerName:  "Customer",
			CustomerEmail: "customer@example.com",
			Message:       "Really enjoyed the service here.",
			Rating:        i + 1,
			Status:        status,
		}))
	}

	collector := NewCollector(db, repo, time.Hour)
	collector.Collect()
	assert.Equal(t, 2.0, testutil.ToFloat64(testimonialsByStatus.WithLabelValues("Enabled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(testimonialsByStatus.WithLabelValues("Disabled")))

	// 删除全部已启用评价后计数归零
	enabled := model.StatusEnabled
	items, _, err := repo.Find(&repository.TestimonialFilter{Status: &enabled})
	require.NoError(t, err)
	for _, item := range items {
		require.NoError(t, repo.Delete(item.ID))
	}
	collector.Collect()
	assert.Equal(t, 0.0, testutil.ToFloat64(testimonialsByStatus.WithLabelValues("Enabled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(testimonialsByStatus.WithLabelValues("Disabled")))

	collector.Start()
	collector.Stop()
}

// TestUpdateDatabaseConnectionsNil 测试空连接
func TestUpdateDatabaseConnectionsNil(t *testing.T) {
	assert.Error(t, UpdateDatabaseConnections(nil))
}
