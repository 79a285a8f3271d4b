package repository_test

import (
	"testing"
	"time"

	"github.com/mautops/testimonial-gin/internal/model"
	"github.com/mautops/testimonial-gin/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB 创建内存测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.TestimonialModel{}, &model.AuditLogModel{}))
	return db
}

func newTestimonial(name string, rating int, status model.Status, createdAt time.Time) *model.TestimonialModel {
	return &model.TestimonialModel{
		CustomerName:  name,
		CustomerEmail: "customer@example.com",
		Rating:        rating,
		Status:        status,
		Message:       "Great product, highly recommend!",
		CreatedAt:     createdAt,
	}
}

// TestTestimonialRepository_SaveAndFind 测试保存与查找
func TestTestimonialRepository_SaveAndFind(t *testing.T) {
	repo := repository.NewTestimonialRepository(setupTestDB(t))

	testimonial := newTestimonial("Jane Doe", 5, model.StatusEnabled, time.Time{})
	require.NoError(t, repo.Save(testimonial))
	require.NotZero(t, testimonial.ID)
	assert.False(t, testimonial.CreatedAt.IsZero())

	found, err := repo.FindByID(testimonial.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", found.CustomerName)
	assert.Equal(t, 5, found.Rating)
	assert.Equal(t, model.StatusEnabled, found.Status)
}

// TestTestimonialRepository_UpdateKeepsIDAndCreatedAt 测试更新保持 ID 与创建时间
func TestTestimonialRepository_UpdateKeepsIDAndCreatedAt(t *testing.T) {
	repo := repository.NewTestimonialRepository(setupTestDB(t))

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	testimonial := newTestimonial("Jane Doe", 4, model.StatusDisabled, created)
	require.NoError(t, repo.Save(testimonial))
	id := testimonial.ID

	testimonial.CustomerName = "Jane Smith"
	testimonial.CreatedAt = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(testimonial))
	assert.Equal(t, id, testimonial.ID)

	found, err := repo.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", found.CustomerName)
	assert.True(t, created.Equal(found.CreatedAt), "created_at must not change on update")
}

// TestTestimonialRepository_FindByIDNotFound 测试查找不存在的评价
func TestTestimonialRepository_FindByIDNotFound(t *testing.T) {
	repo := repository.NewTestimonialRepository(setupTestDB(t))

	_, err := repo.FindByID(999)
	assert.ErrorIs(t, err, repository.ErrTestimonialNotFound)
}

// TestTestimonialRepository_Delete 测试删除
func TestTestimonialRepository_Delete(t *testing.T) {
	repo := repository.NewTestimonialRepository(setupTestDB(t))

	testimonial := newTestimonial("Jane Doe", 5, model.StatusEnabled, time.Time{})
	require.NoError(t, repo.Save(testimonial))

	require.NoError(t, repo.Delete(testimonial.ID))
	_, err := repo.FindByID(testimonial.ID)
	assert.ErrorIs(t, err, repository.ErrTestimonialNotFound)

	// 再次删除返回不存在
	assert.ErrorIs(t, repo.Delete(testimonial.ID), repository.ErrTestimonialNotFound)
}

// TestTestimonialRepository_Find 测试过滤、排序与分页
func TestTestimonialRepository_Find(t *testing.T) {
	repo := repository.NewTestimonialRepository(setupTestDB(t))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fixtures := []*model.TestimonialModel{
		newTestimonial("Alice", 5, model.StatusEnabled, base),
		newTestimonial("Bob", 3, model.StatusDisabled, base.Add(time.Hour)),
		newTestimonial("Carol", 4, model.StatusEnabled, base.Add(2*time.Hour)),
		newTestimonial("Dave", 2, model.StatusEnabled, base.Add(3*time.Hour)),
	}
	for _, f := range fixtures {
		require.NoError(t, repo.Save(f))
	}

	t.Run("enabled newest first", func(t *testing.T) {
		enabled := model.StatusEnabled
		items, total, err := repo.Find(&repository.TestimonialFilter{Status: &enabled})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, items, 3)
		assert.Equal(t, "Dave", items[0].CustomerName)
		assert.Equal(t, "Carol", items[1].CustomerName)
		assert.Equal(t, "Alice", items[2].CustomerName)
	})

	t.Run("ids and excluded ids", func(t *testing.T) {
		items, total, err := repo.Find(&repository.TestimonialFilter{
			IDs:        []uint{fixtures[0].ID, fixtures[1].ID, fixtures[2].ID},
			ExcludeIDs: []uint{fixtures[1].ID},
			SortBy:     "id",
			Order:      "asc",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, items, 2)
		assert.Equal(t, fixtures[0].ID, items[0].ID)
		assert.Equal(t, fixtures[2].ID, items[1].ID)
	})

	t.Run("search", func(t *testing.T) {
		items, _, err := repo.Find(&repository.TestimonialFilter{Search: "Car"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Carol", items[0].CustomerName)
	})

	t.Run("pagination", func(t *testing.T) {
		items, total, err := repo.Find(&repository.TestimonialFilter{SortBy: "rating", Order: "desc", Page: 2, PageSize: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, items, 1)
		assert.Equal(t, "Dave", items[0].CustomerName)
	})

	t.Run("invalid sort field", func(t *testing.T) {
		_, _, err := repo.Find(&repository.TestimonialFilter{SortBy: "message; DROP TABLE testimonials"})
		assert.Error(t, err)
	})
}

// TestTestimonialRepository_Statistics 测试统计查询
func TestTestimonialRepository_Statistics(t *testing.T) {
	repo := repository.NewTestimonialRepository(setupTestDB(t))

	avg, err := repo.AverageRating()
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)

	require.NoError(t, repo.Save(newTestimonial("Alice", 5, model.StatusEnabled, time.Time{})))
	require.NoError(t, repo.Save(newTestimonial("Bob", 2, model.StatusDisabled, time.Time{})))
	require.NoError(t, repo.Save(newTestimonial("Carol", 5, model.StatusEnabled, time.Time{})))

	counts, err := repo.CountByStatus()
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, model.StatusDisabled, counts[0].Status)
	assert.Equal(t, int64(1), counts[0].Count)
	assert.Equal(t, model.StatusEnabled, counts[1].Status)
	assert.Equal(t, int64(2), counts[1].Count)

	avg, err = repo.AverageRating()
	require.NoError(t, err)
	assert.InDelta(t, 4.0, avg, 0.0001)
}
