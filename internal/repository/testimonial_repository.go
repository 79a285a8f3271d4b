package repository

import (
	"errors"
	"fmt"

	"github.com/mautops/testimonial-gin/internal/model"
	"github.com/mautops/testimonial-gin/internal/utils"
	"gorm.io/gorm"
)

// ErrTestimonialNotFound 评价不存在
var ErrTestimonialNotFound = errors.New("testimonial not found")

// TestimonialFilter 评价查询过滤器
type TestimonialFilter struct {
	Status     *model.Status
	IDs        []uint
	ExcludeIDs []uint
	Search     string
	SortBy     string
	Order      string // asc/desc
	Page       int
	PageSize   int // 0 表示不分页
}

// StatusCount 按状态统计
type StatusCount struct {
	Status model.Status
	Count  int64
}

// TestimonialRepository 评价仓储接口
type TestimonialRepository interface {
	Save(testimonial *model.TestimonialModel) error
	FindByID(id uint) (*model.TestimonialModel, error)
	Delete(id uint) error
	Find(filter *TestimonialFilter) ([]*model.TestimonialModel, int64, error)
	CountByStatus() ([]StatusCount, error)
	AverageRating() (float64, error)
}

// testimonialRepository 评价仓储实现
type testimonialRepository struct {
	db *gorm.DB
}

// NewTestimonialRepository 创建评价仓储
func NewTestimonialRepository(db *gorm.DB) TestimonialRepository {
	return &testimonialRepository{db: db}
}

// Save 保存评价, ID 为 0 时插入并分配 ID
func (r *testimonialRepository) Save(testimonial *model.TestimonialModel) error {
	return r.db.Save(testimonial).Error
}

// FindByID 根据 ID 查找评价
func (r *testimonialRepository) FindByID(id uint) (*model.TestimonialModel, error) {
	var testimonial model.TestimonialModel
	if err := r.db.First(&testimonial, "testimonial_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestimonialNotFound
		}
		return nil, err
	}
	return &testimonial, nil
}

// Delete 删除评价
func (r *testimonialRepository) Delete(id uint) error {
	result := r.db.Where("testimonial_id = ?", id).Delete(&model.TestimonialModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTestimonialNotFound
	}
	return nil
}

// Find 按条件查询评价
func (r *testimonialRepository) Find(filter *TestimonialFilter) ([]*model.TestimonialModel, int64, error) {
	if filter == nil {
		filter = &TestimonialFilter{}
	}

	query := r.db.Model(&model.TestimonialModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if len(filter.IDs) > 0 {
		query = query.Where("testimonial_id IN ?", filter.IDs)
	}
	if len(filter.ExcludeIDs) > 0 {
		query = query.Where("testimonial_id NOT IN ?", filter.ExcludeIDs)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("customer_name LIKE ? OR customer_email LIKE ? OR message LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count testimonials: %w", err)
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, err := utils.ValidateSortField(sortBy)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid sort field: %w", err)
	}
	order := filter.Order
	if order == "" {
		order = "desc"
	}
	if err := utils.ValidateSortOrder(order); err != nil {
		return nil, 0, fmt.Errorf("invalid sort order: %w", err)
	}
	// 相同排序值时按 ID 保证稳定顺序
	query = query.Order(fmt.Sprintf("%s %s", column, utils.SanitizeSortOrder(order))).
		Order(fmt.Sprintf("testimonial_id %s", utils.SanitizeSortOrder(order)))

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var testimonials []*model.TestimonialModel
	if err := query.Find(&testimonials).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to query testimonials: %w", err)
	}
	return testimonials, total, nil
}

// CountByStatus 按状态统计数量
func (r *testimonialRepository) CountByStatus() ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.Model(&model.TestimonialModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&counts).Error
	return counts, err
}

// AverageRating 平均评分
func (r *testimonialRepository) AverageRating() (float64, error) {
	var avg float64
	err := r.db.Model(&model.TestimonialModel{}).
		Select("COALESCE(AVG(rating), 0)").
		Row().
		Scan(&avg)
	return avg, err
}
