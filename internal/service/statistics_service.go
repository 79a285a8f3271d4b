package service

import (
	"fmt"

	"github.com/mautops/testimonial-gin/internal/model"
	"gorm.io/gorm"
)

// StatisticsService 统计服务接口
type StatisticsService interface {
	GetStatisticsByStatus() ([]*StatisticsByStatus, error)
	GetStatisticsByRating() ([]*StatisticsByRating, error)
	GetStatisticsByTime() ([]*StatisticsByTime, error)
	GetSummary() (*TestimonialSummary, error)
}

// StatisticsByStatus 按状态统计
type StatisticsByStatus struct {
	Status int    `json:"status"`
	Label  string `json:"label"`
	Count  int64  `json:"count"`
}

// StatisticsByRating 按评分统计
type StatisticsByRating struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}

// StatisticsByTime 按日期统计
type StatisticsByTime struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// TestimonialSummary 汇总统计
type TestimonialSummary struct {
	Total         int64   `json:"total"`
	EnabledCount  int64   `json:"enabled_count"`
	DisabledCount int64   `json:"disabled_count"`
	AverageRating float64 `json:"average_rating"`
}

// statisticsService 统计服务实现
type statisticsService struct {
	db *gorm.DB
}

// NewStatisticsService 创建统计服务
func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

// GetStatisticsByStatus 按状态统计评价
func (s *statisticsService) GetStatisticsByStatus() ([]*StatisticsByStatus, error) {
	var results []struct {
		Status int
		Count  int64
	}

	err := s.db.Model(&model.TestimonialModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Order("status").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics by status: %w", err)
	}

	stats := make([]*StatisticsByStatus, 0, len(results))
	for _, r := range results {
		stats = append(stats, &StatisticsByStatus{
			Status: r.Status,
			Label:  model.Status(r.Status).Label(),
			Count:  r.Count,
		})
	}
	return stats, nil
}

// GetStatisticsByRating 按评分统计评价
func (s *statisticsService) GetStatisticsByRating() ([]*StatisticsByRating, error) {
	var results []struct {
		Rating int
		Count  int64
	}

	err := s.db.Model(&model.TestimonialModel{}).
		Select("rating, COUNT(*) as count").
		Group("rating").
		Order("rating DESC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics by rating: %w", err)
	}

	stats := make([]*StatisticsByRating, 0, len(results))
	for _, r := range results {
		stats = append(stats, &StatisticsByRating{Rating: r.Rating, Count: r.Count})
	}
	return stats, nil
}

// GetStatisticsByTime 按提交日期统计评价
func (s *statisticsService) GetStatisticsByTime() ([]*StatisticsByTime, error) {
	var results []struct {
		Date  string
		Count int64
	}

	err := s.db.Model(&model.TestimonialModel{}).
		Select("DATE(created_at) as date, COUNT(*) as count").
		Group("DATE(created_at)").
		Order("date DESC").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics by time: %w", err)
	}

	stats := make([]*StatisticsByTime, 0, len(results))
	for _, r := range results {
		stats = append(stats, &StatisticsByTime{Date: r.Date, Count: r.Count})
	}
	return stats, nil
}

// GetSummary 获取汇总统计
func (s *statisticsService) GetSummary() (*TestimonialSummary, error) {
	var summary TestimonialSummary

	if err := s.db.Model(&model.TestimonialModel{}).Count(&summary.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count testimonials: %w", err)
	}

	err := s.db.Model(&model.TestimonialModel{}).
		Where("status = ?", model.StatusEnabled).
		Count(&summary.EnabledCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count enabled testimonials: %w", err)
	}
	summary.DisabledCount = summary.Total - summary.EnabledCount

	var avg struct {
		Average float64
	}
	err = s.db.Model(&model.TestimonialModel{}).
		Select("COALESCE(AVG(rating), 0) as average").
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute average rating: %w", err)
	}
	summary.AverageRating = avg.Average

	return &summary, nil
}
