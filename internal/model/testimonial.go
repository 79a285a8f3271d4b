package model

import (
	"time"
)

// Status 评价启用状态
type Status int

const (
	StatusDisabled Status = 0
	StatusEnabled  Status = 1
)

// Valid 判断状态值是否合法
func (s Status) Valid() bool {
	return s == StatusDisabled || s == StatusEnabled
}

// Label 状态显示名称
func (s Status) Label() string {
	switch s {
	case StatusEnabled:
		return "Enabled"
	case StatusDisabled:
		return "Disabled"
	default:
		return "Unknown"
	}
}

// TestimonialModel 客户评价数据模型
type TestimonialModel struct {
	ID            uint      `gorm:"column:testimonial_id;primaryKey;autoIncrement" json:"id"`
	CustomerName  string    `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail string    `gorm:"type:varchar(255);not null" json:"customer_email"`
	Rating        int       `gorm:"type:smallint;not null" json:"rating"`
	Status        Status    `gorm:"type:smallint;not null;default:0;index" json:"status"`
	Message       string    `gorm:"type:text;not null" json:"message"`
	CreatedAt     time.Time `gorm:"<-:create;not null;index" json:"created_at"` // 仅在插入时写入
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

// TableName 指定表名
func (TestimonialModel) TableName() string {
	return "testimonials"
}

// NewTestimonial 创建未保存的空评价
func NewTestimonial() *TestimonialModel {
	return &TestimonialModel{Status: StatusDisabled}
}

// IsNew 是否尚未持久化
func (t *TestimonialModel) IsNew() bool {
	return t.ID == 0
}
