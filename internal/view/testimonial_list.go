package view

import (
	"bytes"
	"encoding/json"
	"html/template"
	"strconv"
	"time"

	"github.com/mautops/testimonial-gin/internal/model"
)

const (
	// MaxStars 星级组件的星星数量
	MaxStars = 5

	displayDateLayout = "January 2, 2006"
	createdAtLayout   = "2006-01-02 15:04:05"
)

// ListItem 前台展示的评价字段
type ListItem struct {
	ID            uint   `json:"id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	Message       string `json:"message"`
	Rating        int    `json:"rating"`
	CreatedAt     string `json:"created_at"`
}

// Star 星级组件中的一颗星
type Star struct {
	Filled bool `json:"filled"`
	Index  int  `json:"index"`
}

// TestimonialList 前台评价列表
type TestimonialList struct {
	testimonials []*model.TestimonialModel
	SubmitURL    string
}

// NewTestimonialList 基于已启用的评价创建列表, 顺序由调用方决定
func NewTestimonialList(testimonials []*model.TestimonialModel, submitURL string) *TestimonialList {
	return &TestimonialList{testimonials: testimonials, SubmitURL: submitURL}
}

// Items 返回展示字段
func (l *TestimonialList) Items() []ListItem {
	items := make([]ListItem, 0, len(l.testimonials))
	for _, t := range l.testimonials {
		items = append(items, ListItem{
			ID:            t.ID,
			CustomerName:  t.CustomerName,
			CustomerEmail: t.CustomerEmail,
			Message:       t.Message,
			Rating:        t.Rating,
			CreatedAt:     t.CreatedAt.Format(createdAtLayout),
		})
	}
	return items
}

// JSON 序列化列表, 空列表为 []
func (l *TestimonialList) JSON() (string, error) {
	data, err := json.Marshal(l.Items())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// TotalCount 评价总数
func (l *TestimonialList) TotalCount() int {
	return len(l.testimonials)
}

// FormatDate 格式化展示日期, 例如 March 5, 2024
func FormatDate(t time.Time) string {
	return t.Format(displayDateLayout)
}

// RatingStars 返回五颗星, 序号不大于评分的为实心
func RatingStars(rating int) []Star {
	stars := make([]Star, 0, MaxStars)
	for i := 1; i <= MaxStars; i++ {
		stars = append(stars, Star{Filled: i <= rating, Index: i})
	}
	return stars
}

var ratingTemplate = template.Must(template.New("rating").Parse(
	`<div class="rating-summary"><div class="rating-result" title="{{.}}%"><span style="width:{{.}}%"><span>{{.}}%</span></span></div></div>`,
))

// RatingPercent 评分对应的百分比, 评分限制在 0 到 5
func RatingPercent(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > MaxStars {
		rating = MaxStars
	}
	return strconv.FormatFloat(float64(rating*100)/MaxStars, 'f', -1, 64)
}

// RatingStarsHTML 渲染星级评分组件
func RatingStarsHTML(rating int) (template.HTML, error) {
	var buf bytes.Buffer
	if err := ratingTemplate.Execute(&buf, RatingPercent(rating)); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
