package view

import (
	"encoding/json"
	"fmt"

	"github.com/mautops/testimonial-gin/internal/utils"
)

// RatingOption 评分下拉选项
type RatingOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// FieldRule 前端字段校验规则, 零值字段不输出
type FieldRule struct {
	Required  bool `json:"required"`
	Email     bool `json:"email,omitempty"`
	MinLength int  `json:"minLength,omitempty"`
	MaxLength int  `json:"maxLength,omitempty"`
	Min       int  `json:"min,omitempty"`
	Max       int  `json:"max,omitempty"`
}

// ValidationRules 前端表单校验规则
type ValidationRules struct {
	CustomerName  FieldRule `json:"customer_name"`
	CustomerEmail FieldRule `json:"customer_email"`
	Rating        FieldRule `json:"rating"`
	Message       FieldRule `json:"message"`
}

// TestimonialForm 前台提交表单配置
type TestimonialForm struct {
	FormAction string          `json:"form_action"`
	FormKey    string          `json:"form_key"`
	BackURL    string          `json:"back_url"`
	Ratings    []RatingOption  `json:"rating_options"`
	Rules      ValidationRules `json:"validation_rules"`
}

// NewTestimonialForm 创建表单配置
func NewTestimonialForm(formAction, formKey, backURL string) *TestimonialForm {
	return &TestimonialForm{
		FormAction: formAction,
		FormKey:    formKey,
		BackURL:    backURL,
		Ratings:    RatingOptions(),
		Rules:      DefaultValidationRules(),
	}
}

// RatingOptions 1 Star 到 5 Stars
func RatingOptions() []RatingOption {
	options := make([]RatingOption, 0, MaxStars)
	for i := 1; i <= MaxStars; i++ {
		label := fmt.Sprintf("%d Stars", i)
		if i == 1 {
			label = "1 Star"
		}
		options = append(options, RatingOption{Value: i, Label: label})
	}
	return options
}

// DefaultValidationRules 与服务端校验一致的前端规则
func DefaultValidationRules() ValidationRules {
	return ValidationRules{
		CustomerName:  FieldRule{Required: true, MinLength: 2, MaxLength: utils.MaxFieldLength},
		CustomerEmail: FieldRule{Required: true, Email: true, MaxLength: utils.MaxFieldLength},
		Rating:        FieldRule{Required: true, Min: 1, Max: MaxStars},
		Message:       FieldRule{Required: true, MinLength: utils.MessageMinLength},
	}
}

// RatingOptionsJSON 序列化评分选项
func (f *TestimonialForm) RatingOptionsJSON() (string, error) {
	data, err := json.Marshal(f.Ratings)
	return string(data), err
}

// ValidationRulesJSON 序列化校验规则
func (f *TestimonialForm) ValidationRulesJSON() (string, error) {
	data, err := json.Marshal(f.Rules)
	return string(data), err
}
