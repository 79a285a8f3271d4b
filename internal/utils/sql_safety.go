package utils

import (
	"errors"
	"strings"
)

// 允许排序的列
var sortableColumns = map[string]string{
	"id":             "testimonial_id",
	"testimonial_id": "testimonial_id",
	"customer_name":  "customer_name",
	"customer_email": "customer_email",
	"rating":         "rating",
	"status":         "status",
	"created_at":     "created_at",
	"updated_at":     "updated_at",
}

// ValidateSortField 验证排序字段并返回对应列名，防止 SQL 注入
func ValidateSortField(field string) (string, error) {
	if field == "" {
		return "", errors.New("sort field cannot be empty")
	}
	column, ok := sortableColumns[strings.ToLower(strings.TrimSpace(field))]
	if !ok {
		return "", errors.New("invalid sort field")
	}
	return column, nil
}

// ValidateSortOrder 验证排序方向
func ValidateSortOrder(order string) error {
	upperOrder := strings.ToUpper(strings.TrimSpace(order))
	if upperOrder != "ASC" && upperOrder != "DESC" {
		return errors.New("sort order must be ASC or DESC")
	}
	return nil
}

// SanitizeSortOrder 清理排序方向
func SanitizeSortOrder(order string) string {
	upperOrder := strings.ToUpper(strings.TrimSpace(order))
	if upperOrder == "ASC" || upperOrder == "DESC" {
		return upperOrder
	}
	return "DESC" // 默认降序
}
