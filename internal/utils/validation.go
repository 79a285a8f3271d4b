package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxFieldLength 姓名、邮箱的最大长度
	MaxFieldLength = 255
	// MessageMinLength 完整保存时评价内容的最小长度
	MessageMinLength = 10
)

// ErrorKind 错误分类
type ErrorKind string

const (
	KindEmptyField    ErrorKind = "EMPTY_FIELD"
	KindTooLong       ErrorKind = "TOO_LONG"
	KindTooShort      ErrorKind = "TOO_SHORT"
	KindInvalidFormat ErrorKind = "INVALID_FORMAT"
	KindOutOfRange    ErrorKind = "OUT_OF_RANGE"
	KindInvalidEnum   ErrorKind = "INVALID_ENUM"
	KindNotFound      ErrorKind = "NOT_FOUND"
	KindStoreFailure  ErrorKind = "STORE_FAILURE"
)

// ValidationError 验证错误
type ValidationError struct {
	Code    ErrorKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var validate = validator.New()

func newValidationError(code ErrorKind, field, message string) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: message}
}

// MessageSet 各保存路径使用的提示文案
type MessageSet struct {
	NameRequired    string
	EmailRequired   string
	MessageRequired string
	RatingRange     string
	StatusEnum      string
}

var (
	// FullSaveMessages 后台完整保存与前台提交
	FullSaveMessages = MessageSet{
		NameRequired:    "Customer name is required.",
		EmailRequired:   "Email is required.",
		MessageRequired: "Testimonial message is required.",
		RatingRange:     "Rating must be between 1 and 5 stars.",
		StatusEnum:      "Status must be either Enabled or Disabled.",
	}

	// InlineEditMessages 后台表格内联编辑
	InlineEditMessages = MessageSet{
		NameRequired:    "Customer name cannot be empty.",
		EmailRequired:   "Email cannot be empty.",
		MessageRequired: "Testimonial message cannot be empty.",
		RatingRange:     "Rating must be between 1 and 5.",
		StatusEnum:      "Status must be either 0 (Disabled) or 1 (Enabled).",
	}
)

// FieldValidator 按指定文案验证单个字段
type FieldValidator struct {
	messages MessageSet
}

// NewFieldValidator 创建字段验证器
func NewFieldValidator(messages MessageSet) *FieldValidator {
	return &FieldValidator{messages: messages}
}

var (
	fullSave   = NewFieldValidator(FullSaveMessages)
	inlineEdit = NewFieldValidator(InlineEditMessages)
)

// FullSave 完整保存路径的验证器
func FullSave() *FieldValidator { return fullSave }

// InlineEdit 内联编辑路径的验证器
func InlineEdit() *FieldValidator { return inlineEdit }

// CustomerName 验证客户姓名
func (v *FieldValidator) CustomerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return newValidationError(KindEmptyField, "customer_name", v.messages.NameRequired)
	}
	if utf8.RuneCountInString(name) > MaxFieldLength {
		return newValidationError(KindTooLong, "customer_name",
			fmt.Sprintf("Customer name cannot exceed %d characters.", MaxFieldLength))
	}
	return nil
}

// Email 验证客户邮箱
func (v *FieldValidator) Email(email string) error {
	if strings.TrimSpace(email) == "" {
		return newValidationError(KindEmptyField, "customer_email", v.messages.EmailRequired)
	}
	if err := validate.Var(email, "email"); err != nil {
		return newValidationError(KindInvalidFormat, "customer_email", "Please enter a valid email address.")
	}
	if utf8.RuneCountInString(email) > MaxFieldLength {
		return newValidationError(KindTooLong, "customer_email",
			fmt.Sprintf("Email cannot exceed %d characters.", MaxFieldLength))
	}
	return nil
}

// Rating 验证评分（1-5）
func (v *FieldValidator) Rating(rating int) error {
	if rating < 1 || rating > 5 {
		return newValidationError(KindOutOfRange, "rating", v.messages.RatingRange)
	}
	return nil
}

// Status 验证状态（0 或 1）
func (v *FieldValidator) Status(status int) error {
	if status != 0 && status != 1 {
		return newValidationError(KindInvalidEnum, "status", v.messages.StatusEnum)
	}
	return nil
}

// Message 验证评价内容, minLength 为 0 时只检查非空
func (v *FieldValidator) Message(message string, minLength int) error {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return newValidationError(KindEmptyField, "message", v.messages.MessageRequired)
	}
	if minLength > 0 && utf8.RuneCountInString(trimmed) < minLength {
		return newValidationError(KindTooShort, "message",
			fmt.Sprintf("Testimonial message must be at least %d characters long.", minLength))
	}
	return nil
}

// ValidateCustomerName 使用完整保存文案验证客户姓名
func ValidateCustomerName(name string) error { return fullSave.CustomerName(name) }

// ValidateEmail 使用完整保存文案验证客户邮箱
func ValidateEmail(email string) error { return fullSave.Email(email) }

// ValidateRating 使用完整保存文案验证评分
func ValidateRating(rating int) error { return fullSave.Rating(rating) }

// ValidateStatus 使用完整保存文案验证状态
func ValidateStatus(status int) error { return fullSave.Status(status) }

// ValidateMessage 使用完整保存文案验证评价内容
func ValidateMessage(message string, minLength int) error {
	return fullSave.Message(message, minLength)
}
