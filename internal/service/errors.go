package service

import (
	"errors"
	"fmt"

	"github.com/mautops/testimonial-gin/internal/repository"
	"github.com/mautops/testimonial-gin/internal/utils"
)

const (
	msgSaveFailed    = "Something went wrong while saving the testimonial."
	msgNotFound      = "This testimonial no longer exists."
	msgEmptySelected = "An item needs to be selected. Select and try again."
)

// MutationError 变更失败，携带错误分类与面向用户的消息
type MutationError struct {
	Kind    utils.ErrorKind
	ID      uint
	Message string
	Err     error
}

func (e *MutationError) Error() string {
	return e.Message
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// KindOf 返回错误分类, 未分类错误视为 STORE_FAILURE
func KindOf(err error) utils.ErrorKind {
	var mErr *MutationError
	if errors.As(err, &mErr) {
		return mErr.Kind
	}
	var vErr *utils.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Code
	}
	return utils.KindStoreFailure
}

// IsValidation 判断是否为字段验证错误
func IsValidation(err error) bool {
	switch KindOf(err) {
	case utils.KindNotFound, utils.KindStoreFailure:
		return false
	default:
		return true
	}
}

func validationFailure(id uint, err error) *MutationError {
	var vErr *utils.ValidationError
	if errors.As(err, &vErr) {
		return &MutationError{Kind: vErr.Code, ID: id, Message: vErr.Message, Err: err}
	}
	return storeFailure(id, err)
}

func storeFailure(id uint, err error) *MutationError {
	return &MutationError{Kind: utils.KindStoreFailure, ID: id, Message: msgSaveFailed, Err: err}
}

// fetchFailure 将仓储查询错误转换为 NOT_FOUND 或 STORE_FAILURE
func fetchFailure(id uint, err error) *MutationError {
	if errors.Is(err, repository.ErrTestimonialNotFound) {
		return &MutationError{
			Kind:    utils.KindNotFound,
			ID:      id,
			Message: msgNotFound,
			Err:     fmt.Errorf("testimonial %d: %w", id, err),
		}
	}
	return storeFailure(id, err)
}
