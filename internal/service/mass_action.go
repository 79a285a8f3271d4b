package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mautops/testimonial-gin/internal/metrics"
	"github.com/mautops/testimonial-gin/internal/model"
	"github.com/mautops/testimonial-gin/internal/repository"
	"github.com/mautops/testimonial-gin/internal/utils"
	"github.com/sirupsen/logrus"
)

// InlineEditRow 表格内联编辑的一行, 只包含修改过的字段
type InlineEditRow struct {
	ID     uint
	Fields TestimonialInput
}

// InlineEditResult 内联编辑结果
// @Description 内联编辑结果, error 为 true 时 messages 至少包含一条
type InlineEditResult struct {
	Messages []string `json:"messages"`
	Error    bool     `json:"error"`
}

func (r *InlineEditResult) fail(message string) {
	r.Messages = append(r.Messages, message)
	r.Error = true
}

// Selection 批量操作的选择条件
// @Description 勾选的 ID 或 "全选" 加排除项
type Selection struct {
	Selected []uint        `json:"selected"`
	Excluded []uint        `json:"excluded"`
	All      bool          `json:"all"`
	Status   *model.Status `json:"filter_status"`
	Search   string        `json:"filter_search"`
}

// FlashMessage 操作提示消息
type FlashMessage struct {
	Type string `json:"type"` // success, error
	Text string `json:"text"`
}

// MassActionResult 批量操作结果
// @Description 成功数量与提示消息列表
type MassActionResult struct {
	Count    int            `json:"count"`
	Messages []FlashMessage `json:"messages"`
}

func (r *MassActionResult) success(text string) {
	r.Messages = append(r.Messages, FlashMessage{Type: "success", Text: text})
}

func (r *MassActionResult) error(text string) {
	r.Messages = append(r.Messages, FlashMessage{Type: "error", Text: text})
}

// Errors 返回所有错误消息
func (r *MassActionResult) Errors() []string {
	var errs []string
	for _, m := range r.Messages {
		if m.Type == "error" {
			errs = append(errs, m.Text)
		}
	}
	return errs
}

// ErrEmptySelection 未选择任何条目
var ErrEmptySelection = errors.New(msgEmptySelected)

// InlineEdit 按提交顺序逐行验证并保存, 单行失败不影响其他行
func (s *testimonialService) InlineEdit(ctx context.Context, rows []InlineEditRow) *InlineEditResult {
	result := &InlineEditResult{Messages: []string{}}
	if len(rows) == 0 {
		result.fail("Please correct the data sent.")
		return result
	}

	for _, row := range rows {
		testimonial, err := s.repo.FindByID(row.ID)
		if err != nil {
			if errors.Is(err, repository.ErrTestimonialNotFound) {
				result.fail(fmt.Sprintf("Testimonial with ID \"%d\" does not exist.", row.ID))
			} else {
				result.fail(fmt.Sprintf("[Testimonial ID: %d] %s", row.ID, msgSaveFailed))
			}
			metrics.RecordSave("inline_edit", string(KindOf(fetchFailure(row.ID, err))))
			continue
		}

		if err := applyInlineFields(testimonial, &row.Fields); err != nil {
			result.fail(fmt.Sprintf("[Testimonial ID: %d] %s", row.ID, err.Error()))
			metrics.RecordSave("inline_edit", string(KindOf(err)))
			continue
		}

		if err := s.repo.Save(testimonial); err != nil {
			s.logger.WithFields(logrus.Fields{
				"request_id":     GetRequestID(ctx),
				"testimonial_id": row.ID,
			}).WithError(err).Error("inline edit failed to persist testimonial")
			result.fail(fmt.Sprintf("[Testimonial ID: %d] %s", row.ID, msgSaveFailed))
			metrics.RecordSave("inline_edit", string(utils.KindStoreFailure))
			continue
		}

		metrics.RecordSave("inline_edit", "success")
		s.recordChange(ctx, "inline_edit", row.ID, nil)
	}

	return result
}

// applyInlineFields 验证并应用提交的字段, 内容只检查非空
func applyInlineFields(t *model.TestimonialModel, in *TestimonialInput) error {
	check := utils.InlineEdit()
	if in.CustomerName != nil {
		if err := check.CustomerName(*in.CustomerName); err != nil {
			return err
		}
	}
	if in.CustomerEmail != nil {
		if err := check.Email(*in.CustomerEmail); err != nil {
			return err
		}
	}
	if in.Rating != nil {
		if err := check.Rating(*in.Rating); err != nil {
			return err
		}
	}
	if in.Status != nil {
		if err := check.Status(*in.Status); err != nil {
			return err
		}
	}
	if in.Message != nil {
		if err := check.Message(*in.Message, 0); err != nil {
			return err
		}
	}

	if in.CustomerName != nil {
		t.CustomerName = *in.CustomerName
	}
	if in.CustomerEmail != nil {
		t.CustomerEmail = *in.CustomerEmail
	}
	if in.Rating != nil {
		t.Rating = *in.Rating
	}
	if in.Status != nil {
		t.Status = model.Status(*in.Status)
	}
	if in.Message != nil {
		t.Message = *in.Message
	}
	return nil
}

// ResolveSelection 将选择条件解析为具体的评价列表
func (s *testimonialService) ResolveSelection(sel *Selection) ([]*model.TestimonialModel, error) {
	if sel == nil || (!sel.All && len(sel.Selected) == 0) {
		return nil, ErrEmptySelection
	}

	filter := &repository.TestimonialFilter{
		Status: sel.Status,
		Search: sel.Search,
		SortBy: "id",
		Order:  "asc",
	}
	if sel.All {
		filter.ExcludeIDs = sel.Excluded
	} else {
		filter.IDs = sel.Selected
	}

	items, _, err := s.repo.Find(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve selection: %w", err)
	}
	return items, nil
}

// MassDelete 批量删除
func (s *testimonialService) MassDelete(ctx context.Context, sel *Selection) *MassActionResult {
	result := &MassActionResult{Messages: []FlashMessage{}}

	items, err := s.ResolveSelection(sel)
	if err != nil {
		s.selectionFailed(ctx, result, err, "Something went wrong while deleting testimonials.")
		return result
	}

	failed := 0
	for _, item := range items {
		if err := s.repo.Delete(item.ID); err != nil {
			failed++
			s.logger.WithField("testimonial_id", item.ID).WithError(err).Warn("mass delete failed")
			result.error(fmt.Sprintf("Error deleting testimonial ID %d: %s", item.ID, itemFailureReason(err)))
			continue
		}
		result.Count++
		s.recordChange(ctx, "mass_delete", item.ID, nil)
	}

	if result.Count > 0 {
		result.success(fmt.Sprintf("A total of %d record(s) have been deleted.", result.Count))
	}
	metrics.RecordMassAction("delete", result.Count, failed)
	return result
}

// MassStatus 批量修改状态, 状态值非法时不做任何修改
func (s *testimonialService) MassStatus(ctx context.Context, sel *Selection, status int) *MassActionResult {
	result := &MassActionResult{Messages: []FlashMessage{}}

	if !model.Status(status).Valid() {
		result.error("Invalid status value. Status must be either 0 or 1.")
		return result
	}

	items, err := s.ResolveSelection(sel)
	if err != nil {
		s.selectionFailed(ctx, result, err, "Something went wrong while updating testimonials.")
		return result
	}

	failed := 0
	for _, item := range items {
		item.Status = model.Status(status)
		if err := s.repo.Save(item); err != nil {
			failed++
			s.logger.WithField("testimonial_id", item.ID).WithError(err).Warn("mass status update failed")
			result.error(fmt.Sprintf("Error updating testimonial ID %d: %s", item.ID, itemFailureReason(err)))
			continue
		}
		result.Count++
		s.recordChange(ctx, "mass_status", item.ID, map[string]interface{}{"status": status})
	}

	if result.Count > 0 {
		result.success(fmt.Sprintf("A total of %d record(s) have been updated.", result.Count))
	}
	metrics.RecordMassAction("status", result.Count, failed)
	return result
}

func (s *testimonialService) selectionFailed(ctx context.Context, result *MassActionResult, err error, fallback string) {
	if errors.Is(err, ErrEmptySelection) {
		result.error(err.Error())
		return
	}
	s.logger.WithField("request_id", GetRequestID(ctx)).WithError(err).Error("failed to resolve selection")
	result.error(fallback)
}

// itemFailureReason 单条失败的原因, 不暴露内部错误
func itemFailureReason(err error) string {
	if errors.Is(err, repository.ErrTestimonialNotFound) {
		return msgNotFound
	}
	return "something went wrong."
}
