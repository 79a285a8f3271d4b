package service

import (
	"context"
	"time"
)

// 评价变更事件类型
const (
	EventSaved         = "testimonial.save"
	EventSubmitted     = "testimonial.storefront"
	EventInlineEdited  = "testimonial.inline_edit"
	EventDeleted       = "testimonial.delete"
	EventMassDeleted   = "testimonial.mass_delete"
	EventStatusChanged = "testimonial.mass_status"
)

// TestimonialEvent 评价变更事件, 推送给后台审核页面
type TestimonialEvent struct {
	Type          string      `json:"type"`
	TestimonialID uint        `json:"testimonial_id"`
	Actor         string      `json:"actor"`
	RequestID     string      `json:"request_id,omitempty"`
	Details       interface{} `json:"details,omitempty"`
	OccurredAt    time.Time   `json:"occurred_at"`
}

// EventPublisher 事件发布者
type EventPublisher interface {
	Publish(event TestimonialEvent)
}

// Option 评价服务选项
type Option func(*testimonialService)

// WithEventPublisher 设置事件发布者
func WithEventPublisher(publisher EventPublisher) Option {
	return func(s *testimonialService) {
		s.publisher = publisher
	}
}

// recordChange 记录审计日志并发布变更事件, 失败不影响主流程
func (s *testimonialService) recordChange(ctx context.Context, action string, id uint, details interface{}) {
	if s.auditLogSvc != nil {
		if err := s.auditLogSvc.RecordAction(ctx, action, id, details); err != nil {
			s.logger.WithError(err).WithField("testimonial_id", id).Debug("failed to record audit log")
		}
	}

	if s.publisher != nil {
		s.publisher.Publish(TestimonialEvent{
			Type:          "testimonial." + action,
			TestimonialID: id,
			Actor:         GetActor(ctx),
			RequestID:     GetRequestID(ctx),
			Details:       details,
			OccurredAt:    time.Now(),
		})
	}
}
