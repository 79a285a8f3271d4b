package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mautops/testimonial-gin/internal/model"
	"github.com/mautops/testimonial-gin/internal/repository"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	clientIPKey  contextKey = "ip"
	actorKey     contextKey = "actor"
)

// WithRequestInfo 将请求信息写入 context
func WithRequestInfo(ctx context.Context, requestID, ip, actor string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	ctx = context.WithValue(ctx, clientIPKey, ip)
	return context.WithValue(ctx, actorKey, actor)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// GetRequestID 从 context 获取请求 ID
func GetRequestID(ctx context.Context) string {
	return stringFromContext(ctx, requestIDKey)
}

// GetActor 从 context 获取操作人, 默认为 system
func GetActor(ctx context.Context) string {
	if actor := stringFromContext(ctx, actorKey); actor != "" {
		return actor
	}
	return "system"
}

// AuditLogService 审计日志服务
type AuditLogService interface {
	RecordAction(ctx context.Context, action string, testimonialID uint, details interface{}) error
	History(testimonialID uint) ([]*model.AuditLogModel, error)
}

// auditLogService 审计日志服务实现
type auditLogService struct {
	auditRepo repository.AuditLogRepository
}

// NewAuditLogService 创建审计日志服务
func NewAuditLogService(auditRepo repository.AuditLogRepository) AuditLogService {
	return &auditLogService{auditRepo: auditRepo}
}

// RecordAction 记录评价操作审计日志
func (s *auditLogService) RecordAction(ctx context.Context, action string, testimonialID uint, details interface{}) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return err
	}

	return s.auditRepo.Save(&model.AuditLogModel{
		ID:           uuid.New().String(),
		Actor:        GetActor(ctx),
		Action:       action,
		ResourceType: "testimonial",
		ResourceID:   strconv.FormatUint(uint64(testimonialID), 10),
		RequestID:    GetRequestID(ctx),
		IP:           stringFromContext(ctx, clientIPKey),
		Details:      string(detailsJSON),
		CreatedAt:    time.Now(),
	})
}

// History 查询评价的操作记录
func (s *auditLogService) History(testimonialID uint) ([]*model.AuditLogModel, error) {
	return s.auditRepo.FindByResource("testimonial", strconv.FormatUint(uint64(testimonialID), 10))
}
