package service

import (
	"context"

	"github.com/mautops/testimonial-gin/internal/metrics"
	"github.com/mautops/testimonial-gin/internal/model"
	"github.com/mautops/testimonial-gin/internal/repository"
	"github.com/mautops/testimonial-gin/internal/utils"
	"github.com/sirupsen/logrus"
)

// TestimonialService 评价服务接口
type TestimonialService interface {
	Get(id uint) (*model.TestimonialModel, error)
	List(filter *repository.TestimonialFilter) ([]*model.TestimonialModel, int64, error)
	ListEnabled() ([]*model.TestimonialModel, error)
	Save(ctx context.Context, id uint, input *TestimonialInput) (*model.TestimonialModel, error)
	Submit(ctx context.Context, input *TestimonialInput) (*model.TestimonialModel, error)
	Delete(ctx context.Context, id uint) error
	InlineEdit(ctx context.Context, rows []InlineEditRow) *InlineEditResult
	ResolveSelection(sel *Selection) ([]*model.TestimonialModel, error)
	MassDelete(ctx context.Context, sel *Selection) *MassActionResult
	MassStatus(ctx context.Context, sel *Selection, status int) *MassActionResult
}

// TestimonialInput 评价字段输入, nil 表示该字段未提交
// @Description 评价字段, 未提交的字段保持原值
type TestimonialInput struct {
	CustomerName  *string `json:"customer_name" example:"Jane Doe"`
	CustomerEmail *string `json:"customer_email" example:"jane@example.com"`
	Message       *string `json:"message" example:"Great product, highly recommend!"`
	Rating        *int    `json:"rating" example:"5"`
	Status        *int    `json:"status" example:"1"`
}

// testimonialValues 待验证的完整字段值
type testimonialValues struct {
	customerName  string
	customerEmail string
	message       string
	rating        int
	status        int
}

// merge 以实体当前值为基础合并输入
func (in *TestimonialInput) merge(t *model.TestimonialModel) testimonialValues {
	v := testimonialValues{
		customerName:  t.CustomerName,
		customerEmail: t.CustomerEmail,
		message:       t.Message,
		rating:        t.Rating,
		status:        int(t.Status),
	}
	if in.CustomerName != nil {
		v.customerName = *in.CustomerName
	}
	if in.CustomerEmail != nil {
		v.customerEmail = *in.CustomerEmail
	}
	if in.Message != nil {
		v.message = *in.Message
	}
	if in.Rating != nil {
		v.rating = *in.Rating
	}
	if in.Status != nil {
		v.status = *in.Status
	}
	return v
}

// validate 按 name → email → message → rating → status 顺序验证, 遇错即停
// 新建时验证全部字段, 更新时只验证提交的字段
func (in *TestimonialInput) validate(t *model.TestimonialModel) (testimonialValues, error) {
	v := in.merge(t)
	check := utils.FullSave()
	all := t.IsNew()

	if all || in.CustomerName != nil {
		if err := check.CustomerName(v.customerName); err != nil {
			return v, err
		}
	}
	if all || in.CustomerEmail != nil {
		if err := check.Email(v.customerEmail); err != nil {
			return v, err
		}
	}
	if all || in.Message != nil {
		if err := check.Message(v.message, utils.MessageMinLength); err != nil {
			return v, err
		}
	}
	if all || in.Rating != nil {
		if err := check.Rating(v.rating); err != nil {
			return v, err
		}
	}
	if all || in.Status != nil {
		if err := check.Status(v.status); err != nil {
			return v, err
		}
	}
	return v, nil
}

func (v testimonialValues) applyTo(t *model.TestimonialModel) {
	t.CustomerName = v.customerName
	t.CustomerEmail = v.customerEmail
	t.Message = v.message
	t.Rating = v.rating
	t.Status = model.Status(v.status)
}

// testimonialService 评价服务实现
type testimonialService struct {
	repo        repository.TestimonialRepository
	auditLogSvc AuditLogService
	publisher   EventPublisher
	logger      logrus.FieldLogger
}

// NewTestimonialService 创建评价服务
func NewTestimonialService(repo repository.TestimonialRepository, auditLogSvc AuditLogService, logger logrus.FieldLogger, opts ...Option) TestimonialService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &testimonialService{
		repo:        repo,
		auditLogSvc: auditLogSvc,
		logger:      logger.WithField("component", "testimonial_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get 获取评价
func (s *testimonialService) Get(id uint) (*model.TestimonialModel, error) {
	testimonial, err := s.repo.FindByID(id)
	if err != nil {
		return nil, fetchFailure(id, err)
	}
	return testimonial, nil
}

// List 后台列表查询
func (s *testimonialService) List(filter *repository.TestimonialFilter) ([]*model.TestimonialModel, int64, error) {
	return s.repo.Find(filter)
}

// ListEnabled 前台展示的已启用评价, 按创建时间倒序
func (s *testimonialService) ListEnabled() ([]*model.TestimonialModel, error) {
	enabled := model.StatusEnabled
	items, _, err := s.repo.Find(&repository.TestimonialFilter{
		Status: &enabled,
		SortBy: "created_at",
		Order:  "desc",
	})
	return items, err
}

// Save 保存单条评价, id 为 0 时新建
func (s *testimonialService) Save(ctx context.Context, id uint, input *TestimonialInput) (*model.TestimonialModel, error) {
	return s.save(ctx, "save", id, input)
}

// Submit 前台提交评价, 新评价默认禁用等待审核
func (s *testimonialService) Submit(ctx context.Context, input *TestimonialInput) (*model.TestimonialModel, error) {
	submitted := TestimonialInput{}
	if input != nil {
		submitted = *input
	}
	disabled := int(model.StatusDisabled)
	submitted.Status = &disabled
	return s.save(ctx, "storefront", 0, &submitted)
}

func (s *testimonialService) save(ctx context.Context, path string, id uint, input *TestimonialInput) (*model.TestimonialModel, error) {
	if input == nil {
		input = &TestimonialInput{}
	}

	// 1. 获取或创建实体
	testimonial := model.NewTestimonial()
	if id != 0 {
		found, err := s.repo.FindByID(id)
		if err != nil {
			mErr := fetchFailure(id, err)
			metrics.RecordSave(path, string(mErr.Kind))
			return nil, mErr
		}
		testimonial = found
	}

	// 2. 验证, 失败时实体保持不变
	values, err := input.validate(testimonial)
	if err != nil {
		mErr := validationFailure(id, err)
		s.logger.WithFields(logrus.Fields{
			"request_id":     GetRequestID(ctx),
			"testimonial_id": id,
			"kind":           mErr.Kind,
		}).Warn(mErr.Message)
		metrics.RecordSave(path, string(mErr.Kind))
		return nil, mErr
	}

	// 3. 应用并持久化
	values.applyTo(testimonial)
	if err := s.repo.Save(testimonial); err != nil {
		s.logger.WithFields(logrus.Fields{
			"request_id":     GetRequestID(ctx),
			"testimonial_id": id,
		}).WithError(err).Error("failed to persist testimonial")
		metrics.RecordSave(path, string(utils.KindStoreFailure))
		return nil, storeFailure(id, err)
	}

	metrics.RecordSave(path, "success")
	s.recordChange(ctx, path, testimonial.ID, map[string]interface{}{
		"rating": testimonial.Rating,
		"status": testimonial.Status,
	})
	return testimonial, nil
}

// Delete 删除单条评价
func (s *testimonialService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(id); err != nil {
		return fetchFailure(id, err)
	}
	s.recordChange(ctx, "delete", id, nil)
	return nil
}

