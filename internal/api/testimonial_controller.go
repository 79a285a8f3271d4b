package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mautops/testimonial-gin/internal/model"
	"github.com/mautops/testimonial-gin/internal/repository"
	"github.com/mautops/testimonial-gin/internal/service"
	"github.com/tidwall/gjson"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// MassStatusRequest 批量修改状态请求
// @Description 选择条件与目标状态
type MassStatusRequest struct {
	service.Selection
	Status *int `json:"status" example:"1"`
}

// TestimonialController 后台评价管理控制器
type TestimonialController struct {
	testimonialService service.TestimonialService
	statisticsService  service.StatisticsService
	auditLogService    service.AuditLogService
}

// NewTestimonialController 创建评价控制器
func NewTestimonialController(
	testimonialService service.TestimonialService,
	statisticsService service.StatisticsService,
	auditLogService service.AuditLogService,
) *TestimonialController {
	return &TestimonialController{
		testimonialService: testimonialService,
		statisticsService:  statisticsService,
		auditLogService:    auditLogService,
	}
}

// parseID 解析路径中的评价 ID, 无效时返回错误响应
func parseID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		Error(ctx, http.StatusBadRequest, "invalid testimonial ID", ctx.Param("id"))
		return 0, false
	}
	return uint(id), true
}

// List 评价列表
// @Summary      评价列表
// @Description  按状态、关键字过滤, 支持排序与分页
// @Tags         评价管理
// @Produce      json
// @Param        status    query int    false "状态 0/1"
// @Param        search    query string false "关键字"
// @Param        sort_by   query string false "排序字段"
// @Param        order     query string false "asc/desc"
// @Param        page      query int    false "页码"
// @Param        page_size query int    false "每页数量"
// @Success      200  {object}  PaginatedResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /admin/testimonials [get]
func (c *TestimonialController) List(ctx *gin.Context) {
	filter := &repository.TestimonialFilter{
		Search: strings.TrimSpace(ctx.Query("search")),
		SortBy: ctx.Query("sort_by"),
		Order:  ctx.Query("order"),
		Page:   1,
	}

	if raw := ctx.Query("status"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || !model.Status(n).Valid() {
			Error(ctx, http.StatusBadRequest, "invalid status filter", raw)
			return
		}
		status := model.Status(n)
		filter.Status = &status
	}

	if page, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}
	filter.PageSize = defaultPageSize
	if size, err := strconv.Atoi(ctx.Query("page_size")); err == nil && size > 0 {
		filter.PageSize = size
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	items, total, err := c.testimonialService.List(filter)
	if err != nil {
		_ = ctx.Error(WrapError(err, http.StatusBadRequest, "failed to list testimonials"))
		return
	}

	Paginated(ctx, items, NewPaginationInfo(filter.Page, filter.PageSize, total))
}

// Get 获取评价
// @Summary      获取评价详情
// @Tags         评价管理
// @Produce      json
// @Param        id path int true "评价 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/testimonials/{id} [get]
func (c *TestimonialController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	testimonial, err := c.testimonialService.Get(id)
	if err != nil {
		_ = ctx.Error(MutationError(err))
		return
	}

	Success(ctx, testimonial)
}

// Create 新建评价
// @Summary      新建评价
// @Tags         评价管理
// @Accept       json
// @Produce      json
// @Param        request body service.TestimonialInput true "评价信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /admin/testimonials [post]
func (c *TestimonialController) Create(ctx *gin.Context) {
	c.save(ctx, 0)
}

// Update 保存评价
// @Summary      保存评价
// @Description  未提交的字段保持原值, 所有字段按完整规则验证
// @Tags         评价管理
// @Accept       json
// @Produce      json
// @Param        id      path int                      true "评价 ID"
// @Param        request body service.TestimonialInput true "评价信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /admin/testimonials/{id} [put]
func (c *TestimonialController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	c.save(ctx, id)
}

func (c *TestimonialController) save(ctx *gin.Context, id uint) {
	var input service.TestimonialInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		_ = ctx.Error(WrapError(err, http.StatusBadRequest, "Please correct the data sent."))
		return
	}

	testimonial, err := c.testimonialService.Save(ctx.Request.Context(), id, &input)
	if err != nil {
		_ = ctx.Error(MutationError(err))
		return
	}

	Success(ctx, testimonial)
}

// Delete 删除评价
// @Summary      删除评价
// @Tags         评价管理
// @Produce      json
// @Param        id path int true "评价 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/testimonials/{id} [delete]
func (c *TestimonialController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.testimonialService.Delete(ctx.Request.Context(), id); err != nil {
		_ = ctx.Error(MutationError(err))
		return
	}

	Success(ctx, nil)
}

// History 评价操作记录
// @Summary      评价操作记录
// @Tags         评价管理
// @Produce      json
// @Param        id path int true "评价 ID"
// @Success      200  {object}  Response
// @Router       /admin/testimonials/{id}/history [get]
func (c *TestimonialController) History(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	logs, err := c.auditLogService.History(id)
	if err != nil {
		_ = ctx.Error(WrapError(err, http.StatusInternalServerError, "failed to load history"))
		return
	}

	Success(ctx, logs)
}

// InlineEdit 表格内联编辑
// @Summary      内联编辑
// @Description  items 以评价 ID 为键, 按提交顺序逐行保存
// @Tags         评价管理
// @Accept       json
// @Produce      json
// @Success      200  {object}  Response
// @Router       /admin/testimonials/inline-edit [post]
func (c *TestimonialController) InlineEdit(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		_ = ctx.Error(WrapError(err, http.StatusBadRequest, "Please correct the data sent."))
		return
	}

	result := c.testimonialService.InlineEdit(ctx.Request.Context(), ParseInlineEditRows(body))
	Success(ctx, result)
}

// ParseInlineEditRows 解析 {"items": {"<id>": {<field>: <value>}}}, 保持提交顺序
func ParseInlineEditRows(body []byte) []service.InlineEditRow {
	if !gjson.ValidBytes(body) {
		return nil
	}
	items := gjson.GetBytes(body, "items")
	if !items.IsObject() {
		return nil
	}

	var rows []service.InlineEditRow
	items.ForEach(func(key, value gjson.Result) bool {
		id, err := strconv.ParseUint(key.String(), 10, 64)
		if err != nil {
			id = 0
		}
		rows = append(rows, service.InlineEditRow{
			ID:     uint(id),
			Fields: parseInlineFields(value),
		})
		return true
	})
	return rows
}

func parseInlineFields(value gjson.Result) service.TestimonialInput {
	var in service.TestimonialInput
	if v := value.Get("customer_name"); v.Exists() {
		s := v.String()
		in.CustomerName = &s
	}
	if v := value.Get("customer_email"); v.Exists() {
		s := v.String()
		in.CustomerEmail = &s
	}
	if v := value.Get("rating"); v.Exists() {
		n := intField(v)
		in.Rating = &n
	}
	if v := value.Get("status"); v.Exists() {
		n := intField(v)
		in.Status = &n
	}
	if v := value.Get("message"); v.Exists() {
		s := v.String()
		in.Message = &s
	}
	return in
}

// intField 表格提交的数字可能是字符串, 无法解析时返回 -1
func intField(v gjson.Result) int {
	switch v.Type {
	case gjson.Number:
		if v.Num != float64(int(v.Num)) {
			return -1
		}
		return int(v.Int())
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil {
			return -1
		}
		return n
	default:
		return -1
	}
}

// MassDelete 批量删除
// @Summary      批量删除
// @Tags         评价管理
// @Accept       json
// @Produce      json
// @Param        request body service.Selection true "选择条件"
// @Success      200  {object}  Response
// @Router       /admin/testimonials/mass-delete [post]
func (c *TestimonialController) MassDelete(ctx *gin.Context) {
	var sel service.Selection
	if err := ctx.ShouldBindJSON(&sel); err != nil {
		_ = ctx.Error(WrapError(err, http.StatusBadRequest, "Please correct the data sent."))
		return
	}

	Success(ctx, c.testimonialService.MassDelete(ctx.Request.Context(), &sel))
}

// MassStatus 批量修改状态
// @Summary      批量修改状态
// @Tags         评价管理
// @Accept       json
// @Produce      json
// @Param        request body MassStatusRequest true "选择条件与目标状态"
// @Success      200  {object}  Response
// @Router       /admin/testimonials/mass-status [post]
func (c *TestimonialController) MassStatus(ctx *gin.Context) {
	var req MassStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		_ = ctx.Error(WrapError(err, http.StatusBadRequest, "Please correct the data sent."))
		return
	}

	status := -1
	if req.Status != nil {
		status = *req.Status
	}

	Success(ctx, c.testimonialService.MassStatus(ctx.Request.Context(), &req.Selection, status))
}

// Statistics 评价统计
// @Summary      评价统计
// @Tags         评价管理
// @Produce      json
// @Success      200  {object}  Response
// @Failure      500  {object}  ErrorResponse
// @Router       /admin/testimonials/statistics [get]
func (c *TestimonialController) Statistics(ctx *gin.Context) {
	summary, err := c.statisticsService.GetSummary()
	if err != nil {
		_ = ctx.Error(WrapError(err, http.StatusInternalServerError, "failed to get statistics"))
		return
	}
	byStatus, err := c.statisticsService.GetStatisticsByStatus()
	if err != nil {
		_ = ctx.Error(WrapError(err, http.StatusInternalServerError, "failed to get statistics"))
		return
	}
	byRating, err := c.statisticsService.GetStatisticsByRating()
	if err != nil {
		_ = ctx.Error(WrapError(err, http.StatusInternalServerError, "failed to get statistics"))
		return
	}
	byTime, err := c.statisticsService.GetStatisticsByTime()
	if err != nil {
		_ = ctx.Error(WrapError(err, http.StatusInternalServerError, "failed to get statistics"))
		return
	}

	Success(ctx, gin.H{
		"summary":   summary,
		"by_status": byStatus,
		"by_rating": byRating,
		"by_date":   byTime,
	})
}
