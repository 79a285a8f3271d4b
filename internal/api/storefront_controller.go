package api

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mautops/testimonial-gin/internal/service"
	"github.com/mautops/testimonial-gin/internal/view"
)

const storefrontPath = "/testimonials"

// SubmitRequest 前台提交评价
// @Description 客户提交的评价, 审核后展示
type SubmitRequest struct {
	CustomerName  string `json:"customer_name" form:"customer_name" example:"Jane Doe"`
	CustomerEmail string `json:"customer_email" form:"customer_email" example:"jane@example.com"`
	Message       string `json:"message" form:"message" example:"Great product, highly recommend!"`
	Rating        int    `json:"rating" form:"rating" example:"5"`
}

// StorefrontItem 前台展示的评价
type StorefrontItem struct {
	view.ListItem
	DisplayDate string        `json:"display_date"`
	Stars       []view.Star   `json:"stars"`
	RatingHTML  template.HTML `json:"rating_html"`
}

// StorefrontController 前台评价控制器
type StorefrontController struct {
	testimonialService service.TestimonialService
	formKeys           *FormKeyStore
}

// NewStorefrontController 创建前台控制器
func NewStorefrontController(testimonialService service.TestimonialService, formKeys *FormKeyStore) *StorefrontController {
	return &StorefrontController{
		testimonialService: testimonialService,
		formKeys:           formKeys,
	}
}

// List 已启用的评价
// @Summary      前台评价列表
// @Tags         前台
// @Produce      json
// @Success      200  {object}  Response
// @Router       /testimonials [get]
func (c *StorefrontController) List(ctx *gin.Context) {
	testimonials, err := c.testimonialService.ListEnabled()
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to load testimonials", "")
		return
	}

	list := view.NewTestimonialList(testimonials, storefrontPath)
	items := make([]StorefrontItem, 0, list.TotalCount())
	for i, item := range list.Items() {
		html, err := view.RatingStarsHTML(item.Rating)
		if err != nil {
			Error(ctx, http.StatusInternalServerError, "failed to render rating", "")
			return
		}
		items = append(items, StorefrontItem{
			ListItem:    item,
			DisplayDate: view.FormatDate(testimonials[i].CreatedAt),
			Stars:       view.RatingStars(item.Rating),
			RatingHTML:  html,
		})
	}

	Success(ctx, gin.H{
		"items":       items,
		"total_count": list.TotalCount(),
		"submit_url":  list.SubmitURL,
	})
}

// Form 提交表单配置
// @Summary      前台提交表单配置
// @Description  返回评分选项、校验规则与表单密钥
// @Tags         前台
// @Produce      json
// @Success      200  {object}  Response
// @Router       /testimonials/form [get]
func (c *StorefrontController) Form(ctx *gin.Context) {
	formKey, err := c.formKeys.IssueToken(ctx)
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to issue form key", "")
		return
	}

	Success(ctx, view.NewTestimonialForm(storefrontPath, formKey, storefrontPath))
}

// Submit 提交评价
// @Summary      前台提交评价
// @Description  新评价默认禁用, 审核后展示
// @Tags         前台
// @Accept       json
// @Produce      json
// @Param        X-Form-Key header string        true "表单密钥"
// @Param        request    body   SubmitRequest true "评价内容"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      429  {object}  ErrorResponse
// @Router       /testimonials [post]
func (c *StorefrontController) Submit(ctx *gin.Context) {
	var req SubmitRequest
	if err := ctx.ShouldBind(&req); err != nil {
		_ = ctx.Error(WrapError(err, http.StatusBadRequest, "Please correct the data sent."))
		return
	}

	testimonial, err := c.testimonialService.Submit(ctx.Request.Context(), &service.TestimonialInput{
		CustomerName:  &req.CustomerName,
		CustomerEmail: &req.CustomerEmail,
		Message:       &req.Message,
		Rating:        &req.Rating,
	})
	if err != nil {
		_ = ctx.Error(MutationError(err))
		return
	}

	Success(ctx, gin.H{
		"id":      testimonial.ID,
		"message": "Thank you for your testimonial. It will be published after review.",
	})
}
