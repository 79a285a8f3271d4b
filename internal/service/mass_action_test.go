package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/mautops/testimonial-gin/internal/model"
	"github.com/mautops/testimonial-gin/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInlineEdit_RowsAreIndependent 测试单行失败不影响其他行
func TestInlineEdit_RowsAreIndependent(t *testing.T) {
	env := setupTestEnv(t)
	ids := env.seed(t, 3)

	result := env.svc.InlineEdit(context.Background(), []service.InlineEditRow{
		{ID: ids[0], Fields: service.TestimonialInput{CustomerName: strPtr("Alice")}},
		{ID: ids[1], Fields: service.TestimonialInput{CustomerEmail: strPtr("not-an-email")}},
		{ID: ids[2], Fields: service.TestimonialInput{Rating: intPtr(1)}},
	})

	assert.True(t, result.Error)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, fmt.Sprintf("[Testimonial ID: %d] Please enter a valid email address.", ids[1]), result.Messages[0])
	assert.Equal(t, 2, env.repo.saves)

	first, err := env.svc.Get(ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Alice", first.CustomerName)

	second, err := env.svc.Get(ids[1])
	require.NoError(t, err)
	assert.Equal(t, "customer2@example.com", second.CustomerEmail)

	third, err := env.svc.Get(ids[2])
	require.NoError(t, err)
	assert.Equal(t, 1, third.Rating)
}

// TestInlineEdit_ShortMessageAccepted 测试内联编辑只检查内容非空
func TestInlineEdit_ShortMessageAccepted(t *testing.T) {
	env := setupTestEnv(t)
	ids := env.seed(t, 1)

	result := env.svc.InlineEdit(context.Background(), []service.InlineEditRow{
		{ID: ids[0], Fields: service.TestimonialInput{Message: strPtr("short")}},
	})
	assert.False(t, result.Error)
	assert.Empty(t, result.Messages)

	found, err := env.svc.Get(ids[0])
	require.NoError(t, err)
	assert.Equal(t, "short", found.Message)

	_, err = env.svc.Save(context.Background(), ids[0], &service.TestimonialInput{Message: strPtr("short")})
	require.Error(t, err)
}

// TestInlineEdit_FieldOrder 测试字段按 name、email、rating、status、message 顺序验证
func TestInlineEdit_FieldOrder(t *testing.T) {
	env := setupTestEnv(t)
	ids := env.seed(t, 1)

	result := env.svc.InlineEdit(context.Background(), []service.InlineEditRow{
		{ID: ids[0], Fields: service.TestimonialInput{
			Message: strPtr(""),
			Status:  intPtr(5),
			Rating:  intPtr(9),
		}},
	})
	require.Len(t, result.Messages, 1)
	assert.Equal(t, fmt.Sprintf("[Testimonial ID: %d] Rating must be between 1 and 5.", ids[0]), result.Messages[0])
	assert.Zero(t, env.repo.saves)
}

// TestInlineEdit_MissingAndFailingRows 测试不存在的行与存储失败
func TestInlineEdit_MissingAndFailingRows(t *testing.T) {
	env := setupTestEnv(t)
	ids := env.seed(t, 2)
	env.repo.failSave[ids[1]] = true

	result := env.svc.InlineEdit(context.Background(), []service.InlineEditRow{
		{ID: 404, Fields: service.TestimonialInput{Rating: intPtr(3)}},
		{ID: ids[1], Fields: service.TestimonialInput{Rating: intPtr(3)}},
		{ID: ids[0], Fields: service.TestimonialInput{Rating: intPtr(3)}},
	})

	assert.True(t, result.Error)
	assert.Equal(t, []string{
		`Testimonial with ID "404" does not exist.`,
		fmt.Sprintf("[Testimonial ID: %d] Something went wrong while saving the testimonial.", ids[1]),
	}, result.Messages)

	found, err := env.svc.Get(ids[0])
	require.NoError(t, err)
	assert.Equal(t, 3, found.Rating)
}

// TestInlineEdit_EmptyRows 测试没有提交数据
func TestInlineEdit_EmptyRows(t *testing.T) {
	env := setupTestEnv(t)

	result := env.svc.InlineEdit(context.Background(), nil)
	assert.True(t, result.Error)
	assert.Equal(t, []string{"Please correct the data sent."}, result.Messages)
}

// TestMassDelete_PartialFailure 测试批量删除中单条失败
func TestMassDelete_PartialFailure(t *testing.T) {
	env := setupTestEnv(t)
	ids := env.seed(t, 5)
	env.repo.failDelete[ids[2]] = true

	result := env.svc.MassDelete(context.Background(), &service.Selection{Selected: ids})

	assert.Equal(t, 4, result.Count)
	assert.Equal(t, 5, env.repo.deletes)
	require.Len(t, result.Errors(), 1)
	assert.Contains(t, result.Errors()[0], fmt.Sprintf("Error deleting testimonial ID %d:", ids[2]))
	assert.NotContains(t, result.Errors()[0], errStoreDown.Error())
	assert.Contains(t, result.Messages, service.FlashMessage{Type: "success", Text: "A total of 4 record(s) have been deleted."})

	_, err := env.svc.Get(ids[2])
	assert.NoError(t, err)
}

// TestMassDelete_SelectAllWithExclusions 测试全选并排除部分条目
func TestMassDelete_SelectAllWithExclusions(t *testing.T) {
	env := setupTestEnv(t)
	ids := env.seed(t, 4)

	result := env.svc.MassDelete(context.Background(), &service.Selection{All: true, Excluded: []uint{ids[0]}})
	assert.Equal(t, 3, result.Count)
	assert.Empty(t, result.Errors())

	remaining, total, err := env.svc.List(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, ids[0], remaining[0].ID)
}

// TestMassDelete_EmptySelection 测试未选择任何条目
func TestMassDelete_EmptySelection(t *testing.T) {
	env := setupTestEnv(t)
	env.seed(t, 2)

	result := env.svc.MassDelete(context.Background(), &service.Selection{})
	assert.Zero(t, result.Count)
	assert.Equal(t, []string{"An item needs to be selected. Select and try again."}, result.Errors())
	assert.Zero(t, env.repo.deletes)
}

// TestMassDelete_ResolutionFailure 测试解析选择失败时中止
func TestMassDelete_ResolutionFailure(t *testing.T) {
	env := setupTestEnv(t)
	ids := env.seed(t, 2)
	env.repo.failFind = true

	result := env.svc.MassDelete(context.Background(), &service.Selection{Selected: ids})
	assert.Equal(t, []service.FlashMessage{{Type: "error", Text: "Something went wrong while deleting testimonials."}}, result.Messages)
	assert.Zero(t, env.repo.deletes)
}

// TestMassStatus_InvalidStatus 测试非法状态值不做任何修改
func TestMassStatus_InvalidStatus(t *testing.T) {
	env := setupTestEnv(t)
	ids := env.seed(t, 3)

	result := env.svc.MassStatus(context.Background(), &service.Selection{Selected: ids}, 3)
	assert.Zero(t, result.Count)
	assert.Zero(t, env.repo.saves)
	assert.Equal(t, []string{"Invalid status value. Status must be either 0 or 1."}, result.Errors())
	assert.Len(t, result.Messages, 1)
}

// TestMassStatus_UpdatesSelection 测试批量启用
func TestMassStatus_UpdatesSelection(t *testing.T) {
	env := setupTestEnv(t)
	ids := env.seed(t, 3)
	env.repo.failSave[ids[1]] = true

	result := env.svc.MassStatus(context.Background(), &service.Selection{Selected: ids}, int(model.StatusEnabled))
	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Errors(), 1)
	assert.Contains(t, result.Errors()[0], fmt.Sprintf("Error updating testimonial ID %d:", ids[1]))
	assert.Contains(t, result.Messages, service.FlashMessage{Type: "success", Text: "A total of 2 record(s) have been updated."})

	found, err := env.svc.Get(ids[0])
	require.NoError(t, err)
	assert.Equal(t, model.StatusEnabled, found.Status)

	untouched, err := env.svc.Get(ids[1])
	require.NoError(t, err)
	assert.Equal(t, model.StatusDisabled, untouched.Status)
}

// TestResolveSelection_StatusFilter 测试全选时按状态过滤
func TestResolveSelection_StatusFilter(t *testing.T) {
	env := setupTestEnv(t)
	ids := env.seed(t, 3)
	env.svc.MassStatus(context.Background(), &service.Selection{Selected: ids[:1]}, 1)

	enabled := model.StatusEnabled
	items, err := env.svc.ResolveSelection(&service.Selection{All: true, Status: &enabled})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, ids[0], items[0].ID)

	_, err = env.svc.ResolveSelection(nil)
	assert.ErrorIs(t, err, service.ErrEmptySelection)
}

// TestInlineEdit_FetchFailure 测试读取失败时返回通用消息
func TestInlineEdit_FetchFailure(t *testing.T) {
	env := setupTestEnv(t)
	ids := env.seed(t, 1)
	env.repo.failFetchID[ids[0]] = true

	result := env.svc.InlineEdit(context.Background(), []service.InlineEditRow{
		{ID: ids[0], Fields: service.TestimonialInput{Rating: intPtr(2)}},
	})
	assert.Equal(t, []string{
		fmt.Sprintf("[Testimonial ID: %d] Something went wrong while saving the testimonial.", ids[0]),
	}, result.Messages)
	assert.Zero(t, env.repo.saves)
}

// TestInlineEdit_UsesInlineMessages 测试内联编辑的空值提示
func TestInlineEdit_UsesInlineMessages(t *testing.T) {
	env := setupTestEnv(t)
	ids := env.seed(t, 1)

	result := env.svc.InlineEdit(context.Background(), []service.InlineEditRow{
		{ID: ids[0], Fields: service.TestimonialInput{Message: strPtr("   ")}},
	})
	assert.Equal(t, []string{
		fmt.Sprintf("[Testimonial ID: %d] Testimonial message cannot be empty.", ids[0]),
	}, result.Messages)
}
