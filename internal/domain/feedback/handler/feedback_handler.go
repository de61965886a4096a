package handler

import (
	"net/http"

	"desitasty_backend/internal/domain/feedback/model"
	"desitasty_backend/internal/domain/feedback/repository"
	"desitasty_backend/pkg/response"
	"desitasty_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler 反馈只有简单读写，不单独拆 service 层
type FeedbackHandler struct {
	repo repository.FeedbackRepository
}

func NewFeedbackHandler(repo repository.FeedbackRepository) *FeedbackHandler {
	return &FeedbackHandler{repo: repo}
}

// CreateInput 反馈提交输入
type CreateInput struct {
	UID     string `json:"uid" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// Create 提交反馈
// @Summary 提交反馈
// @Tags Feedback
// @Router /api/feedback [post]
func (h *FeedbackHandler) Create(c *gin.Context) {
	var input CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	feedback := &model.Feedback{
		UID:     input.UID,
		Rating:  input.Rating,
		Comment: input.Comment,
	}
	if err := h.repo.Create(feedback); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to save feedback")
		return
	}

	response.Success(c, gin.H{"feedbackId": feedback.ID})
}

// List 后台反馈列表
// @Summary 后台反馈列表
// @Tags Feedback
// @Router /api/feedback [get]
func (h *FeedbackHandler) List(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	offset, limit := p.GetPageOffset()
	list, total, err := h.repo.GetList(offset, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to list feedback")
		return
	}

	response.Success(c, utils.PageResult{
		List:  list,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}
