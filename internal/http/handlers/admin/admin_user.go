package admin

import (
	"strings"

	handlershared "github.com/inkpost/internal/http/handlers/shared"
	"github.com/inkpost/internal/http/response"
	"github.com/inkpost/internal/repository"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateAdminUserRequest 管理员更新用户请求
type UpdateAdminUserRequest struct {
	Role     *string `json:"role"`
	IsStaff  *bool   `json:"is_staff"`
	IsActive *bool   `json:"is_active"`
}

// GetAdminUsers 获取用户列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)

	users, total, err := h.UserAdminService.List(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Role:     strings.TrimSpace(c.Query("role")),
		IsStaff:  handlershared.OptionalBoolQuery(c, "is_staff"),
		IsActive: handlershared.OptionalBoolQuery(c, "is_active"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, users, response.BuildPagination(page, pageSize, total))
}

// UpdateAdminUser 更新用户角色、员工标记与激活状态
func (h *Handler) UpdateAdminUser(c *gin.Context) {
	operator, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateAdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.UserAdminService.Update(id, service.UserAdminUpdateInput{
		Role:     req.Role,
		IsStaff:  req.IsStaff,
		IsActive: req.IsActive,
	}, operator)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	saved(c, user)
}

// DeleteAdminUser 删除用户及其文章与评论
func (h *Handler) DeleteAdminUser(c *gin.Context) {
	operator, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.UserAdminService.Delete(id, operator); err != nil {
		respondServiceError(c, err)
		return
	}
	deleted(c, id)
}
