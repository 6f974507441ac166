package authz

import (
	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/models"
)

// CanModerate 员工或管理员角色可审核、管理他人内容
func CanModerate(actor *models.User) bool {
	if actor == nil || actor.ID == 0 {
		return false
	}
	return actor.IsStaff || actor.Role == constants.RoleAdmin
}

// CanModify 资源所有者或审核员可修改资源
func CanModify(actor *models.User, ownerID uint) bool {
	if actor == nil || actor.ID == 0 {
		return false
	}
	return actor.ID == ownerID || CanModerate(actor)
}

// IsPublisher 文章作者或审核员在该文章下的评论免审核
func IsPublisher(actor *models.User, post *models.Post) bool {
	if actor == nil || actor.ID == 0 || post == nil {
		return false
	}
	return actor.ID == post.AuthorID || CanModerate(actor)
}

// CanAuthor 作者及以上角色或审核员可发布文章
func CanAuthor(actor *models.User) bool {
	if actor == nil || actor.ID == 0 {
		return false
	}
	return constants.RoleAtLeast(actor.Role, constants.RoleAuthor) || CanModerate(actor)
}
