package admin

import (
	"github.com/inkpost/internal/authz"
	"github.com/inkpost/internal/http/response"

	"github.com/gin-gonic/gin"
)

// RegistryItem 当前用户可见的后台实体
type RegistryItem struct {
	Entity     string                 `json:"entity"`
	Label      string                 `json:"label"`
	ListFields []string               `json:"list_fields"`
	Operations []authz.OperationRoute `json:"operations"`
}

// RegistryView 后台注册表与当前用户的生效策略
type RegistryView struct {
	Entities []RegistryItem `json:"entities"`
	Subjects []string       `json:"subjects"`
	Roles    []string       `json:"roles"`
	Policies []authz.Policy `json:"policies"`
}

// GetRegistry 返回后台注册表，仅包含当前用户被授权的操作
func (h *Handler) GetRegistry(c *gin.Context) {
	operator, ok := currentOperator(c)
	if !ok {
		return
	}

	items := make([]RegistryItem, 0)
	for _, entity := range authz.AdminRegistry() {
		if entity.Entity == "registry" {
			continue
		}
		allowedOps := make([]authz.OperationRoute, 0, len(entity.Operations))
		for _, route := range entity.Operations {
			allowed, err := h.AuthzService.EnforceUser(operator, route.Path, route.Method)
			if err != nil {
				respondError(c, response.CodeInternal, "error.internal", err)
				return
			}
			if allowed {
				allowedOps = append(allowedOps, route)
			}
		}
		if len(allowedOps) == 0 {
			continue
		}
		items = append(items, RegistryItem{
			Entity:     entity.Entity,
			Label:      entity.Label,
			ListFields: entity.ListFields,
			Operations: allowedOps,
		})
	}

	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	policies, err := h.AuthzService.EffectivePolicies(operator)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, RegistryView{
		Entities: items,
		Subjects: authz.SubjectsForUser(operator),
		Roles:    roles,
		Policies: policies,
	})
}
