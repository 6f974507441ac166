package authz

// Operation 后台实体允许的操作
type Operation string

const (
	OpList       Operation = "list"
	OpCreate     Operation = "create"
	OpUpdate     Operation = "update"
	OpDelete     Operation = "delete"
	OpApprove    Operation = "approve"
	OpDisapprove Operation = "disapprove"
)

// 后台实体类型
const (
	EntityUser          = "user"
	EntityCategory      = "category"
	EntityTag           = "tag"
	EntityPost          = "post"
	EntityComment       = "comment"
	EntityModerationLog = "moderation_log"
)

// 内置角色
const (
	RoleAdmin = "role:admin"
	RoleStaff = "role:staff"
)

// OperationRoute 操作对应的后台接口
type OperationRoute struct {
	Operation Operation `json:"operation"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Staff     bool      `json:"staff"` // 员工角色是否可用，管理员始终可用
}

// EntityRegistration 后台实体注册项
type EntityRegistration struct {
	Entity     string           `json:"entity"`
	Label      string           `json:"label"`
	ListFields []string         `json:"list_fields"`
	Operations []OperationRoute `json:"operations"`
}

// Allows 判断实体是否允许某操作
func (e EntityRegistration) Allows(op Operation) bool {
	for _, route := range e.Operations {
		if route.Operation == op {
			return true
		}
	}
	return false
}

func crudRoutes(base string, staffList bool) []OperationRoute {
	return []OperationRoute{
		{Operation: OpList, Method: "GET", Path: base, Staff: staffList},
		{Operation: OpCreate, Method: "POST", Path: base},
		{Operation: OpUpdate, Method: "PUT", Path: base + "/:id"},
		{Operation: OpDelete, Method: "DELETE", Path: base + "/:id"},
	}
}

// AdminRegistry 后台实体与可用操作的显式映射表
// 返回新切片，调用方修改不影响后续调用。
func AdminRegistry() []EntityRegistration {
	return []EntityRegistration{
		{
			Entity:     EntityUser,
			Label:      "Users",
			ListFields: []string{"username", "email", "role", "is_staff", "is_active", "email_verified"},
			Operations: []OperationRoute{
				{Operation: OpList, Method: "GET", Path: "/admin/users"},
				{Operation: OpUpdate, Method: "PUT", Path: "/admin/users/:id"},
				{Operation: OpDelete, Method: "DELETE", Path: "/admin/users/:id"},
			},
		},
		{
			Entity:     EntityCategory,
			Label:      "Categories",
			ListFields: []string{"name", "slug", "created_at"},
			Operations: crudRoutes("/admin/categories", true),
		},
		{
			Entity:     EntityTag,
			Label:      "Tags",
			ListFields: []string{"name", "slug"},
			Operations: crudRoutes("/admin/tags", true),
		},
		{
			Entity:     EntityPost,
			Label:      "Posts",
			ListFields: []string{"title", "author", "category", "status", "created_at", "published_at", "was_published_recently"},
			Operations: crudRoutes("/admin/posts", true),
		},
		{
			Entity:     EntityComment,
			Label:      "Comments",
			ListFields: []string{"author", "post", "content_preview", "created_at", "approved"},
			Operations: []OperationRoute{
				{Operation: OpList, Method: "GET", Path: "/admin/comments", Staff: true},
				{Operation: OpApprove, Method: "POST", Path: "/admin/comments/approve", Staff: true},
				{Operation: OpDisapprove, Method: "POST", Path: "/admin/comments/disapprove", Staff: true},
				{Operation: OpDelete, Method: "DELETE", Path: "/admin/comments/:id", Staff: true},
			},
		},
		{
			Entity:     EntityModerationLog,
			Label:      "Moderation logs",
			ListFields: []string{"operator_username", "action", "target_ids", "affected", "created_at"},
			Operations: []OperationRoute{
				{Operation: OpList, Method: "GET", Path: "/admin/moderation-logs", Staff: true},
			},
		},
		{
			Entity: "registry",
			Label:  "Registry",
			Operations: []OperationRoute{
				{Operation: OpList, Method: "GET", Path: "/admin/registry", Staff: true},
			},
		},
	}
}

// LookupEntity 按实体类型查找注册项
func LookupEntity(entity string) (EntityRegistration, bool) {
	for _, item := range AdminRegistry() {
		if item.Entity == entity {
			return item, true
		}
	}
	return EntityRegistration{}, false
}

// RegistryPolicies 由注册表生成角色策略
func RegistryPolicies() []Policy {
	policies := make([]Policy, 0, 32)
	for _, entity := range AdminRegistry() {
		for _, route := range entity.Operations {
			policies = append(policies, Policy{Subject: RoleAdmin, Object: route.Path, Action: route.Method})
			if route.Staff {
				policies = append(policies, Policy{Subject: RoleStaff, Object: route.Path, Action: route.Method})
			}
		}
	}
	return policies
}
