package model

// Permission names an operation guarded by role
type Permission string

const (
	PermMaterialView   Permission = "material:view"
	PermMaterialCreate Permission = "material:create"
	PermMaterialUpdate Permission = "material:update"
	PermMaterialDelete Permission = "material:delete"
	PermStockUpdate    Permission = "stock:update"

	PermTransactionView Permission = "transaction:view"
	PermActivityView    Permission = "activity:view"

	PermCategoryView   Permission = "category:view"
	PermCategoryCreate Permission = "category:create"
	PermCategoryUpdate Permission = "category:update"
	PermCategoryDelete Permission = "category:delete"

	PermUserView       Permission = "user:view"
	PermUserUpdateRole Permission = "user:update_role"

	PermRoleRequestSubmit Permission = "role_request:submit"
	PermRoleRequestReview Permission = "role_request:review"
)

var (
	everyone     = []Role{RoleAdmin, RoleManager, RoleUser}
	staff        = []Role{RoleAdmin, RoleManager}
	adminOnly    = []Role{RoleAdmin}
	regularUsers = []Role{RoleUser}
)

// Permissions is the permission table: operation -> roles allowed to run it
var Permissions = map[Permission][]Role{
	PermMaterialView:   everyone,
	PermMaterialCreate: staff,
	PermMaterialUpdate: staff,
	PermMaterialDelete: adminOnly,
	PermStockUpdate:    staff,

	PermTransactionView: everyone,
	PermActivityView:    staff,

	PermCategoryView:   everyone,
	PermCategoryCreate: staff,
	PermCategoryUpdate: staff,
	PermCategoryDelete: adminOnly,

	PermUserView:       adminOnly,
	PermUserUpdateRole: adminOnly,

	PermRoleRequestSubmit: regularUsers,
	PermRoleRequestReview: adminOnly,
}
