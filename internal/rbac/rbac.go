// Package rbac holds the static role/resource permission matrix and its
// evaluator. Everything here is pure; storage and identity live elsewhere.
package rbac

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

type Resource string

const (
	ResourceTasks         Resource = "tasks"
	ResourceEmployees     Resource = "employees"
	ResourceNotifications Resource = "notifications"
	ResourceRoles         Resource = "roles"
	ResourceGoals         Resource = "goals"
)

type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

type Permission string

const (
	PermissionNone  Permission = "none"
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
)

// Roles lists every known role; Resources every guarded resource. Both are
// used to assert matrix totality in tests.
var Roles = []Role{RoleAdmin, RoleManager, RoleEmployee}

var Resources = []Resource{
	ResourceTasks,
	ResourceEmployees,
	ResourceNotifications,
	ResourceRoles,
	ResourceGoals,
}

func ValidRole(r string) bool {
	switch Role(r) {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

var rolePermissions = map[Role]map[Resource]Permission{
	RoleAdmin: {
		ResourceTasks:         PermissionWrite,
		ResourceEmployees:     PermissionWrite,
		ResourceNotifications: PermissionWrite,
		ResourceRoles:         PermissionWrite,
		ResourceGoals:         PermissionWrite,
	},
	RoleManager: {
		ResourceTasks:         PermissionRead,
		ResourceEmployees:     PermissionRead,
		ResourceNotifications: PermissionRead,
		ResourceRoles:         PermissionNone,
		ResourceGoals:         PermissionWrite,
	},
	RoleEmployee: {
		ResourceTasks:         PermissionRead,
		ResourceEmployees:     PermissionRead,
		ResourceNotifications: PermissionNone,
		ResourceRoles:         PermissionNone,
		ResourceGoals:         PermissionRead,
	},
}

// PermissionFor returns the matrix cell for a role/resource pair. Unknown
// roles or resources yield PermissionNone, keeping the matrix total.
func PermissionFor(role Role, resource Resource) Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return PermissionNone
	}
	perm, ok := perms[resource]
	if !ok {
		return PermissionNone
	}
	return perm
}

// Evaluate decides whether role may perform action on resource. Writes (and
// anything else classified as write: delete, bulk-create) require the write
// permission; reads are allowed for any permission except none.
func Evaluate(role Role, resource Resource, action Action) bool {
	perm := PermissionFor(role, resource)
	if perm == PermissionWrite {
		return true
	}
	return action == ActionRead && perm != PermissionNone
}
