package auth

import (
	"sort"

	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
)

// The evaluator functions work on a principal whose Roles, Roles.Permissions and
// Roles.ModuleOrders are already loaded (see Service.LoadPrincipal).
// They never touch the database and never fail: missing data means deny or empty.

// HasPermission reports whether any role of the user grants the permission name.
func HasPermission(user *models.User, permission string) bool {
	if user == nil {
		return false
	}

	for i := range user.Roles {
		for j := range user.Roles[i].Permissions {
			if user.Roles[i].Permissions[j].Name == permission {
				return true
			}
		}
	}

	return false
}

// HasAnyPermission reports whether the user holds at least one of the permissions.
// An empty list yields false.
func HasAnyPermission(user *models.User, permissions []string) bool {
	granted := AllPermissions(user)

	for _, perm := range permissions {
		if _, ok := granted[perm]; ok {
			return true
		}
	}

	return false
}

// HasAllPermissions reports whether the user holds every one of the permissions.
// An empty list yields true.
func HasAllPermissions(user *models.User, permissions []string) bool {
	granted := AllPermissions(user)

	for _, perm := range permissions {
		if _, ok := granted[perm]; !ok {
			return false
		}
	}

	return true
}

// AllPermissions returns the deduplicated union of permission names across the user's roles.
func AllPermissions(user *models.User) map[string]struct{} {
	granted := make(map[string]struct{})
	if user == nil {
		return granted
	}

	for i := range user.Roles {
		for j := range user.Roles[i].Permissions {
			granted[user.Roles[i].Permissions[j].Name] = struct{}{}
		}
	}

	return granted
}

// PermissionNames returns AllPermissions as a sorted slice.
func PermissionNames(user *models.User) []string {
	granted := AllPermissions(user)

	names := make([]string, 0, len(granted))
	for name := range granted {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ModuleOrder returns the module order of the user's first role, sorted by position.
// Roles are not merged. A user without roles gets an empty list.
func ModuleOrder(user *models.User) []models.RoleModuleOrder {
	if user == nil || len(user.Roles) == 0 {
		return []models.RoleModuleOrder{}
	}

	orders := make([]models.RoleModuleOrder, len(user.Roles[0].ModuleOrders))
	copy(orders, user.Roles[0].ModuleOrders)

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Order < orders[j].Order
	})

	return orders
}
