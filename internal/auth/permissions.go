package auth

import "strings"

// Permission constants define the available permissions in the system.
// Names follow the module.action convention and are checked by exact match only.
const (
	// PermDashboardView allows viewing the dashboard.
	PermDashboardView = "dashboard.view"

	// PermUsersView allows listing and viewing user accounts.
	PermUsersView = "users.view"
	// PermUsersCreate allows creating user accounts.
	PermUsersCreate = "users.create"
	// PermUsersEdit allows editing user accounts and their roles.
	PermUsersEdit = "users.edit"
	// PermUsersDelete allows deleting user accounts.
	PermUsersDelete = "users.delete"

	// PermRolesView allows listing and viewing roles.
	PermRolesView = "roles.view"
	// PermRolesCreate allows creating roles.
	PermRolesCreate = "roles.create"
	// PermRolesEdit allows editing roles, their permissions and module order.
	PermRolesEdit = "roles.edit"
	// PermRolesDelete allows deleting roles.
	PermRolesDelete = "roles.delete"

	// PermPermissionsView allows listing and viewing permissions.
	PermPermissionsView = "permissions.view"
	// PermPermissionsCreate allows creating permissions.
	PermPermissionsCreate = "permissions.create"
	// PermPermissionsEdit allows editing permissions.
	PermPermissionsEdit = "permissions.edit"
	// PermPermissionsDelete allows deleting permissions.
	PermPermissionsDelete = "permissions.delete"

	// PermProductsView allows listing and viewing products.
	PermProductsView = "products.view"
	// PermProductsCreate allows creating products.
	PermProductsCreate = "products.create"
	// PermProductsEdit allows editing products.
	PermProductsEdit = "products.edit"
	// PermProductsDelete allows deleting products.
	PermProductsDelete = "products.delete"

	// PermCategoriesView allows listing and viewing categories.
	PermCategoriesView = "categories.view"
	// PermCategoriesCreate allows creating categories.
	PermCategoriesCreate = "categories.create"
	// PermCategoriesEdit allows editing categories, including moving them in the tree.
	PermCategoriesEdit = "categories.edit"
	// PermCategoriesDelete allows deleting categories without subcategories.
	PermCategoriesDelete = "categories.delete"

	// PermSettingsView allows opening the settings area.
	PermSettingsView = "settings.view"
	// PermSettingsEdit allows changing settings.
	PermSettingsEdit = "settings.edit"
)

// Definition describes a permission of the built-in catalogue.
type Definition struct {
	Name        string
	DisplayName string
	Description string
}

// Module returns the module part of the permission name.
func (d Definition) Module() string {
	module, _, _ := strings.Cut(d.Name, ".")
	return module
}

// Action returns the action part of the permission name.
func (d Definition) Action() string {
	_, action, _ := strings.Cut(d.Name, ".")
	return action
}

// Catalogue returns the built-in permissions in seeding order.
func Catalogue() []Definition {
	return []Definition{
		{PermDashboardView, "View Dashboard", "Access the dashboard"},

		{PermUsersView, "View Users", "List and view user accounts"},
		{PermUsersCreate, "Create Users", "Create user accounts"},
		{PermUsersEdit, "Edit Users", "Edit user accounts and role assignments"},
		{PermUsersDelete, "Delete Users", "Delete user accounts"},

		{PermRolesView, "View Roles", "List and view roles"},
		{PermRolesCreate, "Create Roles", "Create roles"},
		{PermRolesEdit, "Edit Roles", "Edit roles, permissions and module order"},
		{PermRolesDelete, "Delete Roles", "Delete roles"},

		{PermPermissionsView, "View Permissions", "List and view permissions"},
		{PermPermissionsCreate, "Create Permissions", "Create permissions"},
		{PermPermissionsEdit, "Edit Permissions", "Edit permissions"},
		{PermPermissionsDelete, "Delete Permissions", "Delete permissions"},

		{PermProductsView, "View Products", "List and view products"},
		{PermProductsCreate, "Create Products", "Create products"},
		{PermProductsEdit, "Edit Products", "Edit products"},
		{PermProductsDelete, "Delete Products", "Delete products"},

		{PermCategoriesView, "View Categories", "List and view categories"},
		{PermCategoriesCreate, "Create Categories", "Create categories"},
		{PermCategoriesEdit, "Edit Categories", "Edit categories"},
		{PermCategoriesDelete, "Delete Categories", "Delete categories"},

		{PermSettingsView, "View Settings", "Open the settings area"},
		{PermSettingsEdit, "Edit Settings", "Change settings"},
	}
}
