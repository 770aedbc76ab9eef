package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
)

func role(id uint, name string, perms ...string) models.Role {
	r := models.Role{ID: id, Name: name}
	for i, p := range perms {
		r.Permissions = append(r.Permissions, models.Permission{ID: uint(i + 1), Name: p})
	}

	return r
}

func TestHasPermission_EditorScenario(t *testing.T) {
	user := &models.User{
		ID:    1,
		Roles: []models.Role{role(1, "Editor", PermCategoriesView, PermCategoriesEdit)},
	}

	assert.False(t, HasPermission(user, PermCategoriesDelete))
	assert.True(t, HasPermission(user, PermCategoriesEdit))
	assert.True(t, HasPermission(user, PermCategoriesView))
}

func TestHasPermission_ExactMatchOnly(t *testing.T) {
	user := &models.User{Roles: []models.Role{role(1, "Editor", "categories.edit")}}

	assert.False(t, HasPermission(user, "categories"))
	assert.False(t, HasPermission(user, "categories.*"))
	assert.False(t, HasPermission(user, "Categories.Edit"))
	assert.False(t, HasPermission(user, ""))
}

func TestHasPermission_NoRoles(t *testing.T) {
	for _, perm := range []string{PermDashboardView, PermUsersDelete, "", "anything"} {
		assert.False(t, HasPermission(&models.User{}, perm), perm)
		assert.False(t, HasPermission(nil, perm), perm)
	}
}

func TestHasAnyAndAllPermissions(t *testing.T) {
	user := &models.User{
		Roles: []models.Role{
			role(1, "Catalog", PermProductsView, PermProductsEdit),
			role(2, "Viewer", PermDashboardView),
		},
	}

	tests := []struct {
		name    string
		perms   []string
		wantAny bool
		wantAll bool
	}{
		{name: "empty list", perms: nil, wantAny: false, wantAll: true},
		{name: "single granted", perms: []string{PermDashboardView}, wantAny: true, wantAll: true},
		{name: "across roles", perms: []string{PermProductsEdit, PermDashboardView}, wantAny: true, wantAll: true},
		{name: "one missing", perms: []string{PermProductsEdit, PermUsersView}, wantAny: true, wantAll: false},
		{name: "none granted", perms: []string{PermUsersView, PermRolesView}, wantAny: false, wantAll: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAny, HasAnyPermission(user, tt.perms))
			assert.Equal(t, tt.wantAll, HasAllPermissions(user, tt.perms))
		})
	}
}

func TestAllPermissions_Deduplicates(t *testing.T) {
	user := &models.User{
		Roles: []models.Role{
			role(1, "A", PermProductsView, PermCategoriesView),
			role(2, "B", PermCategoriesView, PermDashboardView),
		},
	}

	perms := AllPermissions(user)
	assert.Len(t, perms, 3)
	assert.Contains(t, perms, PermCategoriesView)

	assert.Equal(t, []string{PermCategoriesView, PermDashboardView, PermProductsView}, PermissionNames(user))
	assert.Empty(t, AllPermissions(nil))
}

func TestModuleOrder_FirstRoleOnly(t *testing.T) {
	first := role(1, "First")
	first.ModuleOrders = []models.RoleModuleOrder{
		{RoleID: 1, Module: "settings", Order: 3},
		{RoleID: 1, Module: "dashboard", Order: 1},
		{RoleID: 1, Module: "products", Order: 2},
	}

	second := role(2, "Second")
	second.ModuleOrders = []models.RoleModuleOrder{{RoleID: 2, Module: "categories", Order: 1}}

	user := &models.User{Roles: []models.Role{first, second}}

	orders := ModuleOrder(user)
	if assert.Len(t, orders, 3) {
		assert.Equal(t, "dashboard", orders[0].Module)
		assert.Equal(t, "products", orders[1].Module)
		assert.Equal(t, "settings", orders[2].Module)
	}

	// the stored slice keeps its original order
	assert.Equal(t, "settings", user.Roles[0].ModuleOrders[0].Module)
}

func TestModuleOrder_NoRoles(t *testing.T) {
	assert.Empty(t, ModuleOrder(&models.User{}))
	assert.NotNil(t, ModuleOrder(nil))
}

func TestDefinition_ModuleAndAction(t *testing.T) {
	for _, def := range Catalogue() {
		assert.NotEmpty(t, def.Module(), def.Name)
		assert.NotEmpty(t, def.Action(), def.Name)
		assert.Equal(t, def.Name, def.Module()+"."+def.Action())
	}
}
