package auth

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))

	return db
}

// seedPrincipal creates a user with two roles where both roles share categories.view.
func seedPrincipal(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	perms := []models.Permission{
		{Name: PermCategoriesView, Module: "categories", Action: "view", DisplayName: "View Categories"},
		{Name: PermCategoriesEdit, Module: "categories", Action: "edit", DisplayName: "Edit Categories"},
		{Name: PermDashboardView, Module: "dashboard", Action: "view", DisplayName: "View Dashboard"},
	}
	require.NoError(t, db.Create(&perms).Error)

	editor := models.Role{Name: "Editor"}
	viewer := models.Role{Name: "Viewer"}
	require.NoError(t, db.Create(&editor).Error)
	require.NoError(t, db.Create(&viewer).Error)

	require.NoError(t, db.Create(&[]models.RolePermission{
		{RoleID: editor.ID, PermissionID: perms[0].ID},
		{RoleID: editor.ID, PermissionID: perms[1].ID},
		{RoleID: viewer.ID, PermissionID: perms[0].ID},
		{RoleID: viewer.ID, PermissionID: perms[2].ID},
	}).Error)

	require.NoError(t, db.Create(&[]models.RoleModuleOrder{
		{RoleID: editor.ID, Module: "categories", Order: 1},
		{RoleID: editor.ID, Module: "dashboard", Order: 2},
		{RoleID: viewer.ID, Module: "dashboard", Order: 1},
	}).Error)

	user := models.User{Name: "Eve", Email: "eve@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	// insert the later role first, the loader must still order by role id
	require.NoError(t, db.Create(&models.UserRole{UserID: user.ID, RoleID: viewer.ID}).Error)
	require.NoError(t, db.Create(&models.UserRole{UserID: user.ID, RoleID: editor.ID}).Error)

	return user
}

func TestService_LoadPrincipal(t *testing.T) {
	db := setupTestDB(t)
	user := seedPrincipal(t, db)

	svc := NewService(db)

	principal, err := svc.LoadPrincipal(user.ID)
	require.NoError(t, err)

	require.Len(t, principal.Roles, 2)
	assert.Equal(t, "Editor", principal.Roles[0].Name)
	assert.Len(t, principal.Roles[0].Permissions, 2)
	assert.Len(t, principal.Roles[0].ModuleOrders, 2)

	assert.True(t, HasPermission(principal, PermDashboardView))
	assert.False(t, HasPermission(principal, PermCategoriesDelete))
	assert.Len(t, AllPermissions(principal), 3)

	orders := ModuleOrder(principal)
	require.Len(t, orders, 2)
	assert.Equal(t, "categories", orders[0].Module)
}

func TestService_LoadPrincipal_NotFound(t *testing.T) {
	svc := NewService(setupTestDB(t))

	_, err := svc.LoadPrincipal(42)
	assert.ErrorIs(t, err, ErrUserNotFound)

	ok, err := svc.HasPermission(42, PermDashboardView)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.False(t, ok)
}

func TestService_GetUserPermissions(t *testing.T) {
	db := setupTestDB(t)
	user := seedPrincipal(t, db)

	perms, err := NewService(db).GetUserPermissions(user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{PermCategoriesEdit, PermCategoriesView, PermDashboardView}, perms)
}

func TestLocalProvider_Authenticate(t *testing.T) {
	db := setupTestDB(t)

	hash, err := models.HashPassword("password123")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{Name: "Admin", Email: "admin@example.com", Password: hash}).Error)

	provider := NewLocalProvider(db)

	user, err := provider.Authenticate(" Admin@Example.com ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Admin", user.Name)

	_, err = provider.Authenticate("admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = provider.Authenticate("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
