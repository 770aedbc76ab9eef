package permission

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/db/controller"
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

func TestCRUD(t *testing.T) {
	db := setupTestDB(t)

	created, err := Create(db, Input{
		Name: "reports.view", Module: "reports", Action: "view", DisplayName: "View Reports",
	})
	require.NoError(t, err)

	_, err = Create(db, Input{Name: "reports.view", Module: "reports", Action: "view", DisplayName: "Dup"})
	assert.ErrorIs(t, err, controller.ErrTaken)

	_, err = Create(db, Input{Name: "reports.export", Module: "reports", Action: "export"})
	fe, ok := controller.AsFieldError(err)
	require.True(t, ok)
	assert.Equal(t, "display_name", fe.Field)

	updated, err := Update(db, created.ID, Input{
		Name: "reports.view", Module: "reports", Action: "view", DisplayName: "See Reports", Description: "read only",
	})
	require.NoError(t, err)
	assert.Equal(t, "See Reports", updated.DisplayName)

	require.NoError(t, Delete(db, created.ID))
	assert.ErrorIs(t, Delete(db, created.ID), controller.ErrNotFound)
}

func TestDelete_AssignedToRole(t *testing.T) {
	db := setupTestDB(t)

	perm, err := Create(db, Input{Name: "products.view", Module: "products", Action: "view", DisplayName: "View"})
	require.NoError(t, err)

	role := models.Role{Name: "Viewer"}
	require.NoError(t, db.Create(&role).Error)
	require.NoError(t, db.Create(&models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}).Error)

	err = Delete(db, perm.ID)
	ie, ok := controller.AsIntegrityError(err)
	require.True(t, ok)
	assert.ErrorIs(t, ie, controller.ErrPermissionAssigned)

	roles, err := Roles(db, perm.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "Viewer", roles[0].Name)
}

func TestListAndGrouped(t *testing.T) {
	db := setupTestDB(t)

	for _, in := range []Input{
		{Name: "users.view", Module: "users", Action: "view", DisplayName: "View Users"},
		{Name: "dashboard.view", Module: "dashboard", Action: "view", DisplayName: "View Dashboard"},
		{Name: "users.create", Module: "users", Action: "create", DisplayName: "Create Users"},
	} {
		_, err := Create(db, in)
		require.NoError(t, err)
	}

	list, page, err := List(db, controller.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 15, page.Size)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"dashboard.view", "users.create", "users.view"},
		[]string{list[0].Name, list[1].Name, list[2].Name})

	groups, err := Grouped(db)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "dashboard", groups[0].Module)
	assert.Len(t, groups[1].Permissions, 2)

	list, _, err = List(db, controller.PageRequest{Search: "Users"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
