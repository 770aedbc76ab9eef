package permission

import (
	"net/url"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/auth"
	permissionctl "github.com/Keed0303/ecommerce-starter-app/internal/db/controller/permission"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/form"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler/handlertest"
)

var allPerms = []string{
	auth.PermPermissionsView, auth.PermPermissionsCreate, auth.PermPermissionsEdit, auth.PermPermissionsDelete,
}

func newApp(t *testing.T, perms ...string) (*fiber.App, *handlertest.Views, *gorm.DB) {
	t.Helper()

	db := handlertest.NewDB(t)
	admin := handlertest.CreateUser(t, db, "admin@example.com", perms...)

	app, views := handlertest.NewApp(t, db, admin.ID)

	s := &Service{}
	require.NoError(t, s.Init(app, handlertest.NewConfig(), db))

	return app, views, db
}

func id(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func TestCreate_DefaultName(t *testing.T) {
	app, _, db := newApp(t, allPerms...)

	resp, _ := handlertest.PostForm(t, app, Path, url.Values{
		"module":       {"reports"},
		"action":       {"export"},
		"display_name": {"Export Reports"},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	var stored models.Permission
	require.NoError(t, db.Where("name = ?", "reports.export").First(&stored).Error)
	assert.Equal(t, "Export Reports", stored.DisplayName)
}

func TestCreate_Validation(t *testing.T) {
	app, views, _ := newApp(t, allPerms...)

	tests := []struct {
		name  string
		form  url.Values
		field string
		want  string
	}{
		{"missing display name", url.Values{"module": {"a"}, "action": {"b"}}, "display_name", "Display name is required."},
		{"missing module", url.Values{"action": {"b"}, "display_name": {"B"}}, "module", "Module is required."},
		{"name taken", url.Values{"module": {"permissions"}, "action": {"view"}, "display_name": {"X"}}, "name", "Name has already been taken."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := handlertest.PostForm(t, app, Path, tt.form)
			require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
			assert.Equal(t, TemplateForm, body)

			errs, ok := views.Data()["Errors"].(form.Errors)
			require.True(t, ok)
			assert.Equal(t, tt.want, errs.Get(tt.field))
		})
	}
}

func TestDelete(t *testing.T) {
	app, _, db := newApp(t, allPerms...)

	var assigned models.Permission
	require.NoError(t, db.Where("name = ?", auth.PermPermissionsView).First(&assigned).Error)

	resp, _ := handlertest.PostForm(t, app, Path+"/"+id(assigned.ID)+"/delete", url.Values{})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	_, err := permissionctl.Get(db, assigned.ID)
	require.NoError(t, err)

	free, err := permissionctl.Create(db, permissionctl.Input{
		Name: "reports.view", Module: "reports", Action: "view", DisplayName: "View Reports",
	})
	require.NoError(t, err)

	resp, _ = handlertest.PostForm(t, app, Path+"/"+id(free.ID)+"/delete", url.Values{})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	_, err = permissionctl.Get(db, free.ID)
	assert.Error(t, err)
}

func TestListShowEdit(t *testing.T) {
	app, views, db := newApp(t, allPerms...)

	resp, body := handlertest.Get(t, app, Path)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, TemplateList, body)

	groups, ok := views.Data()["Groups"].([]permissionctl.Group)
	require.True(t, ok)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Permissions, len(allPerms))

	var p models.Permission
	require.NoError(t, db.Where("name = ?", auth.PermPermissionsEdit).First(&p).Error)

	resp, body = handlertest.Get(t, app, Path+"/"+id(p.ID))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, TemplateShow, body)

	roles, ok := views.Data()["Roles"].([]models.Role)
	require.True(t, ok)
	assert.Len(t, roles, 1)

	resp, _ = handlertest.PostForm(t, app, Path+"/"+id(p.ID), url.Values{
		"name": {p.Name}, "module": {p.Module}, "action": {p.Action}, "display_name": {"Edit all permissions"},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	stored, err := permissionctl.Get(db, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edit all permissions", stored.DisplayName)
}
