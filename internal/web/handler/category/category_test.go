package category

import (
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Keed0303/ecommerce-starter-app/internal/auth"
	categoryctl "github.com/Keed0303/ecommerce-starter-app/internal/db/controller/category"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/form"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/handler/handlertest"
)

func newApp(t *testing.T, perms ...string) (*fiber.App, *handlertest.Views, *gorm.DB) {
	t.Helper()

	db := handlertest.NewDB(t)
	user := handlertest.CreateUser(t, db, "editor@example.com", perms...)

	app, views := handlertest.NewApp(t, db, user.ID)

	s := &Service{}
	require.NoError(t, s.Init(app, handlertest.NewConfig(), db))

	return app, views, db
}

func create(t *testing.T, db *gorm.DB, name string, parentID *uint) *models.Category {
	t.Helper()

	c, err := categoryctl.Create(db, categoryctl.Input{Name: name, IsActive: true, ParentID: parentID})
	require.NoError(t, err)

	return c
}

func path(id uint, suffix string) string {
	return Path + "/" + strconv.FormatUint(uint64(id), 10) + suffix
}

func TestInit_Nil(t *testing.T) {
	s := &Service{}
	assert.Error(t, s.Init(nil, nil, nil))
}

func TestList(t *testing.T) {
	app, views, db := newApp(t, auth.PermCategoriesView)
	create(t, db, "Electronics", nil)

	resp, body := handlertest.Get(t, app, Path)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, TemplateIndex, body)

	categories, ok := views.Data()["Categories"].([]models.Category)
	require.True(t, ok)
	require.Len(t, categories, 1)
	assert.Equal(t, "electronics", categories[0].Slug)
}

func TestPermissions(t *testing.T) {
	app, _, db := newApp(t, auth.PermCategoriesView)
	root := create(t, db, "Electronics", nil)

	tests := []struct {
		name   string
		method string
		target string
	}{
		{"create form", fiber.MethodGet, Path + "/create"},
		{"store", fiber.MethodPost, Path},
		{"edit", fiber.MethodGet, path(root.ID, "/edit")},
		{"update", fiber.MethodPost, path(root.ID, "")},
		{"delete", fiber.MethodPost, path(root.ID, "/delete")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader("name=X"))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

			resp, body := handlertest.Do(t, app, req)
			assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
			assert.Equal(t, auth.MsgAccessDenied, body)
		})
	}
}

func TestNew_ActiveByDefault(t *testing.T) {
	app, views, _ := newApp(t, auth.PermCategoriesCreate)

	resp, body := handlertest.Get(t, app, Path+"/create")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, TemplateForm, body)

	f, ok := views.Data()["Form"].(Form)
	require.True(t, ok)
	assert.True(t, f.IsActive)
	assert.Equal(t, true, views.Data()["IsCreate"])
}

func TestCreate(t *testing.T) {
	app, views, db := newApp(t, auth.PermCategoriesCreate)
	root := create(t, db, "Electronics", nil)

	resp, _ := handlertest.PostForm(t, app, Path, url.Values{
		"name":      {"Smart Phones"},
		"parent_id": {strconv.FormatUint(uint64(root.ID), 10)},
		"is_active": {"1"},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, Path, resp.Header.Get(fiber.HeaderLocation))

	var stored models.Category
	require.NoError(t, db.Where("name = ?", "Smart Phones").First(&stored).Error)
	assert.Equal(t, "smart-phones", stored.Slug)
	assert.True(t, stored.IsActive)
	require.NotNil(t, stored.ParentID)
	assert.Equal(t, root.ID, *stored.ParentID)

	t.Run("missing name", func(t *testing.T) {
		resp, body := handlertest.PostForm(t, app, Path, url.Values{"slug": {"x"}})
		require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, TemplateForm, body)

		errs, ok := views.Data()["Errors"].(form.Errors)
		require.True(t, ok)
		assert.Equal(t, "Name is required.", errs.Get("name"))
	})

	t.Run("no parent is top level", func(t *testing.T) {
		resp, _ := handlertest.PostForm(t, app, Path, url.Values{"name": {"Books"}, "parent_id": {""}})
		require.Equal(t, fiber.StatusFound, resp.StatusCode)

		var books models.Category
		require.NoError(t, db.Where("name = ?", "Books").First(&books).Error)
		assert.Nil(t, books.ParentID)
		assert.False(t, books.IsActive)
	})

	t.Run("duplicate name", func(t *testing.T) {
		resp, _ := handlertest.PostForm(t, app, Path, url.Values{"name": {"Electronics"}, "slug": {"other"}})
		require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

		errs, ok := views.Data()["Errors"].(form.Errors)
		require.True(t, ok)
		assert.True(t, errs.Has("name"))
	})
}

func TestUpdate_RejectsCycles(t *testing.T) {
	app, views, db := newApp(t, auth.PermCategoriesEdit)

	root := create(t, db, "Electronics", nil)
	child := create(t, db, "Phones", &root.ID)
	grandchild := create(t, db, "Smart Phones", &child.ID)

	tests := []struct {
		name     string
		parentID uint
		want     string
	}{
		{"self", root.ID, form.MsgSelfParent},
		{"child", child.ID, form.MsgCyclicParent},
		{"grandchild", grandchild.ID, form.MsgCyclicParent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := handlertest.PostForm(t, app, path(root.ID, ""), url.Values{
				"name":      {"Electronics"},
				"parent_id": {strconv.FormatUint(uint64(tt.parentID), 10)},
			})
			require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
			assert.Equal(t, TemplateForm, body)

			errs, ok := views.Data()["Errors"].(form.Errors)
			require.True(t, ok)
			assert.Equal(t, tt.want, errs.Get(categoryctl.FieldParent))

			parents, ok := views.Data()["Parents"].([]models.Category)
			require.True(t, ok)
			assert.Empty(t, parents)
		})
	}

	var stored models.Category
	require.NoError(t, db.First(&stored, root.ID).Error)
	assert.Nil(t, stored.ParentID)
}

func TestUpdate_Move(t *testing.T) {
	app, _, db := newApp(t, auth.PermCategoriesEdit)

	electronics := create(t, db, "Electronics", nil)
	books := create(t, db, "Books", nil)
	phones := create(t, db, "Phones", &electronics.ID)

	resp, _ := handlertest.PostForm(t, app, path(phones.ID, ""), url.Values{
		"name":      {"Phones"},
		"parent_id": {strconv.FormatUint(uint64(books.ID), 10)},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	var stored models.Category
	require.NoError(t, db.First(&stored, phones.ID).Error)
	require.NotNil(t, stored.ParentID)
	assert.Equal(t, books.ID, *stored.ParentID)

	resp, _ = handlertest.PostForm(t, app, path(9999, ""), url.Values{"name": {"Gone"}})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestShowAndEdit(t *testing.T) {
	app, views, db := newApp(t, auth.PermCategoriesView, auth.PermCategoriesEdit)

	root := create(t, db, "Electronics", nil)
	create(t, db, "Phones", &root.ID)

	resp, body := handlertest.Get(t, app, path(root.ID, ""))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, TemplateShow, body)
	assert.Equal(t, false, views.Data()["CanDelete"])

	resp, _ = handlertest.Get(t, app, path(root.ID, "/edit"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	f, ok := views.Data()["Form"].(Form)
	require.True(t, ok)
	assert.Equal(t, "Electronics", f.Name)
	assert.Equal(t, false, views.Data()["IsCreate"])

	resp, _ = handlertest.Get(t, app, path(9999, ""))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDelete(t *testing.T) {
	app, _, db := newApp(t, auth.PermCategoriesDelete)

	root := create(t, db, "Electronics", nil)
	child := create(t, db, "Phones", &root.ID)

	resp, _ := handlertest.PostForm(t, app, path(root.ID, "/delete"), url.Values{})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, Path, resp.Header.Get(fiber.HeaderLocation))

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	resp, _ = handlertest.PostForm(t, app, path(child.ID, "/delete"), url.Values{})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	resp, _ = handlertest.PostForm(t, app, path(root.ID, "/delete"), url.Values{})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Zero(t, count)
}
