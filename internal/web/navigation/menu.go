package navigation

import (
	"sort"

	"github.com/Keed0303/ecommerce-starter-app/internal/auth"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
)

// Module keys of the sidebar, referenced by role module orders.
const (
	ModuleDashboard  = "dashboard"
	ModuleProducts   = "products"
	ModuleCategories = "categories"
	ModuleSettings   = "settings"
)

// Item is a sidebar entry. An entry is visible when the user holds any of its permissions,
// an entry with children only when at least one child is visible.
type Item struct {
	Module      string
	Title       string
	URL         string
	Icon        string
	Permissions []string
	Children    []Item
}

// Modules returns the sidebar in its default order.
func Modules() []Item {
	return []Item{
		{
			Module: ModuleDashboard, Title: "Dashboard", URL: "/dashboard", Icon: "speedometer2",
			Permissions: []string{auth.PermDashboardView},
		},
		{
			Module: ModuleProducts, Title: "Products", URL: "/products", Icon: "box-seam",
			Permissions: []string{auth.PermProductsView},
		},
		{
			Module: ModuleCategories, Title: "Categories", URL: "/categories", Icon: "diagram-3",
			Permissions: []string{auth.PermCategoriesView},
		},
		{
			Module: ModuleSettings, Title: "Settings", Icon: "gear",
			Children: []Item{
				{Title: "Users", URL: "/settings/users", Permissions: []string{auth.PermUsersView}},
				{Title: "Roles", URL: "/settings/roles", Permissions: []string{auth.PermRolesView}},
				{Title: "Permissions", URL: "/settings/permissions", Permissions: []string{auth.PermPermissionsView}},
			},
		},
	}
}

// Menu returns the sidebar entries visible to user, ordered by the module order of the user's
// first role. Modules without an order follow the ordered ones in their default order.
func Menu(user *models.User) []Item {
	rank := make(map[string]int)
	for i, o := range auth.ModuleOrder(user) {
		if _, ok := rank[o.Module]; !ok {
			rank[o.Module] = i
		}
	}

	var items []Item

	for _, item := range Modules() {
		if visible, ok := filter(user, item); ok {
			items = append(items, visible)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		ri, iOrdered := rank[items[i].Module]
		rj, jOrdered := rank[items[j].Module]

		switch {
		case iOrdered && jOrdered:
			return ri < rj
		default:
			return iOrdered && !jOrdered
		}
	})

	return items
}

func filter(user *models.User, item Item) (Item, bool) {
	if len(item.Children) == 0 {
		return item, auth.HasAnyPermission(user, item.Permissions)
	}

	children := make([]Item, 0, len(item.Children))

	for _, child := range item.Children {
		if visible, ok := filter(user, child); ok {
			children = append(children, visible)
		}
	}

	if len(children) == 0 {
		return Item{}, false
	}

	item.Children = children
	if item.URL == "" {
		item.URL = children[0].URL
	}

	return item, true
}
