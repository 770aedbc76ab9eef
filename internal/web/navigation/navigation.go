// Package navigation builds the page navigation: breadcrumbs and the permission filtered sidebar.
package navigation

// HomeURL is the target of the first breadcrumb.
const HomeURL = "/dashboard"

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// Page creates a context whose trail starts at Home, passes the given links and ends with the
// active page title.
func Page(pageTitle, activeSection, activePage string, trail ...BreadcrumbItem) *Context {
	c := NewContext(pageTitle, activeSection, activePage).AddBreadcrumb("Home", HomeURL, false)

	for _, item := range trail {
		c.AddBreadcrumb(item.Title, item.URL, false)
	}

	return c.AddBreadcrumb(pageTitle, "", true)
}

// Link is a shorthand for an inactive breadcrumb.
func Link(title, url string) BreadcrumbItem {
	return BreadcrumbItem{Title: title, URL: url}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}
