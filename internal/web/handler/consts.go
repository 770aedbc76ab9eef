package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the path of a route group root. It is empty so the group
	// prefix itself matches, /products rather than /products/ with strict routing.
	RouterRootPath = ""

	// TemplateError renders 404 and 500 pages.
	TemplateError = "errors/error"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
