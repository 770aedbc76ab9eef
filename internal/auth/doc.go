// Package auth provides authentication and authorization functionality for the application.
//
// # Authorization
//
// Permissions are atomic capabilities named module.action. Roles bundle permissions and
// users are assigned any number of roles. The effective permission set of a user is the
// union of the permissions of all their roles; checks are exact string matches.
//
// The evaluator functions (HasPermission, HasAnyPermission, HasAllPermissions,
// AllPermissions, ModuleOrder) take the principal as an argument and operate on already
// loaded relationship data. Service.LoadPrincipal performs that load once per request.
//
// # Middleware
//
//   - LoadPrincipal: resolve the principal of the session and expose it to handlers and templates
//   - RequirePermission: protect routes requiring a specific permission
//   - RequireAnyPermission: protect routes requiring any of several permissions
//   - RequireAllPermissions: protect routes requiring all of several permissions
//
// A failed check answers 403 with the body "Access Denied".
//
// Example usage:
//
//	authService := auth.NewService(db)
//	app.Use(auth.LoadPrincipal(authService))
//
//	app.Get("/categories",
//	    auth.RequirePermission(auth.PermCategoriesView),
//	    handler,
//	)
package auth
