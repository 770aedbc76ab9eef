// Package auth provides authentication middleware for the web application.
//
// Middleware resolves the signed in user from the session and redirects
// unauthenticated requests to the login page. Menu runs after
// auth.LoadPrincipal and adds the permission filtered sidebar to
// fiber.Locals for the templates.
//
// Usage:
//
//	app.Use(authmiddleware.Middleware)
//	app.Use(auth.LoadPrincipal(authService))
//	app.Use(authmiddleware.Menu)
package auth
