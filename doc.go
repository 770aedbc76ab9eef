// Package main provides the entry point of the ecommerce admin panel.
// It runs a fiber web service with server rendered views to manage products,
// a category tree, users, roles and permissions. Every page is guarded by
// role based permissions and the sidebar follows the module order of the
// user's first role. Data is stored with gorm in mysql, postgres or sqlite.
package main
