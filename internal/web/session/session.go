// Package session stores the authenticated user and one-shot flash messages in the fiber session.
package session

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/Keed0303/ecommerce-starter-app/internal/config"
)

const (
	keyUserID = "user_id"
	keyName   = "name"
	keyEmail  = "email"
	keyFlash  = "flash_"

	// DefaultCookieName is used when the config does not name the session cookie.
	DefaultCookieName = "session_id"
)

// Flash kinds rendered by the layout.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// ErrNotInitialized is returned when the store is used before Init.
var ErrNotInitialized = errors.New("session store is not initialized")

var (
	// Store is the global session store instance.
	Store *session.Store //nolint:gochecknoglobals

	cookieName = DefaultCookieName //nolint:gochecknoglobals
)

// Data is the authenticated user kept in the session.
type Data struct {
	UserID uint
	Name   string
	Email  string
}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// Init initializes the session store with the provided storage backend.
// A nil storage keeps sessions in memory.
func Init(storage fiber.Storage, cfg config.Session) {
	cookieName = cfg.CookieName
	if cookieName == "" {
		cookieName = DefaultCookieName
	}

	Store = session.New(session.Config{
		Storage:        storage,
		Expiration:     cfg.ExpiryTime,
		KeyLookup:      "cookie:" + cookieName,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Secure,
		CookieDomain:   cfg.Domain,
		CookieSameSite: "Lax",
	})
}

// CookieName returns the name of the session cookie.
func CookieName() string {
	return cookieName
}

// Login stores data in a fresh session and sets the session cookie.
func Login(c *fiber.Ctx, data Data) error {
	if Store == nil {
		return ErrNotInitialized
	}

	sess, err := Store.Get(c)
	if err != nil {
		return err
	}

	if err = sess.Regenerate(); err != nil {
		return err
	}

	sess.Set(keyUserID, data.UserID)
	sess.Set(keyName, data.Name)
	sess.Set(keyEmail, data.Email)

	return sess.Save()
}

// Current returns the session data of an authenticated request.
func Current(c *fiber.Ctx) (Data, bool) {
	if Store == nil {
		return Data{}, false
	}

	sess, err := Store.Get(c)
	if err != nil || sess.Fresh() {
		return Data{}, false
	}

	id, ok := sess.Get(keyUserID).(uint)
	if !ok || id == 0 {
		return Data{}, false
	}

	name, _ := sess.Get(keyName).(string)
	email, _ := sess.Get(keyEmail).(string)

	return Data{UserID: id, Name: name, Email: email}, true
}

// Logout destroys the session and expires the session cookie.
func Logout(c *fiber.Ctx) error {
	if Store == nil {
		return ErrNotInitialized
	}

	sess, err := Store.Get(c)
	if err != nil {
		return err
	}

	return sess.Destroy()
}

// SetFlash queues a message for the next page of the session.
func SetFlash(c *fiber.Ctx, kind, message string) error {
	if Store == nil {
		return ErrNotInitialized
	}

	sess, err := Store.Get(c)
	if err != nil {
		return err
	}

	sess.Set(keyFlash+"kind", kind)
	sess.Set(keyFlash+"message", message)

	return sess.Save()
}

// PopFlash returns and removes the queued flash message.
func PopFlash(c *fiber.Ctx) (Flash, bool) {
	if Store == nil {
		return Flash{}, false
	}

	sess, err := Store.Get(c)
	if err != nil || sess.Fresh() {
		return Flash{}, false
	}

	message, _ := sess.Get(keyFlash + "message").(string)
	if message == "" {
		return Flash{}, false
	}

	kind, _ := sess.Get(keyFlash + "kind").(string)

	sess.Delete(keyFlash + "kind")
	sess.Delete(keyFlash + "message")

	if err = sess.Save(); err != nil {
		return Flash{}, false
	}

	return Flash{Kind: kind, Message: message}, true
}
