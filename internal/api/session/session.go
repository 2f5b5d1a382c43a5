// Package session wires scs server-side sessions into echo and carries the
// one-shot flash message shown on the next rendered page.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"
)

// Session keys.
const (
	KeyUserID    = "user_id"
	KeyFlash     = "flash"
	KeyFlashType = "flash_type"
)

// Flash types understood by the templates.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

type Options struct {
	Lifetime   time.Duration
	CookieName string
	Secure     bool
}

// New builds a session manager backed by store. The cookie only ever carries
// the opaque session token.
func New(store scs.Store, opts Options) *scs.SessionManager {
	sm := scs.New()
	sm.Store = store

	sm.Lifetime = 24 * time.Hour
	if opts.Lifetime > 0 {
		sm.Lifetime = opts.Lifetime
	}
	if opts.CookieName != "" {
		sm.Cookie.Name = opts.CookieName
	}
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = opts.Secure

	return sm
}

// Middleware loads and saves the session around every request. scs buffers
// the response until the session is committed, so handler errors are
// rendered here, inside that buffer, instead of after it has been flushed.
func Middleware(sm *scs.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				c.SetRequest(r)
				c.SetResponse(echo.NewResponse(w, c.Echo()))
				if err = next(c); err != nil {
					c.Error(err)
				}
			})).ServeHTTP(c.Response(), c.Request())
			return err
		}
	}
}

// Login renews the session token and records userID. Renewing prevents
// session fixation.
func Login(ctx context.Context, sm *scs.SessionManager, userID string) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, KeyUserID, userID)
	return nil
}

// Logout destroys the session and starts a fresh one so a flash can still
// be carried to the next page.
func Logout(ctx context.Context, sm *scs.SessionManager) error {
	if err := sm.Destroy(ctx); err != nil {
		return err
	}
	return sm.RenewToken(ctx)
}

func UserID(ctx context.Context, sm *scs.SessionManager) string {
	return sm.GetString(ctx, KeyUserID)
}

// Flash is a message shown once.
type Flash struct {
	Message string
	Type    string
}

func SetFlash(ctx context.Context, sm *scs.SessionManager, message, flashType string) {
	sm.Put(ctx, KeyFlash, message)
	sm.Put(ctx, KeyFlashType, flashType)
}

// PopFlash returns and clears the pending flash, if any.
func PopFlash(ctx context.Context, sm *scs.SessionManager) *Flash {
	msg := sm.PopString(ctx, KeyFlash)
	if msg == "" {
		return nil
	}
	typ := sm.PopString(ctx, KeyFlashType)
	if typ == "" {
		typ = FlashInfo
	}
	return &Flash{Message: msg, Type: typ}
}
