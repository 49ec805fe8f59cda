package middleware

import (
	"context"
	"net/http"

	"github.com/xavierca1/unic-leads/internal/entity"
	"github.com/xavierca1/unic-leads/internal/infra/session"
)

const SessionCookieName = "unic_sid"

type sessionIDKey struct{}

// Session makes sure every request carries a browser-session id. The cookie
// has no expiry, so it dies with the browser session like sessionStorage.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
			sid = c.Value
		} else {
			sid = session.NewID()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   r.TLS != nil,
			})
		}

		ctx := context.WithValue(r.Context(), sessionIDKey{}, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the id stored by Session, or "" outside of it.
func SessionID(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDKey{}).(string)
	return sid
}

// ClientMeta exposes the caller's user agent and referrer to the store writer.
func ClientMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := entity.WithClientMeta(r.Context(), entity.ClientMeta{
			UserAgent: r.UserAgent(),
			Referrer:  r.Referer(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
