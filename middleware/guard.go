package middleware

import (
	"context"
	"net/http"

	sessionkit "github.com/giftfinder/sessionkit"
)

type sessionContextKey struct{}

// SessionFromContext describes the sessionfromcontext operation and its observable behavior.
//
// SessionFromContext does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func SessionFromContext(ctx context.Context) (*sessionkit.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(*sessionkit.Session)
	return sess, ok
}

// Guard describes the guard operation and its observable behavior.
//
// Guard does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Guard re-checks expiry on every request. A session that expired since the
// last check is torn down through the client (slot and durable token both
// cleared) before the request is rejected, so the stale session cannot be
// observed again. With a non-empty loginURL the rejection is a 302 redirect;
// with an empty loginURL it is a plain 401.
func Guard(client *sessionkit.Client, loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil {
				reject(w, r, loginURL)
				return
			}

			sess := client.Session()
			if sess == nil {
				reject(w, r, loginURL)
				return
			}
			if sess.Expired() {
				_ = client.SignOut(r.Context())
				reject(w, r, loginURL)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession returns middleware that responds 401 instead of redirecting,
// for API routes where a redirect would confuse programmatic callers.
//
//	Docs: docs/middleware.md
func RequireSession(client *sessionkit.Client) func(http.Handler) http.Handler {
	return Guard(client, "")
}

func reject(w http.ResponseWriter, r *http.Request, loginURL string) {
	if loginURL == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, loginURL, http.StatusFound)
}
