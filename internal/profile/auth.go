package profile

import (
	"context"
	"net/http"
	"strings"
)

// CurrentUserHeader carries the id of the signed in user, set by the identity gateway.
const CurrentUserHeader = "X-User-Id"

type currentUserKey struct{}

func WithCurrentUser(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, currentUserKey{}, id)
}

func CurrentUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(currentUserKey{}).(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}

// IdentifyMiddleware moves the current user id from the request header into the context.
// The identity itself is trusted as is.
func IdentifyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimSpace(r.Header.Get(CurrentUserHeader)); id != "" {
			r = r.WithContext(WithCurrentUser(r.Context(), id))
		}

		next.ServeHTTP(w, r)
	})
}

// canWrite reports whether the current user may change the profile with the given id.
func canWrite(ctx context.Context, profileID string) (authenticated, allowed bool) {
	id, ok := CurrentUserID(ctx)
	if !ok {
		return false, false
	}

	return true, id == profileID
}
