package auth

import (
	"context"
	"net/http"

	"DemoShop/internal/model"
	"DemoShop/pkg/kit"
)

type ctxKey string

const sessionKey ctxKey = "session"

func SessionFromContext(ctx context.Context) (model.Session, bool) {
	s, ok := ctx.Value(sessionKey).(model.Session)
	return s, ok
}

// RequireToken rejects requests without a valid bearer token. With roles
// given, the token's role must be one of them.
func RequireToken(jwt *TokenMaker, roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := kit.BearerToken(r)
			if !ok {
				kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
				return
			}

			claims, err := jwt.Parse(raw)
			if err != nil {
				kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
				return
			}

			if len(roles) > 0 && !hasRole(claims.Role, roles) {
				kit.WriteError(w, r, http.StatusForbidden, "forbidden", map[string]any{"role": claims.Role})
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, claims.Session())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func hasRole(role model.Role, allowed []model.Role) bool {
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}
