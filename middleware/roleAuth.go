package middleware

import (
	"context"
	"net/http"

	"electro_store/model"
	"electro_store/utils"
)

type ContextKeys string

const (
	UserContext ContextKeys = "userInfo"
)

func WithUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, UserContext, user)
}

func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(UserContext).(model.User)
	return user, ok
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, nil, "authorization token is required")
			return
		}
		if user.Role() != model.RoleAdmin {
			utils.RespondError(w, http.StatusForbidden, nil, "admin access required")
			return
		}
		handler.ServeHTTP(w, r)
	})
}
