package middleware

import (
	"context"
	"net/http"
	"strconv"
)

// HeaderUserID заголовок с id сотрудника, проставляется шлюзом после аутентификации
const HeaderUserID = "X-User-ID"

type userIDKey struct{}

// Auth извлекает id сотрудника из заголовка и кладёт в контекст.
// Запросы без заголовка пропускаются: обязательность решает handler
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderUserID)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			http.Error(w, `{"code":401,"message":"некорректный X-User-ID"}`, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID кладёт id сотрудника в контекст
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// GetUserID возвращает id сотрудника из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey{}).(int64)
	return userID, ok
}
