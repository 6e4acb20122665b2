package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/lumeo-app/booking-service/internal/api/handlers"
)

type ctxKey int

const userIDKey ctxKey = iota

const userIDHeader = "X-User-ID"

// Auth извлекает ID пользователя из заголовка X-User-ID и кладёт его в контекст
// Аутентификацию выполняет API-gateway, сервис доверяет заголовку внутри периметра
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(userIDHeader)
		if raw == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок X-User-ID")
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "некорректный заголовок X-User-ID")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
