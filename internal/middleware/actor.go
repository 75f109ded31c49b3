package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

type contextKey string

const employeeIDKey contextKey = "employeeID"

// EmployeeHeader содержит идентификатор сотрудника, от имени которого выполняется запрос.
const EmployeeHeader = "X-Employee-ID"

// ActorMiddleware читает идентификатор сотрудника из заголовка X-Employee-ID
// и добавляет его в контекст запроса. Запросы без корректного заголовка отклоняются.
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(EmployeeHeader))
		if raw == "" {
			http.Error(w, "missing "+EmployeeHeader+" header", http.StatusBadRequest)
			return
		}

		employeeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || employeeID <= 0 {
			http.Error(w, "invalid "+EmployeeHeader+" header", http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithEmployeeID(r.Context(), employeeID)))
	})
}

// WithEmployeeID возвращает контекст с идентификатором сотрудника.
func WithEmployeeID(ctx context.Context, employeeID int64) context.Context {
	return context.WithValue(ctx, employeeIDKey, employeeID)
}

// GetEmployeeIDFromContext извлекает идентификатор сотрудника из контекста запроса.
func GetEmployeeIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(employeeIDKey).(int64)
	return id, ok
}
