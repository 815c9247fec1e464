package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// HeaderRequestID — заголовок сквозного идентификатора запроса.
const HeaderRequestID = "X-Request-Id"

// RequestID обеспечивает наличие X-Request-Id: берёт из запроса или генерирует UUID,
// дублирует в заголовок запроса (его читает errors.WriteError) и ответа.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
				r.Header.Set(HeaderRequestID, id)
			}
			w.Header().Set(HeaderRequestID, id)

			next.ServeHTTP(w, r)
		})
	}
}
