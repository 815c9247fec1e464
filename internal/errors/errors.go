// errors стандартизирует ответы об ошибках REST-слоя valet-service.
// REST-хендлеры вызывают ProfilesService в процессе, поэтому на вход
// приходит gRPC-статус, а на выход:
//   - HTTP-статус;
//   - безопасное message без деталей хранилища;
//   - reason/field из google.rpc.ErrorInfo для отказов валидации.
package errors

import (
	"encoding/json"
	"net/http"

	profilesv1 "github.com/pribylovaa/valet/api/profilesv1"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Нестандартный код для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат ошибки для клиента.
// Reason — машинно-читаемая причина отказа валидации (missing_name и т.п.).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Reason    string `json:"reason,omitempty"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

var internal = ErrorResponse{Error: APIError{Code: "internal", Message: "internal error"}}

// ToHTTP конвертирует ошибку в HTTP-статус и тело ответа.
//
//   - err == nil — ошибка вызова: 500, чтобы не маскировать баг ответом 200;
//   - не gRPC-статус — 500 без деталей;
//   - gRPC-статус — таблица fromGRPC; ErrorInfo домена ProfilesService даёт reason/field.
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, internal
	}

	st, ok := status.FromError(err)
	if !ok {
		return http.StatusInternalServerError, internal
	}

	httpStatus, code, msg := fromGRPC(st.Code())
	resp := ErrorResponse{Error: APIError{Code: code, Message: msg}}

	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == profilesv1.ErrorDomain {
			resp.Error.Reason = info.GetReason()
			resp.Error.Field = info.GetMetadata()["field"]
			break
		}
	}

	return httpStatus, resp
}

// WriteError пишет статус и тело, добавляя request_id из заголовка запроса.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// fromGRPC — таблица gRPC -> HTTP для кодов, которые отдаёт ProfilesService:
//   - InvalidArgument (валидация, UUID, даты) -> 400
//   - Unauthenticated (нет/битый/просроченный токен) -> 401
//   - NotFound (в том числе чужой профиль/фото) -> 404
//   - Canceled -> 499
//   - Unavailable (сбой хранилища, можно повторить) -> 503
//   - DeadlineExceeded -> 504
//   - DataLoss, Internal и прочее -> 500
func fromGRPC(c codes.Code) (int, string, string) {
	switch c {
	case codes.InvalidArgument:
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case codes.Unauthenticated:
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"
	case codes.PermissionDenied:
		return http.StatusForbidden, "permission_denied", "permission denied"
	case codes.NotFound:
		return http.StatusNotFound, "not_found", "not found"
	case codes.Canceled:
		return StatusClientClosedRequest, "canceled", "canceled"
	case codes.Unavailable:
		return http.StatusServiceUnavailable, "store_unavailable", "storage temporarily unavailable, retry later"
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	case codes.Unimplemented:
		return http.StatusNotImplemented, "unimplemented", "unimplemented"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
