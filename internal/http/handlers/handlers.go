// handlers — REST-эндпоинты valet-service. Хендлеры разбирают HTTP-запрос
// и вызывают ProfilesService в процессе; ошибки (gRPC-статусы) переводит
// internal/errors.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	profilesv1 "github.com/pribylovaa/valet/api/profilesv1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// maxJSONBody — лимит тела запросов с профилем.
const maxJSONBody = 1 << 20

// Handlers агрегирует зависимости REST-слоя.
type Handlers struct {
	Profiles profilesv1.ProfilesServiceServer
	// MaxPhotoBytes — лимит декодированного изображения; тело запроса может быть больше из-за base64.
	MaxPhotoBytes int64

	validate *validator.Validate
}

func New(p profilesv1.ProfilesServiceServer, maxPhotoBytes int64) *Handlers {
	return &Handlers{
		Profiles:      p,
		MaxPhotoBytes: maxPhotoBytes,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

// writeJSON — ответ JSON с нужным Content-Type.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер с лимитом тела: неизвестные поля запрещены.
func decodeStrict(w http.ResponseWriter, r *http.Request, limit int64, value any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// invalidArgument — локальная ошибка разбора запроса -> gRPC InvalidArgument.
func invalidArgument(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}
