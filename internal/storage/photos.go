package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/valet/internal/models"
)

var (
	// ErrNotFoundPhoto — объект (ключ) отсутствует в бакете или принадлежит другому владельцу.
	ErrNotFoundPhoto = errors.New("not found")
	// ErrInvalidArgument — нарушены ограничения запроса (тип/размер/ключ).
	ErrInvalidArgument = errors.New("invalid argument")
)

// Photo — объект фотографии в бакете.
type Photo struct {
	Key          string
	URL          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// PhotoUpload — загружаемое изображение. ContentType уже определён по содержимому.
type PhotoUpload struct {
	OwnerID     uuid.UUID
	Variant     models.Variant
	ContentType string
	Data        []byte
}

// Photos — контракт объектного хранилища фотографий.
type Photos interface {
	// UploadPhoto кладёт изображение под ключ PhotoKey и возвращает публичный URL.
	UploadPhoto(ctx context.Context, upload PhotoUpload) (publicURL string, err error)
	// DeletePhoto удаляет объект по ключу. Ключ вне префикса владельца -> ErrNotFoundPhoto.
	DeletePhoto(ctx context.Context, ownerID uuid.UUID, key string) error
	// OwnerPhotos перечисляет фотографии владельца.
	OwnerPhotos(ctx context.Context, ownerID uuid.UUID) ([]Photo, error)
	// KeyFromURL восстанавливает ключ объекта из публичного URL или возвращает вход как ключ.
	KeyFromURL(urlOrKey string) string
}

// PhotosStorage — алиас-обёртка для внедрения зависимости.
type PhotosStorage interface {
	Photos
}

// extByContentType — расширения допустимых типов; jpg сводится к jpeg.
var extByContentType = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// PhotoExt возвращает расширение для content-type. Неизвестные типы -> jpeg.
func PhotoExt(contentType string) string {
	if ext, ok := extByContentType[strings.ToLower(contentType)]; ok {
		return ext
	}

	return "jpeg"
}

// PhotoKey формирует ключ объекта: <owner>/<variant>_<owner>_<unixms>.<ext>.
func PhotoKey(ownerID uuid.UUID, variant models.Variant, contentType string, now time.Time) string {
	return fmt.Sprintf("%s/%s_%s_%d.%s", ownerID, variant, ownerID, now.UnixMilli(), PhotoExt(contentType))
}

// OwnerPrefix — префикс ключей владельца в бакете.
func OwnerPrefix(ownerID uuid.UUID) string {
	return ownerID.String() + "/"
}

// OwnsKey проверяет, что ключ лежит строго внутри префикса владельца.
func OwnsKey(ownerID uuid.UUID, key string) bool {
	if key == "" || strings.Contains(key, "..") {
		return false
	}

	clean := path.Clean(key)
	if clean != key {
		return false
	}

	prefix := OwnerPrefix(ownerID)

	return strings.HasPrefix(key, prefix) && len(key) > len(prefix)
}

// KeyFromURL отрезает от публичного URL базовый адрес бакета.
// Если urlOrKey не начинается с base — поиск по сегменту "/<bucket>/",
// иначе вход считается ключом.
func KeyFromURL(publicBaseURL, bucket, urlOrKey string) string {
	s := strings.TrimSpace(urlOrKey)
	if strings.Contains(s, "://") {
		if i := strings.IndexAny(s, "?#"); i >= 0 {
			s = s[:i]
		}
	}

	if base := strings.TrimRight(publicBaseURL, "/"); base != "" && strings.HasPrefix(s, base+"/") {
		return strings.TrimPrefix(s, base+"/")
	}

	if strings.Contains(s, "://") && bucket != "" {
		if i := strings.Index(s, "/"+bucket+"/"); i >= 0 {
			return s[i+len(bucket)+2:]
		}
	}

	return strings.TrimPrefix(s, "/")
}
